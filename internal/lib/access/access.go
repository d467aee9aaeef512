// Package access содержит правила авторизации, общие для всех сервисов:
// действовать над ресурсом может только его владелец, и пользователь не
// может деактивировать сам себя.
package access

import (
	"fmt"

	"github.com/magabrotheeeer/resume-service/internal/models"
)

// RequireOwner возвращает models.ErrForbidden, если вызывающий не является владельцем.
func RequireOwner(callerID, ownerID int64) error {
	if callerID != ownerID {
		return fmt.Errorf("access.RequireOwner: %w", models.ErrForbidden)
	}
	return nil
}

// ForbidSelf возвращает models.ErrForbidden, если действие направлено на самого вызывающего.
func ForbidSelf(callerID, targetID int64) error {
	if callerID == targetID {
		return fmt.Errorf("access.ForbidSelf: %w", models.ErrForbidden)
	}
	return nil
}
