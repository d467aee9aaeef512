// Package response содержит вспомогательные типы и функции для формирования
// унифицированных JSON‑ответов HTTP‑обработчиков. Ошибки всегда отдаются
// в виде {"detail": "..."}; статус выбирается по ошибке бизнес-уровня.
package response

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/resume-service/internal/lib/password"
	"github.com/magabrotheeeer/resume-service/internal/models"
)

// Тексты ошибок, общие для нескольких обработчиков.
const (
	DetailNotAuthenticated   = "Not authenticated"
	DetailInvalidToken       = "Could not validate credentials"
	DetailTokenExpired       = "Token expired"
	DetailAccessDenied       = "Access denied"
	DetailNotFound           = "Not found"
	DetailAlreadyExists      = "Username or email already exists"
	DetailInternal           = "Internal server error"
	DetailInvalidRequestBody = "invalid request body"
	DetailPasswordTooLong    = "field Password must be at most 72 bytes long"
)

// ErrorResponse — тело ответа с ошибкой.
type ErrorResponse struct {
	Detail string `json:"detail" example:"Resume not found"`
}

// Message — тело ответа с текстовым сообщением.
type Message struct {
	Message string `json:"message" example:"User created successfully"`
}

// Error возвращает ErrorResponse с переданным сообщением.
func Error(msg string) ErrorResponse {
	return ErrorResponse{Detail: msg}
}

// WriteError отправляет ошибку с указанным статусом. Для 401 добавляет
// заголовок WWW-Authenticate: Bearer.
func WriteError(w http.ResponseWriter, r *http.Request, status int, detail string) {
	if status == http.StatusUnauthorized {
		w.Header().Set("WWW-Authenticate", "Bearer")
	}
	render.Status(r, status)
	render.JSON(w, r, Error(detail))
}

// StatusFor сопоставляет ошибку бизнес-уровня HTTP-статусу и тексту ответа.
// Неизвестные ошибки дают 500 без подробностей нижних слоёв.
func StatusFor(err error) (int, string) {
	var verrs validator.ValidationErrors
	switch {
	case errors.Is(err, models.ErrTokenExpired):
		return http.StatusUnauthorized, DetailTokenExpired
	case errors.Is(err, models.ErrUnauthorized):
		return http.StatusUnauthorized, DetailInvalidToken
	case errors.Is(err, models.ErrForbidden):
		return http.StatusForbidden, DetailAccessDenied
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound, DetailNotFound
	case errors.Is(err, models.ErrAlreadyExists):
		return http.StatusBadRequest, DetailAlreadyExists
	case errors.Is(err, password.ErrTooLong):
		return http.StatusUnprocessableEntity, DetailPasswordTooLong
	case errors.As(err, &verrs):
		return http.StatusUnprocessableEntity, ValidationMessage(verrs)
	default:
		return http.StatusInternalServerError, DetailInternal
	}
}

// FromError отправляет ответ, соответствующий ошибке, и возвращает статус.
func FromError(w http.ResponseWriter, r *http.Request, err error) int {
	status, detail := StatusFor(err)
	WriteError(w, r, status, detail)
	return status
}

// ValidationError отправляет 422 с перечнем нарушений.
func ValidationError(w http.ResponseWriter, r *http.Request, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		WriteError(w, r, http.StatusUnprocessableEntity, ValidationMessage(verrs))
		return
	}
	WriteError(w, r, http.StatusUnprocessableEntity, DetailInvalidRequestBody)
}

// ValidationMessage формирует человеко‑читаемый текст из ошибок валидации,
// объединённый через запятую.
func ValidationMessage(errs validator.ValidationErrors) string {
	var errsMsgs []string

	for _, err := range errs {
		switch err.ActualTag() {
		case "required":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is a required field", err.Field()))
		case "email":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must be a valid email address", err.Field()))
		case "min":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must be at least %s characters long", err.Field(), err.Param()))
		case "max":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must be at most %s characters long", err.Field(), err.Param()))
		case "gt":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must be greater than %s", err.Field(), err.Param()))
		default:
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is not valid", err.Field()))
		}
	}
	return strings.Join(errsMsgs, ", ")
}
