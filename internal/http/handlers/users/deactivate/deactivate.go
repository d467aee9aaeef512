// Package deactivate реализует HTTP-обработчик мягкого удаления пользователя.
package deactivate

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/resume-service/internal/http/middlewarectx"
	"github.com/magabrotheeeer/resume-service/internal/http/response"
	"github.com/magabrotheeeer/resume-service/internal/lib/sl"
	"github.com/magabrotheeeer/resume-service/internal/models"
)

// Service описывает деактивацию пользователя.
type Service interface {
	Deactivate(ctx context.Context, requesterID, targetID int64) error
}

// Handler обрабатывает запросы на деактивацию.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP деактивирует пользователя. Себя деактивировать нельзя.
//
// @Summary Деактивация пользователя
// @Tags Users
// @Security BearerAuth
// @Param id path int true "ID пользователя"
// @Success 204
// @Failure 401 {object} response.ErrorResponse
// @Failure 403 {object} response.ErrorResponse "Попытка удалить себя"
// @Failure 404 {object} response.ErrorResponse "Пользователь не найден"
// @Router /auth/users/{id} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.users.deactivate"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	current, ok := middlewarectx.UserFromContext(r.Context())
	if !ok {
		log.Error("no user in context")
		response.WriteError(w, r, http.StatusUnauthorized, response.DetailNotAuthenticated)
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		log.Info("failed to decode id from url", sl.Err(err))
		response.WriteError(w, r, http.StatusUnprocessableEntity, "invalid user id")
		return
	}

	if err := h.service.Deactivate(r.Context(), current.ID, id); err != nil {
		switch {
		case errors.Is(err, models.ErrForbidden):
			response.WriteError(w, r, http.StatusForbidden, "You cannot delete yourself")
		case errors.Is(err, models.ErrNotFound):
			response.WriteError(w, r, http.StatusNotFound, "User not found")
		default:
			log.Error("failed to deactivate user", sl.Err(err))
			response.FromError(w, r, err)
		}
		return
	}

	log.Info("user deactivated", slog.Int64("user_id", id))
	w.WriteHeader(http.StatusNoContent)
}
