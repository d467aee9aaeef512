// Package profile реализует HTTP-обработчик получения профиля пользователя по ID.
package profile

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/resume-service/internal/http/middlewarectx"
	"github.com/magabrotheeeer/resume-service/internal/http/response"
	"github.com/magabrotheeeer/resume-service/internal/lib/sl"
	"github.com/magabrotheeeer/resume-service/internal/models"
)

// Service описывает получение профиля.
type Service interface {
	GetProfile(ctx context.Context, requesterID, targetID int64) (*models.User, error)
}

// Handler обрабатывает запросы профиля.
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

// ServeHTTP возвращает профиль пользователя. Доступен только собственный профиль.
//
// @Summary Профиль пользователя
// @Tags Users
// @Produce  json
// @Security BearerAuth
// @Param id path int true "ID пользователя"
// @Success 200 {object} models.UserView
// @Failure 401 {object} response.ErrorResponse
// @Failure 403 {object} response.ErrorResponse "Чужой профиль"
// @Failure 404 {object} response.ErrorResponse "Пользователь не найден"
// @Router /auth/users/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.users.profile"

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

	user, err := h.service.GetProfile(r.Context(), current.ID, id)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrNotFound):
			response.WriteError(w, r, http.StatusNotFound, "User not found")
		case errors.Is(err, models.ErrForbidden):
			response.WriteError(w, r, http.StatusForbidden, response.DetailAccessDenied)
		default:
			log.Error("failed to get profile", sl.Err(err))
			response.FromError(w, r, err)
		}
		return
	}
	render.JSON(w, r, user.View())
}
