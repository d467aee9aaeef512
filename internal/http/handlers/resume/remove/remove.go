// Package remove реализует HTTP-обработчик удаления резюме вместе с историей улучшений.
package remove

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

// Service описывает бизнес-логику удаления резюме.
type Service interface {
	Delete(ctx context.Context, id, ownerID int64) error
}

// Handler обрабатывает запросы на удаление резюме.
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

// ServeHTTP удаляет резюме текущего пользователя.
//
// @Summary Удалить резюме
// @Tags Resumes
// @Security BearerAuth
// @Param id path int true "ID резюме"
// @Success 204
// @Failure 401 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse "Резюме не найдено"
// @Router /resumes/{id} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.resume.remove"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	user, ok := middlewarectx.UserFromContext(r.Context())
	if !ok {
		log.Error("no user in context")
		response.WriteError(w, r, http.StatusUnauthorized, response.DetailNotAuthenticated)
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		log.Info("failed to decode id from url", sl.Err(err))
		response.WriteError(w, r, http.StatusUnprocessableEntity, "invalid resume id")
		return
	}

	if err := h.service.Delete(r.Context(), id, user.ID); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			response.WriteError(w, r, http.StatusNotFound, "Resume not found")
			return
		}
		log.Error("failed to delete resume", sl.Err(err))
		response.FromError(w, r, err)
		return
	}

	log.Info("resume deleted", slog.Int64("id", id))
	w.WriteHeader(http.StatusNoContent)
}
