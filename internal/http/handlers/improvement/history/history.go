// Package history реализует HTTP-обработчик истории улучшений резюме.
package history

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

// Service описывает получение истории улучшений.
type Service interface {
	ListImprovements(ctx context.Context, resumeID, ownerID int64) ([]*models.Improvement, error)
}

// Handler обрабатывает запросы истории улучшений.
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

// ServeHTTP возвращает историю улучшений, новые первыми.
//
// @Summary История улучшений
// @Tags AI
// @Produce  json
// @Security BearerAuth
// @Param id path int true "ID резюме"
// @Success 200 {array} models.Improvement
// @Failure 401 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse "Резюме не найдено"
// @Router /ai/resume/{id}/improvements [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.improvement.history"

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

	list, err := h.service.ListImprovements(r.Context(), id, user.ID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			response.WriteError(w, r, http.StatusNotFound, "Resume not found")
			return
		}
		log.Error("failed to list improvements", sl.Err(err))
		response.FromError(w, r, err)
		return
	}
	render.JSON(w, r, list)
}
