// Package improve реализует HTTP-обработчик улучшения резюме.
package improve

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
	improvement "github.com/magabrotheeeer/resume-service/internal/services/improvement"
)

// Service описывает бизнес-логику улучшения.
type Service interface {
	ImproveAndSave(ctx context.Context, resumeID, ownerID int64) (*improvement.Result, error)
}

// Handler обрабатывает запросы на улучшение резюме.
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

// ServeHTTP улучшает резюме и возвращает созданную запись истории.
//
// @Summary Улучшить резюме
// @Tags AI
// @Produce  json
// @Security BearerAuth
// @Param id path int true "ID резюме"
// @Success 200 {object} models.Improvement
// @Failure 401 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse "Резюме не найдено"
// @Router /ai/resume/{id}/improve [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.improvement.improve"

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

	res, err := h.service.ImproveAndSave(r.Context(), id, user.ID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			response.WriteError(w, r, http.StatusNotFound, "Resume not found")
			return
		}
		log.Error("failed to improve resume", sl.Err(err))
		response.FromError(w, r, err)
		return
	}

	log.Info("resume improved", slog.Int64("resume_id", id), slog.Int64("improvement_id", res.Improvement.ID))
	render.JSON(w, r, res.Improvement)
}
