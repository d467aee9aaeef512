// Package update реализует HTTP-обработчик полной замены резюме.
package update

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/resume-service/internal/http/middlewarectx"
	"github.com/magabrotheeeer/resume-service/internal/http/response"
	"github.com/magabrotheeeer/resume-service/internal/lib/sl"
	"github.com/magabrotheeeer/resume-service/internal/models"
)

// Service описывает бизнес-логику обновления резюме.
type Service interface {
	Update(ctx context.Context, id, ownerID int64, title, content string) (*models.Resume, error)
}

// Handler обрабатывает запросы на обновление резюме.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP заменяет заголовок и содержимое резюме.
//
// @Summary Обновить резюме
// @Tags Resumes
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param id path int true "ID резюме"
// @Param request body models.ResumeInput true "Новые заголовок и содержимое"
// @Success 200 {object} models.Resume
// @Failure 401 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse "Резюме не найдено"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Router /resumes/{id} [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.resume.update"

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

	var req models.ResumeInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Info("failed to decode request body", sl.Err(err))
		response.WriteError(w, r, http.StatusUnprocessableEntity, response.DetailInvalidRequestBody)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		log.Info("validation failed", sl.Err(err))
		response.ValidationError(w, r, err)
		return
	}

	res, err := h.service.Update(r.Context(), id, user.ID, req.Title, req.Content)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			response.WriteError(w, r, http.StatusNotFound, "Resume not found")
			return
		}
		log.Error("failed to update resume", sl.Err(err))
		response.FromError(w, r, err)
		return
	}

	log.Info("resume updated", slog.Int64("id", id))
	render.JSON(w, r, res)
}
