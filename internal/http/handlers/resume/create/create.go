// Package create реализует HTTP-обработчик для создания резюме.
package create

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/resume-service/internal/http/middlewarectx"
	"github.com/magabrotheeeer/resume-service/internal/http/response"
	"github.com/magabrotheeeer/resume-service/internal/lib/sl"
	"github.com/magabrotheeeer/resume-service/internal/models"
)

// Service описывает бизнес-логику создания резюме.
type Service interface {
	Create(ctx context.Context, ownerID int64, title, content string) (*models.Resume, error)
}

// Handler обрабатывает запросы на создание резюме.
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

// ServeHTTP создаёт резюме от имени текущего пользователя.
//
// @Summary Создать резюме
// @Tags Resumes
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param request body models.ResumeInput true "Заголовок и содержимое"
// @Success 201 {object} models.Resume
// @Failure 401 {object} response.ErrorResponse
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Router /resumes [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.resume.create"

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

	res, err := h.service.Create(r.Context(), user.ID, req.Title, req.Content)
	if err != nil {
		log.Error("failed to create resume", sl.Err(err))
		response.FromError(w, r, err)
		return
	}

	log.Info("resume created", slog.Int64("id", res.ID))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, res)
}
