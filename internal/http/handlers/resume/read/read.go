// Package read реализует HTTP-обработчик для получения конкретного резюме по ID.
//
// Чужое резюме неотличимо от отсутствующего: в обоих случаях ответ 404.
package read

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

// Handler обрабатывает запросы на получение резюме по уникальному идентификатору.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Сервис бизнес-логики для получения резюме по ID
}

// Service описывает интерфейс бизнес-логики чтения резюме.
type Service interface {
	Get(ctx context.Context, id, ownerID int64) (*models.Resume, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP обрабатывает HTTP-запрос на получение резюме по ID.
//
// @Summary Получить резюме
// @Tags Resumes
// @Produce  json
// @Security BearerAuth
// @Param id path int true "ID резюме"
// @Success 200 {object} models.Resume
// @Failure 401 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse "Резюме не найдено"
// @Router /resumes/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.resume.read"

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

	res, err := h.service.Get(r.Context(), id, user.ID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			response.WriteError(w, r, http.StatusNotFound, "Resume not found")
			return
		}
		log.Error("failed to read resume", sl.Err(err))
		response.FromError(w, r, err)
		return
	}
	render.JSON(w, r, res)
}
