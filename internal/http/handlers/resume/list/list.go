// Package list реализует HTTP-обработчик получения всех резюме текущего пользователя.
package list

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/resume-service/internal/http/middlewarectx"
	"github.com/magabrotheeeer/resume-service/internal/http/response"
	"github.com/magabrotheeeer/resume-service/internal/lib/sl"
	"github.com/magabrotheeeer/resume-service/internal/models"
)

// Service описывает бизнес-логику получения списка резюме.
type Service interface {
	List(ctx context.Context, ownerID int64) ([]*models.Resume, error)
}

// Handler обрабатывает запросы списка резюме.
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

// ServeHTTP возвращает резюме текущего пользователя по возрастанию ID.
//
// @Summary Список резюме
// @Tags Resumes
// @Produce  json
// @Security BearerAuth
// @Success 200 {array} models.Resume
// @Failure 401 {object} response.ErrorResponse
// @Router /resumes [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.resume.list"

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

	res, err := h.service.List(r.Context(), user.ID)
	if err != nil {
		log.Error("failed to list resumes", sl.Err(err))
		response.FromError(w, r, err)
		return
	}
	render.JSON(w, r, res)
}
