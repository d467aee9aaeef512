// Package checktoken реализует HTTP-обработчик проверки токена.
//
// До обработчика запрос доходит только с действительным токеном,
// поэтому ответ всегда положительный.
package checktoken

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/resume-service/internal/http/middlewarectx"
	"github.com/magabrotheeeer/resume-service/internal/http/response"
	"github.com/magabrotheeeer/resume-service/internal/models"
)

// Response — результат проверки токена.
type Response struct {
	IsValid bool            `json:"is_valid"`
	User    models.UserView `json:"user"`
	Message string          `json:"message"`
}

// Handler подтверждает действительность токена.
type Handler struct {
	log *slog.Logger
}

// New создает новый Handler.
func New(log *slog.Logger) *Handler {
	return &Handler{log: log}
}

// ServeHTTP подтверждает действительность токена.
//
// @Summary Проверка токена
// @Tags Auth
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} Response
// @Failure 401 {object} response.ErrorResponse "Токен недействителен или истёк"
// @Router /auth/check_token [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.checktoken"

	user, ok := middlewarectx.UserFromContext(r.Context())
	if !ok {
		h.log.Error("no user in context",
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)
		response.WriteError(w, r, http.StatusUnauthorized, response.DetailNotAuthenticated)
		return
	}
	render.JSON(w, r, Response{
		IsValid: true,
		User:    user.View(),
		Message: "Token is valid",
	})
}
