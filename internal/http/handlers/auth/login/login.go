// Package login реализует HTTP-обработчик выдачи токена доступа.
//
// Учётные данные принимаются формой (application/x-www-form-urlencoded)
// в полях username и password.
package login

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/resume-service/internal/http/response"
	"github.com/magabrotheeeer/resume-service/internal/lib/sl"
)

// Request — учётные данные из формы.
type Request struct {
	Username string `validate:"required"`
	Password string `validate:"required"`
}

// Response — выданный токен доступа.
type Response struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type" example:"bearer"`
}

// Service описывает бизнес-логику входа.
type Service interface {
	Login(ctx context.Context, username, password string) (string, error)
}

// Handler обрабатывает запросы на получение токена.
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

// ServeHTTP проверяет учётные данные и выдаёт токен доступа.
//
// @Summary Получение токена
// @Description Аутентифицирует пользователя по имени и паролю и возвращает JWT.
// @Tags Auth
// @Accept  x-www-form-urlencoded
// @Produce  json
// @Param username formData string true "Имя пользователя"
// @Param password formData string true "Пароль"
// @Success 200 {object} Response
// @Failure 401 {object} response.ErrorResponse "Неверные учётные данные"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Router /auth/token [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.login"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	if err := r.ParseForm(); err != nil {
		log.Error("failed to parse form", sl.Err(err))
		response.WriteError(w, r, http.StatusUnprocessableEntity, response.DetailInvalidRequestBody)
		return
	}
	req := Request{
		Username: r.PostForm.Get("username"),
		Password: r.PostForm.Get("password"),
	}
	if err := h.validate.Struct(req); err != nil {
		log.Info("validation failed", sl.Err(err))
		response.ValidationError(w, r, err)
		return
	}

	token, err := h.service.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		status := response.FromError(w, r, err)
		if status == http.StatusInternalServerError {
			log.Error("login failed", sl.Err(err))
		} else {
			log.Info("invalid credentials", slog.String("username", req.Username))
		}
		return
	}

	log.Info("token issued", slog.String("username", req.Username))
	render.JSON(w, r, Response{AccessToken: token, TokenType: "bearer"})
}
