// Package register реализует HTTP-обработчик регистрации пользователя.
package register

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/resume-service/internal/http/response"
	"github.com/magabrotheeeer/resume-service/internal/lib/password"
	"github.com/magabrotheeeer/resume-service/internal/lib/sl"
	"github.com/magabrotheeeer/resume-service/internal/models"
)

// Request — входные данные для регистрации
type Request struct {
	Username string `json:"username" validate:"required,max=50"`
	Email    string `json:"email" validate:"required,max=255,email"`
	Password string `json:"password" validate:"required,max=72"`
}

// Service описывает бизнес-логику регистрации.
type Service interface {
	Register(ctx context.Context, username, email, password string) (int64, error)
}

// Handler обрабатывает запросы на регистрацию.
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

// ServeHTTP регистрирует нового пользователя.
//
// @Summary Регистрация пользователя
// @Description Создаёт активного пользователя. Имя и email должны быть свободны.
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body Request true "Данные нового пользователя"
// @Success 201 {object} response.Message
// @Failure 400 {object} response.ErrorResponse "Имя или email заняты"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /auth/register [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.register"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		response.WriteError(w, r, http.StatusUnprocessableEntity, response.DetailInvalidRequestBody)
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Info("validation failed", sl.Err(err))
		response.ValidationError(w, r, err)
		return
	}
	// max считает руны, а bcrypt ограничен байтами
	if len(req.Password) > password.MaxLength {
		log.Info("password too long", slog.Int("bytes", len(req.Password)))
		response.WriteError(w, r, http.StatusUnprocessableEntity, response.DetailPasswordTooLong)
		return
	}

	id, err := h.service.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, password.ErrTooLong) {
			log.Info("password too long", sl.Err(err))
			response.WriteError(w, r, http.StatusUnprocessableEntity, response.DetailPasswordTooLong)
			return
		}
		if errors.Is(err, models.ErrAlreadyExists) {
			log.Info("username or email already taken", slog.String("username", req.Username))
			response.WriteError(w, r, http.StatusBadRequest, response.DetailAlreadyExists)
			return
		}
		log.Error("registration failed", sl.Err(err))
		response.WriteError(w, r, http.StatusInternalServerError, "Internal server error during user creation")
		return
	}

	log.Info("user registered", slog.Int64("user_id", id))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, response.Message{Message: "User created successfully"})
}
