// Package services содержит логику бизнес-уровня для работы с пользователями и аутентификацией.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/magabrotheeeer/resume-service/internal/lib/access"
	"github.com/magabrotheeeer/resume-service/internal/lib/jwt"
	"github.com/magabrotheeeer/resume-service/internal/lib/password"
	"github.com/magabrotheeeer/resume-service/internal/models"
)

// UserRepository описывает контракт для работы с пользователями в базе данных.
type UserRepository interface {
	// RegisterUser сохраняет нового пользователя и возвращает его ID.
	RegisterUser(ctx context.Context, user models.User) (int64, error)
	// UserExists проверяет, заняты ли имя пользователя или email.
	UserExists(ctx context.Context, username, email string) (bool, error)
	// GetUserByUsername возвращает пользователя по имени или models.ErrNotFound.
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	// GetUser возвращает пользователя по ID или models.ErrNotFound.
	GetUser(ctx context.Context, id int64) (*models.User, error)
	// ListActiveUsers возвращает активных пользователей по возрастанию ID.
	ListActiveUsers(ctx context.Context) ([]*models.User, error)
	// DeactivateUser снимает флаг активности пользователя.
	DeactivateUser(ctx context.Context, id int64) error
}

// Metrics учитывает события аутентификации.
type Metrics interface {
	RecordRegistration()
	RecordLogin(success bool)
}

// AuthService отвечает за регистрацию, вход, проверку токенов и управление пользователями.
type AuthService struct {
	users    UserRepository
	jwtMaker jwt.Maker
	metrics  Metrics
	log      *slog.Logger
}

// NewAuthService создает новый экземпляр AuthService.
func NewAuthService(users UserRepository, jwtMaker jwt.Maker, metrics Metrics, log *slog.Logger) *AuthService {
	return &AuthService{
		users:    users,
		jwtMaker: jwtMaker,
		metrics:  metrics,
		log:      log,
	}
}

// Register создает активного пользователя с bcrypt-хэшем пароля.
//
// Занятые имя или email (в том числе неактивным пользователем) дают
// models.ErrAlreadyExists: сначала по предварительной проверке, а при гонке
// двух регистраций по нарушению уникальности в базе.
func (s *AuthService) Register(ctx context.Context, username, email, rawPassword string) (int64, error) {
	const op = "services.auth.Register"

	exists, err := s.users.UserExists(ctx, username, email)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	if exists {
		return 0, fmt.Errorf("%s: %w", op, models.ErrAlreadyExists)
	}

	hashed, err := password.GetHash(rawPassword)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	id, err := s.users.RegisterUser(ctx, models.User{
		Username:     username,
		Email:        email,
		PasswordHash: hashed,
		IsActive:     true,
	})
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	s.metrics.RecordRegistration()
	s.log.Info("user registered", slog.Int64("user_id", id), slog.String("username", username))
	return id, nil
}

// Login проверяет пароль и выпускает токен доступа.
//
// Неизвестный пользователь, неактивный пользователь и неверный пароль
// неразличимы для клиента: все дают models.ErrUnauthorized.
func (s *AuthService) Login(ctx context.Context, username, rawPassword string) (string, error) {
	const op = "services.auth.Login"

	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			s.metrics.RecordLogin(false)
			return "", fmt.Errorf("%s: %w", op, models.ErrUnauthorized)
		}
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if !user.IsActive || !password.Verify(rawPassword, user.PasswordHash) {
		s.metrics.RecordLogin(false)
		return "", fmt.Errorf("%s: %w", op, models.ErrUnauthorized)
	}

	token, err := s.jwtMaker.GenerateToken(user.Username, user.ID)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	s.metrics.RecordLogin(true)
	return token, nil
}

// Authenticate проверяет токен и возвращает его активного владельца.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	const op = "services.auth.Authenticate"

	userID, err := s.jwtMaker.ResolveToken(token)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	user, err := s.users.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, models.ErrUnauthorized)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !user.IsActive {
		return nil, fmt.Errorf("%s: inactive user: %w", op, models.ErrUnauthorized)
	}
	return user, nil
}

// GetProfile возвращает профиль пользователя. Смотреть можно только свой профиль.
func (s *AuthService) GetProfile(ctx context.Context, requesterID, targetID int64) (*models.User, error) {
	const op = "services.auth.GetProfile"

	if err := access.RequireOwner(requesterID, targetID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	user, err := s.users.GetUser(ctx, targetID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !user.IsActive {
		return nil, fmt.Errorf("%s: %w", op, models.ErrNotFound)
	}
	return user, nil
}

// Deactivate мягко удаляет пользователя. Деактивировать себя нельзя,
// повторная деактивация ничего не меняет.
func (s *AuthService) Deactivate(ctx context.Context, requesterID, targetID int64) error {
	const op = "services.auth.Deactivate"

	if err := access.ForbidSelf(requesterID, targetID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if _, err := s.users.GetUser(ctx, targetID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := s.users.DeactivateUser(ctx, targetID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("user deactivated", slog.Int64("user_id", targetID), slog.Int64("by", requesterID))
	return nil
}

// ListActiveUsers возвращает всех активных пользователей.
func (s *AuthService) ListActiveUsers(ctx context.Context) ([]*models.User, error) {
	const op = "services.auth.ListActiveUsers"

	users, err := s.users.ListActiveUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return users, nil
}
