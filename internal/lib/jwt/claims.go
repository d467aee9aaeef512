package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/magabrotheeeer/resume-service/internal/models"
)

// CustomClaims описывает данные, хранящиеся в JWT.
//
// Имя пользователя передаётся в стандартном поле sub.
type CustomClaims struct {
	UserID               *int64 `json:"id,omitempty"` // Идентификатор пользователя
	jwt.RegisteredClaims        // sub, exp, iat
}

// GenerateToken создаёт JWT токен со сроком жизни по умолчанию.
func (j *MakerImpl) GenerateToken(username string, userID int64) (string, error) {
	return j.GenerateTokenWithTTL(username, userID, j.tokenTTL)
}

// GenerateTokenWithTTL создаёт JWT токен для пользователя, подписывая его секретным ключом.
//
// Нулевой или отрицательный ttl даёт токен, который уже истёк.
func (j *MakerImpl) GenerateTokenWithTTL(username string, userID int64, ttl time.Duration) (string, error) {
	const op = "jwt.GenerateToken"
	now := j.now()
	claims := CustomClaims{
		UserID: &userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(j.method, claims).SignedString(j.secretKey)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return signed, nil
}

// ParseToken разбирает JWT токен, проверяет подпись, алгоритм и срок действия.
//
// Истёкший токен даёт models.ErrTokenExpired, любая другая проблема —
// models.ErrUnauthorized.
func (j *MakerImpl) ParseToken(tokenStr string) (*CustomClaims, error) {
	const op = "jwt.ParseToken"
	token, err := jwt.ParseWithClaims(tokenStr, &CustomClaims{}, func(_ *jwt.Token) (any, error) {
		return j.secretKey, nil
	},
		jwt.WithValidMethods([]string{j.method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(j.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%s: %w", op, models.ErrTokenExpired)
		}
		return nil, fmt.Errorf("%s: %w: %w", op, models.ErrUnauthorized, err)
	}
	claims, ok := token.Claims.(*CustomClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("%s: %w", op, models.ErrUnauthorized)
	}
	return claims, nil
}

// ResolveToken возвращает идентификатор пользователя из проверенного токена.
func (j *MakerImpl) ResolveToken(tokenStr string) (int64, error) {
	const op = "jwt.ResolveToken"
	claims, err := j.ParseToken(tokenStr)
	if err != nil {
		return 0, err
	}
	if claims.UserID == nil || *claims.UserID <= 0 {
		return 0, fmt.Errorf("%s: missing id claim: %w", op, models.ErrUnauthorized)
	}
	return *claims.UserID, nil
}
