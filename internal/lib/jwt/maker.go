// Package jwt реализует выпуск и проверку JWT токенов доступа.
//
// Maker определяет интерфейс для создания и разбора токенов с полями
// sub (имя пользователя), id (идентификатор пользователя) и exp.
// MakerImpl — реализация на основе общего секрета и HMAC-алгоритма.
package jwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Maker описывает интерфейс для генерации и разбора JWT токенов.
type Maker interface {
	// GenerateToken выпускает токен со сроком жизни по умолчанию.
	GenerateToken(username string, userID int64) (string, error)
	// GenerateTokenWithTTL выпускает токен с явно заданным сроком жизни.
	GenerateTokenWithTTL(username string, userID int64, ttl time.Duration) (string, error)
	// ResolveToken проверяет токен и возвращает идентификатор пользователя.
	ResolveToken(tokenStr string) (int64, error)
}

// MakerImpl реализует интерфейс Maker с использованием секретного ключа,
// HMAC-алгоритма подписи и времени жизни токена (TTL).
type MakerImpl struct {
	secretKey []byte            // Секретный ключ для подписи токенов.
	method    jwt.SigningMethod // Алгоритм подписи (HS256, HS384, HS512).
	tokenTTL  time.Duration     // Время жизни токена по умолчанию.
	now       func() time.Time
}

// NewJWTMaker создаёт новый экземпляр MakerImpl.
//
// Допускаются только симметричные алгоритмы семейства HS*.
func NewJWTMaker(secretKey, algorithm string, ttl time.Duration) (*MakerImpl, error) {
	const op = "jwt.NewJWTMaker"
	if secretKey == "" {
		return nil, fmt.Errorf("%s: empty secret key", op)
	}
	method, ok := jwt.GetSigningMethod(algorithm).(*jwt.SigningMethodHMAC)
	if !ok {
		return nil, fmt.Errorf("%s: unsupported signing algorithm %q", op, algorithm)
	}
	return &MakerImpl{
		secretKey: []byte(secretKey),
		method:    method,
		tokenTTL:  ttl,
		now:       time.Now,
	}, nil
}

// TTL возвращает время жизни токена по умолчанию.
func (j *MakerImpl) TTL() time.Duration {
	return j.tokenTTL
}
