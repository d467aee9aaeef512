// Package password реализует хеширование и проверку паролей на основе bcrypt.
//
// GetHash создаёт bcrypt-хеш пароля для хранения в базе данных.
// CompareHash и Verify проверяют введённый пароль по сохранённому хешу.
package password

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// MaxLength — максимальная длина пароля в байтах, которую принимает bcrypt.
const MaxLength = 72

// ErrTooLong возвращается для паролей длиннее MaxLength байт.
var ErrTooLong = errors.New("password exceeds 72 bytes")

// GetHash принимает пароль пользователя и возвращает его bcrypt‑хэш
// с солью и стоимостью bcrypt.DefaultCost.
func GetHash(password string) (string, error) {
	const op = "password.GetHash"
	if len(password) > MaxLength {
		return "", fmt.Errorf("%s: %w", op, ErrTooLong)
	}
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return string(hashedPassword), nil
}

// CompareHash сравнивает bcrypt‑хэш с введённым паролем.
//
// Возвращает nil, если пароль соответствует хэшу, иначе — ошибку.
// Некорректный хэш также приводит к ошибке, а не к панике.
func CompareHash(originalHash, externalPassword string) error {
	const op = "password.CompareHash"
	if err := bcrypt.CompareHashAndPassword([]byte(originalHash), []byte(externalPassword)); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Verify сообщает, соответствует ли пароль хэшу.
func Verify(password, hash string) bool {
	return CompareHash(hash, password) == nil
}
