package models

import "errors"

var (
	// ErrUnauthorized — отсутствующий или недействительный токен, неверные
	// учётные данные либо токен неактивного пользователя.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrTokenExpired — подпись токена корректна, но срок его действия истёк.
	ErrTokenExpired = errors.New("token expired")
	// ErrForbidden — пользователь аутентифицирован, но не имеет права на действие.
	ErrForbidden = errors.New("forbidden")
	// ErrNotFound — запись отсутствует или принадлежит другому пользователю.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists — имя пользователя или email уже заняты.
	ErrAlreadyExists = errors.New("already exists")
)
