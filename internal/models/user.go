// Package models содержит доменные структуры сервиса резюме: пользователей,
// резюме и историю их улучшений, а также общие ошибки бизнес-уровня.
package models

// User представляет зарегистрированного пользователя системы.
type User struct {
	ID           int64  // Уникальный идентификатор пользователя
	Username     string // Имя пользователя (уникальное)
	Email        string // Электронная почта (уникальная)
	PasswordHash string // bcrypt-хэш пароля
	IsActive     bool   // false после мягкого удаления
}

// UserView — публичное представление пользователя в ответах API.
type UserView struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	IsActive bool   `json:"is_active"`
}

// View возвращает представление пользователя без хэша пароля.
func (u *User) View() UserView {
	return UserView{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		IsActive: u.IsActive,
	}
}
