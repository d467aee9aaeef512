package models

import "time"

// Resume — документ, принадлежащий ровно одному пользователю.
type Resume struct {
	ID        int64      `json:"id"`
	Title     string     `json:"title"`
	Content   string     `json:"content"`
	OwnerID   int64      `json:"owner_id"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"` // nil до первого изменения
}

// ResumeInput используется для приёма данных резюме из JSON-запроса
// при создании и полной замене.
type ResumeInput struct {
	Title   string `json:"title" validate:"required"`
	Content string `json:"content"`
}

// Improvement — неизменяемый снимок содержимого резюме после улучшения.
type Improvement struct {
	ID              int64     `json:"id"`
	ResumeID        int64     `json:"resume_id"`
	ImprovedContent string    `json:"improved_content"`
	CreatedAt       time.Time `json:"created_at"`
}
