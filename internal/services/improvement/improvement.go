// Package services реализует улучшение резюме и ведение истории улучшений.
//
// Улучшение детерминировано: к содержимому дописывается фиксированная метка.
package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/magabrotheeeer/resume-service/internal/models"
)

// Marker дописывается к содержимому резюме при каждом улучшении.
const Marker = " [Improved with AI - Enhanced content structure and keywords]"

// Improve возвращает улучшенное содержимое.
func Improve(content string) string {
	return content + Marker
}

// ImprovementRepository определяет методы хранилища для улучшений.
type ImprovementRepository interface {
	// ImproveResume атомарно заменяет содержимое резюме и пишет снимок в историю.
	ImproveResume(ctx context.Context, id, ownerID int64,
		transform func(content string) string) (*models.Resume, *models.Improvement, error)
	// ListImprovements возвращает историю улучшений, новые первыми.
	ListImprovements(ctx context.Context, resumeID, ownerID int64) ([]*models.Improvement, error)
	// GetResume возвращает резюме владельца или models.ErrNotFound.
	GetResume(ctx context.Context, id, ownerID int64) (*models.Resume, error)
}

// ResumeCache выполняет изменение резюме так, чтобы кеш не вернул старое содержимое.
type ResumeCache interface {
	Guard(ctx context.Context, id, ownerID int64, mutate func() error) error
}

// Metrics учитывает сохранённые улучшения.
type Metrics interface {
	RecordImprovement()
}

// Result — резюме после улучшения и созданная запись истории.
type Result struct {
	Resume      *models.Resume
	Improvement *models.Improvement
}

// ImprovementService управляет улучшениями резюме.
type ImprovementService struct {
	repo    ImprovementRepository
	cache   ResumeCache
	metrics Metrics
	log     *slog.Logger
}

// NewImprovementService создает новый экземпляр ImprovementService.
func NewImprovementService(repo ImprovementRepository, cache ResumeCache,
	metrics Metrics, log *slog.Logger) *ImprovementService {
	return &ImprovementService{
		repo:    repo,
		cache:   cache,
		metrics: metrics,
		log:     log,
	}
}

// ImproveAndSave улучшает резюме владельца и сохраняет результат в истории.
// Обновление содержимого и запись истории выполняются в одной транзакции.
func (s *ImprovementService) ImproveAndSave(ctx context.Context, resumeID, ownerID int64) (*Result, error) {
	const op = "services.improvement.ImproveAndSave"

	var (
		resume      *models.Resume
		improvement *models.Improvement
	)
	err := s.cache.Guard(ctx, resumeID, ownerID, func() error {
		var err error
		resume, improvement, err = s.repo.ImproveResume(ctx, resumeID, ownerID, Improve)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.metrics.RecordImprovement()
	s.log.Info("resume improved",
		slog.Int64("resume_id", resumeID),
		slog.Int64("improvement_id", improvement.ID),
	)
	return &Result{Resume: resume, Improvement: improvement}, nil
}

// ListImprovements возвращает историю улучшений резюме владельца, новые первыми.
// Отсутствующее или чужое резюме даёт models.ErrNotFound, а не пустой список.
func (s *ImprovementService) ListImprovements(ctx context.Context, resumeID, ownerID int64) ([]*models.Improvement, error) {
	const op = "services.improvement.ListImprovements"

	if _, err := s.repo.GetResume(ctx, resumeID, ownerID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	list, err := s.repo.ListImprovements(ctx, resumeID, ownerID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return list, nil
}
