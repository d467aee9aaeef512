// Package services содержит бизнес-логику для управления резюме и кешированием.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/resume-service/internal/lib/sl"
	"github.com/magabrotheeeer/resume-service/internal/models"
)

// ResumeRepository определяет методы для работы с резюме в хранилище.
// Все методы ограничены владельцем: чужое резюме не находится.
type ResumeRepository interface {
	// CreateResume добавляет новое резюме и возвращает сохранённую запись.
	CreateResume(ctx context.Context, ownerID int64, title, content string) (*models.Resume, error)
	// GetResume возвращает резюме по ID.
	GetResume(ctx context.Context, id, ownerID int64) (*models.Resume, error)
	// ListResumes возвращает все резюме владельца по возрастанию ID.
	ListResumes(ctx context.Context, ownerID int64) ([]*models.Resume, error)
	// UpdateResume полностью заменяет заголовок и содержимое.
	UpdateResume(ctx context.Context, id, ownerID int64, title, content string) (*models.Resume, error)
	// DeleteResume удаляет резюме вместе с историей улучшений.
	DeleteResume(ctx context.Context, id, ownerID int64) error
}

// Cache описывает версионированный кеш резюме.
type Cache interface {
	// Lookup читает значение и версию ключа. Версия < 0 означает, что ключ
	// заблокирован изменением.
	Lookup(ctx context.Context, key string, result any) (bool, int64, error)
	// Store сохраняет значение, только если версия ключа не изменилась.
	Store(ctx context.Context, key string, version int64, value any, expiration time.Duration) (bool, error)
	// BeginWrite поднимает версию и блокирует ключ перед изменением в базе.
	BeginWrite(ctx context.Context, key string, lockTTL time.Duration) error
	// EndWrite снимает блокировку после изменения.
	EndWrite(ctx context.Context, key string) error
}

// Metrics учитывает изменяющие операции с резюме.
type Metrics interface {
	RecordResumeOperation(operation string)
}

// ResumeService реализует бизнес-логику работы с резюме, включая кеширование.
type ResumeService struct {
	repo     ResumeRepository
	cache    Cache
	cacheTTL time.Duration
	metrics  Metrics
	log      *slog.Logger
}

// NewResumeService создает новый экземпляр ResumeService.
func NewResumeService(repo ResumeRepository, cache Cache, cacheTTL time.Duration,
	metrics Metrics, log *slog.Logger) *ResumeService {
	return &ResumeService{
		repo:     repo,
		cache:    cache,
		cacheTTL: cacheTTL,
		metrics:  metrics,
		log:      log,
	}
}

// CacheKey возвращает ключ кеша для резюме владельца.
func CacheKey(ownerID, id int64) string {
	return fmt.Sprintf("resume:%d:%d", ownerID, id)
}

// List возвращает все резюме владельца.
func (s *ResumeService) List(ctx context.Context, ownerID int64) ([]*models.Resume, error) {
	const op = "services.resume.List"
	list, err := s.repo.ListResumes(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return list, nil
}

// Get возвращает резюме владельца, используя кеш или репозиторий.
// Ошибки кеша не мешают чтению из базы.
func (s *ResumeService) Get(ctx context.Context, id, ownerID int64) (*models.Resume, error) {
	const op = "services.resume.Get"
	cacheKey := CacheKey(ownerID, id)

	var cached models.Resume
	found, version, err := s.cache.Lookup(ctx, cacheKey, &cached)
	if err != nil {
		s.log.Warn("failed to read resume from cache", slog.String("key", cacheKey), sl.Err(err))
	}
	if found {
		return &cached, nil
	}

	resume, err := s.repo.GetResume(ctx, id, ownerID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if version >= 0 {
		if _, err := s.cache.Store(ctx, cacheKey, version, resume, s.cacheTTL); err != nil {
			s.log.Warn("failed to cache resume", slog.String("key", cacheKey), sl.Err(err))
		}
	}
	return resume, nil
}

// Create создает резюме от имени владельца.
func (s *ResumeService) Create(ctx context.Context, ownerID int64, title, content string) (*models.Resume, error) {
	const op = "services.resume.Create"
	resume, err := s.repo.CreateResume(ctx, ownerID, title, content)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.metrics.RecordResumeOperation("create")
	s.log.Info("created new resume", slog.Int64("id", resume.ID), slog.Int64("owner_id", ownerID))
	return resume, nil
}

// Update полностью заменяет заголовок и содержимое резюме.
func (s *ResumeService) Update(ctx context.Context, id, ownerID int64, title, content string) (*models.Resume, error) {
	const op = "services.resume.Update"
	var resume *models.Resume
	err := s.Guard(ctx, id, ownerID, func() error {
		var err error
		resume, err = s.repo.UpdateResume(ctx, id, ownerID, title, content)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.metrics.RecordResumeOperation("update")
	s.log.Info("updated resume", slog.Int64("id", id))
	return resume, nil
}

// Delete удаляет резюме вместе с историей улучшений.
func (s *ResumeService) Delete(ctx context.Context, id, ownerID int64) error {
	const op = "services.resume.Delete"
	err := s.Guard(ctx, id, ownerID, func() error {
		return s.repo.DeleteResume(ctx, id, ownerID)
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.metrics.RecordResumeOperation("delete")
	s.log.Info("deleted resume", slog.Int64("id", id))
	return nil
}

// Guard выполняет изменение резюме под блокировкой кеша: версия ключа
// поднимается до mutate, поэтому после успешного изменения кеш не вернёт
// старую запись. Если кеш недоступен, mutate не вызывается.
func (s *ResumeService) Guard(ctx context.Context, id, ownerID int64, mutate func() error) error {
	const op = "services.resume.Guard"
	cacheKey := CacheKey(ownerID, id)

	if err := s.cache.BeginWrite(ctx, cacheKey, s.cacheTTL); err != nil {
		s.log.Error("failed to lock resume in cache", slog.String("key", cacheKey), sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		// блокировка истечёт сама, если снять её не удалось
		if err := s.cache.EndWrite(context.WithoutCancel(ctx), cacheKey); err != nil {
			s.log.Warn("failed to unlock resume in cache", slog.String("key", cacheKey), sl.Err(err))
		}
	}()
	return mutate()
}
