package resumeapp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/magabrotheeeer/resume-service/internal/cache"
	"github.com/magabrotheeeer/resume-service/internal/config"
	"github.com/magabrotheeeer/resume-service/internal/lib/jwt"
	"github.com/magabrotheeeer/resume-service/internal/lib/sl"
	"github.com/magabrotheeeer/resume-service/internal/metrics"
	"github.com/magabrotheeeer/resume-service/internal/migrations"
	authservice "github.com/magabrotheeeer/resume-service/internal/services/auth"
	improvementservice "github.com/magabrotheeeer/resume-service/internal/services/improvement"
	resumeservice "github.com/magabrotheeeer/resume-service/internal/services/resume"
	"github.com/magabrotheeeer/resume-service/internal/storage"
)

const shutdownTimeout = 15 * time.Second

// App — HTTP-приложение сервиса резюме.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *storage.Storage
	cache  *cache.Cache // nil, если redis не настроен
}

// New поднимает зависимости: базу (и схему), кеш, выпуск токенов, сервисы и маршруты.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	const op = "resumeapp.New"

	db, err := storage.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !cfg.SkipMigrations {
		if err = migrations.Run(db.DB); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		logger.Info("database schema is up to date")
	}

	var (
		redisCache  *cache.Cache
		resumeCache resumeservice.Cache = cache.Noop{}
	)
	if cfg.CacheEnabled() {
		redisCache, err = cache.InitServer(ctx, cfg.RedisConnection)
		if err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		resumeCache = redisCache
		logger.Info("resume cache enabled", slog.String("address", cfg.AddressRedis))
	}

	jwtMaker, err := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.Algorithm, cfg.AccessTokenTTL)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	collector := metrics.NewCollector(registry)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, NewDeps(db, resumeCache, cfg.CacheTTL, jwtMaker, collector, registry, logger))

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
		cache:  redisCache,
	}, nil
}

// NewDeps собирает сервисы поверх хранилища.
func NewDeps(db *storage.Storage, resumeCache resumeservice.Cache, cacheTTL time.Duration, jwtMaker jwt.Maker,
	collector *metrics.Collector, gatherer prometheus.Gatherer, logger *slog.Logger) Deps {
	resumes := resumeservice.NewResumeService(db, resumeCache, cacheTTL, collector, logger)
	return Deps{
		Auth:         authservice.NewAuthService(db, jwtMaker, collector, logger),
		Resumes:      resumes,
		Improvements: improvementservice.NewImprovementService(db, resumes, collector, logger),
		Health:       db,
		Metrics:      collector,
		Gatherer:     gatherer,
	}
}

// Run запускает HTTP-сервер и останавливает его при отмене ctx.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		a.close()
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		a.close()
		return err
	}
}

func (a *App) close() {
	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			a.logger.Warn("failed to close redis connection", sl.Err(err))
		}
	}
	if err := a.db.Close(); err != nil {
		a.logger.Warn("failed to close database connection", sl.Err(err))
	}
}
