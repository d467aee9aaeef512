// Package resumeapp собирает HTTP-приложение сервиса резюме: маршруты,
// middleware, зависимости и сервер с корректной остановкой.
package resumeapp

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus"
	httpSwagger "github.com/swaggo/http-swagger"

	// Регистрация сгенерированной swagger-спецификации.
	_ "github.com/magabrotheeeer/resume-service/docs"

	"github.com/magabrotheeeer/resume-service/internal/http/handlers/auth/checktoken"
	"github.com/magabrotheeeer/resume-service/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/resume-service/internal/http/handlers/auth/me"
	"github.com/magabrotheeeer/resume-service/internal/http/handlers/auth/register"
	"github.com/magabrotheeeer/resume-service/internal/http/handlers/health"
	"github.com/magabrotheeeer/resume-service/internal/http/handlers/improvement/history"
	"github.com/magabrotheeeer/resume-service/internal/http/handlers/improvement/improve"
	resumecreate "github.com/magabrotheeeer/resume-service/internal/http/handlers/resume/create"
	resumelist "github.com/magabrotheeeer/resume-service/internal/http/handlers/resume/list"
	resumeread "github.com/magabrotheeeer/resume-service/internal/http/handlers/resume/read"
	resumeremove "github.com/magabrotheeeer/resume-service/internal/http/handlers/resume/remove"
	resumeupdate "github.com/magabrotheeeer/resume-service/internal/http/handlers/resume/update"
	"github.com/magabrotheeeer/resume-service/internal/http/handlers/users/deactivate"
	userlist "github.com/magabrotheeeer/resume-service/internal/http/handlers/users/list"
	"github.com/magabrotheeeer/resume-service/internal/http/handlers/users/profile"
	"github.com/magabrotheeeer/resume-service/internal/http/middlewarectx"
	"github.com/magabrotheeeer/resume-service/internal/metrics"
	authservice "github.com/magabrotheeeer/resume-service/internal/services/auth"
	improvementservice "github.com/magabrotheeeer/resume-service/internal/services/improvement"
	resumeservice "github.com/magabrotheeeer/resume-service/internal/services/resume"
)

// Deps — зависимости, необходимые маршрутам.
type Deps struct {
	Auth         *authservice.AuthService
	Resumes      *resumeservice.ResumeService
	Improvements *improvementservice.ImprovementService
	Health       health.Pinger
	Metrics      *metrics.Collector
	Gatherer     prometheus.Gatherer
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, deps Deps) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		deps.Metrics.Middleware,
	)

	authenticated := middlewarectx.JWTMiddleware(deps.Auth, logger)

	r.Route("/auth", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/register", register.New(logger, deps.Auth).ServeHTTP)
		r.Post("/token", login.New(logger, deps.Auth).ServeHTTP)

		r.Group(func(r chi.Router) {
			r.Use(authenticated)
			r.Get("/me", me.New(logger).ServeHTTP)
			r.Get("/check_token", checktoken.New(logger).ServeHTTP)
			r.Get("/users", userlist.New(logger, deps.Auth).ServeHTTP)
			r.Get("/users/{id}", profile.New(logger, deps.Auth).ServeHTTP)
			r.Delete("/users/{id}", deactivate.New(logger, deps.Auth).ServeHTTP)
		})
	})

	r.Route("/resumes", func(r chi.Router) {
		r.Use(authenticated)
		r.Get("/", resumelist.New(logger, deps.Resumes).ServeHTTP)
		r.Post("/", resumecreate.New(logger, deps.Resumes).ServeHTTP)
		r.Get("/{id}", resumeread.New(logger, deps.Resumes).ServeHTTP)
		r.Put("/{id}", resumeupdate.New(logger, deps.Resumes).ServeHTTP)
		r.Delete("/{id}", resumeremove.New(logger, deps.Resumes).ServeHTTP)
	})

	r.Route("/ai/resume/{id}", func(r chi.Router) {
		r.Use(authenticated)
		r.Post("/improve", improve.New(logger, deps.Improvements).ServeHTTP)
		r.Get("/improvements", history.New(logger, deps.Improvements).ServeHTTP)
	})

	r.Get("/healthz", health.New(logger, deps.Health).ServeHTTP)
	r.Handle("/metrics", metrics.Handler(deps.Gatherer))
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"detail":"Not Found"}`))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusMethodNotAllowed)
		_, _ = w.Write([]byte(`{"detail":"Method Not Allowed"}`))
	})
}
