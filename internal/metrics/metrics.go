// Package metrics собирает метрики Prometheus: HTTP-запросы и доменные события
// (регистрации, входы, операции с резюме и улучшения).
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "resume_service"

// Collector регистрирует и обновляет метрики сервиса.
type Collector struct {
	requests      *prometheus.CounterVec
	duration      *prometheus.HistogramVec
	inFlight      prometheus.Gauge
	registrations prometheus.Counter
	logins        *prometheus.CounterVec
	resumeOps     *prometheus.CounterVec
	improvements  prometheus.Counter
}

// NewCollector создаёт Collector и регистрирует метрики в reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Количество HTTP-запросов по методу, маршруту и статусу.",
		}, []string{"method", "route", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Длительность обработки HTTP-запросов.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_requests_in_flight",
			Help:      "Количество запросов в обработке.",
		}),
		registrations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "registrations_total",
			Help:      "Количество успешных регистраций.",
		}),
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "logins_total",
			Help:      "Количество попыток входа по результату.",
		}, []string{"result"}),
		resumeOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "resume_operations_total",
			Help:      "Количество изменяющих операций с резюме.",
		}, []string{"operation"}),
		improvements: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "resume_improvements_total",
			Help:      "Количество сохранённых улучшений резюме.",
		}),
	}

	reg.MustRegister(
		c.requests,
		c.duration,
		c.inFlight,
		c.registrations,
		c.logins,
		c.resumeOps,
		c.improvements,
	)
	return c
}

// RecordRegistration учитывает успешную регистрацию.
func (c *Collector) RecordRegistration() {
	c.registrations.Inc()
}

// RecordLogin учитывает попытку входа.
func (c *Collector) RecordLogin(success bool) {
	result := "failure"
	if success {
		result = "success"
	}
	c.logins.WithLabelValues(result).Inc()
}

// RecordResumeOperation учитывает create/update/delete резюме.
func (c *Collector) RecordResumeOperation(operation string) {
	c.resumeOps.WithLabelValues(operation).Inc()
}

// RecordImprovement учитывает сохранённое улучшение.
func (c *Collector) RecordImprovement() {
	c.improvements.Inc()
}

// Middleware учитывает каждый запрос по шаблону маршрута chi, чтобы
// идентификаторы в пути не раздували число серий.
func (c *Collector) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		c.inFlight.Inc()
		defer c.inFlight.Dec()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}
		c.requests.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		c.duration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

// Handler возвращает обработчик для выдачи метрик Prometheus.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// Nop ничего не записывает; используется в тестах сервисов.
type Nop struct{}

func (Nop) RecordRegistration()          {}
func (Nop) RecordLogin(bool)             {}
func (Nop) RecordResumeOperation(string) {}
func (Nop) RecordImprovement()           {}
