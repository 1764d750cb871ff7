package http

import (
	"fmt"
	"net/http"
	"time"

	"github.com/IA-Ben/ode-islands-transcoder/internal/adapter/http/middleware"
	"github.com/IA-Ben/ode-islands-transcoder/internal/service"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Options wires the server. A nil Uploads or Intake leaves that route
// unregistered; a nil Health makes /health a plain liveness check.
type Options struct {
	Status  StatusService
	Uploads UploadService
	Intake  ProcessIntake
	Health  HealthChecker
	Events  *service.EventBus

	// ProcessTokenHash is the bcrypt hash guarding POST /process.
	ProcessTokenHash string
	// RequestsPerMinute limits batch status and upload calls per client IP.
	RequestsPerMinute int
	Version           string
}

type Server struct {
	router     chi.Router
	handlers   *Handlers
	sseHandler *SSEHandler
	opts       Options
}

func NewServer(opts Options) *Server {
	s := &Server{
		router:     chi.NewRouter(),
		handlers:   NewHandlers(opts.Status, opts.Uploads, opts.Intake, opts.Health, opts.Version),
		sseHandler: NewSSEHandler(opts.Events, opts.Status),
		opts:       opts,
	}

	s.router.Use(chimw.Recoverer)
	s.router.Use(chimw.RequestID)
	s.router.Use(middleware.SecurityHeaders)
	s.router.Use(middleware.Observe)

	s.registerRoutes()
	return s
}

func (s *Server) limited() func(http.Handler) http.Handler {
	n := s.opts.RequestsPerMinute
	if n <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	return httprate.Limit(n, time.Minute,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Retry-After", fmt.Sprintf("%d", int(time.Minute.Seconds())))
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
		}),
	)
}

func (s *Server) registerRoutes() {
	r := s.router

	r.Get("/health", s.handlers.Health())
	r.Handle("/metrics", promhttp.Handler())

	if s.opts.Intake != nil {
		r.Post("/process", BearerAuth(s.opts.ProcessTokenHash, s.handlers.Process()))
	}

	limited := s.limited()
	if s.opts.Uploads != nil {
		r.With(limited).Post("/api/videos", s.handlers.Upload())
	}
	r.With(limited).Post("/api/videos/status/batch", s.handlers.BatchStatus())
	r.Get("/api/videos/{id}/status", s.handlers.Status())
	if s.opts.Events != nil {
		r.Get("/api/videos/{id}/events", s.sseHandler.Events())
	}
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}
