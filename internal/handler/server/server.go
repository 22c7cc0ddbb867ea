package server

import (
	"context"
	"net/http"
	"time"

	"github.com/bagdasarian/team-credits/internal/handler"
	"github.com/bagdasarian/team-credits/internal/metrics"
	"github.com/bagdasarian/team-credits/internal/service"
	"github.com/sirupsen/logrus"
)

type Options struct {
	Addr     string
	Verifier service.IdentityVerifier
	Limiter  handler.RateLimiter
	Metrics  *metrics.Metrics
	Logger   logrus.FieldLogger
}

type Server struct {
	handler *handler.Handler
	server  *http.Server
	log     logrus.FieldLogger
}

func NewServer(h *handler.Handler, opts Options) *Server {
	mux := http.NewServeMux()

	auth := h.RequireAuth(opts.Verifier)
	limit := h.RateLimit(opts.Limiter)
	protect := func(next http.Handler) http.Handler {
		return auth(limit(next))
	}

	var metricsHandler http.Handler
	if opts.Metrics != nil {
		metricsHandler = opts.Metrics.Handler()
	}
	SetupRoutes(mux, h, protect, metricsHandler)

	return &Server{
		handler: h,
		server: &http.Server{
			Addr:              opts.Addr,
			Handler:           handler.CORS(handler.Instrument(opts.Metrics, opts.Logger, mux)),
			ReadHeaderTimeout: 10 * time.Second,
		},
		log: opts.Logger,
	}
}

// Handler возвращает корневой обработчик со всеми middleware
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

func (s *Server) Start() error {
	s.log.Infof("Server starting on %s", s.server.Addr)
	return s.server.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("Shutting down...")
	if err := s.server.Shutdown(ctx); err != nil {
		return err
	}
	s.log.Info("Server stopped")
	return nil
}
