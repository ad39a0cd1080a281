package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	handlers "github.com/GriffinCanCode/CanvasAI/backend/internal/api/http"
	"github.com/GriffinCanCode/CanvasAI/backend/internal/api/middleware"
	"github.com/GriffinCanCode/CanvasAI/backend/internal/api/ws"
	"github.com/GriffinCanCode/CanvasAI/backend/internal/infrastructure/config"
	"github.com/GriffinCanCode/CanvasAI/backend/internal/infrastructure/logging"
	"github.com/GriffinCanCode/CanvasAI/backend/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/CanvasAI/backend/internal/infrastructure/tracing"
	"github.com/GriffinCanCode/CanvasAI/backend/internal/llm"
)

const readHeaderTimeout = 10 * time.Second

// Server wraps the HTTP server and dependencies.
type Server struct {
	router     *gin.Engine
	httpServer *http.Server
	wsHandler  *ws.Handler
	completer  ws.Completer
	logger     *logging.Logger
	config     *config.Config
	metrics    *monitoring.Metrics
	registry   *prometheus.Registry
	tracer     *tracing.Tracer
}

// Option customizes a Server.
type Option func(*Server)

// WithLogger replaces the logger built from cfg.Logging.
func WithLogger(logger *logging.Logger) Option {
	return func(s *Server) { s.logger = logging.OrNop(logger) }
}

// WithCompleter replaces the Ollama client.
func WithCompleter(c ws.Completer) Option {
	return func(s *Server) { s.completer = c }
}

// NewServer creates a new server instance.
func NewServer(cfg *config.Config, opts ...Option) (*Server, error) {
	if cfg == nil {
		return nil, errors.New("server: nil config")
	}

	s := &Server{config: cfg}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = newLogger(cfg.Logging)
	}

	s.logger.Info("Initializing CanvasAI backend",
		zap.String("port", cfg.Server.Port),
		zap.String("llm_url", cfg.LLM.URL),
		zap.String("llm_model", cfg.LLM.Model),
	)

	s.registry = prometheus.NewRegistry()
	s.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	s.metrics = monitoring.NewMetrics(s.registry)
	s.tracer = tracing.New("canvas-backend", s.logger)

	var breaker handlers.BreakerReporter
	if s.completer == nil {
		client := llm.NewClient(cfg.LLM, llm.WithLogger(s.logger))
		s.completer = client
		breaker = client
	} else if b, ok := s.completer.(handlers.BreakerReporter); ok {
		breaker = b
	}

	s.wsHandler = ws.NewHandler(s.completer,
		ws.WithLogger(s.logger),
		ws.WithMetrics(s.metrics),
		ws.WithTracer(s.tracer),
		ws.WithCache(cfg.Cache),
		ws.WithTimeout(cfg.LLM.Timeout),
	)

	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(tracing.HTTPMiddleware(s.tracer))
	router.Use(monitoring.Middleware(s.metrics))
	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	if cfg.RateLimit.Enabled {
		router.Use(middleware.RateLimit(middleware.RateLimitFromConfig(cfg.RateLimit)))
		s.logger.Info("Rate limiting enabled",
			zap.Int("rps", cfg.RateLimit.RequestsPerSecond),
			zap.Int("burst", cfg.RateLimit.Burst),
		)
	}

	h := handlers.NewHandlers(s.wsHandler, breaker, s.registry)
	router.GET("/", h.Root)
	router.GET("/health", h.Health)
	router.GET("/metrics", h.Metrics())
	router.GET("/ws", s.wsHandler.HandleConnection)

	s.router = router
	s.httpServer = &http.Server{
		Addr:              net.JoinHostPort(cfg.Server.Host, cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: readHeaderTimeout,
	}
	return s, nil
}

// Handler exposes the router for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Addr returns the listen address.
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// Run serves until Shutdown. A clean shutdown returns nil.
func (s *Server) Run() error {
	s.logger.Info("Server listening", zap.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("listen on %s: %w", s.httpServer.Addr, err)
	}
	return nil
}

// Shutdown stops accepting requests, closes open sockets and flushes the
// logger.
func (s *Server) Shutdown(ctx context.Context) error {
	s.wsHandler.Close()
	err := s.httpServer.Shutdown(ctx)
	if err != nil {
		s.logger.Warn("HTTP shutdown incomplete", zap.Error(err))
	} else {
		s.logger.Info("Server stopped")
	}
	s.tracer.Close()
	_ = s.logger.Sync()
	return err
}

func newLogger(cfg config.LogConfig) *logging.Logger {
	if cfg.Development {
		return logging.NewDevelopment()
	}
	lc := logging.DefaultConfig()
	if cfg.Level != "" {
		lc.Level = cfg.Level
	}
	logger, err := logging.New(lc)
	if err != nil {
		return logging.NewDefault()
	}
	return logger
}
