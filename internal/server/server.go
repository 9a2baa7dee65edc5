// Package server exposes the generator and session lifecycle over HTTP.
package server

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/kapu/anti-portfolio-go/internal/config"
	"github.com/kapu/anti-portfolio-go/internal/constants"
	"github.com/kapu/anti-portfolio-go/internal/domain"
	"github.com/kapu/anti-portfolio-go/internal/service/session"
	"github.com/kapu/anti-portfolio-go/internal/util"
)

// Generator is the always-successful manifest producer.
type Generator interface {
	Generate(ctx context.Context, input domain.QuestionnaireInput) domain.Generation
	ModelEnabled() bool
}

// Dependencies bundles what the HTTP layer needs. MetricsHandler and
// CircuitStatus are optional.
type Dependencies struct {
	Generator      Generator
	Sessions       *session.Manager
	MetricsHandler http.Handler
	CircuitStatus  func() *util.CircuitBreakerStatus
	Provider       string
	Model          string
	Logger         *zap.Logger
}

type Server struct {
	deps       Dependencies
	engine     *gin.Engine
	httpServer *http.Server
	logger     *zap.Logger
	startTime  time.Time
}

func New(cfg config.ServerConfig, deps Dependencies) (*Server, error) {
	if deps.Generator == nil {
		return nil, fmt.Errorf("generator must not be nil")
	}
	if deps.Sessions == nil {
		return nil, fmt.Errorf("session manager must not be nil")
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}

	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(requestLogger(deps.Logger))
	engine.Use(cors.New(corsConfig(cfg.CORSOrigins)))

	s := &Server{
		deps:      deps,
		engine:    engine,
		logger:    deps.Logger,
		startTime: time.Now(),
	}
	s.httpServer = &http.Server{
		Addr:         cfg.Addr(),
		Handler:      engine,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	s.setupRoutes()
	return s, nil
}

func corsConfig(origins []string) cors.Config {
	c := cors.DefaultConfig()
	if len(origins) == 0 || slices.Contains(origins, "*") {
		c.AllowAllOrigins = true
	} else {
		c.AllowOrigins = origins
	}
	c.AllowMethods = []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions}
	c.AllowHeaders = []string{"Origin", "Content-Type", constants.HTTPHeaders.SessionID}
	c.ExposeHeaders = []string{
		constants.HTTPHeaders.GeneratedBy,
		constants.HTTPHeaders.SessionID,
		"Content-Disposition",
	}
	return c
}

func (s *Server) setupRoutes() {
	s.engine.GET("/health", s.handleHealth)
	if s.deps.MetricsHandler != nil {
		s.engine.GET("/metrics", gin.WrapH(s.deps.MetricsHandler))
	}

	api := s.engine.Group("/api")
	api.POST("/generate", s.handleGenerate)
	api.POST("/manifest/validate", s.handleValidate)

	sessions := api.Group("/sessions")
	{
		sessions.POST("", s.handleStartSession)
		sessions.GET("/:id/manifest", s.handleSessionManifest)
		sessions.GET("/:id/export", s.handleSessionExport)
		sessions.DELETE("/:id", s.handleEndSession)
	}
}

// Handler returns the routed engine, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Start blocks until the listener fails or Shutdown is called.
func (s *Server) Start() error {
	s.logger.Info("HTTP server listening", zap.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}

		if c.Writer.Status() >= http.StatusInternalServerError {
			logger.Error("HTTP request", fields...)
			return
		}
		logger.Debug("HTTP request", fields...)
	}
}
