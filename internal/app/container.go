package app

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kapu/anti-portfolio-go/internal/config"
	"github.com/kapu/anti-portfolio-go/internal/metrics"
	"github.com/kapu/anti-portfolio-go/internal/prompt"
	"github.com/kapu/anti-portfolio-go/internal/server"
	"github.com/kapu/anti-portfolio-go/internal/service/ai"
	"github.com/kapu/anti-portfolio-go/internal/service/cache"
	"github.com/kapu/anti-portfolio-go/internal/service/generator"
	"github.com/kapu/anti-portfolio-go/internal/service/session"
	"github.com/kapu/anti-portfolio-go/internal/util"
)

// Container bundles assembled services for constructing the HTTP server.
type Container struct {
	Config    *config.Config
	Logger    *zap.Logger
	Registry  *prometheus.Registry
	Generator *generator.Service
	Sessions  *session.Manager

	modelManager *ai.ModelManager
	closers      []func()
}

// Build assembles every service. A missing model credential is not an
// error; the generator then serves every request procedurally.
func Build(ctx context.Context, cfg *config.Config, logger *zap.Logger) (container *Container, err error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger must not be nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	c := &Container{Config: cfg, Logger: logger}
	defer func() {
		if err != nil {
			c.Close()
		}
	}()

	// Metrics
	c.Registry = prometheus.NewRegistry()
	c.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m, err := metrics.New(c.Registry)
	if err != nil {
		return nil, fmt.Errorf("failed to register metrics: %w", err)
	}

	// Generation stack
	gen, mm, err := BuildGenerator(ctx, cfg, m, logger)
	if err != nil {
		return nil, err
	}
	c.Generator = gen
	c.modelManager = mm

	// Session store
	store, err := c.buildSessionStore()
	if err != nil {
		return nil, err
	}
	c.Sessions = session.NewManager(store, logger)

	logger.Info("Services assembled",
		zap.Bool("model_enabled", gen.ModelEnabled()),
		zap.String("provider", cfg.Generation.Provider),
		zap.String("session_backend", cfg.Session.Backend),
	)
	return c, nil
}

// BuildGenerator wires provider, model manager and prompt builder. The
// returned ModelManager is nil when no credential is configured.
func BuildGenerator(ctx context.Context, cfg *config.Config, m *metrics.Metrics, logger *zap.Logger) (*generator.Service, *ai.ModelManager, error) {
	provider, err := newProvider(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	var (
		mm    *ai.ModelManager
		model generator.ManifestModel
	)
	if provider != nil {
		mm = ai.NewModelManager(provider, ai.ModelManagerConfig{
			Preset:         ai.ParsePreset(cfg.Generation.Preset),
			Timeout:        cfg.Generation.Timeout,
			Model:          cfg.ActiveModel(),
			CircuitBreaker: cfg.Generation.CircuitBreaker,
		}, logger)
		model = mm
	} else {
		logger.Warn("No model credential configured, using procedural generation only",
			zap.String("provider", cfg.Generation.Provider))
	}

	return generator.NewService(model, prompt.DefaultPromptBuilder(), m, logger), mm, nil
}

func newProvider(ctx context.Context, cfg *config.Config, logger *zap.Logger) (ai.JSONProvider, error) {
	apiKey := cfg.ActiveCredential()
	if apiKey == "" {
		return nil, nil
	}

	switch cfg.Generation.Provider {
	case config.ProviderOpenAI:
		return ai.NewOpenAIProvider(apiKey, cfg.OpenAI.Model, logger), nil
	default:
		p, err := ai.NewGeminiProvider(ctx, apiKey, cfg.Gemini.Model, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create gemini provider: %w", err)
		}
		return p, nil
	}
}

func (c *Container) buildSessionStore() (session.Store, error) {
	cfg := c.Config
	if cfg.Session.Backend != config.SessionBackendRedis {
		return session.NewMemoryStore(cfg.Session.MaxEntries, cfg.Session.TTL), nil
	}

	cacheSvc, err := cache.NewCacheService(cache.CacheConfig{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}, c.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create cache service: %w", err)
	}
	c.closers = append(c.closers, func() {
		_ = cacheSvc.Close()
	})
	return session.NewRedisStore(cacheSvc, cfg.Session.TTL), nil
}

// NewServer instantiates the HTTP server over the assembled services.
func (c *Container) NewServer() (*server.Server, error) {
	if c == nil || c.Generator == nil || c.Sessions == nil {
		return nil, fmt.Errorf("container not initialized")
	}

	deps := server.Dependencies{
		Generator:      c.Generator,
		Sessions:       c.Sessions,
		MetricsHandler: promhttp.HandlerFor(c.Registry, promhttp.HandlerOpts{}),
		Logger:         c.Logger,
	}
	if c.modelManager != nil {
		deps.Provider = c.modelManager.ProviderName()
		deps.Model = c.modelManager.Model()
		deps.CircuitStatus = func() *util.CircuitBreakerStatus {
			return c.modelManager.CircuitStatus()
		}
	}
	return server.New(c.Config.Server, deps)
}

// Close releases external connections in reverse order of creation.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	c.closers = nil
}
