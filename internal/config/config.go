package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/kapu/anti-portfolio-go/internal/constants"
	"github.com/kapu/anti-portfolio-go/pkg/errors"
)

const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"

	SessionBackendMemory = "memory"
	SessionBackendRedis  = "redis"
)

type Config struct {
	Server     ServerConfig
	Gemini     GeminiConfig
	OpenAI     OpenAIConfig
	Generation GenerationConfig
	Session    SessionConfig
	Redis      RedisConfig
	Logging    LoggingConfig
}

type ServerConfig struct {
	Host         string
	Port         int
	CORSOrigins  []string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	Debug        bool
}

// Addr returns the listen address for net/http.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type GeminiConfig struct {
	APIKey string
	Model  string
}

type OpenAIConfig struct {
	APIKey string
	Model  string
}

type GenerationConfig struct {
	Provider       string
	Timeout        time.Duration
	Preset         string
	CircuitBreaker bool
}

type SessionConfig struct {
	Backend    string
	TTL        time.Duration
	MaxEntries int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type LoggingConfig struct {
	Level  string
	File   string
	Format string
}

// Load reads .env (if present) and the process environment. A missing model
// credential is not an error: generation then always takes the fallback path.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := FromEnv()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// FromEnv builds a Config from the current environment without validating it.
func FromEnv() *Config {
	return &Config{
		Server: ServerConfig{
			Host:         getEnv("SERVER_HOST", "0.0.0.0"),
			Port:         getEnvInt("SERVER_PORT", 8080),
			CORSOrigins:  parseCommaSeparated(getEnv("CORS_ORIGINS", "*")),
			ReadTimeout:  getEnvDuration("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout: getEnvDuration("SERVER_WRITE_TIMEOUT", 60*time.Second),
			Debug:        getEnvBool("SERVER_DEBUG", false),
		},
		Gemini: GeminiConfig{
			APIKey: getEnv("GEMINI_API_KEY", ""),
			Model:  getEnv("GEMINI_MODEL", constants.GenerationConfig.DefaultGeminiModel),
		},
		OpenAI: OpenAIConfig{
			APIKey: getEnv("OPENAI_API_KEY", ""),
			Model:  getEnv("OPENAI_MODEL", constants.GenerationConfig.DefaultOpenAIModel),
		},
		Generation: GenerationConfig{
			Provider:       strings.ToLower(getEnv("GENERATION_PROVIDER", ProviderGemini)),
			Timeout:        getEnvDuration("GENERATION_TIMEOUT", constants.GenerationConfig.DefaultTimeout),
			Preset:         strings.ToLower(getEnv("GENERATION_PRESET", "creative")),
			CircuitBreaker: getEnvBool("GENERATION_CIRCUIT_BREAKER", false),
		},
		Session: SessionConfig{
			Backend:    strings.ToLower(getEnv("SESSION_BACKEND", SessionBackendMemory)),
			TTL:        getEnvDuration("SESSION_TTL", constants.SessionConfig.DefaultTTL),
			MaxEntries: getEnvInt("SESSION_MAX_ENTRIES", constants.SessionConfig.DefaultMaxEntries),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnvInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			File:   getEnv("LOG_FILE", ""),
			Format: strings.ToLower(getEnv("LOG_FORMAT", "console")),
		},
	}
}

func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return errors.NewConfigError("SERVER_PORT must be between 1 and 65535", "SERVER_PORT")
	}
	switch c.Generation.Provider {
	case ProviderGemini, ProviderOpenAI:
	default:
		return errors.NewConfigError(fmt.Sprintf("unknown generation provider %q", c.Generation.Provider), "GENERATION_PROVIDER")
	}
	if c.Generation.Timeout <= 0 {
		return errors.NewConfigError("GENERATION_TIMEOUT must be positive", "GENERATION_TIMEOUT")
	}
	// 모델 호출이 응답 쓰기 한도를 넘기면 fallback 전에 연결이 끊긴다
	if c.Server.WriteTimeout > 0 && c.Generation.Timeout >= c.Server.WriteTimeout {
		return errors.NewConfigError(
			fmt.Sprintf("GENERATION_TIMEOUT (%s) must be shorter than SERVER_WRITE_TIMEOUT (%s)", c.Generation.Timeout, c.Server.WriteTimeout),
			"GENERATION_TIMEOUT",
		)
	}
	switch c.Session.Backend {
	case SessionBackendMemory, SessionBackendRedis:
	default:
		return errors.NewConfigError(fmt.Sprintf("unknown session backend %q", c.Session.Backend), "SESSION_BACKEND")
	}
	if c.Session.TTL <= 0 {
		return errors.NewConfigError("SESSION_TTL must be positive", "SESSION_TTL")
	}
	if c.Session.MaxEntries <= 0 {
		return errors.NewConfigError("SESSION_MAX_ENTRIES must be positive", "SESSION_MAX_ENTRIES")
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		return errors.NewConfigError(fmt.Sprintf("unknown log format %q", c.Logging.Format), "LOG_FORMAT")
	}
	return nil
}

// ActiveCredential returns the API key of the selected provider, or "".
func (c *Config) ActiveCredential() string {
	if c.Generation.Provider == ProviderOpenAI {
		return strings.TrimSpace(c.OpenAI.APIKey)
	}
	return strings.TrimSpace(c.Gemini.APIKey)
}

// ActiveModel returns the model name of the selected provider.
func (c *Config) ActiveModel() string {
	if c.Generation.Provider == ProviderOpenAI {
		return c.OpenAI.Model
	}
	return c.Gemini.Model
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

// getEnvDuration accepts Go durations ("45s") or bare seconds ("45").
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}

func parseCommaSeparated(value string) []string {
	if value == "" {
		return []string{}
	}
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
