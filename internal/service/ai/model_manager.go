package ai

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kapu/anti-portfolio-go/internal/constants"
	"github.com/kapu/anti-portfolio-go/internal/util"
	"github.com/kapu/anti-portfolio-go/pkg/errors"
)

var (
	// ErrCircuitOpen is returned without contacting the provider.
	ErrCircuitOpen = stderrors.New("model circuit open")
	// ErrEmptyResponse marks a call that succeeded with no text.
	ErrEmptyResponse = stderrors.New("empty model response")
)

// DecodeError means the provider answered but the text was not the
// requested JSON document.
type DecodeError struct {
	Provider string
	Preview  string
	Err      error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("invalid JSON from %s: %v", e.Provider, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

type ModelManagerConfig struct {
	Preset         ModelPreset
	Timeout        time.Duration
	Model          string
	CircuitBreaker bool
}

// ModelManager issues at most one provider call per GenerateJSON. It never
// retries and never switches provider.
type ModelManager struct {
	provider       JSONProvider
	preset         ModelPreset
	timeout        time.Duration
	model          string
	circuitBreaker *util.CircuitBreaker
	logger         *zap.Logger
}

func NewModelManager(provider JSONProvider, cfg ModelManagerConfig, logger *zap.Logger) *ModelManager {
	if logger == nil {
		logger = zap.NewNop()
	}
	mm := &ModelManager{
		provider: provider,
		preset:   cfg.Preset,
		timeout:  cfg.Timeout,
		model:    cfg.Model,
		logger:   logger,
	}
	if mm.preset == "" {
		mm.preset = PresetCreative
	}
	if mm.model == "" && provider != nil {
		mm.model = provider.DefaultModel()
	}
	if cfg.CircuitBreaker {
		mm.circuitBreaker = util.NewCircuitBreaker(
			constants.CircuitBreakerConfig.FailureThreshold,
			constants.CircuitBreakerConfig.ResetTimeout,
			logger,
		)
	}
	return mm
}

func (mm *ModelManager) ProviderName() string {
	if mm.provider == nil {
		return ""
	}
	return mm.provider.Name()
}

func (mm *ModelManager) Model() string {
	return mm.model
}

// GenerateJSON sends prompt once and decodes the cleaned reply into dest.
// Metadata is returned even on failure so callers can attribute the error.
func (mm *ModelManager) GenerateJSON(ctx context.Context, prompt string, dest any) (*GenerateMetadata, error) {
	metadata := &GenerateMetadata{Provider: mm.ProviderName(), Model: mm.model}

	if mm.provider == nil {
		return metadata, fmt.Errorf("model provider is not configured")
	}

	if mm.circuitBreaker != nil && !mm.circuitBreaker.CanExecute() {
		status := mm.circuitBreaker.Status()
		mm.logger.Warn("AI service unavailable (Circuit OPEN)",
			zap.String("provider", metadata.Provider),
			zap.Int("failure_count", status.FailureCount),
		)
		return metadata, ErrCircuitOpen
	}

	callCtx := ctx
	if mm.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, mm.timeout)
		defer cancel()
	}

	result, err := mm.provider.Generate(callCtx, prompt, mm.preset, &GenerateOptions{
		Model:    mm.model,
		JSONMode: true,
	})
	if err != nil {
		if stderrors.Is(callCtx.Err(), context.DeadlineExceeded) && !stderrors.Is(err, context.DeadlineExceeded) {
			err = fmt.Errorf("%w: %w", context.DeadlineExceeded, err)
		}
		mm.recordFailure(err)
		mm.logger.Error("Model call failed",
			zap.String("provider", metadata.Provider),
			zap.String("model", metadata.Model),
			zap.Int("status", StatusCode(err)),
			zap.Error(err),
		)
		return metadata, err
	}

	if mm.circuitBreaker != nil {
		mm.circuitBreaker.RecordSuccess()
	}
	if result.Model != "" {
		metadata.Model = result.Model
	}

	cleaned := CleanJSONText(result.Text)
	if err := json.Unmarshal([]byte(cleaned), dest); err != nil {
		preview := util.TruncateString(cleaned, constants.GenerationConfig.ResponsePreviewLen)
		mm.logger.Error("Failed to unmarshal JSON response",
			zap.String("provider", metadata.Provider),
			zap.Error(err),
			zap.String("response_preview", preview),
		)
		return metadata, &DecodeError{Provider: metadata.Provider, Preview: preview, Err: err}
	}

	return metadata, nil
}

// CircuitStatus returns nil when the breaker is disabled.
func (mm *ModelManager) CircuitStatus() *util.CircuitBreakerStatus {
	if mm.circuitBreaker == nil {
		return nil
	}
	status := mm.circuitBreaker.Status()
	return &status
}

func (mm *ModelManager) recordFailure(err error) {
	if mm.circuitBreaker == nil || !IsServiceFailure(err) {
		return
	}

	timeout := constants.CircuitBreakerConfig.ResetTimeout
	if IsRateLimitError(err) {
		timeout = constants.CircuitBreakerConfig.RateLimitTimeout
	}
	mm.circuitBreaker.RecordFailure(timeout)
}

// CleanJSONText removes markdown code fences the model may wrap around its
// answer: every ```json and ``` marker, then one stray backtick at each end.
func CleanJSONText(text string) string {
	cleaned := strings.ReplaceAll(text, "```json", "")
	cleaned = strings.ReplaceAll(cleaned, "```", "")
	cleaned = strings.TrimSpace(cleaned)
	cleaned = strings.TrimPrefix(cleaned, "`")
	cleaned = strings.TrimSuffix(cleaned, "`")
	return cleaned
}

// StatusCode extracts the provider HTTP status from err, or 0.
func StatusCode(err error) int {
	var apiErr *errors.APIError
	if stderrors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// IsServiceFailure reports errors that indicate the provider itself is
// unhealthy (timeouts, 5xx, rate limits) rather than a bad request.
func IsServiceFailure(err error) bool {
	if err == nil {
		return false
	}
	if stderrors.Is(err, context.DeadlineExceeded) || IsRateLimitError(err) {
		return true
	}
	status := StatusCode(err)
	return status >= http.StatusInternalServerError && status < 600
}

func IsRateLimitError(err error) bool {
	if err == nil {
		return false
	}
	if StatusCode(err) == http.StatusTooManyRequests {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "Rate limit") || strings.Contains(msg, "RESOURCE_EXHAUSTED")
}
