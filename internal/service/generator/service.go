// Package generator turns questionnaire answers into an identity manifest,
// trying the configured model once and degrading to the procedural
// generator on any failure.
package generator

import (
	"context"
	stderrors "errors"
	"time"

	"go.uber.org/zap"

	"github.com/kapu/anti-portfolio-go/internal/domain"
	"github.com/kapu/anti-portfolio-go/internal/manifest"
	"github.com/kapu/anti-portfolio-go/internal/metrics"
	"github.com/kapu/anti-portfolio-go/internal/service/ai"
	"github.com/kapu/anti-portfolio-go/internal/service/fallback"
	"github.com/kapu/anti-portfolio-go/pkg/errors"
)

// ManifestModel is the single outbound model call.
type ManifestModel interface {
	GenerateJSON(ctx context.Context, prompt string, dest any) (*ai.GenerateMetadata, error)
	ProviderName() string
	Model() string
}

// PromptSource renders the model prompt for one input.
type PromptSource interface {
	BuildManifestPrompt(input domain.QuestionnaireInput) (string, error)
}

type Service struct {
	model   ManifestModel
	prompts PromptSource
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// NewService wires the generator. A nil model means no credential is
// configured and every request is served by the fallback.
func NewService(model ManifestModel, prompts PromptSource, m *metrics.Metrics, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		model:   model,
		prompts: prompts,
		metrics: m,
		logger:  logger,
	}
}

// ModelEnabled reports whether a model call will be attempted.
func (s *Service) ModelEnabled() bool {
	return s.model != nil
}

// Generate always returns a complete, valid manifest.
func (s *Service) Generate(ctx context.Context, input domain.QuestionnaireInput) domain.Generation {
	start := time.Now()
	result := s.generate(ctx, input)
	s.metrics.RecordGeneration(result, time.Since(start))
	return result
}

func (s *Service) generate(ctx context.Context, input domain.QuestionnaireInput) domain.Generation {
	if s.model == nil {
		return s.degrade(input, domain.CauseNoCredential, nil, "", "")
	}

	provider, model := s.model.ProviderName(), s.model.Model()

	prompt, err := s.prompts.BuildManifestPrompt(input)
	if err != nil {
		return s.degrade(input, domain.CausePromptBuild,
			errors.NewServiceError("failed to build prompt", "generator", "build_prompt", err), provider, model)
	}

	var candidate domain.IdentityManifest
	meta, err := s.model.GenerateJSON(ctx, prompt, &candidate)
	if meta != nil {
		provider, model = meta.Provider, meta.Model
	}
	if err != nil {
		return s.degrade(input, classify(err), err, provider, model)
	}

	candidate.Name = input.FullName

	validated, err := manifest.Validate(candidate)
	if err != nil {
		return s.degrade(input, domain.CauseSchemaViolation, err, provider, model)
	}

	s.logger.Info("Manifest generated by model",
		zap.String("provider", provider),
		zap.String("model", model),
		zap.String("geometry", string(validated.VisualDNA.GeometryType)),
	)

	return domain.Generation{
		Manifest: validated,
		Origin:   domain.OriginModel,
		Provider: provider,
		Model:    model,
	}
}

func (s *Service) degrade(input domain.QuestionnaireInput, cause domain.FallbackCause, err error, provider, model string) domain.Generation {
	fields := []zap.Field{zap.String("cause", string(cause))}
	if provider != "" {
		fields = append(fields, zap.String("provider", provider), zap.String("model", model))
	}
	if err != nil {
		fields = append(fields, zap.Error(err))
	}
	s.logger.Warn("Using procedural fallback", fields...)

	return domain.Generation{
		Manifest: fallback.Generate(input),
		Origin:   domain.OriginFallback,
		Cause:    cause,
		Err:      err,
		Provider: provider,
		Model:    model,
	}
}

func classify(err error) domain.FallbackCause {
	var decodeErr *ai.DecodeError
	switch {
	case stderrors.Is(err, ai.ErrCircuitOpen):
		return domain.CauseCircuitOpen
	case stderrors.Is(err, context.DeadlineExceeded):
		return domain.CauseTimeout
	case stderrors.As(err, &decodeErr):
		return domain.CauseMalformedJSON
	default:
		return domain.CauseModelCall
	}
}
