package generator

import (
	"context"
	stderrors "errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"

	"github.com/kapu/anti-portfolio-go/internal/domain"
	"github.com/kapu/anti-portfolio-go/internal/manifest"
	"github.com/kapu/anti-portfolio-go/internal/metrics"
	"github.com/kapu/anti-portfolio-go/internal/prompt"
	"github.com/kapu/anti-portfolio-go/internal/service/ai"
	"github.com/kapu/anti-portfolio-go/internal/service/fallback"
	"github.com/kapu/anti-portfolio-go/pkg/errors"
)

const modelReply = `{
  "name": "Someone Else",
  "hero": {"headline": "No decks. Only damage.", "subheadline": "Systems that refuse to die."},
  "about": {"story": "She builds backends nobody notices.", "anti_traits": ["Anti-Hype", "Anti-Agile", "Unfiltered"]},
  "projects": [{"title": "Ledger", "description": "A queue that outlived its company.", "link": "", "tech_or_tools": ["Go"]}],
  "methodology": {"name": "The Autopsy", "steps": [
    {"title": "Break", "description": "Find the seam."},
    {"title": "Read", "description": "Read every log."},
    {"title": "Cut", "description": "Delete half."}
  ]},
  "failures": {"title": "Failures & Lessons", "stories": [{"failure": "Shipped on a Friday.", "lesson": "Fridays are for reading."}]},
  "personal_side": {"loves": ["Silence"], "hates": ["Standups"]},
  "visual_dna": {
    "geometry_type": "Cluster",
    "material_type": "metal",
    "texture_style": "distorted",
    "movement_speed": "FAST",
    "colors": {"primary": "#ffaa00", "secondary": "#ff0000", "bg": "#120024"}
  }
}`

type scriptedProvider struct {
	mu      sync.Mutex
	text    string
	err     error
	delay   time.Duration
	prompts []string
}

func (p *scriptedProvider) Name() string         { return "Scripted" }
func (p *scriptedProvider) DefaultModel() string { return "scripted-1" }

func (p *scriptedProvider) Generate(ctx context.Context, prompt string, _ ai.ModelPreset, opts *ai.GenerateOptions) (ai.ProviderResult, error) {
	p.mu.Lock()
	p.prompts = append(p.prompts, prompt)
	p.mu.Unlock()

	if p.delay > 0 {
		select {
		case <-time.After(p.delay):
		case <-ctx.Done():
			return ai.ProviderResult{}, ctx.Err()
		}
	}
	if p.err != nil {
		return ai.ProviderResult{}, p.err
	}
	return ai.ProviderResult{Text: p.text, Model: opts.Model}, nil
}

func (p *scriptedProvider) callCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.prompts)
}

type brokenPrompts struct{}

func (brokenPrompts) BuildManifestPrompt(domain.QuestionnaireInput) (string, error) {
	return "", stderrors.New("template missing")
}

var ada = domain.QuestionnaireInput{
	FullName:    "Ada Vex",
	Interests:   "Modular synths",
	HatedTrends: "Hustle culture",
}

func newService(t *testing.T, provider *scriptedProvider, cfg ai.ModelManagerConfig) (*Service, *prometheus.Registry) {
	t.Helper()
	reg := prometheus.NewRegistry()
	m, err := metrics.New(reg)
	require.NoError(t, err)
	mm := ai.NewModelManager(provider, cfg, zap.NewNop())
	return NewService(mm, prompt.NewPromptBuilder(), m, zap.NewNop()), reg
}

func TestGenerateUsesModelReply(t *testing.T) {
	defer goleak.VerifyNone(t)

	provider := &scriptedProvider{text: "```json\n" + modelReply + "\n```"}
	svc, _ := newService(t, provider, ai.ModelManagerConfig{Timeout: time.Second})

	got := svc.Generate(context.Background(), ada)

	require.Equal(t, domain.OriginModel, got.Origin)
	assert.False(t, got.UsedFallback())
	assert.Nil(t, got.Err)
	assert.Equal(t, "Ada Vex", got.Manifest.Name)
	assert.Equal(t, domain.GeometryCluster, got.Manifest.VisualDNA.GeometryType)
	assert.Equal(t, domain.SpeedFast, got.Manifest.VisualDNA.MovementSpeed)
	assert.Equal(t, "Scripted", got.Provider)
	assert.Equal(t, "scripted-1", got.Model)

	require.Equal(t, 1, provider.callCount())
	assert.Contains(t, provider.prompts[0], "- Name: Ada Vex")
}

func TestGenerateWithoutModelUsesFallback(t *testing.T) {
	svc := NewService(nil, prompt.NewPromptBuilder(), nil, zap.NewNop())
	assert.False(t, svc.ModelEnabled())

	got := svc.Generate(context.Background(), ada)
	assert.Equal(t, domain.OriginFallback, got.Origin)
	assert.Equal(t, domain.CauseNoCredential, got.Cause)
	assert.Equal(t, fallback.Generate(ada), got.Manifest)
}

func TestGenerateFallbackCauses(t *testing.T) {
	cases := []struct {
		name     string
		provider *scriptedProvider
		cfg      ai.ModelManagerConfig
		cause    domain.FallbackCause
	}{
		{"provider error", &scriptedProvider{err: errors.NewAPIError("boom", "Scripted", 500, nil)}, ai.ModelManagerConfig{}, domain.CauseModelCall},
		{"timeout", &scriptedProvider{text: modelReply, delay: time.Second}, ai.ModelManagerConfig{Timeout: 10 * time.Millisecond}, domain.CauseTimeout},
		{"prose reply", &scriptedProvider{text: "Sure! Here is your portfolio."}, ai.ModelManagerConfig{}, domain.CauseMalformedJSON},
		{"array reply", &scriptedProvider{text: "[1, 2, 3]"}, ai.ModelManagerConfig{}, domain.CauseMalformedJSON},
		{"knot geometry", &scriptedProvider{text: strings.Replace(modelReply, `"Cluster"`, `"knot"`, 1)}, ai.ModelManagerConfig{}, domain.CauseSchemaViolation},
		{"two anti traits", &scriptedProvider{text: strings.Replace(modelReply, `, "Unfiltered"]`, `]`, 1)}, ai.ModelManagerConfig{}, domain.CauseSchemaViolation},
		{"missing visual dna", &scriptedProvider{text: `{"hero": {"headline": "x", "subheadline": "y"}}`}, ai.ModelManagerConfig{}, domain.CauseSchemaViolation},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc, reg := newService(t, tc.provider, tc.cfg)

			got := svc.Generate(context.Background(), ada)

			require.True(t, got.UsedFallback())
			assert.Equal(t, tc.cause, got.Cause)
			assert.Error(t, got.Err)
			assert.Equal(t, "Scripted", got.Provider)
			assert.Equal(t, 1, tc.provider.callCount(), "exactly one model call")

			assert.Equal(t, "Ada Vex", got.Manifest.Name)
			assert.Equal(t, fallback.Generate(ada), got.Manifest)
			_, err := manifest.Validate(got.Manifest)
			assert.NoError(t, err)

			count, err := testutil.GatherAndCount(reg, "antiportfolio_fallback_causes_total")
			require.NoError(t, err)
			assert.Equal(t, 1, count)
		})
	}
}

func TestGeneratePromptFailureSkipsModel(t *testing.T) {
	provider := &scriptedProvider{text: modelReply}
	mm := ai.NewModelManager(provider, ai.ModelManagerConfig{}, zap.NewNop())
	svc := NewService(mm, brokenPrompts{}, nil, zap.NewNop())

	got := svc.Generate(context.Background(), ada)
	assert.Equal(t, domain.CausePromptBuild, got.Cause)
	assert.Equal(t, 0, provider.callCount())
}

func TestGenerateCircuitOpenSkipsModel(t *testing.T) {
	provider := &scriptedProvider{err: errors.NewAPIError("down", "Scripted", 503, nil)}
	svc, _ := newService(t, provider, ai.ModelManagerConfig{CircuitBreaker: true})

	for i := 0; i < 3; i++ {
		assert.Equal(t, domain.CauseModelCall, svc.Generate(context.Background(), ada).Cause)
	}
	got := svc.Generate(context.Background(), ada)
	assert.Equal(t, domain.CauseCircuitOpen, got.Cause)
	assert.Equal(t, 3, provider.callCount())
}

func TestGenerateConcurrentRequestsAreIndependent(t *testing.T) {
	defer goleak.VerifyNone(t)

	provider := &scriptedProvider{text: modelReply}
	svc, _ := newService(t, provider, ai.ModelManagerConfig{Timeout: time.Second})

	var wg sync.WaitGroup
	results := make([]domain.Generation, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			input := ada
			input.FullName = strings.Repeat("A", i+1)
			results[i] = svc.Generate(context.Background(), input)
		}(i)
	}
	wg.Wait()

	for i, r := range results {
		assert.Equal(t, domain.OriginModel, r.Origin)
		assert.Equal(t, strings.Repeat("A", i+1), r.Manifest.Name)
	}
	assert.Equal(t, len(results), provider.callCount())
}

func TestGenerateCopiesNameVerbatim(t *testing.T) {
	padded := domain.QuestionnaireInput{FullName: "  Ada  Vex ", Interests: "Modular synths"}

	modelSvc, _ := newService(t, &scriptedProvider{text: modelReply}, ai.ModelManagerConfig{Timeout: time.Second})
	fromModel := modelSvc.Generate(context.Background(), padded)
	require.Equal(t, domain.OriginModel, fromModel.Origin)
	assert.Equal(t, "  Ada  Vex ", fromModel.Manifest.Name)

	fallbackSvc := NewService(nil, prompt.NewPromptBuilder(), nil, zap.NewNop())
	fromFallback := fallbackSvc.Generate(context.Background(), padded)
	require.Equal(t, domain.OriginFallback, fromFallback.Origin)
	assert.Equal(t, "  Ada  Vex ", fromFallback.Manifest.Name)
}
