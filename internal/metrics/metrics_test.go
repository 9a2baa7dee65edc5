package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kapu/anti-portfolio-go/internal/domain"
)

func TestRecordGeneration(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := New(reg)
	require.NoError(t, err)

	m.RecordGeneration(domain.Generation{Origin: domain.OriginModel, Provider: "Gemini"}, 2*time.Second)
	m.RecordGeneration(domain.Generation{Origin: domain.OriginFallback, Cause: domain.CauseTimeout, Provider: "Gemini"}, 45*time.Second)
	m.RecordGeneration(domain.Generation{Origin: domain.OriginFallback, Cause: domain.CauseNoCredential}, time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.generations.WithLabelValues("model", "Gemini")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.generations.WithLabelValues("fallback", "Gemini")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.generations.WithLabelValues("fallback", "none")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.fallbackCauses.WithLabelValues("timeout")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.fallbackCauses.WithLabelValues("no_credential")))
	assert.Equal(t, 2, testutil.CollectAndCount(m.duration))
}

func TestNewReusesRegisteredCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := New(reg)
	require.NoError(t, err)
	second, err := New(reg)
	require.NoError(t, err)

	second.RecordGeneration(domain.Generation{Origin: domain.OriginModel, Provider: "OpenAI"}, time.Second)
	assert.Equal(t, 1.0, testutil.ToFloat64(first.generations.WithLabelValues("model", "OpenAI")))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordGeneration(domain.Generation{Origin: domain.OriginModel}, time.Second)
	})
}
