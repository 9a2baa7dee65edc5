// Package metrics exposes Prometheus collectors for generation outcomes.
package metrics

import (
	stderrors "errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kapu/anti-portfolio-go/internal/domain"
)

const namespace = "antiportfolio"

// Metrics is safe to use as a nil pointer; every method then does nothing.
type Metrics struct {
	generations    *prometheus.CounterVec
	duration       *prometheus.HistogramVec
	fallbackCauses *prometheus.CounterVec
}

// New registers the collectors on reg, reusing existing ones when the same
// names are already registered.
func New(reg prometheus.Registerer) (*Metrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	m := &Metrics{
		generations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "generations_total",
			Help:      "Completed generation requests by origin and provider.",
		}, []string{"origin", "provider"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "generation_duration_seconds",
			Help:      "End-to-end generation latency including any fallback.",
			Buckets:   []float64{0.01, 0.1, 0.5, 1, 2.5, 5, 10, 20, 45, 60},
		}, []string{"origin"}),
		fallbackCauses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fallback_causes_total",
			Help:      "Reasons the model path was abandoned.",
		}, []string{"cause"}),
	}

	var err error
	if m.generations, err = registerCounterVec(reg, m.generations); err != nil {
		return nil, err
	}
	if m.duration, err = registerHistogramVec(reg, m.duration); err != nil {
		return nil, err
	}
	if m.fallbackCauses, err = registerCounterVec(reg, m.fallbackCauses); err != nil {
		return nil, err
	}
	return m, nil
}

// RecordGeneration counts one finished request.
func (m *Metrics) RecordGeneration(g domain.Generation, elapsed time.Duration) {
	if m == nil {
		return
	}
	provider := g.Provider
	if provider == "" {
		provider = "none"
	}
	m.generations.WithLabelValues(string(g.Origin), provider).Inc()
	m.duration.WithLabelValues(string(g.Origin)).Observe(elapsed.Seconds())
	if g.UsedFallback() {
		m.fallbackCauses.WithLabelValues(string(g.Cause)).Inc()
	}
}

func registerCounterVec(reg prometheus.Registerer, c *prometheus.CounterVec) (*prometheus.CounterVec, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if stderrors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
		}
		return nil, fmt.Errorf("register counter: %w", err)
	}
	return c, nil
}

func registerHistogramVec(reg prometheus.Registerer, h *prometheus.HistogramVec) (*prometheus.HistogramVec, error) {
	if err := reg.Register(h); err != nil {
		var are prometheus.AlreadyRegisteredError
		if stderrors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(*prometheus.HistogramVec); ok {
				return existing, nil
			}
		}
		return nil, fmt.Errorf("register histogram: %w", err)
	}
	return h, nil
}
