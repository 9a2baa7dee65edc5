package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppErrorWrapsCause(t *testing.T) {
	cause := stderrors.New("connection reset")
	err := NewNotFoundError("session not found").WithCause(cause)

	assert.Equal(t, "session not found: connection reset", err.Error())
	assert.True(t, stderrors.Is(err, cause))
}

func TestAPIErrorExposesProvider(t *testing.T) {
	cause := stderrors.New("429 Too Many Requests")
	var err error = NewAPIError("model call failed", "Gemini", 429, cause)

	var apiErr *APIError
	require.True(t, stderrors.As(err, &apiErr))
	assert.Equal(t, "Gemini", apiErr.Provider)
	assert.Equal(t, 429, apiErr.StatusCode)
	assert.Equal(t, CodeAPIError, apiErr.Code)
	assert.True(t, stderrors.Is(err, cause))
}

func TestValidationErrorCarriesField(t *testing.T) {
	err := NewValidationError("geometry_type is not allowed", "visual_dna.geometry_type", "knot")

	assert.Equal(t, "visual_dna.geometry_type", err.Field)
	assert.Equal(t, "knot", err.Value)
	assert.Equal(t, http.StatusUnprocessableEntity, err.StatusCode)
}

func TestCacheErrorUnwrap(t *testing.T) {
	cause := stderrors.New("redis: nil")
	err := NewCacheError("get failed", "get", "session:abc", cause)

	assert.Equal(t, "get", err.Operation)
	assert.Equal(t, "session:abc", err.Key)
	assert.ErrorIs(t, err, cause)
}

func TestHTTPStatus(t *testing.T) {
	notFound := NewNotFoundError("session not found")

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, http.StatusOK},
		{"untyped", stderrors.New("boom"), http.StatusInternalServerError},
		{"not found sentinel", notFound, http.StatusNotFound},
		{"wrapped not found", fmt.Errorf("load: %w", notFound), http.StatusNotFound},
		{"request", NewRequestError("fullName is required", "fullName"), http.StatusBadRequest},
		{"validation", NewValidationError("bad", "$", nil), http.StatusUnprocessableEntity},
		{"cache", NewCacheError("get failed", "get", "k", stderrors.New("dial tcp")), http.StatusServiceUnavailable},
		{"wrapped cache", fmt.Errorf("session: %w", NewCacheError("set failed", "set", "k", nil)), http.StatusServiceUnavailable},
		{"provider 429 maps to gateway", NewAPIError("x", "Gemini", 429, nil), http.StatusBadGateway},
		{"config", NewConfigError("bad port", "SERVER_PORT"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}

func TestMessageHidesServerDetail(t *testing.T) {
	cacheErr := NewCacheError("get failed", "get", "session:abc", stderrors.New("dial tcp 10.0.0.1:6379"))
	assert.Equal(t, "Service Unavailable", Message(cacheErr))

	reqErr := NewRequestError("fullName is required", "fullName")
	assert.Equal(t, "fullName is required", Message(fmt.Errorf("bind: %w", reqErr)))

	nf := NewNotFoundError("session not found").WithCause(stderrors.New("redis: nil"))
	assert.Equal(t, "session not found", Message(nf))
}

func TestFieldFollowsChain(t *testing.T) {
	assert.Equal(t, "visual_dna.speed", Field(fmt.Errorf("import: %w", NewValidationError("bad", "visual_dna.speed", "warp"))))
	assert.Equal(t, "fullName", Field(NewRequestError("fullName is required", "fullName")))
	assert.Empty(t, Field(NewNotFoundError("gone")))
	assert.Empty(t, Field(stderrors.New("plain")))
}

func TestSentinelIdentity(t *testing.T) {
	a := NewNotFoundError("session not found")
	b := NewNotFoundError("session not found")

	assert.ErrorIs(t, fmt.Errorf("load: %w", a), a)
	assert.NotErrorIs(t, a, b)
}
