package constants

import "time"

var GenerationConfig = struct {
	DefaultTimeout     time.Duration
	DefaultGeminiModel string
	DefaultOpenAIModel string
	ResponsePreviewLen int
}{
	DefaultTimeout:     45 * time.Second,
	DefaultGeminiModel: "gemma-3-12b-it",
	DefaultOpenAIModel: "gpt-4.1-mini",
	ResponsePreviewLen: 200,
}

// FallbackCopy holds the character budgets used when lifting free text into
// procedural copy.
var FallbackCopy = struct {
	StoryBudget       int
	MethodologyBudget int
}{
	StoryBudget:       100,
	MethodologyBudget: 50,
}

var SessionConfig = struct {
	DefaultTTL        time.Duration
	DefaultMaxEntries int
	KeyPrefix         string
}{
	DefaultTTL:        2 * time.Hour,
	DefaultMaxEntries: 4096,
	KeyPrefix:         "antiportfolio:session:",
}

var CircuitBreakerConfig = struct {
	FailureThreshold int
	ResetTimeout     time.Duration
	RateLimitTimeout time.Duration
}{
	FailureThreshold: 3,                // 연속 3회 실패 시 OPEN
	ResetTimeout:     30 * time.Second, // 기본 재시도 대기
	RateLimitTimeout: 10 * time.Minute, // 429 전용
}

var HTTPHeaders = struct {
	GeneratedBy     string
	SessionID       string
	FallbackMarker  string
	ExportFilename  string
	ContentTypeJSON string
}{
	GeneratedBy:     "X-Generated-By",
	SessionID:       "X-Session-ID",
	FallbackMarker:  "Procedural-Fallback",
	ExportFilename:  "dna.json",
	ContentTypeJSON: "application/json",
}
