package domain

// Origin identifies which path produced a manifest.
type Origin string

const (
	OriginModel    Origin = "model"
	OriginFallback Origin = "fallback"
)

// FallbackCause classifies why the model path was abandoned.
type FallbackCause string

const (
	CauseNone            FallbackCause = ""
	CauseNoCredential    FallbackCause = "no_credential"
	CauseCircuitOpen     FallbackCause = "circuit_open"
	CausePromptBuild     FallbackCause = "prompt_build"
	CauseModelCall       FallbackCause = "model_call"
	CauseTimeout         FallbackCause = "timeout"
	CauseMalformedJSON   FallbackCause = "malformed_json"
	CauseSchemaViolation FallbackCause = "schema_violation"
)

// Generation is the always-successful result of one generation request.
// Manifest is complete regardless of Origin; Cause and Err are only set when
// Origin is OriginFallback.
type Generation struct {
	Manifest IdentityManifest
	Origin   Origin
	Cause    FallbackCause
	Err      error
	Provider string
	Model    string
}

// UsedFallback reports whether the procedural generator produced the manifest.
func (g Generation) UsedFallback() bool {
	return g.Origin == OriginFallback
}
