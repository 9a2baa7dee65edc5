package manifest

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/kapu/anti-portfolio-go/internal/domain"
	"github.com/kapu/anti-portfolio-go/pkg/errors"
)

// Export serializes m as the standalone dna.json document: two-space
// indented JSON with a trailing newline.
func Export(m domain.IdentityManifest) ([]byte, error) {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal manifest: %w", err)
	}
	return append(data, '\n'), nil
}

// Import parses and validates an externally supplied dna.json document.
func Import(data []byte) (domain.IdentityManifest, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return domain.IdentityManifest{}, errors.NewValidationError("manifest must be a JSON object", "$", nil)
	}

	var m domain.IdentityManifest
	if err := json.Unmarshal(trimmed, &m); err != nil {
		verr := errors.NewValidationError("manifest is not valid JSON", "$", nil)
		verr.Cause = err
		return domain.IdentityManifest{}, verr
	}
	return Validate(m)
}
