package manifest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportImportRoundTrip(t *testing.T) {
	original, err := Validate(sampleManifest())
	require.NoError(t, err)

	data, err := Export(original)
	require.NoError(t, err)

	restored, err := Import(data)
	require.NoError(t, err)
	assert.Equal(t, original, restored)

	again, err := Export(restored)
	require.NoError(t, err)
	assert.Equal(t, string(data), string(again))
}

func TestExportUsesTwoSpaceIndent(t *testing.T) {
	data, err := Export(sampleManifest())
	require.NoError(t, err)

	text := string(data)
	assert.True(t, strings.HasPrefix(text, "{\n  \"name\": \"Ada Vex\","), text[:40])
	assert.True(t, strings.HasSuffix(text, "}\n"))
	assert.Contains(t, text, "\"visual_dna\": {")
	assert.Contains(t, text, "\"anti_traits\": [")
}

func TestImportRejectsNonObject(t *testing.T) {
	_, err := Import([]byte(`[1,2,3]`))
	requireValidationField(t, err, "$")

	_, err = Import([]byte(`   `))
	requireValidationField(t, err, "$")
}

func TestImportRejectsBrokenJSON(t *testing.T) {
	_, err := Import([]byte(`{"name": "x",`))
	requireValidationField(t, err, "$")
}

func TestImportRejectsMissingSections(t *testing.T) {
	_, err := Import([]byte(`{"name": "Ada"}`))
	requireValidationField(t, err, "hero.headline")
}
