package prompt

import (
	"fmt"
	"strings"

	"github.com/kapu/anti-portfolio-go/internal/domain"
)

const (
	notAvailable   = "N/A"
	finalDirective = "Generate the JSON now."
)

// enumData feeds the closed sets into the instruction and schema templates so
// the prompt can never advertise a value the validator rejects.
type enumData struct {
	Geometries     []string
	Materials      []string
	Textures       []string
	Speeds         []string
	FallbackShape  string
	ForbiddenFence string
}

type contextData struct {
	Fields []domain.QuestionnaireField
}

func newEnumData() enumData {
	return enumData{
		Geometries:     domain.EnumStrings(domain.GeometryTypes),
		Materials:      domain.EnumStrings(domain.MaterialTypes),
		Textures:       domain.EnumStrings(domain.TextureStyles),
		Speeds:         domain.EnumStrings(domain.MovementSpeeds),
		FallbackShape:  string(domain.GeometryIcosahedron),
		ForbiddenFence: "```json",
	}
}

// BuildManifestPrompt assembles instruction, user context and the required
// JSON structure into the single prompt sent to the model.
func (pb *PromptBuilder) BuildManifestPrompt(input domain.QuestionnaireInput) (string, error) {
	enums := newEnumData()

	instruction, err := pb.Render(TemplateManifestInstruction, enums)
	if err != nil {
		return "", err
	}

	fields := input.Fields()
	for i := range fields {
		if strings.TrimSpace(fields[i].Value) == "" {
			fields[i].Value = notAvailable
		}
	}
	userContext, err := pb.Render(TemplateManifestContext, contextData{Fields: fields})
	if err != nil {
		return "", err
	}

	schema, err := pb.Render(TemplateManifestSchema, enums)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%s\n\n%s\n\n%s\n\n%s", instruction, userContext, schema, finalDirective), nil
}

// BuildManifestPrompt renders with the shared default builder.
func BuildManifestPrompt(input domain.QuestionnaireInput) (string, error) {
	return DefaultPromptBuilder().BuildManifestPrompt(input)
}
