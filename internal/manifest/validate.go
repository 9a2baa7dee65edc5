// Package manifest holds the structural contract shared by both generation
// paths and by imported dna.json files.
package manifest

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/kapu/anti-portfolio-go/internal/domain"
	"github.com/kapu/anti-portfolio-go/pkg/errors"
)

var (
	hexColorPattern = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)
	hslColorPattern = regexp.MustCompile(`^hsla?\(\s*-?\d+(?:\.\d+)?(?:deg)?\s*,\s*\d+(?:\.\d+)?%\s*,\s*\d+(?:\.\d+)?%\s*(?:,\s*(?:\d*\.?\d+%?)\s*)?\)$`)
)

// IsColor reports whether s is a hex (#rgb, #rrggbb) or hsl()/hsla() color.
func IsColor(s string) bool {
	s = strings.TrimSpace(s)
	return hexColorPattern.MatchString(s) || hslColorPattern.MatchString(strings.ToLower(s))
}

// Validate checks m against the manifest contract and returns a copy whose
// enum fields are canonicalized to their lowercase closed-set form. The first
// violation is returned as a *errors.ValidationError naming the field path.
func Validate(m domain.IdentityManifest) (domain.IdentityManifest, error) {
	v := &validator{}

	v.required("name", m.Name)
	v.required("hero.headline", m.Hero.Headline)
	v.required("hero.subheadline", m.Hero.Subheadline)
	v.required("about.story", m.About.Story)
	v.exactStrings("about.anti_traits", m.About.AntiTraits, domain.AntiTraitCount)

	if len(m.Projects) < domain.MinProjects {
		v.fail("projects", "at least one project is required", len(m.Projects))
	}
	for i, p := range m.Projects {
		path := fmt.Sprintf("projects[%d]", i)
		v.required(path+".title", p.Title)
		v.required(path+".description", p.Description)
		v.present(path+".tech_or_tools", p.TechOrTools)
	}

	v.required("methodology.name", m.Methodology.Name)
	if len(m.Methodology.Steps) != domain.MethodologyStepCount {
		v.fail("methodology.steps", fmt.Sprintf("exactly %d steps are required", domain.MethodologyStepCount), len(m.Methodology.Steps))
	}
	for i, step := range m.Methodology.Steps {
		path := fmt.Sprintf("methodology.steps[%d]", i)
		v.required(path+".title", step.Title)
		v.required(path+".description", step.Description)
	}

	v.required("failures.title", m.Failures.Title)
	if len(m.Failures.Stories) < domain.MinFailureStories {
		v.fail("failures.stories", "at least one failure story is required", len(m.Failures.Stories))
	}
	for i, story := range m.Failures.Stories {
		path := fmt.Sprintf("failures.stories[%d]", i)
		v.required(path+".failure", story.Failure)
		v.required(path+".lesson", story.Lesson)
	}

	v.present("personal_side.loves", m.PersonalSide.Loves)
	v.present("personal_side.hates", m.PersonalSide.Hates)

	dna, err := normalizeVisualDNA(m.VisualDNA)
	if err != nil && v.err == nil {
		v.err = err
	}

	if v.err != nil {
		return domain.IdentityManifest{}, v.err
	}

	m.VisualDNA = dna
	return m, nil
}

func normalizeVisualDNA(dna domain.VisualDNA) (domain.VisualDNA, error) {
	geometry, ok := domain.ParseGeometryType(string(dna.GeometryType))
	if !ok {
		return dna, enumError("visual_dna.geometry_type", string(dna.GeometryType), domain.EnumStrings(domain.GeometryTypes))
	}
	material, ok := domain.ParseMaterialType(string(dna.MaterialType))
	if !ok {
		return dna, enumError("visual_dna.material_type", string(dna.MaterialType), domain.EnumStrings(domain.MaterialTypes))
	}
	texture, ok := domain.ParseTextureStyle(string(dna.TextureStyle))
	if !ok {
		return dna, enumError("visual_dna.texture_style", string(dna.TextureStyle), domain.EnumStrings(domain.TextureStyles))
	}
	speed, ok := domain.ParseMovementSpeed(string(dna.MovementSpeed))
	if !ok {
		return dna, enumError("visual_dna.movement_speed", string(dna.MovementSpeed), domain.EnumStrings(domain.MovementSpeeds))
	}

	colors := domain.ColorTriad{
		Primary:   strings.TrimSpace(dna.Colors.Primary),
		Secondary: strings.TrimSpace(dna.Colors.Secondary),
		Bg:        strings.TrimSpace(dna.Colors.Bg),
	}
	for _, c := range []struct{ field, value string }{
		{"visual_dna.colors.primary", colors.Primary},
		{"visual_dna.colors.secondary", colors.Secondary},
		{"visual_dna.colors.bg", colors.Bg},
	} {
		if !IsColor(c.value) {
			return dna, errors.NewValidationError(c.field+" must be a hex or hsl color", c.field, c.value)
		}
	}

	return domain.VisualDNA{
		GeometryType:  geometry,
		MaterialType:  material,
		TextureStyle:  texture,
		MovementSpeed: speed,
		Colors:        colors,
	}, nil
}

func enumError(field, value string, allowed []string) error {
	return errors.NewValidationError(
		fmt.Sprintf("%s %q is not one of [%s]", field, value, strings.Join(allowed, ", ")),
		field, value,
	)
}

// validator records the first failure only.
type validator struct {
	err error
}

func (v *validator) fail(field, message string, value any) {
	if v.err != nil {
		return
	}
	v.err = errors.NewValidationError(field+": "+message, field, value)
}

func (v *validator) required(field, value string) {
	if strings.TrimSpace(value) == "" {
		v.fail(field, "is required", value)
	}
}

func (v *validator) present(field string, values []string) {
	if values == nil {
		v.fail(field, "is required", nil)
	}
}

func (v *validator) exactStrings(field string, values []string, n int) {
	if len(values) != n {
		v.fail(field, fmt.Sprintf("exactly %d entries are required", n), len(values))
		return
	}
	for i, value := range values {
		v.required(fmt.Sprintf("%s[%d]", field, i), value)
	}
}
