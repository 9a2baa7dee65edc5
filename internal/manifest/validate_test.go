package manifest

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kapu/anti-portfolio-go/internal/domain"
	"github.com/kapu/anti-portfolio-go/pkg/errors"
)

func sampleManifest() domain.IdentityManifest {
	return domain.IdentityManifest{
		Name: "Ada Vex",
		Hero: domain.HeroSection{Headline: "No decks. Only damage.", Subheadline: "Systems that refuse to die."},
		About: domain.AboutSection{
			Story:      "Ada builds backends nobody notices until they are gone.",
			AntiTraits: []string{"Anti-Hype", "Anti-Agile", "Unfiltered"},
		},
		Projects: []domain.Project{
			{Title: "Ledger", Description: "A queue that outlived its company.", Link: "", TechOrTools: []string{"Go", "Postgres"}},
		},
		Methodology: domain.MethodologySection{
			Name: "The Autopsy",
			Steps: []domain.MethodologyStep{
				{Title: "Break", Description: "Find the seam."},
				{Title: "Read", Description: "Read every log."},
				{Title: "Cut", Description: "Delete half."},
			},
		},
		Failures: domain.FailuresSection{
			Title:   "Failures & Lessons",
			Stories: []domain.FailureStory{{Failure: "Shipped on a Friday.", Lesson: "Fridays are for reading."}},
		},
		PersonalSide: domain.PersonalSide{Loves: []string{"Silence"}, Hates: []string{"Standups"}},
		VisualDNA: domain.VisualDNA{
			GeometryType:  "Cluster",
			MaterialType:  "METAL",
			TextureStyle:  " rough ",
			MovementSpeed: "fast",
			Colors:        domain.ColorTriad{Primary: "#ffaa00", Secondary: "hsl(303, 80%, 60%)", Bg: "#120024"},
		},
	}
}

func requireValidationField(t *testing.T, err error, field string) {
	t.Helper()
	require.Error(t, err)
	var verr *errors.ValidationError
	require.True(t, stderrors.As(err, &verr), "expected ValidationError, got %T", err)
	assert.Equal(t, field, verr.Field)
}

func TestValidateNormalizesEnumCase(t *testing.T) {
	got, err := Validate(sampleManifest())
	require.NoError(t, err)

	assert.Equal(t, domain.GeometryCluster, got.VisualDNA.GeometryType)
	assert.Equal(t, domain.MaterialMetal, got.VisualDNA.MaterialType)
	assert.Equal(t, domain.TextureRough, got.VisualDNA.TextureStyle)
	assert.Equal(t, domain.SpeedFast, got.VisualDNA.MovementSpeed)
	assert.Equal(t, "Ada Vex", got.Name)
}

func TestValidateRejectsOutOfSetEnums(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(m *domain.IdentityManifest)
		field  string
	}{
		{"geometry knot", func(m *domain.IdentityManifest) { m.VisualDNA.GeometryType = "knot" }, "visual_dna.geometry_type"},
		{"geometry dodecahedron", func(m *domain.IdentityManifest) { m.VisualDNA.GeometryType = "dodecahedron" }, "visual_dna.geometry_type"},
		{"material", func(m *domain.IdentityManifest) { m.VisualDNA.MaterialType = "velvet" }, "visual_dna.material_type"},
		{"texture", func(m *domain.IdentityManifest) { m.VisualDNA.TextureStyle = "" }, "visual_dna.texture_style"},
		{"speed", func(m *domain.IdentityManifest) { m.VisualDNA.MovementSpeed = "ludicrous" }, "visual_dna.movement_speed"},
		{"primary color", func(m *domain.IdentityManifest) { m.VisualDNA.Colors.Primary = "purple" }, "visual_dna.colors.primary"},
		{"bg color", func(m *domain.IdentityManifest) { m.VisualDNA.Colors.Bg = "#12345" }, "visual_dna.colors.bg"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m := sampleManifest()
			tc.mutate(&m)
			_, err := Validate(m)
			requireValidationField(t, err, tc.field)
		})
	}
}

func TestValidateRejectsShapeViolations(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(m *domain.IdentityManifest)
		field  string
	}{
		{"missing name", func(m *domain.IdentityManifest) { m.Name = " " }, "name"},
		{"missing headline", func(m *domain.IdentityManifest) { m.Hero.Headline = "" }, "hero.headline"},
		{"two anti traits", func(m *domain.IdentityManifest) { m.About.AntiTraits = m.About.AntiTraits[:2] }, "about.anti_traits"},
		{"blank anti trait", func(m *domain.IdentityManifest) { m.About.AntiTraits[1] = "" }, "about.anti_traits[1]"},
		{"no projects", func(m *domain.IdentityManifest) { m.Projects = nil }, "projects"},
		{"null tools", func(m *domain.IdentityManifest) { m.Projects[0].TechOrTools = nil }, "projects[0].tech_or_tools"},
		{"four steps", func(m *domain.IdentityManifest) {
			m.Methodology.Steps = append(m.Methodology.Steps, domain.MethodologyStep{Title: "x", Description: "y"})
		}, "methodology.steps"},
		{"no stories", func(m *domain.IdentityManifest) { m.Failures.Stories = []domain.FailureStory{} }, "failures.stories"},
		{"blank lesson", func(m *domain.IdentityManifest) { m.Failures.Stories[0].Lesson = "" }, "failures.stories[0].lesson"},
		{"null loves", func(m *domain.IdentityManifest) { m.PersonalSide.Loves = nil }, "personal_side.loves"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m := sampleManifest()
			tc.mutate(&m)
			_, err := Validate(m)
			requireValidationField(t, err, tc.field)
		})
	}
}

func TestValidateAllowsEmptyProjectLink(t *testing.T) {
	m := sampleManifest()
	m.Projects[0].Link = ""
	_, err := Validate(m)
	assert.NoError(t, err)
}

func TestIsColor(t *testing.T) {
	valid := []string{"#fff", "#FFAA00", "hsl(123, 70%, 50%)", "HSL(0,0%,0%)", "hsla(200, 100%, 50%, 0.5)", "hsl(12.5deg, 10%, 10%)"}
	for _, c := range valid {
		assert.True(t, IsColor(c), c)
	}

	invalid := []string{"", "red", "#ggg", "#12345", "rgb(1,2,3)", "hsl(1, 2, 3)"}
	for _, c := range invalid {
		assert.False(t, IsColor(c), c)
	}
}
