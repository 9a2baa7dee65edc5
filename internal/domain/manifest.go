package domain

// IdentityManifest is the complete content and style description of one
// generated anti-portfolio. It is the only input a renderer needs.
type IdentityManifest struct {
	Name         string             `json:"name"`
	Hero         HeroSection        `json:"hero"`
	About        AboutSection       `json:"about"`
	Projects     []Project          `json:"projects"`
	Methodology  MethodologySection `json:"methodology"`
	Failures     FailuresSection    `json:"failures"`
	PersonalSide PersonalSide       `json:"personal_side"`
	VisualDNA    VisualDNA          `json:"visual_dna"`
}

type HeroSection struct {
	Headline    string `json:"headline"`
	Subheadline string `json:"subheadline"`
}

type AboutSection struct {
	Story      string   `json:"story"`
	AntiTraits []string `json:"anti_traits"`
}

type Project struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Link        string   `json:"link"`
	TechOrTools []string `json:"tech_or_tools"`
}

type MethodologySection struct {
	Name  string            `json:"name"`
	Steps []MethodologyStep `json:"steps"`
}

type MethodologyStep struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type FailuresSection struct {
	Title   string         `json:"title"`
	Stories []FailureStory `json:"stories"`
}

type FailureStory struct {
	Failure string `json:"failure"`
	Lesson  string `json:"lesson"`
}

type PersonalSide struct {
	Loves []string `json:"loves"`
	Hates []string `json:"hates"`
}

// Manifest shape constraints.
const (
	AntiTraitCount       = 3
	MethodologyStepCount = 3
	MinProjects          = 1
	MinFailureStories    = 1
)
