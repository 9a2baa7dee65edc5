// Package fallback derives a complete manifest from questionnaire answers
// without any external call. Visual selections come from a hash of the
// answers; copy is templated directly from the fields.
package fallback

import (
	"fmt"
	"strings"

	"github.com/kapu/anti-portfolio-go/internal/constants"
	"github.com/kapu/anti-portfolio-go/internal/domain"
	"github.com/kapu/anti-portfolio-go/internal/util"
)

const (
	defaultName        = "The Operator"
	defaultLesson      = "Process is a crutch for the unimaginative."
	defaultFailure     = "Trusted the process too much."
	defaultInterests   = "instinct"
	defaultProjectBody = "A curated selection of defining projects."
)

// Generate never fails: every field has a textual default, so an input with
// only a name (or nothing at all) still yields a complete manifest.
func Generate(input domain.QuestionnaireInput) domain.IdentityManifest {
	blob := TextBlob(input)
	seed := Seed(blob)

	name := defaultName
	if input.HasName() {
		name = input.FullName
	}
	tagline := strings.TrimSpace(input.Tagline)
	cv := strings.TrimSpace(input.CVContext)
	hated := strings.TrimSpace(input.HatedTrends)
	interests := strings.TrimSpace(input.Interests)
	superpower := strings.TrimSpace(input.Superpower)
	projects := strings.TrimSpace(input.Projects)
	methodology := strings.TrimSpace(input.Methodology)

	return domain.IdentityManifest{
		Name: name,
		Hero: domain.HeroSection{
			Headline:    util.Coalesce(tagline, name+"'s Anti-Portfolio"),
			Subheadline: subheadline(superpower, hated, interests),
		},
		About: domain.AboutSection{
			Story:      story(name, cv, interests),
			AntiTraits: antiTraits(interests, hated),
		},
		Projects: []domain.Project{
			{
				Title:       "Selected Work",
				Description: util.Coalesce(projects, defaultProjectBody),
				Link:        ExtractLink(blob),
				TechOrTools: []string{"Concept", "Execution", "Impact"},
			},
		},
		Methodology: domain.MethodologySection{
			Name: "The Process",
			Steps: []domain.MethodologyStep{
				{Title: "Input", Description: methodologyInput(methodology)},
				{Title: "Synthesis", Description: "Distill the signal from the noise."},
				{Title: "Output", Description: "Render the truth."},
			},
		},
		Failures: domain.FailuresSection{
			Title: "Retrospective",
			Stories: []domain.FailureStory{
				{
					Failure: util.Coalesce(input.MajorFailure, defaultFailure),
					Lesson:  util.Coalesce(input.LessonLearned, defaultLesson),
				},
			},
		},
		PersonalSide: domain.PersonalSide{
			Loves: []string{util.Coalesce(interests, "Typography")},
			Hates: []string{util.Coalesce(hated, "Comic Sans")},
		},
		VisualDNA: VisualDNAForSeed(seed),
	}
}

func subheadline(superpower, hated, interests string) string {
	if superpower == "" {
		return fmt.Sprintf("Operating at the edge of %s.", util.Coalesce(interests, "the unknown"))
	}
	return fmt.Sprintf("Built on %s. Allergic to %s.", superpower, util.Coalesce(util.FirstWord(hated), "mediocrity"))
}

func story(name, cv, interests string) string {
	if cv != "" {
		return fmt.Sprintf("%s has a simple philosophy: %s", name, util.Excerpt(cv, constants.FallbackCopy.StoryBudget))
	}
	return fmt.Sprintf("%s refuses to fit in the box. Driven by %s, this is a rejection of the standard path.",
		name, util.Coalesce(interests, defaultInterests))
}

func antiTraits(interests, hated string) []string {
	first := util.Coalesce(util.FirstWord(interests), "Visionary")
	second := "No-Compromise"
	if word := util.FirstWord(hated); word != "" {
		second = "Anti-" + word
	}
	return []string{first, second, "Unfiltered"}
}

func methodologyInput(methodology string) string {
	if methodology == "" {
		return "Absorb the raw data."
	}
	return util.Excerpt(methodology, constants.FallbackCopy.MethodologyBudget)
}
