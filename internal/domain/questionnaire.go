package domain

import "strings"

// QuestionnaireInput is the flat answer set submitted by the form wizard.
// Only FullName is required; every other field may be blank.
type QuestionnaireInput struct {
	FullName      string `json:"fullName"`
	Tagline       string `json:"tagline,omitempty"`
	CVContext     string `json:"cvContext,omitempty"`
	HatedTrends   string `json:"hatedTrends,omitempty"`
	Interests     string `json:"interests,omitempty"`
	Superpower    string `json:"superpower,omitempty"`
	Projects      string `json:"projects,omitempty"`
	Methodology   string `json:"methodology,omitempty"`
	MajorFailure  string `json:"majorFailure,omitempty"`
	LessonLearned string `json:"lessonLearned,omitempty"`
}

// FieldFullName is the wire name of the only required field.
const FieldFullName = "fullName"

// Fields returns the input as an ordered list of (label, value) pairs, in the
// order they are presented to the model.
func (q QuestionnaireInput) Fields() []QuestionnaireField {
	return []QuestionnaireField{
		{Label: "Name", Value: q.FullName},
		{Label: "Tagline/Vibe", Value: q.Tagline},
		{Label: "Superpower", Value: q.Superpower},
		{Label: "Interests", Value: q.Interests},
		{Label: "Hated Trends", Value: q.HatedTrends},
		{Label: "Bio/Context", Value: q.CVContext},
		{Label: "Raw Projects Data", Value: q.Projects},
		{Label: "Major Failure", Value: q.MajorFailure},
		{Label: "Lesson Learned", Value: q.LessonLearned},
		{Label: "Methodology", Value: q.Methodology},
	}
}

// HasName reports whether the required name field carries any text.
func (q QuestionnaireInput) HasName() bool {
	return strings.TrimSpace(q.FullName) != ""
}

// QuestionnaireField is a labelled answer used when rendering prompts.
type QuestionnaireField struct {
	Label string
	Value string
}
