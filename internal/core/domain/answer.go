package domain

// AnswerSource identifies one document an answer was built from.
type AnswerSource struct {
	Filename string  `json:"filename"`
	Type     string  `json:"type"`
	Score    float64 `json:"score"`
	Path     string  `json:"path"`
}

// SynthesizedAnswer is the structured response built from ranked
// search results, either by the rule engine or by a generative model.
type SynthesizedAnswer struct {
	// Answer is the prose answer text.
	Answer string `json:"answer"`

	// Confidence is in [0, 1]. Exactly 0 for an empty result set.
	Confidence float64 `json:"confidence"`

	// Sources are the top documents used, at most three.
	Sources []AnswerSource `json:"sources"`

	// Flow is an ordered list of suggested exploration steps.
	Flow []string `json:"flow"`

	// Suggestions are related-search hints, at most five.
	Suggestions []string `json:"suggestions"`
}

// QuestionType classifies a query by its interrogative marker.
type QuestionType string

const (
	QuestionHow     QuestionType = "how"
	QuestionWhat    QuestionType = "what"
	QuestionWhere   QuestionType = "where"
	QuestionWhy     QuestionType = "why"
	QuestionWhen    QuestionType = "when"
	QuestionGeneral QuestionType = "general"
)
