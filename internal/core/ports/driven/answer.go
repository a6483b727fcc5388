package driven

import (
	"context"

	"github.com/dspeziale/docsearch/internal/core/domain"
)

// AnswerStrategy turns ranked search results into a structured answer.
// Two interchangeable implementations exist: a deterministic rule
// engine and a generative one that wraps its failures into a fallback
// call to the rule engine. Selection happens at wiring time.
type AnswerStrategy interface {
	Synthesize(ctx context.Context, query string, results []domain.SearchResult) *domain.SynthesizedAnswer
}
