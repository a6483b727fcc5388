package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dspeziale/docsearch/internal/core/domain"
)

func sampleResults() []domain.SearchResult {
	return []domain.SearchResult{
		{
			Filename:  "guida_opensearch.pdf",
			Type:      "PDF Document",
			Score:     15.5,
			Summary:   "Guida completa all'installazione di OpenSearch.",
			Keywords:  []string{"opensearch", "installazione", "configurazione"},
			Highlight: "OpenSearch è un motore di ricerca distribuito",
			FilePath:  "/docs/guida_opensearch.pdf",
		},
		{
			Filename: "tutorial_python.md",
			Type:     "Markdown Document",
			Score:    12.3,
			Summary:  "Tutorial per lavorare con OpenSearch.",
			Keywords: []string{"python", "opensearch", "api"},
		},
		{
			Filename: "note.txt",
			Type:     "Text Document",
			Score:    8.0,
			Keywords: []string{"opensearch", "cluster"},
		},
	}
}

func TestSynthesizeZeroResults(t *testing.T) {
	a := NewRuleAnswerer()

	answer := a.Synthesize(context.Background(), "nonexistent topic", nil)

	assert.Equal(t, 0.0, answer.Confidence)
	assert.Empty(t, answer.Sources)
	assert.Empty(t, answer.Flow)
	assert.Len(t, answer.Suggestions, 3)
	assert.Contains(t, answer.Answer, "nonexistent topic")
}

func TestSynthesizeConfidenceBounds(t *testing.T) {
	a := NewRuleAnswerer()

	cases := []struct {
		name    string
		results []domain.SearchResult
	}{
		{"single low score", []domain.SearchResult{{Filename: "a", Score: 0.5}}},
		{"single high score", []domain.SearchResult{{Filename: "a", Score: 100}}},
		{"three results", sampleResults()},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			answer := a.Synthesize(context.Background(), "query", tc.results)
			assert.GreaterOrEqual(t, answer.Confidence, 0.0)
			assert.LessOrEqual(t, answer.Confidence, 1.0)
		})
	}
}

func TestSynthesizeConfidenceFormula(t *testing.T) {
	a := NewRuleAnswerer()

	// One result: 10/20 = 0.5, no boost.
	one := a.Synthesize(context.Background(), "q", []domain.SearchResult{{Filename: "a", Score: 10}})
	assert.Equal(t, 0.5, one.Confidence)

	// Three results boost by 1.2: 10/20*1.2 = 0.6.
	three := a.Synthesize(context.Background(), "q", []domain.SearchResult{
		{Filename: "a", Score: 10}, {Filename: "b", Score: 5}, {Filename: "c", Score: 1},
	})
	assert.Equal(t, 0.6, three.Confidence)
}

func TestSynthesizeAnswerBody(t *testing.T) {
	a := NewRuleAnswerer()

	answer := a.Synthesize(context.Background(), "come installare opensearch", sampleResults())

	assert.Contains(t, answer.Answer, "come installare opensearch")
	assert.Contains(t, answer.Answer, "guida_opensearch.pdf")
	assert.Contains(t, answer.Answer, "motore di ricerca distribuito")
	assert.Contains(t, answer.Answer, "installazione")
}

func TestSynthesizeSourcesTopThree(t *testing.T) {
	a := NewRuleAnswerer()
	results := sampleResults()
	results = append(results, domain.SearchResult{Filename: "extra.txt", Type: "Text Document", Score: 1})

	answer := a.Synthesize(context.Background(), "q", results)

	require.Len(t, answer.Sources, 3)
	assert.Equal(t, "guida_opensearch.pdf", answer.Sources[0].Filename)
	assert.Equal(t, 15.5, answer.Sources[0].Score)
	assert.Equal(t, "/docs/guida_opensearch.pdf", answer.Sources[0].Path)
}

func TestSynthesizeFlowSteps(t *testing.T) {
	a := NewRuleAnswerer()

	answer := a.Synthesize(context.Background(), "q", sampleResults())

	require.NotEmpty(t, answer.Flow)
	assert.Contains(t, answer.Flow[0], "guida_opensearch.pdf")
	// Three document types are present, so the types step exists.
	last := answer.Flow[len(answer.Flow)-1]
	assert.Contains(t, last, "PDF Document")
	assert.LessOrEqual(t, len(answer.Flow), 4)
}

func TestSynthesizeFlowSingleResult(t *testing.T) {
	a := NewRuleAnswerer()

	answer := a.Synthesize(context.Background(), "q", []domain.SearchResult{
		{Filename: "only.txt", Type: "Text Document", Score: 5},
	})

	// No related-documents, keywords, or types steps to emit.
	require.Len(t, answer.Flow, 1)
	assert.Contains(t, answer.Flow[0], "only.txt")
}

func TestSuggestionsExcludeQueryTerms(t *testing.T) {
	a := NewRuleAnswerer()

	answer := a.Synthesize(context.Background(), "opensearch setup", sampleResults())

	for _, s := range answer.Suggestions {
		assert.NotContains(t, s, "opensearch", "suggestion %q repeats a query term", s)
	}
	assert.LessOrEqual(t, len(answer.Suggestions), 5)
}

func TestSuggestionsPoolStopsAtThirdKeyword(t *testing.T) {
	a := NewRuleAnswerer()
	// Ranked: alpha(3), beta(2), gamma(2), delta(1). The query excludes
	// alpha; delta must not be promoted into the freed slot.
	results := []domain.SearchResult{
		{Filename: "a.txt", Type: "Text Document", Score: 9, Keywords: []string{"alpha", "beta", "gamma"}},
		{Filename: "b.txt", Type: "Text Document", Score: 8, Keywords: []string{"alpha", "beta", "delta"}},
		{Filename: "c.txt", Type: "Text Document", Score: 7, Keywords: []string{"alpha", "gamma"}},
	}

	answer := a.Synthesize(context.Background(), "alpha guide", results)

	assert.Contains(t, answer.Suggestions, "Also search: beta")
	assert.Contains(t, answer.Suggestions, "Also search: gamma")
	assert.NotContains(t, answer.Suggestions, "Also search: delta")
	assert.NotContains(t, answer.Suggestions, "Also search: alpha")
}

func TestDetectQuestionType(t *testing.T) {
	cases := []struct {
		query string
		want  domain.QuestionType
	}{
		{"come installare opensearch", domain.QuestionHow},
		{"how to configure the index", domain.QuestionHow},
		{"cosa contiene il report", domain.QuestionWhat},
		{"what is stored here", domain.QuestionWhat},
		{"dove si trova il manuale", domain.QuestionWhere},
		{"perché fallisce la ricerca", domain.QuestionWhy},
		{"when was this indexed", domain.QuestionWhen},
		{"fattura marzo", domain.QuestionGeneral},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, detectQuestionType(tc.query), "query %q", tc.query)
	}
}
