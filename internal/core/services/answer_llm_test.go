package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dspeziale/docsearch/internal/core/ports/driven"
)

// mockCompletion implements driven.CompletionService for testing.
type mockCompletion struct {
	response   string
	err        error
	lastPrompt string
}

func (m *mockCompletion) Complete(_ context.Context, _, prompt string, _ driven.CompletionOptions) (string, error) {
	m.lastPrompt = prompt
	return m.response, m.err
}

func (m *mockCompletion) ModelName() string { return "mock" }

func TestGenerativeAnswerParsesSections(t *testing.T) {
	completion := &mockCompletion{response: `ANSWER:
Install OpenSearch by downloading the release bundle.
FLOW:
1. Read guida_opensearch.pdf
2. Try the tutorial
SUGGESTIONS:
configuration guide
cluster setup`}

	a := NewGenerativeAnswerer(completion)
	answer := a.Synthesize(context.Background(), "come installare opensearch", sampleResults())

	assert.Contains(t, answer.Answer, "downloading the release bundle")
	assert.Equal(t, []string{"1. Read guida_opensearch.pdf", "2. Try the tutorial"}, answer.Flow)
	assert.Equal(t, []string{"configuration guide", "cluster setup"}, answer.Suggestions)
	assert.Equal(t, 0.85, answer.Confidence)
	require.Len(t, answer.Sources, 3)
}

func TestGenerativeAnswerItalianSections(t *testing.T) {
	completion := &mockCompletion{response: `RISPOSTA:
Per installare OpenSearch scarica il pacchetto.
FLUSSO:
1. Leggi la guida
SUGGERIMENTI:
guida configurazione`}

	a := NewGenerativeAnswerer(completion)
	answer := a.Synthesize(context.Background(), "come installare", sampleResults())

	assert.Contains(t, answer.Answer, "scarica il pacchetto")
	assert.Equal(t, []string{"1. Leggi la guida"}, answer.Flow)
	assert.Equal(t, []string{"guida configurazione"}, answer.Suggestions)
}

func TestGenerativeAnswerMissingSectionsDefaults(t *testing.T) {
	completion := &mockCompletion{response: "Just a plain answer with no sections."}

	a := NewGenerativeAnswerer(completion)
	answer := a.Synthesize(context.Background(), "query", sampleResults())

	assert.Equal(t, "Just a plain answer with no sections.", answer.Answer)
	assert.Equal(t, []string{"Consult the retrieved documents"}, answer.Flow)
	assert.Empty(t, answer.Suggestions)
}

func TestGenerativeAnswerFallsBackOnError(t *testing.T) {
	completion := &mockCompletion{err: errors.New("quota exceeded")}

	a := NewGenerativeAnswerer(completion)
	answer := a.Synthesize(context.Background(), "come installare opensearch", sampleResults())

	// The rule-based shape, not a surfaced error.
	assert.Contains(t, answer.Answer, "guida_opensearch.pdf")
	assert.NotEqual(t, 0.85, answer.Confidence)
}

func TestGenerativeAnswerFallsBackOnEmptyResponse(t *testing.T) {
	completion := &mockCompletion{response: "   \n"}

	a := NewGenerativeAnswerer(completion)
	answer := a.Synthesize(context.Background(), "query", sampleResults())

	assert.NotEmpty(t, answer.Answer)
}

func TestGenerativeAnswerZeroResultsUsesRuleEngine(t *testing.T) {
	completion := &mockCompletion{response: "should never be called"}

	a := NewGenerativeAnswerer(completion)
	answer := a.Synthesize(context.Background(), "nothing", nil)

	assert.Equal(t, 0.0, answer.Confidence)
	assert.Len(t, answer.Suggestions, 3)
	assert.Empty(t, completion.lastPrompt)
}

func TestBuildPromptIncludesTopResults(t *testing.T) {
	completion := &mockCompletion{response: "ANSWER:\nok"}

	a := NewGenerativeAnswerer(completion)
	a.Synthesize(context.Background(), "come installare opensearch", sampleResults())

	assert.Contains(t, completion.lastPrompt, "guida_opensearch.pdf")
	assert.Contains(t, completion.lastPrompt, "come installare opensearch")
	assert.Contains(t, completion.lastPrompt, "ANSWER:")
}
