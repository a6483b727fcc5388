package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/dspeziale/docsearch/internal/core/domain"
	"github.com/dspeziale/docsearch/internal/core/ports/driven"
	"github.com/dspeziale/docsearch/internal/logger"
)

// Ensure GenerativeAnswerer implements the interface.
var _ driven.AnswerStrategy = (*GenerativeAnswerer)(nil)

// generativeConfidence is the fixed confidence reported for a
// successful generative answer; the model gives no usable score.
const generativeConfidence = 0.85

const answerSystemPrompt = "You are an expert assistant for document search."

// GenerativeAnswerer asks a completion backend to write the answer
// from the top results. Every failure of the backend, transport,
// auth, quota, malformed output, silently falls back to the rule
// engine; the caller never sees a generative error.
type GenerativeAnswerer struct {
	completion driven.CompletionService
	fallback   *RuleAnswerer
}

// NewGenerativeAnswerer creates the generative answer strategy.
func NewGenerativeAnswerer(completion driven.CompletionService) *GenerativeAnswerer {
	return &GenerativeAnswerer{
		completion: completion,
		fallback:   NewRuleAnswerer(),
	}
}

// Synthesize builds a structured answer via the completion backend,
// falling back to the rule engine on any failure.
func (a *GenerativeAnswerer) Synthesize(ctx context.Context, query string, results []domain.SearchResult) *domain.SynthesizedAnswer {
	if len(results) == 0 {
		return a.fallback.Synthesize(ctx, query, results)
	}

	text, err := a.completion.Complete(ctx, answerSystemPrompt, buildPrompt(query, results), driven.CompletionOptions{
		MaxTokens:   800,
		Temperature: 0.7,
	})
	if err != nil || strings.TrimSpace(text) == "" {
		logger.Warn("Generative answer failed (%v), falling back to rule engine", err)
		return a.fallback.Synthesize(ctx, query, results)
	}

	answer, flow, suggestions := parseCompletion(text)

	return &domain.SynthesizedAnswer{
		Answer:      answer,
		Confidence:  generativeConfidence,
		Sources:     extractSources(results),
		Flow:        flow,
		Suggestions: suggestions,
	}
}

// buildPrompt assembles the retrieval context and requests the three
// labeled sections the parser expects.
func buildPrompt(query string, results []domain.SearchResult) string {
	var b strings.Builder

	b.WriteString("You are an intelligent assistant for document search.\n")
	b.WriteString("You have access to these relevant documents:\n")
	for i, r := range results[:min(3, len(results))] {
		fmt.Fprintf(&b, "\n--- Document %d: %s ---\n", i+1, r.Filename)
		if r.Highlight != "" {
			b.WriteString(r.Highlight)
		} else if r.Summary != "" {
			b.WriteString(r.Summary)
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "\nUser question: %s\n", query)
	b.WriteString(`
Provide a complete response that:
1. Answers the question directly
2. Cites the specific documents used
3. Suggests a flow to go deeper into the topic
4. Proposes useful related searches

Response format:
ANSWER: [your detailed answer]
FLOW: [step1 -> step2 -> step3]
SUGGESTIONS: [suggestion1, suggestion2, suggestion3]
`)
	return b.String()
}

// parseCompletion scans the completion line by line for the section
// headers and buckets the lines that follow each one. The headers are
// matched case-insensitively in both English and Italian because
// models routinely answer in the language of the retrieved documents.
// A missing flow section yields one default step; missing suggestions
// yield none.
func parseCompletion(text string) (answer string, flow, suggestions []string) {
	answerLines := []string{}
	flow = []string{}
	suggestions = []string{}

	section := "answer"
	for _, line := range strings.Split(text, "\n") {
		upper := strings.ToUpper(strings.TrimSpace(line))

		switch {
		case strings.Contains(upper, "FLUSSO:") || strings.Contains(upper, "FLOW:"):
			section = "flow"
			continue
		case strings.Contains(upper, "SUGGERIMENT") || strings.Contains(upper, "SUGGESTION"):
			section = "suggestions"
			continue
		case strings.Contains(upper, "RISPOSTA:") || strings.Contains(upper, "ANSWER:"):
			section = "answer"
			continue
		}

		switch section {
		case "answer":
			answerLines = append(answerLines, line)
		case "flow":
			if trimmed := strings.TrimSpace(line); trimmed != "" {
				flow = append(flow, trimmed)
			}
		case "suggestions":
			if trimmed := strings.TrimSpace(line); trimmed != "" {
				suggestions = append(suggestions, trimmed)
			}
		}
	}

	answer = strings.TrimSpace(strings.Join(answerLines, "\n"))
	if len(flow) == 0 {
		flow = []string{"Consult the retrieved documents"}
	}
	if len(suggestions) > maxSuggestions {
		suggestions = suggestions[:maxSuggestions]
	}
	return answer, flow, suggestions
}
