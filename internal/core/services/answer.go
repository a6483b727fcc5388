package services

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/dspeziale/docsearch/internal/core/domain"
	"github.com/dspeziale/docsearch/internal/core/ports/driven"
)

// Ensure RuleAnswerer implements the interface.
var _ driven.AnswerStrategy = (*RuleAnswerer)(nil)

// confidenceDivisor normalises the top relevance score into [0, 1].
// 20 is an assumed typical top-score ceiling for the boosted
// multi-field scoring scheme; it is a tunable, not a universal truth.
const confidenceDivisor = 20.0

// maxSuggestions bounds the related-search hints.
const maxSuggestions = 5

// RuleAnswerer is the deterministic answer strategy. It builds a
// templated prose answer, an exploration flow, and related-search
// suggestions from the ranked results alone, with no external calls.
type RuleAnswerer struct{}

// NewRuleAnswerer creates the rule-based answer strategy.
func NewRuleAnswerer() *RuleAnswerer {
	return &RuleAnswerer{}
}

// Synthesize builds a structured answer from the ranked results.
func (a *RuleAnswerer) Synthesize(_ context.Context, query string, results []domain.SearchResult) *domain.SynthesizedAnswer {
	if len(results) == 0 {
		return noResultsAnswer(query)
	}

	questionType := detectQuestionType(query)

	var b strings.Builder
	switch questionType {
	case domain.QuestionHow:
		fmt.Fprintf(&b, "Regarding '%s', I found %d relevant documents.", query, len(results))
	case domain.QuestionWhat:
		fmt.Fprintf(&b, "About '%s', here is what I found:", query)
	case domain.QuestionWhere:
		fmt.Fprintf(&b, "The answer to '%s' can be found in these documents:", query)
	default:
		fmt.Fprintf(&b, "I found %d documents that may answer your question.", len(results))
	}

	top := results[0]
	fmt.Fprintf(&b, "\n\nMain document: %s", top.Filename)
	if top.Highlight != "" {
		fmt.Fprintf(&b, "\n%s", top.Highlight)
	} else if top.Summary != "" {
		fmt.Fprintf(&b, "\n%s...", truncateRunes(top.Summary, 300))
	}
	if len(top.Keywords) > 0 {
		n := len(top.Keywords)
		if n > 5 {
			n = 5
		}
		fmt.Fprintf(&b, "\n\nKey concepts: %s", strings.Join(top.Keywords[:n], ", "))
	}

	return &domain.SynthesizedAnswer{
		Answer:      b.String(),
		Confidence:  calculateConfidence(results),
		Sources:     extractSources(results),
		Flow:        explorationFlow(results),
		Suggestions: buildSuggestions(query, results),
	}
}

// noResultsAnswer is the fixed-shape empty-result response: zero
// confidence, no sources, and three generic reformulation hints.
func noResultsAnswer(query string) *domain.SynthesizedAnswer {
	return &domain.SynthesizedAnswer{
		Answer:     fmt.Sprintf("No documents found for '%s'.\n\nTry rephrasing the search or using different terms.", query),
		Confidence: 0.0,
		Sources:    []domain.AnswerSource{},
		Flow:       []string{},
		Suggestions: []string{
			"Try searching with more generic terms",
			fmt.Sprintf("Check the spelling of '%s'", query),
			"Search single keywords instead of full sentences",
		},
	}
}

// detectQuestionType classifies the query by its interrogative marker.
// The word lists are bilingual (Italian and English) because the
// corpus is. Classification only picks the opening template.
func detectQuestionType(query string) domain.QuestionType {
	q := strings.ToLower(query)

	contains := func(words ...string) bool {
		for _, w := range words {
			if strings.Contains(q, w) {
				return true
			}
		}
		return false
	}

	switch {
	case contains("come", "how"):
		return domain.QuestionHow
	case contains("cosa", "che cosa", "what"):
		return domain.QuestionWhat
	case contains("dove", "where"):
		return domain.QuestionWhere
	case contains("perché", "why"):
		return domain.QuestionWhy
	case contains("quando", "when"):
		return domain.QuestionWhen
	default:
		return domain.QuestionGeneral
	}
}

// explorationFlow builds at most four reading steps. A step with no
// content is omitted, never emitted empty.
func explorationFlow(results []domain.SearchResult) []string {
	flow := []string{}
	if len(results) == 0 {
		return flow
	}

	flow = append(flow, fmt.Sprintf("1. Start with: %s", results[0].Filename))

	if len(results) > 1 {
		related := make([]string, 0, 2)
		for _, r := range results[1:min(3, len(results))] {
			related = append(related, r.Filename)
		}
		flow = append(flow, fmt.Sprintf("2. Go deeper with: %s", strings.Join(related, ", ")))
	}

	topKeywords := rankedKeywords(results, 3, 3)
	if len(topKeywords) > 0 {
		flow = append(flow, fmt.Sprintf("3. Explore the concepts: %s", strings.Join(topKeywords, ", ")))
	}

	types := []string{}
	seen := map[string]struct{}{}
	for _, r := range results {
		if _, dup := seen[r.Type]; dup {
			continue
		}
		seen[r.Type] = struct{}{}
		types = append(types, r.Type)
	}
	if len(types) > 1 {
		flow = append(flow, fmt.Sprintf("4. Also consult: %s", strings.Join(types, ", ")))
	}

	return flow
}

// buildSuggestions proposes related searches: the three most frequent
// keywords across the top five results, minus any already part of the
// query, plus a filter hint per document type appearing more than
// once. Capped at five in total. Keywords ranked below third never
// surface, even when an exclusion leaves room.
func buildSuggestions(query string, results []domain.SearchResult) []string {
	suggestions := []string{}
	lowerQuery := strings.ToLower(query)

	for _, kw := range rankedKeywords(results, 5, 3) {
		if strings.Contains(lowerQuery, strings.ToLower(kw)) {
			continue
		}
		suggestions = append(suggestions, "Also search: "+kw)
	}

	typeCounts := map[string]int{}
	typeOrder := []string{}
	for _, r := range results {
		if typeCounts[r.Type] == 0 {
			typeOrder = append(typeOrder, r.Type)
		}
		typeCounts[r.Type]++
	}
	for _, t := range typeOrder {
		if typeCounts[t] > 1 {
			suggestions = append(suggestions, "Filter by: "+t)
		}
	}

	if len(suggestions) > maxSuggestions {
		suggestions = suggestions[:maxSuggestions]
	}
	return suggestions
}

// rankedKeywords collects the keywords of the top docCount results and
// returns up to limit of them ordered by frequency descending with
// first-seen tie-break.
func rankedKeywords(results []domain.SearchResult, docCount, limit int) []string {
	freq := map[string]int{}
	order := []string{}
	for _, r := range results[:min(docCount, len(results))] {
		for _, kw := range r.Keywords {
			if freq[kw] == 0 {
				order = append(order, kw)
			}
			freq[kw]++
		}
	}

	sort.SliceStable(order, func(i, j int) bool {
		return freq[order[i]] > freq[order[j]]
	})

	if len(order) > limit {
		order = order[:limit]
	}
	return order
}

// extractSources keeps the top three results as answer sources.
func extractSources(results []domain.SearchResult) []domain.AnswerSource {
	sources := make([]domain.AnswerSource, 0, 3)
	for _, r := range results[:min(3, len(results))] {
		sources = append(sources, domain.AnswerSource{
			Filename: r.Filename,
			Type:     r.Type,
			Score:    round2(r.Score),
			Path:     r.FilePath,
		})
	}
	return sources
}

// calculateConfidence normalises the top score and boosts it when the
// result set is broad enough to corroborate it.
func calculateConfidence(results []domain.SearchResult) float64 {
	if len(results) == 0 {
		return 0.0
	}

	confidence := math.Min(results[0].Score/confidenceDivisor, 1.0)
	if len(results) >= 3 {
		confidence = math.Min(confidence*1.2, 1.0)
	}
	return round2(confidence)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
