package normalisers

import (
	"sort"
	"strings"
	"unicode"
)

const (
	// MaxKeywords caps the derived keyword list.
	MaxKeywords = 20

	// MaxSummaryChars caps the derived summary length.
	MaxSummaryChars = 500

	// minKeywordLength filters out short tokens; only words longer
	// than this survive.
	minKeywordLength = 3
)

// stopwords is a mixed Italian/English stop list, plus a few words
// that the extraction itself injects (page markers, format labels).
var stopwords = map[string]struct{}{}

func init() {
	for _, w := range []string{
		"il", "lo", "la", "i", "gli", "le", "un", "uno", "una",
		"di", "a", "da", "in", "con", "su", "per", "tra", "fra",
		"the", "an", "and", "or", "but", "on", "at", "to", "for",
		"of", "with", "by", "from", "is", "are", "was", "were", "be", "been",
		"e", "è", "che", "del", "della", "dei", "delle", "nel", "nella",
		"page", "document", "file", "text",
	} {
		stopwords[w] = struct{}{}
	}
}

// ExtractKeywords derives up to MaxKeywords lowercase tokens from text
// by frequency analysis: punctuation stripped, stop words and words of
// minKeywordLength or fewer runes removed, ranked by descending
// frequency with ties broken by first occurrence.
func ExtractKeywords(text string) []string {
	clean := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || unicode.IsSpace(r) {
			return r
		}
		return ' '
	}, strings.ToLower(text))

	freq := make(map[string]int)
	var order []string

	for _, word := range strings.Fields(clean) {
		if len([]rune(word)) <= minKeywordLength {
			continue
		}
		if _, stop := stopwords[word]; stop {
			continue
		}
		if _, seen := freq[word]; !seen {
			order = append(order, word)
		}
		freq[word]++
	}

	// Stable sort keeps first-seen order among equal frequencies.
	sort.SliceStable(order, func(i, j int) bool {
		return freq[order[i]] > freq[order[j]]
	})

	if len(order) > MaxKeywords {
		order = order[:MaxKeywords]
	}
	return order
}

// Summarise produces an excerpt of at most MaxSummaryChars runes,
// truncated at the last sentence boundary before the cutoff when one
// exists.
func Summarise(text string) string {
	runes := []rune(strings.TrimSpace(text))
	if len(runes) > MaxSummaryChars {
		runes = runes[:MaxSummaryChars]
	}
	summary := strings.TrimSpace(string(runes))

	if last := strings.LastIndex(summary, "."); last > 0 {
		summary = summary[:last+1]
	}
	return summary
}
