package normalisers

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractKeywordsFrequencyOrder(t *testing.T) {
	text := strings.Repeat("alpha ", 5) + strings.Repeat("beta ", 3)

	keywords := ExtractKeywords(text)

	require.NotEmpty(t, keywords)
	assert.Equal(t, "alpha", keywords[0])
	assert.Equal(t, "beta", keywords[1])
}

func TestExtractKeywordsFirstSeenTieBreak(t *testing.T) {
	// Same frequency: first-seen order wins.
	keywords := ExtractKeywords("zebra apple zebra apple")

	require.Len(t, keywords, 2)
	assert.Equal(t, []string{"zebra", "apple"}, keywords)
}

func TestExtractKeywordsFiltersShortAndStopwords(t *testing.T) {
	keywords := ExtractKeywords("the and con per cat dog elephant elephant page document")

	assert.NotContains(t, keywords, "the")
	assert.NotContains(t, keywords, "con")
	assert.NotContains(t, keywords, "cat") // 3 chars, too short
	assert.NotContains(t, keywords, "dog")
	assert.NotContains(t, keywords, "page")
	assert.NotContains(t, keywords, "document")
	assert.Contains(t, keywords, "elephant")
}

func TestExtractKeywordsNoDuplicatesAndCapped(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 30; i++ {
		word := strings.Repeat(string(rune('a'+i%26)), 6)
		b.WriteString(word + " " + word + " ")
	}

	keywords := ExtractKeywords(b.String())

	assert.LessOrEqual(t, len(keywords), MaxKeywords)
	seen := map[string]bool{}
	for _, kw := range keywords {
		assert.False(t, seen[kw], "duplicate keyword %q", kw)
		assert.Greater(t, len(kw), 3)
		seen[kw] = true
	}
}

func TestExtractKeywordsLowercases(t *testing.T) {
	keywords := ExtractKeywords("OpenSearch OPENSEARCH opensearch")

	require.Len(t, keywords, 1)
	assert.Equal(t, "opensearch", keywords[0])
}

func TestSummariseShortTextUnchanged(t *testing.T) {
	assert.Equal(t, "A short text.", Summarise("A short text."))
}

func TestSummariseCutsAtSentenceBoundary(t *testing.T) {
	first := "First sentence ends here."
	text := first + " " + strings.Repeat("filler words without a period ", 30)

	summary := Summarise(text)

	assert.LessOrEqual(t, len([]rune(summary)), MaxSummaryChars)
	assert.True(t, strings.HasSuffix(summary, "."), "summary should end at a sentence boundary: %q", summary)
	assert.True(t, strings.HasPrefix(summary, first))
}

func TestSummariseNoSentenceBoundary(t *testing.T) {
	text := strings.Repeat("x", 1000)

	summary := Summarise(text)

	assert.LessOrEqual(t, len([]rune(summary)), MaxSummaryChars)
	assert.NotEmpty(t, summary)
}
