package opensearch

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestIndex points an Index at a stub backend.
func newTestIndex(t *testing.T, handler http.HandlerFunc) *Index {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	u, err := url.Parse(server.URL)
	require.NoError(t, err)
	port, err := strconv.Atoi(u.Port())
	require.NoError(t, err)

	idx, err := New(Config{Host: u.Hostname(), Port: port})
	require.NoError(t, err)
	return idx
}

const hitsBody = `{
	"hits": {
		"total": {"value": 1},
		"hits": [{
			"_id": "doc-1",
			"_score": 4.2,
			"_source": {"filename": "big.pdf", "type": "PDF Document", "summary": "a large manual"},
			"highlight": {"summary": ["a <mark>large</mark> manual"]}
		}]
	}
}`

func TestSearchRetriesWithoutContentHighlight(t *testing.T) {
	var requests []string

	idx := newTestIndex(t, func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/_search") {
			w.WriteHeader(http.StatusOK)
			return
		}
		body, _ := io.ReadAll(r.Body)
		requests = append(requests, string(body))

		w.Header().Set("Content-Type", "application/json")
		if strings.Contains(string(body), `"content":`) {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"error":{"reason":"exceeded max_analyzed_offset"}}`))
			return
		}
		w.Write([]byte(hitsBody))
	})

	page, err := idx.Search(context.Background(), "large manual", 10, nil)

	require.NoError(t, err)
	require.Len(t, requests, 2, "expected one failing request and one fallback retry")
	assert.Contains(t, requests[0], `"content":`)
	assert.NotContains(t, requests[1], `"content":`)

	require.Len(t, page.Results, 1)
	assert.Equal(t, "doc-1", page.Results[0].ID)
	assert.Equal(t, "a <mark>large</mark> manual", page.Results[0].Highlight)
}

func TestSearchSuccessNoRetry(t *testing.T) {
	calls := 0
	idx := newTestIndex(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(hitsBody))
	})

	page, err := idx.Search(context.Background(), "manual", 10, nil)

	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, page.Total)
	assert.Equal(t, 4.2, page.Results[0].Score)
}

func TestSearchGenericErrorNotRetried(t *testing.T) {
	calls := 0
	idx := newTestIndex(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"shard failure"}`))
	})

	_, err := idx.Search(context.Background(), "manual", 10, nil)

	require.Error(t, err)
	assert.Equal(t, 1, calls)
}
