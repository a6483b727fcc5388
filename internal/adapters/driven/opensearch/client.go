// Package opensearch implements the DocumentIndex port against an
// OpenSearch cluster: index schema ownership, the document write path,
// query planning with highlight fallback, aggregations, and mapping
// migration.
package opensearch

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	opensearchclient "github.com/opensearch-project/opensearch-go/v2"
	"github.com/opensearch-project/opensearch-go/v2/opensearchapi"

	"github.com/dspeziale/docsearch/internal/core/domain"
	"github.com/dspeziale/docsearch/internal/core/ports/driven"
	"github.com/dspeziale/docsearch/internal/logger"
)

// Ensure Index implements the interface.
var _ driven.DocumentIndex = (*Index)(nil)

// Default configuration values.
const (
	DefaultIndexName = "documents"
	DefaultTimeout   = 30 * time.Second
)

// Config holds the connection settings for the cluster.
type Config struct {
	// Host and Port locate the cluster (default localhost:9200).
	Host string
	Port int

	// Username and Password are the basic-auth credentials.
	Username string
	Password string

	// UseSSL enables https. InsecureSkipVerify disables certificate
	// verification, for self-signed development clusters.
	UseSSL             bool
	InsecureSkipVerify bool

	// IndexName overrides the default index name.
	IndexName string

	// Timeout bounds every backend call.
	Timeout time.Duration
}

// Index is the OpenSearch-backed document index. It holds the single
// pooled connection handle; all per-request state is passed in.
type Index struct {
	client  *opensearchclient.Client
	name    string
	timeout time.Duration
}

// New creates an Index from the given configuration. The connection
// is not validated here; call Ping to verify reachability.
func New(cfg Config) (*Index, error) {
	if cfg.Host == "" {
		cfg.Host = "localhost"
	}
	if cfg.Port == 0 {
		cfg.Port = 9200
	}
	if cfg.IndexName == "" {
		cfg.IndexName = DefaultIndexName
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	scheme := "http"
	if cfg.UseSSL {
		scheme = "https"
	}

	client, err := opensearchclient.NewClient(opensearchclient.Config{
		Addresses: []string{fmt.Sprintf("%s://%s:%d", scheme, cfg.Host, cfg.Port)},
		Username:  cfg.Username,
		Password:  cfg.Password,
		Transport: &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: cfg.InsecureSkipVerify},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrBackendUnavailable, err)
	}

	return &Index{client: client, name: cfg.IndexName, timeout: cfg.Timeout}, nil
}

// Ping verifies the cluster is reachable with the configured
// credentials.
func (i *Index) Ping(ctx context.Context) error {
	ctx, cancel := i.withTimeout(ctx)
	defer cancel()

	res, err := opensearchapi.InfoRequest{}.Do(ctx, i.client)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrBackendUnavailable, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("%w: %s", domain.ErrBackendUnavailable, res.Status())
	}
	logger.Debug("Connected to OpenSearch at index %q", i.name)
	return nil
}

// withTimeout applies the configured per-call timeout.
func (i *Index) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, i.timeout)
}

// classifyResponse turns an error response into a domain error,
// preserving the backend's message. The highlighting analysis limit
// is recognised specifically so the query planner can retry with a
// reduced highlight scope.
func classifyResponse(res *opensearchapi.Response) error {
	body, _ := io.ReadAll(res.Body)
	msg := string(body)

	if strings.Contains(msg, "max_analyzed_offset") {
		return fmt.Errorf("%w: %s", domain.ErrHighlightTooLarge, res.Status())
	}
	return fmt.Errorf("%w: %s: %s", domain.ErrQueryFailure, res.Status(), truncate(msg, 300))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
