package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"github.com/goliatone/go-formkit/pkg/phid"
)

// ElasticOption customises an ElasticEngine.
type ElasticOption func(*ElasticEngine)

// WithIndex overrides the index name.
func WithIndex(index string) ElasticOption {
	return func(e *ElasticEngine) {
		if trimmed := strings.TrimSpace(index); trimmed != "" {
			e.index = trimmed
		}
	}
}

// WithClient injects the HTTP client. nil keeps the default.
func WithClient(client *http.Client) ElasticOption {
	return func(e *ElasticEngine) {
		if client != nil {
			e.client = client
		}
	}
}

// WithTimeout bounds every request issued by the engine.
func WithTimeout(timeout time.Duration) ElasticOption {
	return func(e *ElasticEngine) {
		if timeout > 0 {
			e.timeout = timeout
		}
	}
}

// WithElasticLogger sets the engine logger.
func WithElasticLogger(logger *slog.Logger) ElasticOption {
	return func(e *ElasticEngine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// ElasticEngine stores documents in an Elasticsearch index.
type ElasticEngine struct {
	host    string
	index   string
	client  *http.Client
	timeout time.Duration
	logger  *slog.Logger
	closed  atomic.Bool
}

var _ Engine = (*ElasticEngine)(nil)

// NewElasticEngine returns an engine for host, e.g. "http://localhost:9200".
func NewElasticEngine(host string, options ...ElasticOption) *ElasticEngine {
	e := &ElasticEngine{
		host:    host,
		index:   DefaultElasticIndex,
		client:  http.DefaultClient,
		timeout: DefaultTimeout,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(e)
	}
	return e
}

func (e *ElasticEngine) Name() string { return EngineElastic }

// Host returns the configured host exactly as given.
func (e *ElasticEngine) Host() string { return e.host }

// Index returns the index name documents are written to.
func (e *ElasticEngine) Index() string { return e.index }

type elasticDocument struct {
	PHID         string `json:"phid"`
	Type         string `json:"type"`
	Title        string `json:"title"`
	Body         string `json:"body,omitempty"`
	Author       string `json:"author,omitempty"`
	DateCreated  int64  `json:"dateCreated"`
	DateModified int64  `json:"dateModified"`
}

func (e *ElasticEngine) ReindexDocument(ctx context.Context, doc Document) error {
	if e.closed.Load() {
		return ErrClosed
	}
	if doc.PHID == "" {
		return fmt.Errorf("search/elastic: document phid is required")
	}

	payload := elasticDocument{
		PHID:         doc.PHID.String(),
		Type:         documentType(doc),
		Title:        doc.Title,
		Body:         doc.Body,
		Author:       doc.Author.String(),
		DateCreated:  unix(doc.Created),
		DateModified: unix(doc.Modified),
	}

	endpoint := e.endpoint(e.index, "_doc", url.PathEscape(doc.PHID.String()))
	if err := e.do(ctx, http.MethodPut, endpoint, payload, nil); err != nil {
		return fmt.Errorf("search/elastic: reindex %s: %w", doc.PHID, err)
	}
	e.logger.Debug("document reindexed", slog.String("engine", EngineElastic), slog.String("phid", doc.PHID.String()))
	return nil
}

type elasticSearchResponse struct {
	Hits struct {
		Hits []struct {
			ID string `json:"_id"`
		} `json:"hits"`
	} `json:"hits"`
}

func (e *ElasticEngine) ExecuteSearch(ctx context.Context, query Query) ([]phid.PHID, error) {
	if e.closed.Load() {
		return nil, ErrClosed
	}

	var out elasticSearchResponse
	if err := e.do(ctx, http.MethodPost, e.endpoint(e.index, "_search"), buildElasticQuery(query), &out); err != nil {
		return nil, fmt.Errorf("search/elastic: execute: %w", err)
	}

	results := make([]phid.PHID, 0, len(out.Hits.Hits))
	for _, hit := range out.Hits.Hits {
		if hit.ID == "" {
			continue
		}
		results = append(results, phid.PHID(hit.ID))
	}
	return results, nil
}

func (e *ElasticEngine) Close() error {
	e.closed.Store(true)
	return nil
}

func buildElasticQuery(query Query) map[string]any {
	var must []any
	if text := strings.TrimSpace(query.Text); text != "" {
		must = append(must, map[string]any{
			"simple_query_string": map[string]any{
				"query":            text,
				"fields":           []string{"title^2", "body"},
				"default_operator": "and",
			},
		})
	} else {
		must = append(must, map[string]any{"match_all": map[string]any{}})
	}

	var filter []any
	if len(query.Types) > 0 {
		filter = append(filter, map[string]any{"terms": map[string]any{"type": query.Types}})
	}
	if len(query.Authors) > 0 {
		authors := make([]string, 0, len(query.Authors))
		for _, author := range query.Authors {
			authors = append(authors, author.String())
		}
		filter = append(filter, map[string]any{"terms": map[string]any{"author": authors}})
	}

	boolQuery := map[string]any{"must": must}
	if len(filter) > 0 {
		boolQuery["filter"] = filter
	}

	return map[string]any{
		"query":   map[string]any{"bool": boolQuery},
		"sort":    []any{map[string]any{"dateCreated": map[string]any{"order": "desc"}}},
		"from":    query.offset(),
		"size":    query.limit(),
		"_source": false,
	}
}

func (e *ElasticEngine) endpoint(segments ...string) string {
	return strings.TrimRight(e.host, "/") + "/" + strings.Join(segments, "/")
}

func (e *ElasticEngine) do(ctx context.Context, method, endpoint string, body, out any) error {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func unix(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.Unix()
}
