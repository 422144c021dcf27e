package search

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formkit/pkg/phid"
)

type recordedRequest struct {
	Method string
	Path   string
	Body   map[string]any
}

func newElasticServer(t *testing.T, status int, response string) (*httptest.Server, *[]recordedRequest) {
	t.Helper()
	var (
		mu       sync.Mutex
		requests []recordedRequest
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		var body map[string]any
		_ = json.Unmarshal(raw, &body)
		mu.Lock()
		requests = append(requests, recordedRequest{Method: r.Method, Path: r.URL.Path, Body: body})
		mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, response)
	}))
	t.Cleanup(srv.Close)
	return srv, &requests
}

func TestElasticEngine_ReindexDocument(t *testing.T) {
	srv, requests := newElasticServer(t, http.StatusCreated, `{"result":"created"}`)
	engine := NewElasticEngine(srv.URL+"/", WithIndex("docs"), WithClient(srv.Client()))

	doc := seedDocuments()[0]
	if err := engine.ReindexDocument(context.Background(), doc); err != nil {
		t.Fatalf("reindex: %v", err)
	}

	if len(*requests) != 1 {
		t.Fatalf("expected one request, got %d", len(*requests))
	}
	req := (*requests)[0]
	if req.Method != http.MethodPut || req.Path != "/docs/_doc/"+commit1.String() {
		t.Fatalf("unexpected request %s %s", req.Method, req.Path)
	}
	if req.Body["title"] != doc.Title || req.Body["type"] != phid.TypeCommit || req.Body["author"] != author1.String() {
		t.Fatalf("unexpected body %+v", req.Body)
	}
}

func TestElasticEngine_ExecuteSearch(t *testing.T) {
	srv, requests := newElasticServer(t, http.StatusOK,
		`{"hits":{"hits":[{"_id":"`+task1.String()+`"},{"_id":"`+commit1.String()+`"}]}}`)
	engine := NewElasticEngine(srv.URL, WithClient(srv.Client()))

	got, err := engine.ExecuteSearch(context.Background(), Query{
		Text:    "auditors",
		Types:   []string{phid.TypeCommit},
		Authors: []phid.PHID{author1},
		Limit:   5,
		Offset:  10,
	})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if diff := cmp.Diff([]phid.PHID{task1, commit1}, got); diff != "" {
		t.Fatalf("results mismatch (-want +got):\n%s", diff)
	}

	req := (*requests)[0]
	if req.Method != http.MethodPost || req.Path != "/"+DefaultElasticIndex+"/_search" {
		t.Fatalf("unexpected request %s %s", req.Method, req.Path)
	}
	if req.Body["size"] != float64(5) || req.Body["from"] != float64(10) {
		t.Fatalf("paging not forwarded: %+v", req.Body)
	}
	encoded, _ := json.Marshal(req.Body["query"])
	for _, fragment := range []string{`"simple_query_string"`, `"auditors"`, `"type":["CMIT"]`, author1.String()} {
		if !strings.Contains(string(encoded), fragment) {
			t.Fatalf("query missing %s: %s", fragment, encoded)
		}
	}
}

func TestElasticEngine_MatchAllWithoutText(t *testing.T) {
	query := buildElasticQuery(Query{})
	encoded, _ := json.Marshal(query)
	if !strings.Contains(string(encoded), `"match_all"`) {
		t.Fatalf("expected match_all query: %s", encoded)
	}
	if strings.Contains(string(encoded), `"filter"`) {
		t.Fatalf("unexpected filter clause: %s", encoded)
	}
	if query["size"] != DefaultLimit {
		t.Fatalf("expected default limit, got %v", query["size"])
	}
}

func TestElasticEngine_StatusError(t *testing.T) {
	srv, _ := newElasticServer(t, http.StatusBadRequest, `{"error":"bad query"}`)
	engine := NewElasticEngine(srv.URL, WithClient(srv.Client()))

	_, err := engine.ExecuteSearch(context.Background(), Query{Text: "x"})
	if err == nil || !strings.Contains(err.Error(), "unexpected status 400") {
		t.Fatalf("expected status error, got %v", err)
	}
}

func TestElasticEngine_Closed(t *testing.T) {
	engine := NewElasticEngine("http://unused")
	_ = engine.Close()
	if _, err := engine.ExecuteSearch(context.Background(), Query{}); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
}
