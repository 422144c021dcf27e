package search

import (
	"context"
	"errors"
	"time"

	"github.com/goliatone/go-formkit/pkg/phid"
)

// ErrClosed is returned by engines used after Close.
var ErrClosed = errors.New("search: engine closed")

// DefaultLimit caps result sets when a Query leaves Limit unset.
const DefaultLimit = 100

// Engine indexes documents and answers full-text queries.
type Engine interface {
	// Name identifies the implementation, e.g. "elastic" or "sql".
	Name() string
	// ReindexDocument inserts or replaces doc.
	ReindexDocument(ctx context.Context, doc Document) error
	// ExecuteSearch returns matching document PHIDs, most recent first.
	ExecuteSearch(ctx context.Context, query Query) ([]phid.PHID, error)
	Close() error
}

// Document is the abstract representation of an object handed to an engine.
type Document struct {
	PHID     phid.PHID
	Type     string
	Title    string
	Body     string
	Author   phid.PHID
	Created  time.Time
	Modified time.Time
}

// Query describes a full-text search.
type Query struct {
	Text    string
	Types   []string
	Authors []phid.PHID
	Limit   int
	Offset  int
}

func (q Query) limit() int {
	if q.Limit <= 0 {
		return DefaultLimit
	}
	return q.Limit
}

func (q Query) offset() int {
	if q.Offset < 0 {
		return 0
	}
	return q.Offset
}

func documentType(doc Document) string {
	if doc.Type != "" {
		return doc.Type
	}
	return doc.PHID.Type()
}
