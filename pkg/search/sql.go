package search

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	_ "modernc.org/sqlite" // pure Go driver registered as "sqlite"

	"github.com/goliatone/go-formkit/pkg/phid"
)

const sqlSchema = `
CREATE TABLE IF NOT EXISTS search_document (
	phid     TEXT PRIMARY KEY,
	type     TEXT NOT NULL,
	title    TEXT NOT NULL,
	body     TEXT NOT NULL DEFAULT '',
	author   TEXT NOT NULL DEFAULT '',
	created  INTEGER NOT NULL DEFAULT 0,
	modified INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS search_document_type ON search_document(type, created);
CREATE VIRTUAL TABLE IF NOT EXISTS search_document_fts USING fts5(
	phid UNINDEXED,
	title,
	body
);`

// SQLOption customises a SQLEngine.
type SQLOption func(*SQLEngine)

// WithSQLLogger sets the engine logger.
func WithSQLLogger(logger *slog.Logger) SQLOption {
	return func(e *SQLEngine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// SQLEngine keeps documents in SQLite and answers queries through FTS5. The
// database is opened on first use.
type SQLEngine struct {
	path   string
	logger *slog.Logger

	// open is replaceable in tests.
	open func(path string) (*sql.DB, error)

	mu     sync.Mutex
	db     *sql.DB
	closed bool
}

var _ Engine = (*SQLEngine)(nil)

// NewSQLEngine returns an engine backed by the SQLite file at path. An empty
// path keeps everything in memory.
func NewSQLEngine(path string, options ...SQLOption) *SQLEngine {
	e := &SQLEngine{
		path:   strings.TrimSpace(path),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		open:   openSQLite,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(e)
	}
	return e
}

func (e *SQLEngine) Name() string { return EngineSQL }

// Path returns the database path, "" for in-memory engines.
func (e *SQLEngine) Path() string { return e.path }

func (e *SQLEngine) ReindexDocument(ctx context.Context, doc Document) error {
	if doc.PHID == "" {
		return fmt.Errorf("search/sql: document phid is required")
	}
	db, err := e.conn()
	if err != nil {
		return err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("search/sql: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	id := doc.PHID.String()
	if _, err := tx.ExecContext(ctx, `INSERT OR REPLACE INTO search_document
		(phid, type, title, body, author, created, modified) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, documentType(doc), doc.Title, doc.Body, doc.Author.String(), unix(doc.Created), unix(doc.Modified),
	); err != nil {
		return fmt.Errorf("search/sql: upsert %s: %w", id, err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM search_document_fts WHERE phid = ?`, id); err != nil {
		return fmt.Errorf("search/sql: clear fts %s: %w", id, err)
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO search_document_fts (phid, title, body) VALUES (?, ?, ?)`,
		id, doc.Title, doc.Body,
	); err != nil {
		return fmt.Errorf("search/sql: index fts %s: %w", id, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("search/sql: commit: %w", err)
	}

	e.logger.Debug("document reindexed", slog.String("engine", EngineSQL), slog.String("phid", id))
	return nil
}

func (e *SQLEngine) ExecuteSearch(ctx context.Context, query Query) ([]phid.PHID, error) {
	db, err := e.conn()
	if err != nil {
		return nil, err
	}

	var (
		clauses []string
		args    []any
		from    = "search_document d"
	)
	if match := ftsMatch(query.Text); match != "" {
		from += " JOIN search_document_fts f ON f.phid = d.phid"
		clauses = append(clauses, "f.search_document_fts MATCH ?")
		args = append(args, match)
	}
	if len(query.Types) > 0 {
		clauses = append(clauses, "d.type IN ("+placeholders(len(query.Types))+")")
		for _, t := range query.Types {
			args = append(args, t)
		}
	}
	if len(query.Authors) > 0 {
		clauses = append(clauses, "d.author IN ("+placeholders(len(query.Authors))+")")
		for _, a := range query.Authors {
			args = append(args, a.String())
		}
	}

	stmt := "SELECT d.phid FROM " + from
	if len(clauses) > 0 {
		stmt += " WHERE " + strings.Join(clauses, " AND ")
	}
	stmt += " ORDER BY d.created DESC, d.phid ASC LIMIT ? OFFSET ?"
	args = append(args, query.limit(), query.offset())

	rows, err := db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("search/sql: query: %w", err)
	}
	defer rows.Close()

	var results []phid.PHID
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("search/sql: scan: %w", err)
		}
		results = append(results, phid.PHID(id))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("search/sql: rows: %w", err)
	}
	return results, nil
}

func (e *SQLEngine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return nil
	}
	e.closed = true
	if e.db == nil {
		return nil
	}
	return e.db.Close()
}

func (e *SQLEngine) conn() (*sql.DB, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return nil, ErrClosed
	}
	if e.db != nil {
		return e.db, nil
	}

	// failures are not cached; the next call retries the open
	db, err := e.open(e.path)
	if err != nil {
		e.logger.Error("search database unavailable", slog.String("path", e.path), slog.String("error", err.Error()))
		return nil, err
	}
	e.db = db
	return db, nil
}

func openSQLite(path string) (*sql.DB, error) {
	dsn := ":memory:"
	if path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("search/sql: create directory: %w", err)
		}
		dsn = path
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("search/sql: open: %w", err)
	}
	// a single connection keeps in-memory databases shared and serialises writes
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pragmas := []string{"PRAGMA busy_timeout = 5000"}
	if path != "" {
		pragmas = append(pragmas, "PRAGMA journal_mode = WAL", "PRAGMA synchronous = NORMAL")
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("search/sql: %s: %w", pragma, err)
		}
	}
	if _, err := db.Exec(sqlSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("search/sql: schema: %w", err)
	}
	return db, nil
}

// ftsMatch turns free text into an FTS5 query where every term must match.
// Terms are quoted so operators in user input are treated literally.
func ftsMatch(text string) string {
	terms := strings.Fields(text)
	if len(terms) == 0 {
		return ""
	}
	quoted := make([]string, 0, len(terms))
	for _, term := range terms {
		quoted = append(quoted, `"`+strings.ReplaceAll(term, `"`, `""`)+`"`)
	}
	return strings.Join(quoted, " ")
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}
