package search

import (
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// Engine names.
const (
	EngineElastic = "elastic"
	EngineSQL     = "sql"
)

// Defaults applied by Config.withDefaults.
const (
	DefaultElasticIndex = "phabricator"
	DefaultTimeout      = 15 * time.Second
)

// Config is the explicit configuration handed to a Selector. Only ElasticHost
// affects which engine is built.
type Config struct {
	// ElasticHost is the base URL of an Elasticsearch node. Empty selects the
	// local SQL engine.
	ElasticHost  string
	ElasticIndex string
	// DatabasePath is the SQLite file used by the SQL engine. Empty keeps the
	// index in memory.
	DatabasePath string
	Timeout      time.Duration
}

func (c Config) withDefaults() Config {
	if strings.TrimSpace(c.ElasticIndex) == "" {
		c.ElasticIndex = DefaultElasticIndex
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	return c
}

// Selector builds the Engine an application should use.
type Selector interface {
	NewEngine() Engine
}

// SelectorOption customises a DefaultSelector.
type SelectorOption func(*DefaultSelector)

// WithLogger sets the logger handed to constructed engines.
func WithLogger(logger *slog.Logger) SelectorOption {
	return func(s *DefaultSelector) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithHTTPClient sets the client used by the Elasticsearch engine.
func WithHTTPClient(client *http.Client) SelectorOption {
	return func(s *DefaultSelector) {
		s.client = client
	}
}

// DefaultSelector chooses between ElasticEngine and SQLEngine.
type DefaultSelector struct {
	config Config
	logger *slog.Logger
	client *http.Client
}

var _ Selector = (*DefaultSelector)(nil)

// NewDefaultSelector returns a selector bound to cfg.
func NewDefaultSelector(cfg Config, options ...SelectorOption) *DefaultSelector {
	s := &DefaultSelector{
		config: cfg.withDefaults(),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(s)
	}
	return s
}

// NewEngine returns an ElasticEngine for any non-empty host, passed through
// unchanged, otherwise a SQLEngine. Construction never touches the network or the filesystem.
func (s *DefaultSelector) NewEngine() Engine {
	if host := s.config.ElasticHost; host != "" {
		s.logger.Debug("search engine selected", slog.String("engine", EngineElastic), slog.String("host", host))
		return NewElasticEngine(host,
			WithIndex(s.config.ElasticIndex),
			WithClient(s.client),
			WithTimeout(s.config.Timeout),
			WithElasticLogger(s.logger),
		)
	}
	s.logger.Debug("search engine selected", slog.String("engine", EngineSQL))
	return NewSQLEngine(s.config.DatabasePath, WithSQLLogger(s.logger))
}

// NewEngine is a shorthand for NewDefaultSelector(cfg).NewEngine().
func NewEngine(cfg Config, options ...SelectorOption) Engine {
	return NewDefaultSelector(cfg, options...).NewEngine()
}
