package schema

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"time"
)

// maxRemoteDocument caps the size of documents fetched over HTTP.
const maxRemoteDocument = 8 << 20

// LoaderOptions configures Load.
type LoaderOptions struct {
	// FileSystem serves fs sources. Required for SourceKindFS.
	FileSystem fs.FS
	// HTTPClient fetches URL sources. URL sources are rejected when nil,
	// keeping loading offline unless a client is supplied.
	HTTPClient *http.Client
	// RequestTimeout caps remote fetch durations.
	RequestTimeout time.Duration
}

// LoaderOption mutates LoaderOptions.
type LoaderOption func(*LoaderOptions)

// WithFileSystem resolves fs sources against files.
func WithFileSystem(files fs.FS) LoaderOption {
	return func(opts *LoaderOptions) { opts.FileSystem = files }
}

// WithHTTPClient enables URL sources.
func WithHTTPClient(client *http.Client) LoaderOption {
	return func(opts *LoaderOptions) { opts.HTTPClient = client }
}

// WithRequestTimeout caps remote fetches.
func WithRequestTimeout(timeout time.Duration) LoaderOption {
	return func(opts *LoaderOptions) { opts.RequestTimeout = timeout }
}

// Load reads the raw document identified by src.
func Load(ctx context.Context, src Source, options ...LoaderOption) (Document, error) {
	if err := ctx.Err(); err != nil {
		return Document{}, err
	}
	if src == nil {
		return Document{}, errors.New("schema: source is required")
	}
	var opts LoaderOptions
	for _, opt := range options {
		if opt != nil {
			opt(&opts)
		}
	}

	var (
		raw []byte
		err error
	)
	switch src.Kind() {
	case SourceKindFile:
		raw, err = os.ReadFile(src.Location())
	case SourceKindFS:
		if opts.FileSystem == nil {
			return Document{}, errors.New("schema: fs source requires WithFileSystem")
		}
		raw, err = fs.ReadFile(opts.FileSystem, src.Location())
	case SourceKindURL:
		raw, err = fetch(ctx, src.Location(), opts)
	default:
		return Document{}, fmt.Errorf("schema: unsupported source kind %q", src.Kind())
	}
	if err != nil {
		return Document{}, fmt.Errorf("schema: load %s: %w", src.Location(), err)
	}
	return NewDocument(src, raw)
}

// LoadSourceOperation loads src and extracts operationID.
func LoadSourceOperation(ctx context.Context, src Source, operationID string, options ...LoaderOption) (Operation, error) {
	doc, err := Load(ctx, src, options...)
	if err != nil {
		return Operation{}, err
	}
	return LoadOperation(ctx, doc.Raw(), operationID)
}

func fetch(ctx context.Context, url string, opts LoaderOptions) ([]byte, error) {
	if opts.HTTPClient == nil {
		return nil, errors.New("remote sources disabled; use WithHTTPClient")
	}
	if opts.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.RequestTimeout)
		defer cancel()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := opts.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxRemoteDocument))
}
