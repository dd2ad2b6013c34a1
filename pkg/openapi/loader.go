package openapi

import (
	"context"
	"io"
	"io/fs"
	"net/http"
	"os"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/goliatone/go-formstate/pkg/definition"
)

// ErrHTTPDisabled is returned for URL sources when the loader has no HTTP
// client and fallback is off.
var ErrHTTPDisabled = errors.New("openapi: HTTP sources disabled")

// LoaderOptions configures how a Loader resolves sources. Loading is offline
// unless an HTTP client or the HTTP fallback is configured.
type LoaderOptions struct {
	// FileSystem backs SourceKindFS sources.
	FileSystem fs.FS

	// HTTPClient fetches URL sources.
	HTTPClient *http.Client

	// AllowHTTPFallback uses http.DefaultClient when HTTPClient is nil.
	AllowHTTPFallback bool

	// RequestTimeout caps remote fetch durations.
	RequestTimeout time.Duration
}

// LoaderOption mutates LoaderOptions prior to construction.
type LoaderOption func(*LoaderOptions)

// WithFileSystem injects an fs.FS implementation for SourceFromFS sources.
func WithFileSystem(files fs.FS) LoaderOption {
	return func(opts *LoaderOptions) {
		opts.FileSystem = files
	}
}

// WithHTTPClient injects a custom HTTP client for remote OpenAPI documents.
func WithHTTPClient(client *http.Client) LoaderOption {
	return func(opts *LoaderOptions) {
		opts.HTTPClient = client
	}
}

// WithHTTPFallback enables HTTP loading using http.DefaultClient and assigns an
// optional timeout.
func WithHTTPFallback(timeout time.Duration) LoaderOption {
	return func(opts *LoaderOptions) {
		opts.AllowHTTPFallback = true
		opts.RequestTimeout = timeout
	}
}

// Loader reads raw OpenAPI documents from a Source.
type Loader struct {
	opts LoaderOptions
}

// NewLoader applies options and returns a Loader.
func NewLoader(options ...LoaderOption) *Loader {
	cfg := LoaderOptions{}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}
	return &Loader{opts: cfg}
}

// Load returns the raw bytes of src.
func (l *Loader) Load(ctx context.Context, src Source) ([]byte, error) {
	if src == nil {
		return nil, errors.New("openapi: source is nil")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	switch src.Kind() {
	case SourceKindFile:
		raw, err := os.ReadFile(src.Location())
		if err != nil {
			return nil, errors.Wrapf(err, "openapi: read %s", src.Location())
		}
		return raw, nil
	case SourceKindFS:
		if l.opts.FileSystem == nil {
			return nil, errors.Newf("openapi: no filesystem configured for %s", src.Location())
		}
		raw, err := fs.ReadFile(l.opts.FileSystem, src.Location())
		if err != nil {
			return nil, errors.Wrapf(err, "openapi: read %s", src.Location())
		}
		return raw, nil
	case SourceKindURL:
		return l.fetch(ctx, src.Location())
	default:
		return nil, errors.Newf("openapi: unsupported source kind %q", src.Kind())
	}
}

func (l *Loader) fetch(ctx context.Context, location string) ([]byte, error) {
	client := l.opts.HTTPClient
	if client == nil {
		if !l.opts.AllowHTTPFallback {
			return nil, errors.Wrapf(ErrHTTPDisabled, "%s", location)
		}
		client = http.DefaultClient
	}
	if l.opts.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.opts.RequestTimeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "openapi: build request for %s", location)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "openapi: fetch %s", location)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errors.Newf("openapi: fetch %s: unexpected status %d", location, resp.StatusCode)
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrapf(err, "openapi: read body of %s", location)
	}
	return raw, nil
}

// LoadSource loads src and derives the form document for operationID.
func (l *Loader) LoadSource(ctx context.Context, src Source, operationID string) (definition.Document, error) {
	raw, err := l.Load(ctx, src)
	if err != nil {
		return definition.Document{}, err
	}
	return DocumentFromOperation(ctx, raw, operationID)
}
