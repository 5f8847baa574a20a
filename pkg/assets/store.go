package assets

import (
	"context"
	"io"
	"mime"
	"path"
	"strings"
	"time"

	"github.com/vango-dev/connect/internal/errors"
)

// Asset is an open asset. The caller must close Body.
type Asset struct {
	Name        string
	ContentType string
	Size        int64
	ModTime     time.Time
	Body        io.ReadCloser
}

// Store opens assets by name.
type Store interface {
	// Open returns the named asset. A missing asset is an E300 error.
	Open(ctx context.Context, name string) (*Asset, error)

	// List returns the names of all assets in the store, sorted.
	List(ctx context.Context) ([]string, error)
}

// ValidName reports whether name is a flat asset name: not empty, no path
// separators, no leading dot.
func ValidName(name string) bool {
	if name == "" || strings.HasPrefix(name, ".") {
		return false
	}
	return !strings.ContainsAny(name, `/\`)
}

func checkName(name string) error {
	if !ValidName(name) {
		return errors.New("E300").WithDetailf("invalid asset name %q", name)
	}
	return nil
}

func notFound(name string) error {
	return errors.New("E300").WithDetailf("asset %q", name)
}

// contentType guesses the content type from the extension.
func contentType(name string) string {
	if t := mime.TypeByExtension(path.Ext(name)); t != "" {
		return t
	}
	return "application/octet-stream"
}

// Resolver builds the URLs the page uses for assets.
type Resolver struct {
	prefix string
}

// NewResolver creates a Resolver for assets served under prefix
// (e.g., "/assets/").
func NewResolver(prefix string) *Resolver {
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return &Resolver{prefix: prefix}
}

// URL returns the URL of the named asset.
func (r *Resolver) URL(name string) string {
	return r.prefix + name
}
