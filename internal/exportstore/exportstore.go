// Package exportstore persists generated report artifacts. Artifacts are
// derived views: losing them loses nothing, they can always be rebuilt
// from the transaction store.
package exportstore

import (
	"context"
	"io"
)

type ExportStore interface {
	// Save writes an artifact under key, overwriting any previous
	// artifact with the same key, and returns the storage key.
	Save(ctx context.Context, key, contentType string, r io.Reader) (string, error)
	Get(ctx context.Context, key string) (io.ReadCloser, string, error)
	Delete(ctx context.Context, key string) error
}
