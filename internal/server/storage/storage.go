// Package storage abstracts where file content lives. The server writes
// uploads through a BlobStore and the worker reads originals and writes
// thumbnails through the same interface, so backends can be swapped without
// touching either.
package storage

import (
	"context"
	"io"
)

// BlobStore stores opaque blobs under string keys. Save picks a fresh
// unguessable key; SaveAt writes to a caller-chosen key (used for derived
// artifacts such as thumbnails, whose keys are a function of the original).
type BlobStore interface {
	Save(ctx context.Context, data []byte) (string, error)
	SaveAt(ctx context.Context, key string, data []byte) error

	// Open returns the content stored under key, or common.ErrNotFound.
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}
