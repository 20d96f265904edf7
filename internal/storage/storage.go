// Package storage owns uploaded bytes: backend-agnostic persistence, the
// per-collection namespace registry, and collision-free name derivation.
package storage

import (
	"context"
	"io"
)

// Storage persists asset bytes under slash-separated object names. The
// filesystem backend is the default; the MinIO backend serves the same
// interface for deployments that already run an object store.
type Storage interface {
	// Save writes the object, creating any intermediate directories, and
	// overwrites an existing object of the same name. Collision avoidance
	// is the Namer's job, not Save's.
	Save(ctx context.Context, name string, r io.Reader, size int64) error
	Open(ctx context.Context, name string) (io.ReadCloser, error)
	Delete(ctx context.Context, name string) error
	Exists(ctx context.Context, name string) (bool, error)
}
