package repository

import (
	"context"
	"errors"
)

// ErrSnapshotNotFound is returned by Load when nothing is stored under a key.
var ErrSnapshotNotFound = errors.New("snapshot not found")

// SnapshotRepository stores opaque JSON documents by key. The register keeps
// its inventory, sales ledger and UI preferences here.
type SnapshotRepository interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, data []byte) error
}
