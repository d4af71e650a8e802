package repository

import (
	"bytes"
	"context"
	"sync"

	"github.com/sangkips/stall-pos/internal/domain/repository"
)

// MemorySnapshotRepository keeps snapshots in process memory. State is lost
// on restart.
type MemorySnapshotRepository struct {
	mu    sync.RWMutex
	data  map[string][]byte
	saves int
	// FailSaves makes every Save return this error when set.
	FailSaves error
}

// NewMemorySnapshotRepository creates an empty in-memory store
func NewMemorySnapshotRepository() *MemorySnapshotRepository {
	return &MemorySnapshotRepository{data: make(map[string][]byte)}
}

func (r *MemorySnapshotRepository) Load(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	data, ok := r.data[key]
	if !ok {
		return nil, repository.ErrSnapshotNotFound
	}
	return bytes.Clone(data), nil
}

func (r *MemorySnapshotRepository) Save(ctx context.Context, key string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.FailSaves != nil {
		return r.FailSaves
	}
	r.data[key] = bytes.Clone(data)
	r.saves++
	return nil
}

// Put seeds a raw document, bypassing FailSaves.
func (r *MemorySnapshotRepository) Put(key string, data []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[key] = bytes.Clone(data)
}

// Saves counts successful Save calls.
func (r *MemorySnapshotRepository) Saves() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.saves
}
