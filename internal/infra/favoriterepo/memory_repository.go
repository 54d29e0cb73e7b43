package favoriterepo

import (
	"context"
	"sync"

	"github.com/yanqian/skymind/internal/domain/favorites"
)

// MemoryRepository is an in-memory favorites.Repository used for tests/dev.
type MemoryRepository struct {
	mu    sync.RWMutex
	items []favorites.Location
}

// NewMemoryRepository constructs a repo backed by memory.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

// List returns a copy in insertion order.
func (r *MemoryRepository) List(_ context.Context) ([]favorites.Location, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]favorites.Location(nil), r.items...), nil
}

func (r *MemoryRepository) Exists(_ context.Context, id string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.indexOf(id) >= 0, nil
}

// Insert appends the location unless its id is already present.
func (r *MemoryRepository) Insert(_ context.Context, loc favorites.Location) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.indexOf(loc.ID) >= 0 {
		return nil
	}
	r.items = append(r.items, loc)
	return nil
}

func (r *MemoryRepository) Delete(_ context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	idx := r.indexOf(id)
	if idx < 0 {
		return false, nil
	}
	r.items = append(r.items[:idx], r.items[idx+1:]...)
	return true, nil
}

func (r *MemoryRepository) indexOf(id string) int {
	for i, item := range r.items {
		if item.ID == id {
			return i
		}
	}
	return -1
}

var _ favorites.Repository = (*MemoryRepository)(nil)
