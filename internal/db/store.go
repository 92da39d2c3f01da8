// Package db holds the brand configuration caches.
package db

import (
	"context"
	"sync"
	"time"

	"github.com/patrickwarner/partnersdk/internal/models"
)

// BrandConfigStore caches brand configurations by brand id.
type BrandConfigStore interface {
	GetBrandConfig(ctx context.Context, brandID string) (models.BrandConfig, bool, error)
	SetBrandConfig(ctx context.Context, brandID string, cfg models.BrandConfig, ttl time.Duration) error
}

type memoryEntry struct {
	cfg     models.BrandConfig
	expires time.Time
}

// MemoryStore is the per-process cache used when no Redis is configured.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	now     func() time.Time
}

var _ BrandConfigStore = (*MemoryStore)(nil)

// NewMemoryStore returns an empty in-process store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]memoryEntry), now: time.Now}
}

func (m *MemoryStore) GetBrandConfig(_ context.Context, brandID string) (models.BrandConfig, bool, error) {
	m.mu.RLock()
	e, ok := m.entries[brandID]
	m.mu.RUnlock()
	if !ok {
		return models.BrandConfig{}, false, nil
	}
	if !e.expires.IsZero() && m.now().After(e.expires) {
		m.mu.Lock()
		delete(m.entries, brandID)
		m.mu.Unlock()
		return models.BrandConfig{}, false, nil
	}
	return e.cfg, true, nil
}

func (m *MemoryStore) SetBrandConfig(_ context.Context, brandID string, cfg models.BrandConfig, ttl time.Duration) error {
	e := memoryEntry{cfg: cfg}
	if ttl > 0 {
		e.expires = m.now().Add(ttl)
	}
	m.mu.Lock()
	m.entries[brandID] = e
	m.mu.Unlock()
	return nil
}
