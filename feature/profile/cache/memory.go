package cache

import (
	"context"
	"sync"

	"gig-profile/feature/profile"
)

// Memory keeps the record in process memory. Nothing survives a restart.
type Memory struct {
	mu  sync.RWMutex
	rec *profile.Record
}

// NewMemory creates an empty in-memory cache.
func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Load(ctx context.Context) (profile.Record, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.rec == nil {
		return profile.Record{}, false, nil
	}
	return m.rec.Clone(), true, nil
}

func (m *Memory) Save(ctx context.Context, rec profile.Record) error {
	cp := rec.Clone()
	m.mu.Lock()
	m.rec = &cp
	m.mu.Unlock()
	return nil
}
