package store

import (
	"context"
	"sync"
)

// MemStore is an in-memory Store for tests and sessions that should not
// outlive the process.
type MemStore struct {
	mu  sync.Mutex
	rec *Record
}

// NewMemStore creates an empty MemStore.
func NewMemStore() *MemStore {
	return &MemStore{}
}

// Save stores a copy of the record.
func (m *MemStore) Save(_ context.Context, rec Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := rec
	cp.Principal = append([]byte(nil), rec.Principal...)
	m.rec = &cp
	return nil
}

// Load returns a copy of the stored record, or nil.
func (m *MemStore) Load(_ context.Context) (*Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.rec.complete() {
		return nil, nil
	}
	cp := *m.rec
	cp.Principal = append([]byte(nil), m.rec.Principal...)
	return &cp, nil
}

// Clear discards the stored record.
func (m *MemStore) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rec = nil
	return nil
}
