// Package storage persists wallet snapshots to a durable key-value store.
//
// The persisted layout is two independent keys: "expenses" holds a JSON
// array of records and "balance" holds the balance's decimal string form.
package storage

import (
	"context"
	"sync"
)

// Keys under which the wallet snapshot is persisted.
const (
	KeyExpenses = "expenses"
	KeyBalance  = "balance"
)

// KV is the durable key-value port. Get reports presence explicitly so a
// missing key is not an error.
type KV interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
}

// MemoryKV is a mutex-guarded in-memory KV, used by tests and as the
// non-durable backend.
type MemoryKV struct {
	mu     sync.Mutex
	values map[string]string
}

func NewMemoryKV() *MemoryKV {
	return &MemoryKV{values: make(map[string]string)}
}

func (m *MemoryKV) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *MemoryKV) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}
