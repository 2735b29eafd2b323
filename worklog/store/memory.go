// Package store provides Store implementations.
package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/warp/solarwork/worklog"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu    sync.RWMutex
	kv    map[string][]byte
	blobs map[string]worklog.Blob
}

func NewMemory() *Memory {
	return &Memory{
		kv:    make(map[string][]byte),
		blobs: make(map[string]worklog.Blob),
	}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.kv[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

func (m *Memory) Put(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.kv[key] = append([]byte(nil), value...)
	return nil
}

// PutBatch writes all values under one lock.
func (m *Memory) PutBatch(_ context.Context, values map[string][]byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k, v := range values {
		m.kv[k] = append([]byte(nil), v...)
	}
	return nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.kv, key)
	return nil
}

func (m *Memory) Keys(_ context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	keys := make([]string, 0, len(m.kv))
	for k := range m.kv {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

// =============================================================================
// BLOBS
// =============================================================================

func (m *Memory) PutBlob(_ context.Context, blob worklog.Blob) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if blob.UpdatedAt.IsZero() {
		blob.UpdatedAt = time.Now().UTC()
	}
	blob.Data = append([]byte(nil), blob.Data...)
	m.blobs[blob.ID] = blob
	return nil
}

func (m *Memory) GetBlob(_ context.Context, id string) (*worklog.Blob, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	b, ok := m.blobs[id]
	if !ok {
		return nil, nil
	}
	b.Data = append([]byte(nil), b.Data...)
	return &b, nil
}

func (m *Memory) DeleteBlob(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.blobs, id)
	return nil
}
