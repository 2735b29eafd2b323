/*
store.go - Persistence interfaces for collections and blobs

PURPOSE:
  Defines the boundary between the tracker and durable storage. The model
  is deliberately simple: every collection is one JSON document under one
  string key, and whoever needs to change a collection reads all of it,
  changes it in memory and writes all of it back.

KEY INTERFACES:
  Store:      key-value store of JSON documents (projects, workers, ...)
  BlobStore:  one binary document per project (site plans)

WHOLE-COLLECTION WRITES:
  There are no partial updates. PutBatch writes several keys at once; the
  SQLite implementation commits them in one transaction, but callers must
  not rely on cross-key atomicity from every implementation.

IMPLEMENTATIONS:
  - store/sqlite/sqlite.go: SQLite tables kv + blobs
  - worklog/store/memory.go: In-memory for testing

SEE ALSO:
  - tracker/tracker.go: the only writer of collections
*/
package worklog

import (
	"context"
	"time"
)

// =============================================================================
// STORE - Key-value store of JSON documents
// =============================================================================

// Store persists raw JSON values by key.
type Store interface {
	// Get returns the value for key. ok is false when the key is absent.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)

	// Put writes value under key, replacing any previous value.
	Put(ctx context.Context, key string, value []byte) error

	// PutBatch writes several keys.
	PutBatch(ctx context.Context, values map[string][]byte) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Keys returns every stored key in ascending order.
	Keys(ctx context.Context) ([]string, error)
}

// =============================================================================
// BLOB STORE - One binary document per project
// =============================================================================

// Blob is a stored binary document.
type Blob struct {
	ID          string
	ContentType string
	Data        []byte
	UpdatedAt   time.Time
}

// BlobStore persists binary documents keyed by project id.
type BlobStore interface {
	PutBlob(ctx context.Context, blob Blob) error

	// GetBlob returns nil, nil when no blob exists for id.
	GetBlob(ctx context.Context, id string) (*Blob, error)

	DeleteBlob(ctx context.Context, id string) error
}
