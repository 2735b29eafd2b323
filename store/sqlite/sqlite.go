/*
Package sqlite provides a SQLite-backed implementation of the storage interfaces.

PURPOSE:
  Implements worklog.Store and worklog.BlobStore on a single SQLite file.
  Collections are kept as whole JSON documents, one row per key, so the
  schema never changes when the entity model does.

INTERFACES IMPLEMENTED:
  worklog.Store:      JSON documents by key (projects, workers, ...)
  worklog.BlobStore:  binary documents by id (site plans)

KEY TABLES:
  kv:     key -> JSON value
  blobs:  id -> content type + bytes

ATOMICITY:
  PutBatch writes every key inside one transaction. Import relies on this:
  either every merged collection lands or none does.

CONCURRENCY:
  Uses sync.RWMutex for thread-safety, and a single open connection so
  that ":memory:" databases are shared by every caller.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging):
  - Multiple readers don't block
  - Single writer at a time
  - Better crash recovery

USAGE:
  store, err := sqlite.New("./data/solarwork.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  tr := tracker.New(store, store)

MIGRATION:
  Schema is auto-migrated on New().

SEE ALSO:
  - worklog/store.go: Interface definitions
  - worklog/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/warp/solarwork/worklog"
)

// Store implements worklog.Store and worklog.BlobStore using SQLite.
type Store struct {
	db *sqlx.DB
	mu sync.RWMutex
}

var (
	_ worklog.Store     = (*Store)(nil)
	_ worklog.BlobStore = (*Store)(nil)
)

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sqlx.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping checks that the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS kv (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS blobs (
		id TEXT PRIMARY KEY,
		content_type TEXT NOT NULL,
		data BLOB NOT NULL,
		size INTEGER NOT NULL,
		updated_at TEXT NOT NULL
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// KEY-VALUE STORE (worklog.Store interface)
// =============================================================================

const upsertKV = `
	INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
	ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
`

func (s *Store) Get(ctx context.Context, key string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var value string
	err := s.db.GetContext(ctx, &value, `SELECT value FROM kv WHERE key = ?`, key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get %s: %w", key, err)
	}
	return []byte(value), true, nil
}

func (s *Store) Put(ctx context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.ExecContext(ctx, upsertKV, key, string(value), now()); err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}
	return nil
}

// PutBatch writes all values in one transaction.
func (s *Store) PutBatch(ctx context.Context, values map[string][]byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin batch: %w", err)
	}
	defer tx.Rollback()

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	ts := now()
	for _, k := range keys {
		if _, err := tx.ExecContext(ctx, upsertKV, k, string(values[k]), ts); err != nil {
			return fmt.Errorf("put %s: %w", k, err)
		}
	}
	return tx.Commit()
}

func (s *Store) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, key); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

func (s *Store) Keys(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var keys []string
	if err := s.db.SelectContext(ctx, &keys, `SELECT key FROM kv ORDER BY key`); err != nil {
		return nil, fmt.Errorf("list keys: %w", err)
	}
	return keys, nil
}

// Reset removes all data.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, table := range []string{"kv", "blobs"} {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("reset %s: %w", table, err)
		}
	}
	return nil
}

// =============================================================================
// BLOB STORE (worklog.BlobStore interface)
// =============================================================================

type blobRow struct {
	ID          string `db:"id"`
	ContentType string `db:"content_type"`
	Data        []byte `db:"data"`
	Size        int64  `db:"size"`
	UpdatedAt   string `db:"updated_at"`
}

func (s *Store) PutBlob(ctx context.Context, blob worklog.Blob) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	updated := blob.UpdatedAt
	if updated.IsZero() {
		updated = time.Now().UTC()
	}
	data := blob.Data
	if data == nil {
		data = []byte{}
	}

	_, err := s.db.NamedExecContext(ctx, `
		INSERT INTO blobs (id, content_type, data, size, updated_at)
		VALUES (:id, :content_type, :data, :size, :updated_at)
		ON CONFLICT(id) DO UPDATE SET
			content_type = excluded.content_type,
			data = excluded.data,
			size = excluded.size,
			updated_at = excluded.updated_at
	`, blobRow{
		ID:          blob.ID,
		ContentType: blob.ContentType,
		Data:        data,
		Size:        int64(len(data)),
		UpdatedAt:   updated.UTC().Format(time.RFC3339),
	})
	if err != nil {
		return fmt.Errorf("put blob %s: %w", blob.ID, err)
	}
	return nil
}

func (s *Store) GetBlob(ctx context.Context, id string) (*worklog.Blob, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var row blobRow
	err := s.db.GetContext(ctx, &row,
		`SELECT id, content_type, data, size, updated_at FROM blobs WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get blob %s: %w", id, err)
	}

	updated, _ := time.Parse(time.RFC3339, row.UpdatedAt)
	return &worklog.Blob{
		ID:          row.ID,
		ContentType: row.ContentType,
		Data:        row.Data,
		UpdatedAt:   updated,
	}, nil
}

func (s *Store) DeleteBlob(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.ExecContext(ctx, `DELETE FROM blobs WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete blob %s: %w", id, err)
	}
	return nil
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}
