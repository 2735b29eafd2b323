package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/solarwork/store/sqlite"
	"github.com/warp/solarwork/worklog"
)

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStore_PutGet(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	_, ok, err := store.Get(ctx, worklog.KeyProjects)
	require.NoError(t, err)
	assert.False(t, ok, "missing key")

	require.NoError(t, store.Put(ctx, worklog.KeyProjects, []byte(`[{"id":"p1"}]`)))
	require.NoError(t, store.Put(ctx, worklog.KeyProjects, []byte(`[{"id":"p2"}]`)))

	v, ok, err := store.Get(ctx, worklog.KeyProjects)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.JSONEq(t, `[{"id":"p2"}]`, string(v), "put replaces")
}

func TestStore_PutBatchAndKeys(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	require.NoError(t, store.PutBatch(ctx, map[string][]byte{
		worklog.KeyWorkers:     []byte(`[]`),
		worklog.KeyWorkEntries: []byte(`[]`),
		worklog.KeyTheme:       []byte(`"slate"`),
	}))

	keys, err := store.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"theme", "workEntries", "workers"}, keys)

	require.NoError(t, store.Delete(ctx, worklog.KeyTheme))
	require.NoError(t, store.Delete(ctx, worklog.KeyTheme), "deleting a missing key is fine")

	keys, err = store.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"workEntries", "workers"}, keys)
}

func TestStore_PutBatchIsAtomic(t *testing.T) {
	// GIVEN: a batch with a cancelled context
	// THEN: nothing from the batch is visible

	store := newTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := store.PutBatch(ctx, map[string][]byte{"a": []byte(`1`), "b": []byte(`2`)})
	require.Error(t, err)

	keys, err := store.Keys(context.Background())
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestStore_Blobs(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	b, err := store.GetBlob(ctx, "p1")
	require.NoError(t, err)
	assert.Nil(t, b)

	at := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)
	require.NoError(t, store.PutBlob(ctx, worklog.Blob{
		ID: "p1", ContentType: "application/pdf", Data: []byte("%PDF-1.4"), UpdatedAt: at,
	}))

	b, err = store.GetBlob(ctx, "p1")
	require.NoError(t, err)
	require.NotNil(t, b)
	assert.Equal(t, "application/pdf", b.ContentType)
	assert.Equal(t, []byte("%PDF-1.4"), b.Data)
	assert.True(t, at.Equal(b.UpdatedAt))

	require.NoError(t, store.DeleteBlob(ctx, "p1"))
	b, err = store.GetBlob(ctx, "p1")
	require.NoError(t, err)
	assert.Nil(t, b)
}

func TestStore_Reset(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	require.NoError(t, store.Put(ctx, "k", []byte(`1`)))
	require.NoError(t, store.PutBlob(ctx, worklog.Blob{ID: "p1", Data: []byte("x")}))
	require.NoError(t, store.Reset(ctx))

	keys, err := store.Keys(ctx)
	require.NoError(t, err)
	assert.Empty(t, keys)
	b, err := store.GetBlob(ctx, "p1")
	require.NoError(t, err)
	assert.Nil(t, b)
}
