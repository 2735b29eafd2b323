package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/solarwork/worklog"
	"github.com/warp/solarwork/worklog/store"
)

func TestMemory_KV(t *testing.T) {
	ctx := context.Background()
	m := store.NewMemory()

	_, ok, err := m.Get(ctx, worklog.KeyProjects)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, m.Put(ctx, worklog.KeyProjects, []byte(`[]`)))
	require.NoError(t, m.PutBatch(ctx, map[string][]byte{
		worklog.KeyWorkers: []byte(`[{"id":"w"}]`),
		worklog.KeyTheme:   []byte(`"dusk"`),
	}))

	v, ok, err := m.Get(ctx, worklog.KeyWorkers)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.JSONEq(t, `[{"id":"w"}]`, string(v))

	// Returned values are copies.
	v[0] = 'x'
	v, _, _ = m.Get(ctx, worklog.KeyWorkers)
	assert.Equal(t, byte('['), v[0])

	keys, err := m.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"projects", "theme", "workers"}, keys)

	require.NoError(t, m.Delete(ctx, worklog.KeyTheme))
	require.NoError(t, m.Delete(ctx, "missing"))
	keys, _ = m.Keys(ctx)
	assert.Equal(t, []string{"projects", "workers"}, keys)
}

func TestMemory_Blobs(t *testing.T) {
	ctx := context.Background()
	m := store.NewMemory()

	b, err := m.GetBlob(ctx, "p1")
	require.NoError(t, err)
	assert.Nil(t, b)

	require.NoError(t, m.PutBlob(ctx, worklog.Blob{ID: "p1", ContentType: "application/pdf", Data: []byte("%PDF")}))

	b, err = m.GetBlob(ctx, "p1")
	require.NoError(t, err)
	require.NotNil(t, b)
	assert.Equal(t, "application/pdf", b.ContentType)
	assert.Equal(t, []byte("%PDF"), b.Data)
	assert.WithinDuration(t, time.Now(), b.UpdatedAt, time.Minute)

	require.NoError(t, m.DeleteBlob(ctx, "p1"))
	b, err = m.GetBlob(ctx, "p1")
	require.NoError(t, err)
	assert.Nil(t, b)
}
