package api

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/solarwork/config"
	"github.com/warp/solarwork/tracker"
)

func TestBackupScheduler_WritesAndPrunes(t *testing.T) {
	// GIVEN a tracker with data and a scheduler keeping two files
	s := newTestServer(t)
	s.seed()
	s.logWork()

	dir := filepath.Join(t.TempDir(), "backups")
	bs := NewBackupScheduler(s.handler.Tracker, config.BackupConfig{Dir: dir, Keep: 2, Compress: true}, nil)
	at := clock
	bs.now = func() time.Time { return at }

	// WHEN three backups are taken an hour apart
	var paths []string
	for i := 0; i < 3; i++ {
		path, err := bs.Backup(context.Background())
		require.NoError(t, err)
		paths = append(paths, path)
		at = at.Add(time.Hour)
	}

	// THEN only the newest two remain
	names, err := bs.Backups()
	require.NoError(t, err)
	assert.Equal(t, []string{
		"solarwork-20250312T100000Z.json.xz",
		"solarwork-20250312T110000Z.json.xz",
	}, names)
	_, err = os.Stat(paths[0])
	assert.True(t, os.IsNotExist(err))

	// AND the newest one reads back as a snapshot
	f, err := os.Open(paths[2])
	require.NoError(t, err)
	defer f.Close()
	snap, err := tracker.ReadSnapshot(f)
	require.NoError(t, err)
	assert.Len(t, snap.WorkEntries, 3)
	assert.Len(t, snap.Workers, 2)
}

func TestBackupScheduler_DisabledWithoutInterval(t *testing.T) {
	s := newTestServer(t)
	bs := NewBackupScheduler(s.handler.Tracker, config.BackupConfig{Dir: t.TempDir()}, nil)

	bs.Start()
	defer bs.Stop()

	names, err := bs.Backups()
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestBackupScheduler_StartRunsImmediately(t *testing.T) {
	s := newTestServer(t)
	dir := t.TempDir()
	bs := NewBackupScheduler(s.handler.Tracker, config.BackupConfig{Dir: dir, Interval: time.Hour}, nil)

	bs.Start()
	bs.Stop()

	names, err := bs.Backups()
	require.NoError(t, err)
	assert.Len(t, names, 1)
}
