/*
scheduler.go - Automated backup scheduler

PURPOSE:
  Periodically writes the stored state to a timestamped snapshot file and
  prunes old ones, so a corrupted or deleted database can be recovered
  with `solarwork import`.

DESIGN:
  - Runs a background goroutine with a configurable interval
  - Backs up once immediately on start
  - Keeps the newest Keep files (by name, which sorts by time)
  - Files are written to a temp name and renamed into place

CONFIGURATION (config.BackupConfig):
  - Dir:      Target directory (created if missing)
  - Interval: How often to back up; 0 disables the scheduler
  - Keep:     Files to retain; 0 keeps everything
  - Compress: xz-compress snapshots

USAGE:
  scheduler := NewBackupScheduler(tracker, cfg.Backup, log)
  scheduler.Start()
  // ... later
  scheduler.Stop()

SEE ALSO:
  - tracker/backup.go: snapshot codec
*/
package api

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/warp/solarwork/config"
	"github.com/warp/solarwork/tracker"
)

const backupPrefix = "solarwork-"

// BackupScheduler handles automated snapshot files.
type BackupScheduler struct {
	Tracker  *tracker.Tracker
	Dir      string
	Interval time.Duration
	Keep     int
	Compress bool

	log    *slog.Logger
	now    func() time.Time
	ticker *time.Ticker
	stop   chan struct{}
	wg     sync.WaitGroup
	mu     sync.Mutex
}

// NewBackupScheduler creates a new scheduler.
func NewBackupScheduler(t *tracker.Tracker, cfg config.BackupConfig, log *slog.Logger) *BackupScheduler {
	if log == nil {
		log = slog.Default()
	}
	return &BackupScheduler{
		Tracker:  t,
		Dir:      cfg.Dir,
		Interval: cfg.Interval,
		Keep:     cfg.Keep,
		Compress: cfg.Compress,
		log:      log.With("component", "backup"),
		now:      time.Now,
	}
}

// Start begins the scheduler. It does nothing when Interval is not positive.
func (bs *BackupScheduler) Start() {
	bs.mu.Lock()
	defer bs.mu.Unlock()

	if bs.Interval <= 0 {
		bs.log.Info("backups disabled")
		return
	}
	if bs.ticker != nil {
		return
	}

	bs.ticker = time.NewTicker(bs.Interval)
	bs.stop = make(chan struct{})
	bs.wg.Add(1)

	go bs.run()

	bs.log.Info("backups started", "interval", bs.Interval, "dir", bs.Dir, "keep", bs.Keep)
}

// Stop stops the scheduler and waits for a running backup to finish.
func (bs *BackupScheduler) Stop() {
	bs.mu.Lock()
	defer bs.mu.Unlock()

	if bs.ticker != nil {
		bs.ticker.Stop()
		close(bs.stop)
		bs.wg.Wait()
		bs.ticker = nil
		bs.log.Info("backups stopped")
	}
}

func (bs *BackupScheduler) run() {
	defer bs.wg.Done()

	// Run immediately on start
	bs.RunNow()

	for {
		select {
		case <-bs.ticker.C:
			bs.RunNow()
		case <-bs.stop:
			return
		}
	}
}

// RunNow takes one backup and logs the outcome.
func (bs *BackupScheduler) RunNow() {
	path, err := bs.Backup(context.Background())
	if err != nil {
		bs.log.Error("backup failed", "error", err)
		return
	}
	bs.log.Info("backup written", "path", path)
}

// Backup writes one snapshot file, prunes old files and returns the path.
func (bs *BackupScheduler) Backup(ctx context.Context) (string, error) {
	snap, err := bs.Tracker.Export(ctx)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(bs.Dir, 0o755); err != nil {
		return "", fmt.Errorf("create backup dir: %w", err)
	}

	name := backupPrefix + bs.now().UTC().Format("20060102T150405Z") + ".json"
	if bs.Compress {
		name += ".xz"
	}
	path := filepath.Join(bs.Dir, name)

	tmp, err := os.CreateTemp(bs.Dir, ".backup-*")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := tracker.WriteSnapshot(tmp, snap, bs.Compress); err != nil {
		tmp.Close()
		return "", fmt.Errorf("write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close snapshot: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("rename snapshot: %w", err)
	}

	if err := bs.prune(); err != nil {
		bs.log.Warn("pruning backups failed", "error", err)
	}
	return path, nil
}

// Backups lists snapshot files in Dir, oldest first.
func (bs *BackupScheduler) Backups() ([]string, error) {
	entries, err := os.ReadDir(bs.Dir)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, backupPrefix) {
			continue
		}
		if strings.HasSuffix(name, ".json") || strings.HasSuffix(name, ".json.xz") {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}

func (bs *BackupScheduler) prune() error {
	if bs.Keep <= 0 {
		return nil
	}
	names, err := bs.Backups()
	if err != nil {
		return err
	}
	for len(names) > bs.Keep {
		if err := os.Remove(filepath.Join(bs.Dir, names[0])); err != nil {
			return err
		}
		bs.log.Debug("backup pruned", "file", names[0])
		names = names[1:]
	}
	return nil
}
