package config_test

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/solarwork/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTP.Address)
	assert.Equal(t, 15*time.Second, cfg.HTTP.ReadTimeout)
	assert.Equal(t, "zarasai_predefined", cfg.Builtin.ID)
	assert.Equal(t, "Zarasai", cfg.Builtin.Name)
	assert.Equal(t, time.Duration(0), cfg.Backup.Interval, "backups off by default")
	assert.False(t, cfg.Assistant.Configured())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SOLARWORK_DB_PATH", "/tmp/crew.db")
	t.Setenv("SOLARWORK_BUILTIN_PROJECT_TABLES", "A1,A2,A3")
	t.Setenv("SOLARWORK_ASSISTANT_API_KEY", "k")

	cfg, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "/tmp/crew.db", cfg.DBPath)
	assert.Equal(t, []string{"A1", "A2", "A3"}, cfg.Builtin.Tables)
	assert.True(t, cfg.Assistant.Configured())
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "solarwork.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
log_level: DEBUG
db_path: ./site.db
http:
  address: ":9090"
backup:
  interval: 1h
  keep: 3
builtin_project:
  tables: ["Z1", "Z2"]
`), 0o600))

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "DEBUG", cfg.LogLevel)
	assert.Equal(t, ":9090", cfg.HTTP.Address)
	assert.Equal(t, time.Hour, cfg.Backup.Interval)
	assert.Equal(t, 3, cfg.Backup.Keep)
	assert.Equal(t, []string{"Z1", "Z2"}, cfg.Builtin.Tables)
	assert.Equal(t, "zarasai_predefined", cfg.Builtin.ID, "defaults still apply")
}

func TestLoad_BadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("http: [\n"), 0o600))

	_, err := config.Load(path)
	assert.Error(t, err)
}

func TestNewLogger_Level(t *testing.T) {
	var buf bytes.Buffer
	log := config.NewLogger("error", &buf)

	log.Info("hidden")
	log.Error("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
	assert.False(t, log.Enabled(context.Background(), slog.LevelWarn))
}
