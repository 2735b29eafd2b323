// Package config loads solarwork settings from a YAML file and the
// environment.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type HTTPConfig struct {
	Address         string        `yaml:"address" env:"SOLARWORK_HTTP_ADDRESS" env-default:":8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout" env:"SOLARWORK_HTTP_READ_TIMEOUT" env-default:"15s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" env:"SOLARWORK_HTTP_WRITE_TIMEOUT" env-default:"30s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SOLARWORK_HTTP_SHUTDOWN_TIMEOUT" env-default:"10s"`
	AllowedOrigins  []string      `yaml:"allowed_origins" env:"SOLARWORK_HTTP_ALLOWED_ORIGINS" env-default:"http://localhost:5173,http://localhost:8080"`
}

type BackupConfig struct {
	Dir      string        `yaml:"dir" env:"SOLARWORK_BACKUP_DIR" env-default:"./backups"`
	Interval time.Duration `yaml:"interval" env:"SOLARWORK_BACKUP_INTERVAL" env-default:"0s"`
	Keep     int           `yaml:"keep" env:"SOLARWORK_BACKUP_KEEP" env-default:"7"`
	Compress bool          `yaml:"compress" env:"SOLARWORK_BACKUP_COMPRESS" env-default:"true"`
}

type AssistantConfig struct {
	Endpoint    string        `yaml:"endpoint" env:"SOLARWORK_ASSISTANT_ENDPOINT" env-default:"https://generativelanguage.googleapis.com/v1beta"`
	Model       string        `yaml:"model" env:"SOLARWORK_ASSISTANT_MODEL" env-default:"gemini-2.5-flash"`
	APIKey      string        `yaml:"api_key" env:"SOLARWORK_ASSISTANT_API_KEY"`
	AccessToken string        `yaml:"access_token" env:"SOLARWORK_ASSISTANT_ACCESS_TOKEN"`
	Timeout     time.Duration `yaml:"timeout" env:"SOLARWORK_ASSISTANT_TIMEOUT" env-default:"30s"`
}

// Configured reports whether any credentials are set.
func (a AssistantConfig) Configured() bool {
	return a.APIKey != "" || a.AccessToken != ""
}

type ProjectConfig struct {
	ID     string   `yaml:"id" env:"SOLARWORK_BUILTIN_PROJECT_ID" env-default:"zarasai_predefined"`
	Name   string   `yaml:"name" env:"SOLARWORK_BUILTIN_PROJECT_NAME" env-default:"Zarasai"`
	Tables []string `yaml:"tables" env:"SOLARWORK_BUILTIN_PROJECT_TABLES"`
}

type Config struct {
	LogLevel  string          `yaml:"log_level" env:"SOLARWORK_LOG_LEVEL" env-default:"INFO"`
	DBPath    string          `yaml:"db_path" env:"SOLARWORK_DB_PATH" env-default:"./solarwork.db"`
	HTTP      HTTPConfig      `yaml:"http"`
	Backup    BackupConfig    `yaml:"backup"`
	Assistant AssistantConfig `yaml:"assistant"`
	Builtin   ProjectConfig   `yaml:"builtin_project"`
}

// Load reads configPath, falling back to the environment when the path is
// empty or the file does not exist.
func Load(configPath string) (Config, error) {
	var cfg Config

	if configPath == "" {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return Config{}, fmt.Errorf("cannot read env: %w", err)
		}
		return cfg, nil
	}

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		var pe *os.PathError
		if errors.As(err, &pe) {
			cfg = Config{}
			if err := cleanenv.ReadEnv(&cfg); err != nil {
				return Config{}, fmt.Errorf("cannot read env: %w", err)
			}
			return cfg, nil
		}
		return Config{}, fmt.Errorf("cannot read config %q: %w", configPath, err)
	}
	return cfg, nil
}

// Usage describes every environment variable.
func Usage() string {
	var cfg Config
	text, err := cleanenv.GetDescription(&cfg, nil)
	if err != nil {
		return ""
	}
	return text
}

// NewLogger builds a text logger writing to w at the named level
// (DEBUG, INFO, WARN, ERROR; anything else is INFO).
func NewLogger(logLevel string, w io.Writer) *slog.Logger {
	var level slog.Level
	switch strings.ToUpper(logLevel) {
	case "DEBUG":
		level = slog.LevelDebug
	case "WARN":
		level = slog.LevelWarn
	case "ERROR":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	if w == nil {
		w = os.Stderr
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
