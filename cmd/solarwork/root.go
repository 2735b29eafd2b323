package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/warp/solarwork/config"
	"github.com/warp/solarwork/store/sqlite"
	"github.com/warp/solarwork/tracker"
	"github.com/warp/solarwork/worklog"
)

var (
	configPath string
	dbPath     string

	cfg config.Config
	log *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "solarwork",
	Short: "Work tracker for solar panel installation crews",
	Long: `solarwork tracks the work of solar installation crews: hourly,
paneling, construction and per-table cabling work, payroll and completion
forecasts. Data lives in a single SQLite file.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		if dbPath != "" {
			loaded.DBPath = dbPath
		}
		cfg = loaded
		log = config.NewLogger(cfg.LogLevel, os.Stderr)
		return nil
	},
}

// Execute is the entry point called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "configuration file (YAML)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "SQLite database path, overrides the config")
	rootCmd.SetUsageTemplate(rootCmd.UsageTemplate() + "\nEnvironment:\n" + config.Usage() + "\n")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(payrollCmd)
	rootCmd.AddCommand(forecastCmd)
}

// openTracker opens the configured database and loads the tracker.
// The returned closer closes the database.
func openTracker(ctx context.Context) (*tracker.Tracker, io.Closer, error) {
	db, err := sqlite.New(cfg.DBPath)
	if err != nil {
		return nil, nil, fmt.Errorf("open database %s: %w", cfg.DBPath, err)
	}
	if err := db.Ping(ctx); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("open database %s: %w", cfg.DBPath, err)
	}

	builtin := tracker.DefaultBuiltinProject()
	if cfg.Builtin.ID != "" {
		builtin.ID = cfg.Builtin.ID
	}
	if cfg.Builtin.Name != "" {
		builtin.Name = cfg.Builtin.Name
	}
	builtin.Tables = worklog.NormalizeTables(cfg.Builtin.Tables)

	t := tracker.New(db, db,
		tracker.WithLogger(log),
		tracker.WithBuiltinProject(builtin))
	if err := t.Load(ctx); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("load data: %w", err)
	}
	return t, db, nil
}

// output opens path for writing, or returns stdout for "" and "-".
func output(cmd *cobra.Command, path string) (io.WriteCloser, error) {
	if path == "" || path == "-" {
		return nopCloser{cmd.OutOrStdout()}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	return f, nil
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }
