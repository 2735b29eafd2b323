package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/warp/solarwork/tracker"
)

var (
	exportOut string
	exportXZ  bool
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write all data to a backup file (stdout by default)",
	Args:  cobra.NoArgs,
	RunE:  runExport,
}

var importCmd = &cobra.Command{
	Use:   "import FILE",
	Short: "Merge a backup file (JSON or xz) into the database",
	Long: `Merges FILE into the database. Records unknown locally are added;
for work entries present on both sides the one with the later end time
wins. The built-in project is never overwritten.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "output file (default stdout)")
	exportCmd.Flags().BoolVar(&exportXZ, "xz", false, "xz-compress the output")
}

func runExport(cmd *cobra.Command, args []string) error {
	t, db, err := openTracker(cmd.Context())
	if err != nil {
		return err
	}
	defer db.Close()

	snap, err := t.Export(cmd.Context())
	if err != nil {
		return err
	}

	w, err := output(cmd, exportOut)
	if err != nil {
		return err
	}
	if err := tracker.WriteSnapshot(w, snap, exportXZ); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

func runImport(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	snap, err := tracker.ReadSnapshot(f)
	if err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
	}

	t, db, err := openTracker(cmd.Context())
	if err != nil {
		return err
	}
	defer db.Close()

	res, err := t.Import(cmd.Context(), snap)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "projects:   %d added, %d updated\n", res.Projects.Added, res.Projects.Updated)
	fmt.Fprintf(out, "workers:    %d added, %d updated\n", res.Workers.Added, res.Workers.Updated)
	fmt.Fprintf(out, "entries:    %d added, %d updated, %d kept\n", res.WorkEntries.Added, res.WorkEntries.Updated, res.WorkEntries.Kept)
	fmt.Fprintf(out, "attendance: %d added, %d updated\n", res.Attendance.Added, res.Attendance.Updated)
	if res.Skipped > 0 {
		fmt.Fprintf(out, "skipped:    %d records without id\n", res.Skipped)
	}
	return nil
}
