package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nao1215/mojifix/internal/database"
)

// ErrModifiedSinceRun is returned by history --restore when the file no
// longer holds the text that run wrote.
var ErrModifiedSinceRun = errors.New("file was modified after the run")

// NewHistoryCmd creates the history command.
// This command lists and restores runs stored in the history database.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [file]",
		Short: "List recorded runs or restore a file from one",
		Long: `History shows the runs that 'mojifix fix' recorded in the history database.

Each run stores the text of the file before it was fixed, so a fix can be
undone with --restore. Restoring refuses to overwrite a file that changed
after the run unless --force is given.

The database lives in the XDG data directory (~/.local/share/mojifix on
Linux). Set MOJIFIX_DB_DIR to use another directory.

Examples:
  # List every recorded run
  mojifix history

  # List the runs for one file
  mojifix history public/services.html

  # List every file with recorded runs
  mojifix history --list-files

  # Restore the text a run replaced
  mojifix history --restore 3`,
		Args: cobra.MaximumNArgs(1),
		RunE: runHistoryCmd,
	}

	cmd.Flags().BoolP("list-files", "L", false,
		"List every file with recorded runs")
	cmd.Flags().Int64P("restore", "r", 0,
		"Write the pre-fix snapshot of the run with this ID back to its file")
	cmd.Flags().BoolP("force", "f", false,
		"Restore even if the file changed after the run")
	cmd.Flags().BoolP("json", "j", false,
		"Output the run list in JSON format")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, args []string) error {
	listFiles, err := cmd.Flags().GetBool("list-files")
	if err != nil {
		return err
	}
	restoreID, err := cmd.Flags().GetInt64("restore")
	if err != nil {
		return err
	}
	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return err
	}
	jsonOutput, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}

	// Validate arguments before opening database
	if restoreID < 0 {
		return fmt.Errorf("invalid run ID: %d", restoreID)
	}
	if listFiles && restoreID > 0 {
		return errors.New("--list-files and --restore cannot be used together")
	}

	db, err := database.Open(historyDir(), database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	out := cmd.OutOrStdout()

	switch {
	case listFiles:
		return listHistoryFiles(ctx, out, db)
	case restoreID > 0:
		return restoreRun(ctx, out, db, restoreID, force)
	default:
		path := ""
		if len(args) > 0 {
			path = args[0]
		}
		return listRuns(ctx, out, db, path, jsonOutput)
	}
}

// listHistoryFiles lists all files that have runs in the database.
func listHistoryFiles(ctx context.Context, out io.Writer, db *database.HistoryDB) error {
	paths, err := db.ListPaths(ctx)
	if err != nil {
		return fmt.Errorf("failed to list files: %w", err)
	}

	if len(paths) == 0 {
		fmt.Fprintln(out, "No recorded runs found in the database.")
		fmt.Fprintln(out, "\nUse 'mojifix fix <file>' to fix a file.")
		return nil
	}

	fmt.Fprintf(out, "Files with recorded runs (%d):\n\n", len(paths))
	for _, p := range paths {
		fmt.Fprintf(out, "  • %s\n", p)
	}
	fmt.Fprintln(out, "\nUse 'mojifix history <file>' to see the runs for a file.")

	return nil
}

// listRuns lists the runs for path, or for every file when path is empty.
func listRuns(ctx context.Context, out io.Writer, db *database.HistoryDB, path string, jsonOutput bool) error {
	records, err := db.History(ctx, path)
	if err != nil {
		return fmt.Errorf("failed to get history: %w", err)
	}

	if jsonOutput {
		if records == nil {
			records = []database.RunRecord{}
		}
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(records)
	}

	if len(records) == 0 {
		if path != "" {
			fmt.Fprintf(out, "No recorded runs found for %s\n", path)
		} else {
			fmt.Fprintln(out, "No recorded runs found in the database.")
		}
		return nil
	}

	fmt.Fprintf(out, "Recorded runs (%d):\n\n", len(records))
	fmt.Fprintf(out, "  %-6s  %-20s  %-8s  %-8s  %s\n", "ID", "Date", "Removed", "Inserted", "File")
	fmt.Fprintln(out, "  "+strings.Repeat("-", 70))

	for _, rec := range records {
		fmt.Fprintf(out, "  %-6d  %-20s  %-8d  %-8d  %s\n",
			rec.ID,
			rec.Timestamp.Local().Format("2006-01-02 15:04:05"),
			rec.Removed,
			rec.Inserted,
			rec.Path,
		)
	}

	fmt.Fprintln(out, "\nUse 'mojifix history --restore <id>' to undo a run.")

	return nil
}

// restoreRun writes the snapshot of run id back to its file.
func restoreRun(ctx context.Context, out io.Writer, db *database.HistoryDB, id int64, force bool) error {
	rec, err := db.GetRun(ctx, id)
	if err != nil {
		return err
	}

	mode := fs.FileMode(0o644)
	current, err := os.ReadFile(rec.Path)
	switch {
	case err == nil:
		if !force && database.Hash(string(current)) != rec.AfterHash {
			return fmt.Errorf("%w: %s (use -f to overwrite)", ErrModifiedSinceRun, rec.Path)
		}
		if info, statErr := os.Stat(rec.Path); statErr == nil {
			mode = info.Mode().Perm()
		}
	case errors.Is(err, fs.ErrNotExist):
		// The file was removed; recreate it.
	default:
		return fmt.Errorf("failed to read %s: %w", rec.Path, err)
	}

	if err := os.WriteFile(rec.Path, []byte(rec.Snapshot), mode); err != nil {
		return fmt.Errorf("failed to restore %s: %w", rec.Path, err)
	}

	fmt.Fprintf(out, "Restored %s from run %d (%s)\n",
		rec.Path, rec.ID, rec.Timestamp.Local().Format("2006-01-02 15:04:05"))
	return nil
}
