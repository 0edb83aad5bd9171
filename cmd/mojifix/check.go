package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/nao1215/mojifix/internal/config"
	mlog "github.com/nao1215/mojifix/internal/log"
	"github.com/nao1215/mojifix/internal/model"
	"github.com/nao1215/mojifix/internal/pipeline"
)

// ErrCorruptionFound is returned by check when at least one file contains
// corrupted sequences.
var ErrCorruptionFound = errors.New("corrupted characters found")

// NewCheckCmd creates the check command.
func NewCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [file...]",
		Short: "Report corrupted characters without changing files",
		Long: `Check runs the cleanup rules in dry-run mode and prints a report.

It exits with status 1 when any file contains corrupted sequences, so it
can be used as a CI gate or a pre-commit hook. Files are never written and
nothing is recorded in the history database.

Examples:
  # Check the default target
  mojifix check

  # Check every HTML file in a directory
  mojifix check public/*.html

  # Write a Markdown report for a pull request comment
  mojifix check --markdown -o mojibake.md public/*.html`,
		Args: cobra.ArbitraryArgs,
		RunE: runCheckCmd,
	}

	addConfigFlags(cmd)
	addReportFlags(cmd)

	return cmd
}

// runCheckCmd executes the check command.
func runCheckCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	// Only the cleanup pass decides whether a file is corrupted.
	cfg.Clean = true
	cfg.Checkmarks = false
	cfg.TierEmojis = false
	cfg.DryRun = true
	cfg.SaveHistory = false

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := mlog.NewLogger(cmd.ErrOrStderr(), cfg.Verbose)

	ctx, stop := signalContext(cmd)
	defer stop()

	return runCheck(ctx, cmd.OutOrStdout(), cfg, logger)
}

// runCheck reports every target and fails when any of them is corrupted.
func runCheck(ctx context.Context, out io.Writer, cfg *config.Config, logger *slog.Logger) error {
	n, _, err := buildEngines(cfg)
	if err != nil {
		return err
	}

	docs, err := processFiles(ctx, cfg, logger, []pipeline.DefaultPipelineOption{
		pipeline.WithPipelineNormalizer(n),
		pipeline.WithPipelineDryRun(true),
	})
	if err != nil {
		return err
	}

	if err := outputReport(cfg, out, docs); err != nil {
		return err
	}

	if err := documentErrors(docs); err != nil {
		return err
	}

	if corrupted := countCorrupted(docs); corrupted > 0 {
		return fmt.Errorf("%w in %d of %d files (run 'mojifix fix' to remove them)",
			ErrCorruptionFound, corrupted, len(docs))
	}
	return nil
}

// countCorrupted returns the number of documents with at least one corruption.
func countCorrupted(docs []*model.Document) int {
	count := 0
	for _, doc := range docs {
		if doc != nil && doc.Corruptions() > 0 {
			count++
		}
	}
	return count
}
