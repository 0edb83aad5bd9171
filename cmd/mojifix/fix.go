package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nao1215/mojifix/internal/config"
	"github.com/nao1215/mojifix/internal/database"
	mlog "github.com/nao1215/mojifix/internal/log"
	"github.com/nao1215/mojifix/internal/model"
	"github.com/nao1215/mojifix/internal/normalize"
	"github.com/nao1215/mojifix/internal/pipeline"
	"github.com/nao1215/mojifix/internal/report"
)

// NewFixCmd creates the fix command.
func NewFixCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fix [file...]",
		Short: "Remove corrupted characters and write the files back",
		Long: `Fix reads each file, removes mojibake sequences, optionally adds
decorative glyphs, and writes the result back in place.

When no file is given, the target from the configuration file is used,
falling back to public/services.html. Every written file is recorded in
the history database so it can be restored with 'mojifix history --restore'.

Examples:
  # Clean the default target
  mojifix fix

  # Clean several files concurrently
  mojifix fix public/index.html public/services.html

  # Clean and add list checkmarks and tier emojis
  mojifix fix --checkmarks --tier-emojis

  # Only add checkmarks
  mojifix fix --no-clean --checkmarks

  # Show what would change without writing
  mojifix fix --dry-run --markdown -o report.md`,
		Args: cobra.ArbitraryArgs,
		RunE: runFixCmd,
	}

	addConfigFlags(cmd)
	addDecorationFlags(cmd)
	addReportFlags(cmd)

	cmd.Flags().Bool("no-clean", false,
		"Skip the cleanup rules")
	cmd.Flags().BoolP("dry-run", "n", false,
		"Report what would change without writing files")
	cmd.Flags().Bool("no-history", false,
		"Do not record this run in the history database")

	return cmd
}

// addConfigFlags adds the flags shared by every command that builds a Config.
func addConfigFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .mojifix in current or home directory)")
}

// addDecorationFlags adds the flags that enable the built-in insertion rules.
func addDecorationFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("checkmarks", false,
		`Insert a checkmark after every "<li>" followed by a space`)
	cmd.Flags().Bool("tier-emojis", false,
		"Insert an emoji in front of every known pricing tier name")
}

// addReportFlags adds the report output flags.
func addReportFlags(cmd *cobra.Command) {
	cmd.Flags().IntP("batch", "b", config.DefaultBatchSize,
		"Number of files processed concurrently")
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")
}

// runFixCmd executes the fix command.
func runFixCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := mlog.NewLogger(cmd.ErrOrStderr(), cfg.Verbose)

	ctx, stop := signalContext(cmd)
	defer stop()

	return runFix(ctx, cmd.OutOrStdout(), cfg, logger)
}

// signalContext returns the command context cancelled on SIGINT or SIGTERM.
func signalContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig creates a Config from the config file and cobra command flags.
// Flags that the command does not define are skipped, so fix, check and
// rules share this function. Flags win over the config file.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()
	cfg.Verbose = getVerboseFlag(cmd)
	cfg.Targets = append(cfg.Targets, args...)

	if err := loadConfigFile(cmd, cfg); err != nil {
		return nil, err
	}
	if len(cfg.Targets) == 0 {
		cfg.Targets = []string{config.DefaultTarget}
	}

	flags := cmd.Flags()

	if flags.Changed("no-clean") {
		noClean, err := flags.GetBool("no-clean")
		if err != nil {
			return nil, err
		}
		cfg.Clean = !noClean
	}

	for name, dst := range map[string]*bool{
		"checkmarks":  &cfg.Checkmarks,
		"tier-emojis": &cfg.TierEmojis,
		"dry-run":     &cfg.DryRun,
		"json":        &cfg.JSONReport,
		"markdown":    &cfg.MarkdownReport,
	} {
		if !flags.Changed(name) {
			continue
		}
		v, err := flags.GetBool(name)
		if err != nil {
			return nil, err
		}
		*dst = v
	}

	if flags.Changed("no-history") {
		noHistory, err := flags.GetBool("no-history")
		if err != nil {
			return nil, err
		}
		cfg.SaveHistory = !noHistory
	}

	if flags.Changed("batch") {
		batch, err := flags.GetInt("batch")
		if err != nil {
			return nil, err
		}
		cfg.BatchSize = batch
	}

	if flags.Lookup("output") != nil {
		output, err := flags.GetString("output")
		if err != nil {
			return nil, err
		}
		cfg.ReportFile = output
	}

	cfg.DBDir = historyDir()

	return cfg, nil
}

// loadConfigFile finds and applies the configuration file.
// If the user explicitly named a file (flag or MOJIFIX_CONFIG), it must exist.
// Otherwise a missing file means built-in defaults.
func loadConfigFile(cmd *cobra.Command, cfg *config.Config) error {
	if cmd.Flags().Lookup("config") != nil {
		path, err := cmd.Flags().GetString("config")
		if err != nil {
			return err
		}
		cfg.ConfigFilePath = path
	}
	if cfg.ConfigFilePath == "" {
		cfg.ConfigFilePath = os.Getenv(config.EnvConfigPath)
	}

	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)

	if configPath == "" {
		if explicitConfigPath {
			return fmt.Errorf("%w: %s", config.ErrConfigNotFound, cfg.ConfigFilePath)
		}
		return nil
	}

	f, err := config.LoadConfigFile(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config file %s: %w", configPath, err)
	}
	cfg.ConfigFilePath = configPath
	cfg.ApplyFile(f)
	return nil
}

// historyDir returns the history database directory, honoring MOJIFIX_DB_DIR.
func historyDir() string {
	if dir := os.Getenv(config.EnvDBDir); dir != "" {
		return dir
	}
	return config.XDGDataDir()
}

// buildEngines creates the normalizer and decorator for cfg.
// Either may be nil when the corresponding pass is disabled.
func buildEngines(cfg *config.Config) (*normalize.Normalizer, *normalize.Decorator, error) {
	var n *normalize.Normalizer
	if cfg.Clean {
		rules, err := cfg.CleanupRules()
		if err != nil {
			return nil, nil, fmt.Errorf("invalid cleanup rules: %w", err)
		}
		n, err = normalize.NewNormalizer(rules...)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid cleanup rules: %w", err)
		}
	}

	var d *normalize.Decorator
	if inserts := cfg.DecorationRules(); len(inserts) > 0 {
		var err error
		d, err = normalize.NewDecorator(inserts...)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid insert rules: %w", err)
		}
	}

	return n, d, nil
}

// runFix processes every target and prints the outcome.
func runFix(ctx context.Context, out io.Writer, cfg *config.Config, logger *slog.Logger) error {
	n, d, err := buildEngines(cfg)
	if err != nil {
		return err
	}

	logger.Info("starting fix",
		"targets", cfg.Targets,
		"batchSize", cfg.BatchSize,
		"dryRun", cfg.DryRun,
		"saveHistory", cfg.SaveHistory,
	)

	configOpts := []pipeline.DefaultPipelineOption{
		pipeline.WithPipelineNormalizer(n),
		pipeline.WithPipelineDecorator(d),
		pipeline.WithPipelineDryRun(cfg.DryRun),
	}

	if cfg.SaveHistory && !cfg.DryRun {
		db, err := database.Open(cfg.DBDir, database.DefaultOptions())
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()
		logger.Info("database opened", "dir", cfg.DBDir)
		configOpts = append(configOpts, pipeline.WithPipelineRecorder(db))
	}

	docs, err := processFiles(ctx, cfg, logger, configOpts)
	if err != nil {
		return err
	}

	if wantsReport(cfg) {
		if err := outputReport(cfg, out, docs); err != nil {
			return err
		}
	} else {
		printConfirmations(out, cfg, docs)
	}

	return documentErrors(docs)
}

// processFiles runs one fresh pipeline per target through the batch processor.
func processFiles(ctx context.Context, cfg *config.Config, logger *slog.Logger, configOpts []pipeline.DefaultPipelineOption) ([]*model.Document, error) {
	pipelineOpts := []pipeline.Option{
		pipeline.WithLogger(logger),
	}

	bp := pipeline.NewBatchProcessor(
		func() *pipeline.Pipeline {
			return pipeline.DefaultPipeline(pipelineOpts, configOpts...)
		},
		pipeline.WithConcurrency(cfg.BatchSize),
		pipeline.WithBatchLogger(logger),
	)

	return bp.ProcessBatch(ctx, cfg.Targets)
}

// printConfirmations prints one line per completed pass for each document.
func printConfirmations(out io.Writer, cfg *config.Config, docs []*model.Document) {
	for _, doc := range docs {
		if doc == nil || doc.Error != nil {
			continue
		}

		if cfg.DryRun {
			fmt.Fprintf(out, "Dry run: %d corrupted sequences, %d glyphs to insert (%s)\n",
				doc.Corruptions(), doc.Inserted(), doc.Path)
			continue
		}

		if cfg.Clean {
			fmt.Fprintf(out, "All corrupted characters removed successfully! (%s)\n", doc.Path)
		}
		if cfg.Checkmarks {
			fmt.Fprintf(out, "All list items updated with checkmarks! (%s)\n", doc.Path)
		}
		if cfg.TierEmojis {
			fmt.Fprintf(out, "All pricing tiers updated with emojis! (%s)\n", doc.Path)
		}
	}
}

// wantsReport reports whether a structured report was requested.
func wantsReport(cfg *config.Config) bool {
	return cfg.JSONReport || cfg.MarkdownReport || cfg.ReportFile != ""
}

// outputReport writes the reports for docs in the requested format, to
// cfg.ReportFile when set and to out otherwise.
func outputReport(cfg *config.Config, out io.Writer, docs []*model.Document) error {
	output := out
	if cfg.ReportFile != "" {
		dir := filepath.Dir(cfg.ReportFile)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}

		f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		output = f
	}

	var writer report.Writer
	switch {
	case cfg.JSONReport:
		writer = report.NewFullJSONWriter(output, getVersion(), report.WithPrettyPrint())
	case cfg.MarkdownReport:
		writer = report.NewMarkdownWriter(output)
	default:
		writer = report.NewSimpleWriter(output, report.WithVerbose(cfg.Verbose))
	}

	for _, doc := range docs {
		if doc == nil {
			continue
		}
		if _, err := writer.Write(doc); err != nil {
			return fmt.Errorf("failed to write report for %s: %w", doc.Path, err)
		}
	}
	return nil
}

// documentErrors joins the errors recorded on docs.
func documentErrors(docs []*model.Document) error {
	var errs []error
	for _, doc := range docs {
		if doc != nil && doc.Error != nil {
			errs = append(errs, doc.Error)
		}
	}
	return errors.Join(errs...)
}
