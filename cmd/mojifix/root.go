package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for mojifix.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mojifix",
		Short: "Remove mojibake from text files",
		Long: `mojifix removes mojibake from text files in place.

Mojibake is text that was UTF-8, got decoded as Windows-1252 and was
encoded again, so an emoji such as 📱 turns into "ðŸ“±". mojifix deletes
those sequences (or swaps them for a known glyph) using a rule table that
can be extended in the .mojifix configuration file.

It can also add decorative glyphs: a checkmark after every "<li>" and an
emoji in front of every known pricing tier name. Running it twice gives
the same result as running it once.

A .env file in the current directory is loaded on startup, so
MOJIFIX_CONFIG and MOJIFIX_DB_DIR can be set there.`,
		Version:           getVersion(),
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: loadDotEnv,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewFixCmd())
	cmd.AddCommand(NewCheckCmd())
	cmd.AddCommand(NewRulesCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// loadDotEnv loads .env from the current directory into the environment.
// Variables that are already set are not overridden, and a missing file
// is not an error.
func loadDotEnv(_ *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load .env: %w", err)
	}
	return nil
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
