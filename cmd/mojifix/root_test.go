package main

import (
	"os"
	"path/filepath"
	"testing"
)

// TestNewRootCmd tests the root command creation.
func TestNewRootCmd(t *testing.T) {
	t.Parallel()

	cmd := NewRootCmd()

	t.Run("has correct use", func(t *testing.T) {
		t.Parallel()
		if cmd.Use != "mojifix" {
			t.Errorf("expected use 'mojifix', got %q", cmd.Use)
		}
	})

	t.Run("has descriptions and version", func(t *testing.T) {
		t.Parallel()
		if cmd.Short == "" || cmd.Long == "" {
			t.Error("expected non-empty descriptions")
		}
		if cmd.Version == "" {
			t.Error("expected non-empty version")
		}
	})

	t.Run("has verbose flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.PersistentFlags().Lookup("verbose")
		if flag == nil {
			t.Fatal("expected verbose flag")
		}
		if flag.Shorthand != "v" {
			t.Errorf("expected shorthand 'v', got %q", flag.Shorthand)
		}
		if flag.DefValue != "false" {
			t.Errorf("expected default 'false', got %q", flag.DefValue)
		}
	})

	t.Run("has subcommands", func(t *testing.T) {
		t.Parallel()
		want := map[string]bool{
			"fix":     false,
			"check":   false,
			"rules":   false,
			"history": false,
			"init":    false,
			"version": false,
		}
		for _, sub := range cmd.Commands() {
			if _, ok := want[sub.Name()]; ok {
				want[sub.Name()] = true
			}
		}
		for name, found := range want {
			if !found {
				t.Errorf("expected %s subcommand", name)
			}
		}
	})

	t.Run("silences usage and errors", func(t *testing.T) {
		t.Parallel()
		if !cmd.SilenceUsage {
			t.Error("expected SilenceUsage to be true")
		}
		if !cmd.SilenceErrors {
			t.Error("expected SilenceErrors to be true")
		}
	})
}

// TestLoadDotEnv tests .env loading from the working directory.
func TestLoadDotEnv(t *testing.T) {
	t.Run("missing file is not an error", func(t *testing.T) {
		t.Chdir(t.TempDir())

		if err := loadDotEnv(nil, nil); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("sets variables from file", func(t *testing.T) {
		dir := t.TempDir()
		dbDir := filepath.Join(dir, "history")
		if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("MOJIFIX_DB_DIR="+dbDir+"\n"), 0600); err != nil {
			t.Fatalf("failed to write .env: %v", err)
		}
		t.Chdir(dir)
		// Registers cleanup for the variable; loadDotEnv only sets unset variables.
		t.Setenv("MOJIFIX_DB_DIR", "")
		if err := os.Unsetenv("MOJIFIX_DB_DIR"); err != nil {
			t.Fatalf("failed to unset: %v", err)
		}

		if err := loadDotEnv(nil, nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := historyDir(); got != dbDir {
			t.Errorf("historyDir() = %q, want %q", got, dbDir)
		}
	})
}
