package config

import (
	"path/filepath"

	"github.com/adrg/xdg"

	"github.com/nao1215/mojifix/internal/normalize"
)

// Default configuration values.
const (
	// DefaultTarget is the page the cleanup scripts were written for.
	// It is used when neither the command line nor the config file names a file.
	DefaultTarget = "public/services.html"

	// DefaultBatchSize is the number of files processed concurrently.
	// Files are small and the work is CPU bound, so a small pool is enough.
	DefaultBatchSize = 4

	// AppName is the application name used for XDG directory paths.
	AppName = "mojifix"

	// EnvConfigPath names the environment variable that points at a config
	// file. It is read after .env files are loaded.
	EnvConfigPath = "MOJIFIX_CONFIG"

	// EnvDBDir names the environment variable that overrides the history
	// database directory.
	EnvDBDir = "MOJIFIX_DB_DIR"
)

// Config holds all options for one mojifix invocation.
// It is populated from the config file and CLI flags and passed down
// explicitly. No package keeps it as global state.
type Config struct {
	// ConfigFilePath is the path to the configuration file.
	// If empty, FindConfigFile searches the default locations.
	ConfigFilePath string

	// File is the parsed configuration file, or nil when none was found.
	File *File

	// Targets is the list of files to process.
	Targets []string

	// Clean enables the cleanup rule table.
	Clean bool

	// Checkmarks enables the built-in list item checkmark rule.
	Checkmarks bool

	// TierEmojis enables the built-in pricing tier emoji rules.
	TierEmojis bool

	// DryRun computes and reports fixes without writing files.
	DryRun bool

	// BatchSize is the number of files processed concurrently.
	BatchSize int

	// JSONReport enables JSON report output instead of the confirmation lines.
	// Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport enables GitHub Flavored Markdown report output.
	// Mutually exclusive with JSONReport.
	MarkdownReport bool

	// ReportFile is the output file path for the report.
	// When set, the report is written to this file instead of stdout.
	ReportFile string

	// SaveHistory records each run in the history database.
	SaveHistory bool

	// DBDir is the directory path for the SQLite history database.
	// Defaults to XDG data directory (~/.local/share/mojifix on Linux).
	DBDir string

	// Verbose enables detailed log output using slog.LevelDebug.
	Verbose bool
}

// NewConfig creates a new Config with default values.
// Cleanup is on, decorations are off, and history is recorded.
func NewConfig() *Config {
	return &Config{
		Clean:       true,
		BatchSize:   DefaultBatchSize,
		SaveHistory: true,
		DBDir:       XDGDataDir(),
	}
}

// XDGDataDir returns the XDG data directory for mojifix.
// On Linux: ~/.local/share/mojifix
// On macOS: ~/Library/Application Support/mojifix
// On Windows: %LOCALAPPDATA%\mojifix
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for mojifix.
// On Linux: ~/.config/mojifix
// On macOS: ~/Library/Application Support/mojifix
// On Windows: %APPDATA%\mojifix
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// ApplyFile copies the settings of a config file into c.
// Command line flags are applied afterwards by the caller, so they win.
func (c *Config) ApplyFile(f *File) {
	if f == nil {
		return
	}
	c.File = f
	if f.Target != "" && len(c.Targets) == 0 {
		c.Targets = []string{f.Target}
	}
	if f.Clean != nil {
		c.Clean = *f.Clean
	}
	c.Checkmarks = c.Checkmarks || f.Checkmarks
	c.TierEmojis = c.TierEmojis || f.TierEmojis
}

// CleanupRules returns the effective cleanup table: rules from the config
// file first, then the built-in table unless the file replaces it.
// It returns an empty table when cleanup is disabled.
func (c *Config) CleanupRules() ([]normalize.Rule, error) {
	if !c.Clean {
		return []normalize.Rule{}, nil
	}
	if c.File == nil {
		return normalize.DefaultCleanupRules(), nil
	}

	rules, err := c.File.Rules.CleanupRules()
	if err != nil {
		return nil, err
	}
	if !c.File.ReplaceDefaults {
		rules = append(rules, normalize.DefaultCleanupRules()...)
	}
	return rules, nil
}

// DecorationRules returns the enabled built-in insertion rules followed by
// the insertion rules from the config file.
func (c *Config) DecorationRules() []normalize.Insert {
	rules := make([]normalize.Insert, 0)
	if c.Checkmarks {
		rules = append(rules, normalize.CheckmarkRules()...)
	}
	if c.TierEmojis {
		rules = append(rules, normalize.TierEmojiRules()...)
	}
	if c.File != nil {
		rules = append(rules, c.File.Rules.InsertRules()...)
	}
	return rules
}

// Validate checks if the configuration is valid.
// It returns the first problem found as a sentinel error.
func (c *Config) Validate() error {
	if len(c.Targets) == 0 {
		return ErrNoTarget
	}

	if c.BatchSize <= 0 {
		return ErrInvalidBatchSize
	}

	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}

	if !c.Clean && len(c.DecorationRules()) == 0 {
		return ErrNothingToDo
	}

	return nil
}
