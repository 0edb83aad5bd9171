package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and by the rule conversion
// helpers, and can be matched with errors.Is().
var (
	// ErrNoTarget is returned when no file to process is known.
	// This only happens when the config file sets an empty target and no
	// positional argument is given.
	ErrNoTarget = errors.New("no target specified: provide a file path or set target in the config file")

	// ErrInvalidBatchSize is returned when the batch size is not positive.
	ErrInvalidBatchSize = errors.New("invalid batch size: must be positive")

	// ErrConflictingReportFormats is returned when both --json and --markdown
	// are specified. Only one output format can be used at a time.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")

	// ErrNothingToDo is returned when cleanup is disabled and no decoration
	// rule is enabled, so a run could never change a file.
	ErrNothingToDo = errors.New("nothing to do: cleanup is disabled and no decoration is enabled")

	// ErrInvalidMarker is returned when a prefix rule in the config file does
	// not name exactly one character.
	ErrInvalidMarker = errors.New("invalid prefix marker: must be exactly one character")
)
