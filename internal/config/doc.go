// Package config provides configuration structures and utilities for mojifix.
// It defines the run options set from CLI flags, the .mojifix YAML file that
// extends the rule tables, and the XDG locations used for config and history.
package config
