// Package model defines the core data structures used throughout mojifix.
//
// This package contains the following main types:
//   - Document: One text resource moving through the fix pipeline
//   - Fix: A single removal, replacement or glyph insertion
//   - Summary: A condensed, serializable view of a processed Document
//   - RuleKind: The tagged variant of the rule that produced a Fix
//
// Design decision: We separate models into their own package to avoid circular
// dependencies. The normalize, pipeline, report and database packages all
// need these types, so centralizing them prevents import cycles.
//
// The models are designed to be serializable to JSON for report output and
// history storage.
package model
