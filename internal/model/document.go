package model

import "time"

// Document is the main unit of work: one text resource read from disk,
// normalized in memory and written back.
//
// Design decision: We use a single struct that each pipeline step mutates
// rather than passing strings between steps. Steps stay independent and the
// same value carries everything the report writers and history need.
type Document struct {
	// Path is the file the document was read from and is written back to.
	Path string `json:"path"`

	// DateProcessed is when processing started.
	DateProcessed time.Time `json:"date_processed"`

	// Original is the text as read from disk.
	Original string `json:"-"`

	// Content is the current text. Steps replace it as they run.
	Content string `json:"-"`

	// BytesBefore is the size of Original.
	BytesBefore int `json:"bytes_before"`

	// BytesAfter is the size of Content after the last step.
	BytesAfter int `json:"bytes_after"`

	// Fixes lists every change in the order it was made.
	Fixes []Fix `json:"fixes,omitempty"`

	// DryRun is true when the result was not written back.
	DryRun bool `json:"dry_run"`

	// Written is true when the result was written back to Path.
	Written bool `json:"written"`

	// PerformedSteps lists the pipeline steps that ran.
	PerformedSteps []string `json:"performed_steps,omitempty"`

	// Error is the error that stopped processing, if any.
	Error error `json:"-"`

	// ErrorMessage is Error rendered for serialization.
	ErrorMessage string `json:"error,omitempty"`
}

// NewDocument creates an empty Document for the given path.
func NewDocument(path string) *Document {
	return &Document{
		Path:           path,
		DateProcessed:  time.Now(),
		Fixes:          make([]Fix, 0),
		PerformedSteps: make([]string, 0),
	}
}

// Load sets the original and current text.
func (d *Document) Load(text string) {
	d.Original = text
	d.Content = text
	d.BytesBefore = len(text)
	d.BytesAfter = len(text)
}

// Update replaces the current text and records the fixes that produced it.
func (d *Document) Update(text string, fixes []Fix) {
	d.Content = text
	d.BytesAfter = len(text)
	d.Fixes = append(d.Fixes, fixes...)
}

// Changed reports whether the current text differs from the original.
func (d *Document) Changed() bool {
	return d.Content != d.Original
}

// SetError records err on the document.
func (d *Document) SetError(err error) {
	d.Error = err
	if err != nil {
		d.ErrorMessage = err.Error()
	}
}

// Removed returns the number of deleted sequences.
func (d *Document) Removed() int {
	return d.count(Fix.IsRemoval)
}

// Replaced returns the number of sequences swapped for a glyph.
func (d *Document) Replaced() int {
	return d.count(Fix.IsReplacement)
}

// Inserted returns the number of decorative glyphs added.
func (d *Document) Inserted() int {
	return d.count(Fix.IsInsertion)
}

// Corruptions returns the number of corrupted sequences handled, that is
// every fix except insertions.
func (d *Document) Corruptions() int {
	return d.Removed() + d.Replaced()
}

func (d *Document) count(pred func(Fix) bool) int {
	n := 0
	for _, f := range d.Fixes {
		if pred(f) {
			n++
		}
	}
	return n
}
