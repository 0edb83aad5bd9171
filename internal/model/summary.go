package model

import (
	"sort"
	"time"
)

// Summary is a condensed view of a processed Document.
// It is what the report writers print and what the history stores.
//
// Design decision: We create a separate summary rather than printing parts
// of Document because:
// 1. It aggregates per-rule counts once instead of in every writer
// 2. It serializes without the (possibly large) text buffers
type Summary struct {
	// Path is the processed file.
	Path string `json:"path"`

	// DateProcessed is when processing started.
	DateProcessed time.Time `json:"date_processed"`

	// Removed is the number of deleted corrupted sequences.
	Removed int `json:"removed"`

	// Replaced is the number of sequences swapped for a glyph.
	Replaced int `json:"replaced"`

	// Inserted is the number of decorative glyphs added.
	Inserted int `json:"inserted"`

	// BytesBefore is the input size.
	BytesBefore int `json:"bytes_before"`

	// BytesAfter is the output size.
	BytesAfter int `json:"bytes_after"`

	// Changed is true when output differs from input.
	Changed bool `json:"changed"`

	// Written is true when output was written back.
	Written bool `json:"written"`

	// DryRun is true when writing was disabled.
	DryRun bool `json:"dry_run"`

	// RuleHits counts fixes per rule, most frequent first.
	RuleHits []RuleHit `json:"rule_hits,omitempty"`

	// Samples holds up to MaxSamples distinct corrupted sequences.
	Samples []Fix `json:"samples,omitempty"`

	// Error contains the error message if processing failed.
	Error string `json:"error,omitempty"`
}

// RuleHit is the number of fixes one rule produced.
type RuleHit struct {
	Rule  string   `json:"rule"`
	Kind  RuleKind `json:"kind"`
	Count int      `json:"count"`
}

// MaxSamples bounds Summary.Samples.
const MaxSamples = 20

// NewSummary builds a Summary from a Document.
func NewSummary(doc *Document) *Summary {
	s := &Summary{
		Path:          doc.Path,
		DateProcessed: doc.DateProcessed,
		Removed:       doc.Removed(),
		Replaced:      doc.Replaced(),
		Inserted:      doc.Inserted(),
		BytesBefore:   doc.BytesBefore,
		BytesAfter:    doc.BytesAfter,
		Changed:       doc.Changed(),
		Written:       doc.Written,
		DryRun:        doc.DryRun,
		Error:         doc.ErrorMessage,
	}
	s.collectRuleHits(doc.Fixes)
	s.collectSamples(doc.Fixes)
	return s
}

func (s *Summary) collectRuleHits(fixes []Fix) {
	index := make(map[string]int)
	for _, f := range fixes {
		i, ok := index[f.Rule]
		if !ok {
			i = len(s.RuleHits)
			index[f.Rule] = i
			s.RuleHits = append(s.RuleHits, RuleHit{Rule: f.Rule, Kind: f.Kind})
		}
		s.RuleHits[i].Count++
	}

	// Stable so that equal counts keep first-seen order.
	sort.SliceStable(s.RuleHits, func(i, j int) bool {
		return s.RuleHits[i].Count > s.RuleHits[j].Count
	})
}

func (s *Summary) collectSamples(fixes []Fix) {
	seen := make(map[string]bool)
	for _, f := range fixes {
		if f.IsInsertion() || seen[f.Original] {
			continue
		}
		seen[f.Original] = true
		s.Samples = append(s.Samples, f)
		if len(s.Samples) == MaxSamples {
			return
		}
	}
}

// Corruptions returns Removed plus Replaced.
func (s *Summary) Corruptions() int {
	return s.Removed + s.Replaced
}

// TotalFixes returns every recorded change, including insertions.
func (s *Summary) TotalFixes() int {
	return s.Removed + s.Replaced + s.Inserted
}

// HasCorruption reports whether any corrupted sequence was found.
func (s *Summary) HasCorruption() bool {
	return s.Corruptions() > 0
}
