package report

import (
	"io"
	"unicode/utf8"

	"github.com/nao1215/mojifix/internal/model"
)

// Writer defines the interface for report output.
// Implementations write processing results in various formats.
type Writer interface {
	// Write outputs the report for one processed document.
	// Returns the number of bytes written and any error encountered.
	Write(doc *model.Document) (int, error)

	// WriteSimple outputs a summary, e.g. one loaded from the history.
	WriteSimple(summary *model.Summary) (int, error)
}

// MultiWriter writes to multiple Writers simultaneously.
// This is useful for outputting to both terminal and file.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write outputs the report to all configured Writers.
// Returns the total bytes written across all writers.
// Stops on first error encountered.
func (m *MultiWriter) Write(doc *model.Document) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.Write(doc)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// WriteSimple outputs the summary to all configured Writers.
func (m *MultiWriter) WriteSimple(summary *model.Summary) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.WriteSimple(summary)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

// statusText describes what happened to the file.
func statusText(s *model.Summary) string {
	switch {
	case s.Error != "":
		return "ERROR - " + s.Error
	case s.DryRun && s.Changed:
		return "Dry run (changes not written)"
	case s.Written:
		return "Written"
	case s.Changed:
		return "Changed (not written)"
	default:
		return "Unchanged"
	}
}

// truncateString truncates s to maxLen runes with an ellipsis.
func truncateString(s string, maxLen int) string {
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	runes := []rune(s)
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}
