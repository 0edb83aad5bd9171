package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/mojifix/internal/model"
)

// SimpleWriter outputs human-readable text reports for terminal display.
// Corrupted sequences are printed with Go quoting so that invisible
// control characters show up.
type SimpleWriter struct {
	baseWriter

	// showEmpty controls whether sections with no entries are shown.
	showEmpty bool

	// verbose adds the likely original of each sample.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithShowEmpty configures the writer to show empty sections.
func WithShowEmpty(show bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.showEmpty = show
	}
}

// WithVerbose enables verbose output with additional details.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
		showEmpty:  false,
		verbose:    false,
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the report for doc in human-readable format.
func (w *SimpleWriter) Write(doc *model.Document) (int, error) {
	return w.WriteSimple(model.NewSummary(doc))
}

// WriteSimple outputs the summary in human-readable format.
func (w *SimpleWriter) WriteSimple(summary *model.Summary) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, summary)
	w.writeCounts(&sb, summary)
	w.writeRuleHits(&sb, summary)
	w.writeSamples(&sb, summary)
	w.writeFooter(&sb)

	return w.output.Write([]byte(sb.String()))
}

func (w *SimpleWriter) writeHeader(sb *strings.Builder, s *model.Summary) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("                          MOJIFIX REPORT\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")

	fmt.Fprintf(sb, "File:           %s\n", s.Path)
	fmt.Fprintf(sb, "Processed:      %s\n", s.DateProcessed.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(sb, "Status:         %s\n", statusText(s))
	sb.WriteString("\n")
}

func (w *SimpleWriter) writeCounts(sb *strings.Builder, s *model.Summary) {
	writeSection(sb, "SUMMARY")

	fmt.Fprintf(sb, "  REMOVED:  %d\n", s.Removed)
	fmt.Fprintf(sb, "  REPLACED: %d\n", s.Replaced)
	fmt.Fprintf(sb, "  INSERTED: %d\n", s.Inserted)
	sb.WriteString("\n")
	fmt.Fprintf(sb, "  SIZE:     %d -> %d bytes\n", s.BytesBefore, s.BytesAfter)
	sb.WriteString("\n")
}

func (w *SimpleWriter) writeRuleHits(sb *strings.Builder, s *model.Summary) {
	if len(s.RuleHits) == 0 && !w.showEmpty {
		return
	}

	writeSection(sb, "RULE HITS")

	if len(s.RuleHits) == 0 {
		sb.WriteString("  No rule fired\n\n")
		return
	}
	for _, h := range s.RuleHits {
		fmt.Fprintf(sb, "  %5d  [%s] %s\n", h.Count, h.Kind, h.Rule)
	}
	sb.WriteString("\n")
}

func (w *SimpleWriter) writeSamples(sb *strings.Builder, s *model.Summary) {
	if len(s.Samples) == 0 && !w.showEmpty {
		return
	}

	writeSection(sb, "CORRUPTED SEQUENCES")

	if len(s.Samples) == 0 {
		sb.WriteString("  None found\n\n")
		return
	}
	for _, f := range s.Samples {
		fmt.Fprintf(sb, "  * %q", f.Original)
		if f.Replacement != "" {
			fmt.Fprintf(sb, " -> %q", f.Replacement)
		}
		sb.WriteString("\n")
		if w.verbose {
			fmt.Fprintf(sb, "    Rule: %s\n", f.Rule)
			if f.Likely != "" {
				fmt.Fprintf(sb, "    Likely original: %s\n", f.Likely)
			}
		}
	}
	sb.WriteString("\n")
}

func (w *SimpleWriter) writeFooter(sb *strings.Builder) {
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("Report generated by mojifix\n")
	sb.WriteString("https://github.com/nao1215/mojifix\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
}

func writeSection(sb *strings.Builder, title string) {
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString(title)
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")
}
