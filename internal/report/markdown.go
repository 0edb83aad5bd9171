package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/nao1215/mojifix/internal/model"
)

// MarkdownWriter outputs reports in GitHub Flavored Markdown, with tables,
// alerts and a mermaid pie chart of fixes per rule.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the report for doc in Markdown format.
func (w *MarkdownWriter) Write(doc *model.Document) (int, error) {
	return w.WriteSimple(model.NewSummary(doc))
}

// WriteSimple outputs the summary in Markdown format.
func (w *MarkdownWriter) WriteSimple(summary *model.Summary) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, summary)
	w.writeCounts(md, summary)
	w.writeRuleHits(md, summary)
	w.writeSamples(md, summary)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, s *model.Summary) {
	md.H1("Mojifix Report")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"File", "`" + s.Path + "`"},
			{"Processed", s.DateProcessed.Format("2006-01-02 15:04:05 MST")},
			{"Status", w.getStatusText(s)},
		},
	})
	md.PlainText("")
}

// getStatusText decorates statusText with an icon.
func (w *MarkdownWriter) getStatusText(s *model.Summary) string {
	switch {
	case s.Error != "":
		return "❌ " + statusText(s)
	case s.DryRun && s.Changed:
		return "⚠️ " + statusText(s)
	default:
		return "✅ " + statusText(s)
	}
}

func (w *MarkdownWriter) writeCounts(md *markdown.Markdown, s *model.Summary) {
	md.H2("Summary")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Change", "Count"},
		Rows: [][]string{
			{"Removed", strconv.Itoa(s.Removed)},
			{"Replaced", strconv.Itoa(s.Replaced)},
			{"Inserted", strconv.Itoa(s.Inserted)},
			{"**Total**", "**" + strconv.Itoa(s.TotalFixes()) + "**"},
			{"Size", fmt.Sprintf("%d → %d bytes", s.BytesBefore, s.BytesAfter)},
		},
	})
	md.PlainText("")

	if len(s.RuleHits) > 0 {
		w.writePieChart(md, s)
	}

	w.writeAlert(md, s)
}

// writePieChart writes a mermaid pie chart of fixes per rule.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, s *model.Summary) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Fixes per Rule"),
		piechart.WithShowData(true),
	)

	for _, h := range s.RuleHits {
		// Mermaid pie labels are double-quoted.
		label := strings.ReplaceAll(h.Rule, `"`, "'")
		chart.LabelAndIntValue(label, uint64(h.Count)) //nolint:gosec // counts are never negative
	}

	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, s *model.Summary) {
	switch {
	case s.Error != "":
		md.Cautionf("Processing failed: %s", s.Error)
	case s.DryRun && s.HasCorruption():
		md.Warningf(
			"%d corrupted sequence(s) found. Run without --dry-run to fix them.",
			s.Corruptions(),
		)
	case s.HasCorruption():
		md.Importantf("%d corrupted sequence(s) were fixed.", s.Corruptions())
	case s.Inserted > 0:
		md.Note("No corruption found. Only decorations were added.")
	default:
		md.Tip("No corrupted sequences found.")
	}
	md.PlainText("")
}

func (w *MarkdownWriter) writeRuleHits(md *markdown.Markdown, s *model.Summary) {
	md.H2("Rule Hits")
	md.PlainText("")

	if len(s.RuleHits) == 0 {
		md.PlainText("No rule fired.")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(s.RuleHits))
	for i, h := range s.RuleHits {
		rows[i] = []string{truncateString(h.Rule, 60), h.Kind.String(), strconv.Itoa(h.Count)}
	}

	md.Table(markdown.TableSet{
		Header: []string{"Rule", "Kind", "Count"},
		Rows:   rows,
	})
	md.PlainText("")
}

func (w *MarkdownWriter) writeSamples(md *markdown.Markdown, s *model.Summary) {
	if len(s.Samples) == 0 {
		return
	}

	md.H2("Corrupted Sequences")
	md.PlainText("")

	rows := make([][]string, len(s.Samples))
	for i, f := range s.Samples {
		likely := f.Likely
		if likely == "" {
			likely = "-"
		}
		replacement := f.Replacement
		if replacement == "" {
			replacement = "(removed)"
		}
		rows[i] = []string{
			"`" + truncateString(strconv.Quote(f.Original), 40) + "`",
			replacement,
			likely,
			truncateString(f.Rule, 40),
		}
	}

	md.Table(markdown.TableSet{
		Header: []string{"Sequence", "Replacement", "Likely Original", "Rule"},
		Rows:   rows,
	})
	md.PlainText("")
}

func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [mojifix](https://github.com/nao1215/mojifix)*")
}
