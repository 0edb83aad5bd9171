package report

import (
	"encoding/json"
	"io"

	"github.com/nao1215/mojifix/internal/model"
)

// JSONWriter outputs reports in JSON format, one value per line when
// compact. Text buffers are never serialized, only counts and fixes.
type JSONWriter struct {
	baseWriter

	// indent enables pretty-printed JSON output.
	indent bool

	// indentPrefix is the prefix for each line in indented output.
	indentPrefix string

	// indentString is the indentation string (typically "  " or "\t").
	indentString string
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithIndent enables pretty-printed JSON output.
// The prefix is prepended to each line, and indent is used for each level.
func WithIndent(prefix, indent string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentPrefix = prefix
		w.indentString = indent
	}
}

// WithPrettyPrint enables pretty-printed JSON with default indentation.
func WithPrettyPrint() JSONWriterOption {
	return WithIndent("", "  ")
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the document with every fix in JSON format.
func (w *JSONWriter) Write(doc *model.Document) (int, error) {
	return w.writeJSON(doc)
}

// WriteSimple outputs only the summary in JSON format.
func (w *JSONWriter) WriteSimple(summary *model.Summary) (int, error) {
	return w.writeJSON(summary)
}

// writeJSON marshals the given value to JSON and writes it to the output.
func (w *JSONWriter) writeJSON(v any) (int, error) {
	var data []byte
	var err error

	if w.indent {
		data, err = json.MarshalIndent(v, w.indentPrefix, w.indentString)
	} else {
		data, err = json.Marshal(v)
	}

	if err != nil {
		return 0, err
	}

	data = append(data, '\n')

	return w.output.Write(data)
}

// JSONReport wraps a document with the tool version and its summary.
type JSONReport struct {
	// Version is the mojifix version that generated this report.
	Version string `json:"version"`

	// Document is the processed document with every fix.
	Document *model.Document `json:"document"`

	// Summary is the condensed view for quick access.
	Summary *model.Summary `json:"summary"`
}

// NewJSONReport creates a JSONReport wrapper with version information.
func NewJSONReport(doc *model.Document, version string) *JSONReport {
	return &JSONReport{
		Version:  version,
		Document: doc,
		Summary:  model.NewSummary(doc),
	}
}

// FullJSONWriter outputs complete reports with metadata wrapper.
type FullJSONWriter struct {
	*JSONWriter

	// version is the mojifix version string.
	version string
}

// NewFullJSONWriter creates a writer for complete reports with metadata.
func NewFullJSONWriter(output io.Writer, version string, opts ...JSONWriterOption) *FullJSONWriter {
	return &FullJSONWriter{
		JSONWriter: NewJSONWriter(output, opts...),
		version:    version,
	}
}

// Write outputs the document wrapped with metadata.
func (w *FullJSONWriter) Write(doc *model.Document) (int, error) {
	return w.writeJSON(NewJSONReport(doc, w.version))
}
