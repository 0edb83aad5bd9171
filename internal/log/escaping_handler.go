package log

import (
	"context"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"unicode"
)

// MaxValueLength is the longest string attribute, in bytes after escaping,
// that is logged in full. Longer values are cut and end with TruncatedSuffix.
const MaxValueLength = 200

// TruncatedSuffix marks a value that was shortened.
const TruncatedSuffix = "...(truncated)"

// EscapingHandler wraps an slog.Handler and escapes string attributes
// that contain non-ASCII or control characters. Keys, the message and
// non-string values are passed through unchanged.
type EscapingHandler struct {
	// handler is the underlying slog handler that receives escaped records.
	handler slog.Handler
}

// NewEscapingHandler creates a new EscapingHandler wrapping the given handler.
// If handler is nil, the returned EscapingHandler uses slog.Default().Handler().
func NewEscapingHandler(handler slog.Handler) *EscapingHandler {
	if handler == nil {
		handler = slog.Default().Handler()
	}
	return &EscapingHandler{handler: handler}
}

// Enabled reports whether the handler handles records at the given level.
// It delegates to the underlying handler.
func (h *EscapingHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// Handle escapes the record's attributes and passes it to the underlying handler.
func (h *EscapingHandler) Handle(ctx context.Context, r slog.Record) error {
	escaped := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)

	r.Attrs(func(a slog.Attr) bool {
		escaped.AddAttrs(escapeAttr(a))
		return true
	})

	return h.handler.Handle(ctx, escaped)
}

// WithAttrs returns a new handler with the given attributes added.
// Attributes are escaped before being added.
func (h *EscapingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	escaped := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		escaped[i] = escapeAttr(a)
	}
	return &EscapingHandler{handler: h.handler.WithAttrs(escaped)}
}

// WithGroup returns a new handler with the given group name.
func (h *EscapingHandler) WithGroup(name string) slog.Handler {
	return &EscapingHandler{handler: h.handler.WithGroup(name)}
}

// escapeAttr escapes a single attribute, recursively handling groups.
func escapeAttr(a slog.Attr) slog.Attr {
	a.Value = a.Value.Resolve()

	switch a.Value.Kind() {
	case slog.KindGroup:
		attrs := a.Value.Group()
		escaped := make([]slog.Attr, len(attrs))
		for i, groupAttr := range attrs {
			escaped[i] = escapeAttr(groupAttr)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(escaped...)}
	case slog.KindString:
		return slog.String(a.Key, Escape(a.Value.String()))
	default:
		return a
	}
}

// Escape returns s with non-ASCII and control characters written as Go
// escape sequences, without surrounding quotes. Plain ASCII text is
// returned as is. The result is truncated to MaxValueLength.
func Escape(s string) string {
	if needsEscaping(s) {
		quoted := strconv.QuoteToASCII(s)
		s = quoted[1 : len(quoted)-1]
	}
	if len(s) > MaxValueLength {
		s = s[:MaxValueLength] + TruncatedSuffix
	}
	return s
}

func needsEscaping(s string) bool {
	return strings.ContainsFunc(s, func(r rune) bool {
		return r > unicode.MaxASCII || unicode.IsControl(r)
	})
}

// NewLogger creates a new text slog.Logger with escaping.
//
// Parameters:
//   - w: The io.Writer to write log output to (typically os.Stderr)
//   - verbose: If true, sets log level to Debug; otherwise Warn
func NewLogger(w io.Writer, verbose bool) *slog.Logger {
	return slog.New(NewEscapingHandler(slog.NewTextHandler(w, handlerOptions(verbose))))
}

// NewJSONLogger creates a new slog.Logger with escaping that outputs JSON
// format. Useful for structured log aggregation.
func NewJSONLogger(w io.Writer, verbose bool) *slog.Logger {
	return slog.New(NewEscapingHandler(slog.NewJSONHandler(w, handlerOptions(verbose))))
}

func handlerOptions(verbose bool) *slog.HandlerOptions {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return &slog.HandlerOptions{Level: level}
}
