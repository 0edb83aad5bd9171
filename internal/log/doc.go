// Package log provides mojifix's logging setup, built on top of the standard
// slog package.
//
// Mojifix logs the byte sequences it removes, and those sequences are
// mojibake by definition: Latin-1 letters, C1 control characters and stray
// symbols. Written raw, they make log lines hard to read and can even break
// them across lines. The EscapingHandler rewrites every string attribute
// that contains non-ASCII or control characters into Go escape notation
// before it reaches the underlying handler, and shortens very long values.
//
// # Usage
//
//	logger := log.NewLogger(os.Stderr, true) // verbose=true
//
//	logger.Debug("removed sequence",
//	    "seq", "ðŸ“±", // logged as seq=ðŸ“±
//	    "path", "public/services.html",
//	)
//
//	slog.SetDefault(logger)
package log
