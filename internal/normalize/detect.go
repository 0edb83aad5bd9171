package normalize

import (
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// Likely guesses what a corrupted sequence looked like before it was
// decoded as Windows-1252. It re-encodes seq to Windows-1252 and returns the
// bytes if they form valid UTF-8 that differs from seq. Otherwise it returns
// the empty string.
//
// The guess is only reported. It never changes normalized output.
func Likely(seq string) string {
	if seq == "" {
		return ""
	}

	raw, _, err := transform.String(charmap.Windows1252.NewEncoder(), seq)
	if err != nil || raw == seq || !utf8.ValidString(raw) {
		return ""
	}
	return raw
}
