// Package main provides the entry point for the mojifix CLI.
//
// mojifix removes mojibake (UTF-8 text decoded as Windows-1252 and encoded
// again) from text files in place, and can add decorative glyphs such as
// list checkmarks and pricing tier emojis.
//
// Usage:
//
//	mojifix fix [file...]
//	mojifix check [file...]
//
// See --help for all available options.
package main

// main is the entry point for mojifix.
func main() {
	Execute()
}
