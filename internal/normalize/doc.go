// Package normalize repairs text damaged by a UTF-8 / Windows-1252 double
// encoding round trip ("mojibake") and applies idempotent glyph insertions.
//
// Both operations are pure functions over a string, driven by declarative
// rule tables:
//
//   - Literal: an exact corrupted substring and its replacement (empty to
//     delete, or a correct glyph).
//   - PrefixRun: a marker rune such as 'ð' or 'â' that starts a garbled
//     sequence, deleted together with the run of symbol runes after it.
//   - Insert: a glyph placed between two anchors, such as a checkmark after
//     "<li>" when the item starts with a space.
//
// A Normalizer applies literals first (in table order, repeated until
// stable) and then sweeps the text once, left to right, for prefix markers.
// Literal rules run first so that sequences mapped to a glyph are not
// destroyed by the generic sweep.
//
// # Usage
//
//	n := normalize.Default()
//	clean := n.Normalize("Before ðŸ“± After") // "Before  After"
//
//	d := normalize.MustNewDecorator(normalize.CheckmarkRules()...)
//	out := d.Decorate("<li> Hosting") // "<li>✓ Hosting"
//
// Nothing in this package performs I/O.
package normalize
