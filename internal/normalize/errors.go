package normalize

import "errors"

// Rule table validation errors.
// These are returned by Validate, NewNormalizer and NewDecorator, wrapped
// with the offending rule's name.
var (
	// ErrEmptyMatch is returned when a literal rule has no text to match.
	ErrEmptyMatch = errors.New("literal rule has an empty match")

	// ErrSelfReplacing is returned when a literal replacement contains its
	// own match, which would make repeated application grow the text.
	ErrSelfReplacing = errors.New("literal replacement contains its own match")

	// ErrMarkerInReplacement is returned when a literal replacement contains
	// a prefix marker. The marker sweep would delete the replacement.
	ErrMarkerInReplacement = errors.New("literal replacement contains a prefix marker")

	// ErrLiteralWithoutMarker is returned when a literal match contains none
	// of the table's prefix markers. Such a literal could match text that the
	// sweep has just spliced together.
	ErrLiteralWithoutMarker = errors.New("literal match contains no prefix marker")

	// ErrZeroMarker is returned when a prefix rule has no marker rune.
	ErrZeroMarker = errors.New("prefix rule has no marker")

	// ErrUnknownStopClass is returned for a stop class that is not defined.
	ErrUnknownStopClass = errors.New("unknown stop class")

	// ErrEmptyAnchor is returned when an insertion rule has no After anchor.
	ErrEmptyAnchor = errors.New("insert rule has an empty anchor")

	// ErrEmptyGlyph is returned when an insertion rule has no glyph.
	ErrEmptyGlyph = errors.New("insert rule has an empty glyph")

	// ErrGlyphRepeatsAnchor is returned when inserting the glyph would create
	// a new place for the rule to match: the glyph followed by Before starts
	// with Before again, or, without Before, the glyph starts a new After.
	ErrGlyphRepeatsAnchor = errors.New("insert glyph would re-create its anchor")

	// ErrUnsupportedRule is returned when a rule is given to the wrong engine,
	// for example an Insert rule passed to NewNormalizer.
	ErrUnsupportedRule = errors.New("unsupported rule")
)
