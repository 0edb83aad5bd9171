package normalize

import (
	"fmt"
	"slices"
	"strings"
	"unicode"

	"github.com/nao1215/mojifix/internal/model"
)

// Rule is one entry of a rule table. The concrete types are Literal,
// PrefixRun and Insert.
type Rule interface {
	// Name returns a label used in reports.
	Name() string

	// Kind returns the rule variant.
	Kind() model.RuleKind
}

// StopClass decides where a prefix run ends.
type StopClass string

const (
	// StopASCIIAlnumSpace ends a run at ASCII letters, ASCII digits or any
	// whitespace. The run is everything matched by [^a-zA-Z0-9\s]*.
	StopASCIIAlnumSpace StopClass = "ascii-alnum-space"

	// StopWordSpace ends a run at any Unicode letter, digit, underscore or
	// whitespace. The run is everything matched by [^\w\s]* with Unicode \w.
	StopWordSpace StopClass = "word-space"

	// StopMarkup is StopASCIIAlnumSpace that also stops at the characters
	// that delimit HTML markup, so a run never eats into a neighbouring tag.
	StopMarkup StopClass = "markup"
)

// StopClasses lists every defined stop class.
func StopClasses() []StopClass {
	return []StopClass{StopASCIIAlnumSpace, StopWordSpace, StopMarkup}
}

// Valid reports whether c is a defined stop class. The zero value is valid
// and means StopASCIIAlnumSpace.
func (c StopClass) Valid() bool {
	switch c {
	case "", StopASCIIAlnumSpace, StopWordSpace, StopMarkup:
		return true
	default:
		return false
	}
}

// Stops reports whether r ends a run.
func (c StopClass) Stops(r rune) bool {
	if unicode.IsSpace(r) {
		return true
	}
	switch c {
	case StopWordSpace:
		return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
	case StopMarkup:
		return isASCIIAlnum(r) || strings.ContainsRune(`<>&"'=/`, r)
	default:
		return isASCIIAlnum(r)
	}
}

func isASCIIAlnum(r rune) bool {
	return ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z') || ('0' <= r && r <= '9')
}

// Literal replaces every occurrence of Match with Replacement.
type Literal struct {
	// Label overrides the generated name.
	Label string

	// Match is the exact corrupted substring.
	Match string

	// Replacement is the text written instead. Empty deletes the match.
	Replacement string
}

// Name implements Rule.
func (l Literal) Name() string {
	if l.Label != "" {
		return l.Label
	}
	return fmt.Sprintf("literal %q", l.Match)
}

// Kind implements Rule.
func (l Literal) Kind() model.RuleKind {
	return model.RuleKindLiteral
}

// PrefixRun deletes Marker and the run of runes after it that Stop does not
// end.
type PrefixRun struct {
	// Label overrides the generated name.
	Label string

	// Marker is the rune that starts a corrupted sequence.
	Marker rune

	// Stop decides where the run ends. Empty means StopASCIIAlnumSpace.
	Stop StopClass
}

// Name implements Rule.
func (p PrefixRun) Name() string {
	if p.Label != "" {
		return p.Label
	}
	return fmt.Sprintf("prefix %q", p.Marker)
}

// Kind implements Rule.
func (p PrefixRun) Kind() model.RuleKind {
	return model.RuleKindPrefixRun
}

// Insert places Glyph between After and Before wherever After is
// immediately followed by Before.
type Insert struct {
	// Label overrides the generated name.
	Label string

	// After is the structural marker the glyph follows, e.g. "<li>".
	After string

	// Before is the text that must follow After for the rule to apply.
	// When empty, the rule applies wherever After is not already followed
	// by Glyph.
	Before string

	// Glyph is the decoration to insert.
	Glyph string
}

// Name implements Rule.
func (i Insert) Name() string {
	if i.Label != "" {
		return i.Label
	}
	return fmt.Sprintf("insert %q after %q", i.Glyph, i.After)
}

// Kind implements Rule.
func (i Insert) Kind() model.RuleKind {
	return model.RuleKindInsert
}

// Validate checks a rule table for entries the engines cannot apply safely.
// The first problem found is returned.
func Validate(rules []Rule) error {
	markers := make([]rune, 0)
	for _, r := range rules {
		if p, ok := r.(PrefixRun); ok {
			markers = append(markers, p.Marker)
		}
	}

	for _, r := range rules {
		var err error
		switch rule := r.(type) {
		case Literal:
			err = rule.validate(markers)
		case PrefixRun:
			err = rule.validate()
		case Insert:
			err = rule.validate()
		default:
			err = ErrUnsupportedRule
		}
		if err != nil {
			return fmt.Errorf("rule %s: %w", r.Name(), err)
		}
	}
	return nil
}

func (l Literal) validate(markers []rune) error {
	if l.Match == "" {
		return ErrEmptyMatch
	}
	if l.Replacement != "" && strings.Contains(l.Replacement, l.Match) {
		return ErrSelfReplacing
	}
	for _, m := range markers {
		if strings.ContainsRune(l.Replacement, m) {
			return ErrMarkerInReplacement
		}
	}
	// Every match must hold a marker. The sweep leaves no marker behind, so
	// no literal can match the output again.
	if !strings.ContainsFunc(l.Match, func(r rune) bool { return slices.Contains(markers, r) }) {
		return ErrLiteralWithoutMarker
	}
	return nil
}

func (p PrefixRun) validate() error {
	if p.Marker == 0 {
		return ErrZeroMarker
	}
	if !p.Stop.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownStopClass, p.Stop)
	}
	return nil
}

func (i Insert) validate() error {
	if i.After == "" {
		return ErrEmptyAnchor
	}
	if i.Glyph == "" {
		return ErrEmptyGlyph
	}
	if i.Before != "" && strings.HasPrefix(i.Glyph+i.Before, i.Before) {
		return ErrGlyphRepeatsAnchor
	}
	if i.Before == "" && glyphStartsAnchor(i.After, i.Glyph) {
		return ErrGlyphRepeatsAnchor
	}
	return nil
}

// glyphStartsAnchor reports whether inserting glyph after an occurrence of
// after can produce a new occurrence of after that starts past the original
// one, either inside after+glyph or running on into the following text.
// Without a Before anchor such an occurrence would get a glyph of its own
// on the next run.
func glyphStartsAnchor(after, glyph string) bool {
	s := after + glyph
	for p := 1; p < len(s); p++ {
		rest := s[p:]
		if strings.Contains(rest, after) || strings.HasPrefix(after, rest) {
			return true
		}
	}
	return false
}
