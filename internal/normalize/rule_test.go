package normalize

import (
	"testing"

	"github.com/nao1215/mojifix/internal/model"
)

// TestRuleNames tests generated and explicit rule names.
func TestRuleNames(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		rule     Rule
		expected string
		kind     model.RuleKind
	}{
		{name: "literal label", rule: Literal{Label: "phone", Match: "x"}, expected: "phone", kind: model.RuleKindLiteral},
		{name: "literal generated", rule: Literal{Match: "âœ“"}, expected: `literal "âœ“"`, kind: model.RuleKindLiteral},
		{name: "prefix generated", rule: PrefixRun{Marker: 'ð'}, expected: "prefix 'ð'", kind: model.RuleKindPrefixRun},
		{name: "insert generated", rule: Insert{After: "<li>", Glyph: "✓"}, expected: `insert "✓" after "<li>"`, kind: model.RuleKindInsert},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := tt.rule.Name(); got != tt.expected {
				t.Errorf("expected name %q, got %q", tt.expected, got)
			}
			if got := tt.rule.Kind(); got != tt.kind {
				t.Errorf("expected kind %v, got %v", tt.kind, got)
			}
		})
	}
}

// TestStopClassValid tests stop class validation.
func TestStopClassValid(t *testing.T) {
	t.Parallel()

	for _, c := range StopClasses() {
		if !c.Valid() {
			t.Errorf("expected %q to be valid", c)
		}
	}
	if !StopClass("").Valid() {
		t.Error("expected empty stop class to be valid")
	}
	if StopClass("nope").Valid() {
		t.Error("expected unknown stop class to be invalid")
	}
}

// TestStopClassStops tests the boundary runes of each class.
func TestStopClassStops(t *testing.T) {
	t.Parallel()

	tests := []struct {
		class StopClass
		r     rune
		stops bool
	}{
		{StopASCIIAlnumSpace, 'a', true},
		{StopASCIIAlnumSpace, '9', true},
		{StopASCIIAlnumSpace, '\t', true},
		{StopASCIIAlnumSpace, ' ', true},
		{StopASCIIAlnumSpace, 'é', false},
		{StopASCIIAlnumSpace, '<', false},
		{StopWordSpace, 'é', true},
		{StopWordSpace, 'Ÿ', true},
		{StopWordSpace, '_', true},
		{StopWordSpace, '“', false},
		{StopMarkup, '<', true},
		{StopMarkup, '"', true},
		{StopMarkup, '±', false},
	}

	for _, tt := range tests {
		if got := tt.class.Stops(tt.r); got != tt.stops {
			t.Errorf("%s.Stops(%q) = %v, expected %v", tt.class, tt.r, got, tt.stops)
		}
	}
}
