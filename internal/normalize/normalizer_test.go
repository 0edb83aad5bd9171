package normalize

import (
	"errors"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/nao1215/mojifix/internal/model"
)

// containsAnyMarker reports whether text still holds one of n's markers.
func containsAnyMarker(n *Normalizer, text string) bool {
	for _, m := range n.Markers() {
		if strings.ContainsRune(text, m) {
			return true
		}
	}
	return false
}

// TestNormalizeCleanInput verifies that text without markers is untouched.
func TestNormalizeCleanInput(t *testing.T) {
	t.Parallel()

	n := Default()

	tests := []struct {
		name  string
		input string
	}{
		{name: "empty", input: ""},
		{name: "plain ascii", input: "Hello, world!"},
		{name: "html", input: `<div class="tier"> <strong>Basic:</strong> $9/mo</div>`},
		{name: "correct emoji", input: "Call us 📱 or visit 🏢"},
		{name: "accented latin", input: "café naïve résumé"},
		{name: "cjk", input: "日本語のテキスト"},
		{name: "checkmark", input: "<li>✓ Hosting</li>"},
		{name: "invalid utf8 bytes", input: "ok\xff\xfeok"},
		{name: "symbols only", input: "©®™ — € £ ±"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			result := n.Apply(tt.input)
			if result.Text != tt.input {
				t.Errorf("expected input unchanged, got %q", result.Text)
			}
			if result.Changed() {
				t.Errorf("expected no fixes, got %v", result.Fixes)
			}
		})
	}
}

// TestNormalizeRemovesCorruption tests the default table on known sequences.
func TestNormalizeRemovesCorruption(t *testing.T) {
	t.Parallel()

	n := Default()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "mobile phone between words",
			input:    "Before ðŸ“± After",
			expected: "Before  After",
		},
		{
			name:     "two literals back to back",
			input:    "xðŸ“±ðŸ’¼ y",
			expected: "x y",
		},
		{
			name:     "unknown emoji handled by prefix sweep",
			input:    "Launch ðŸš€ now",
			expected: "Launch  now",
		},
		{
			name:     "adjacent unknown sequences",
			input:    "AðŸš€â€™Ã©B",
			expected: "AB",
		},
		{
			name:     "corrupted checkmark restored",
			input:    "<li>âœ“ Hosting</li>",
			expected: "<li>✓ Hosting</li>",
		},
		{
			name:     "run stops at alphanumeric",
			input:    "ðŸ“Šabc",
			expected: "abc",
		},
		{
			name:     "run stops at newline",
			input:    "line1 Â\nline2",
			expected: "line1 \nline2",
		},
		{
			name:     "building with dropped control characters",
			input:    "<strong>ðŸ¢ Enterprise</strong>",
			expected: "<strong> Enterprise</strong>",
		},
		{
			name:     "building with control characters kept",
			input:    "ðŸ\u008f¢ Enterprise",
			expected: " Enterprise",
		},
		{
			name:     "stray capital y diaeresis",
			input:    "aŸ b",
			expected: "a b",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := n.Normalize(tt.input)
			if got != tt.expected {
				t.Errorf("Normalize(%q) = %q, expected %q", tt.input, got, tt.expected)
			}
			if containsAnyMarker(n, got) {
				t.Errorf("output %q still contains a prefix marker", got)
			}
		})
	}
}

// TestNormalizeAdjacentSweep verifies that back-to-back corruptions are both
// removed in one pass and that no marker survives.
func TestNormalizeAdjacentSweep(t *testing.T) {
	t.Parallel()

	n := MustNewNormalizer(
		PrefixRun{Marker: 'ð', Stop: StopWordSpace},
		PrefixRun{Marker: 'Ÿ', Stop: StopWordSpace},
	)

	// With the word class the run after ð stops at Ÿ, a letter, which must
	// then be handled as a marker of its own.
	result := n.Apply("go ðŸ“±ðŸ“± go")

	if result.Text != "go  go" {
		t.Errorf("expected \"go  go\", got %q", result.Text)
	}
	if containsAnyMarker(n, result.Text) {
		t.Errorf("output %q still contains a prefix marker", result.Text)
	}
	if len(result.Fixes) != 4 {
		t.Errorf("expected 4 fixes (ð and Ÿ twice), got %d", len(result.Fixes))
	}
}

// TestNormalizeStopClasses tests how each stop class bounds a run.
func TestNormalizeStopClasses(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		stop     StopClass
		input    string
		expected string
	}{
		{
			name:     "ascii class eats markup punctuation",
			stop:     StopASCIIAlnumSpace,
			input:    "ð“±</span>",
			expected: "span>",
		},
		{
			name:     "markup class keeps the tag",
			stop:     StopMarkup,
			input:    "ð“±</span>",
			expected: "</span>",
		},
		{
			name:     "word class stops at latin letters",
			stop:     StopWordSpace,
			input:    "ð“±éa",
			expected: "éa",
		},
		{
			name:     "ascii class removes latin letters",
			stop:     StopASCIIAlnumSpace,
			input:    "ð“±éa",
			expected: "a",
		},
		{
			name:     "word class stops at underscore",
			stop:     StopWordSpace,
			input:    "ð“_x",
			expected: "_x",
		},
		{
			name:     "empty class defaults to ascii",
			stop:     "",
			input:    "ð_x",
			expected: "x",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			n := MustNewNormalizer(PrefixRun{Marker: 'ð', Stop: tt.stop})
			if got := n.Normalize(tt.input); got != tt.expected {
				t.Errorf("Normalize(%q) = %q, expected %q", tt.input, got, tt.expected)
			}
		})
	}
}

// TestNormalizeInvalidUTF8 verifies that invalid bytes outside a run are
// copied through and bytes inside a run are removed with it.
func TestNormalizeInvalidUTF8(t *testing.T) {
	t.Parallel()

	n := Default()

	got := n.Normalize("\xffðŸ\xfe ok")
	if got != "\xff ok" {
		t.Errorf("expected %q, got %q", "\xff ok", got)
	}
}

// TestNormalizeIdempotence checks normalize(normalize(x)) == normalize(x)
// on fixed inputs and on random strings over a marker-heavy alphabet.
func TestNormalizeIdempotence(t *testing.T) {
	t.Parallel()

	n := Default()

	fixed := []string{
		"",
		"Before ðŸ“± After",
		"âœ“âœ“âœ“",
		"ÃÃÃ a Â b Å",
		"<li>ðŸ¤ Partners</li>",
	}
	for _, input := range fixed {
		once := n.Normalize(input)
		if twice := n.Normalize(once); twice != once {
			t.Errorf("not idempotent for %q: %q then %q", input, once, twice)
		}
	}

	alphabet := []string{
		"ð", "Ÿ", "“", "±", "â", "œ", "Å", "Ã", "Â", "©", "€", "ï", "¸",
		"a", "Z", "5", "_", " ", "\n", "<li>", "<", ">", "/", "✓", "📱", "é",
		"ðŸ“±", "âœ“", "ðŸ¤",
	}
	rng := rand.New(rand.NewPCG(1, 2)) //nolint:gosec // deterministic test input

	for range 500 {
		var sb strings.Builder
		for range rng.IntN(30) {
			sb.WriteString(alphabet[rng.IntN(len(alphabet))])
		}
		input := sb.String()

		once := n.Normalize(input)
		if twice := n.Normalize(once); twice != once {
			t.Fatalf("not idempotent for %q: %q then %q", input, once, twice)
		}
		if containsAnyMarker(n, once) {
			t.Fatalf("output %q of %q still contains a prefix marker", once, input)
		}
	}
}

// TestNormalizeLiteralOrder verifies that literals run before the sweep and
// in table order.
func TestNormalizeLiteralOrder(t *testing.T) {
	t.Parallel()

	t.Run("literal glyph survives the sweep", func(t *testing.T) {
		t.Parallel()

		n := MustNewNormalizer(
			Literal{Match: "âœ“", Replacement: "✓"},
			PrefixRun{Marker: 'â'},
		)
		if got := n.Normalize("a âœ“ b"); got != "a ✓ b" {
			t.Errorf("expected checkmark kept, got %q", got)
		}
	})

	t.Run("earlier literal wins", func(t *testing.T) {
		t.Parallel()

		n := MustNewNormalizer(
			Literal{Match: "Ã©t", Replacement: "1"},
			Literal{Match: "Ã©", Replacement: "2"},
			PrefixRun{Marker: 'Ã'},
		)
		if got := n.Normalize("Ã©t Ã©"); got != "1 2" {
			t.Errorf("expected \"1 2\", got %q", got)
		}
	})

	t.Run("literal phase repeats until stable", func(t *testing.T) {
		t.Parallel()

		n := MustNewNormalizer(Literal{Match: "ðx"}, PrefixRun{Marker: 'ð'})
		result := n.Apply("ððxx")
		if result.Text != "" {
			t.Errorf("expected empty text, got %q", result.Text)
		}
		if len(result.Fixes) != 2 {
			t.Errorf("expected 2 fixes, got %d", len(result.Fixes))
		}
	})
}

// TestNormalizeFixes tests the details recorded for each change.
func TestNormalizeFixes(t *testing.T) {
	t.Parallel()

	n := Default()
	result := n.Apply("Before ðŸ“± After ðŸš€!")

	if len(result.Fixes) != 2 {
		t.Fatalf("expected 2 fixes, got %d: %v", len(result.Fixes), result.Fixes)
	}

	literal := result.Fixes[0]
	if literal.Kind != model.RuleKindLiteral {
		t.Errorf("expected literal fix first, got %v", literal.Kind)
	}
	if literal.Rule != "mobile phone" {
		t.Errorf("expected rule label \"mobile phone\", got %q", literal.Rule)
	}
	if literal.Offset != len("Before ") {
		t.Errorf("expected offset %d, got %d", len("Before "), literal.Offset)
	}
	if literal.Likely != "📱" {
		t.Errorf("expected likely original 📱, got %q", literal.Likely)
	}

	prefix := result.Fixes[1]
	if prefix.Kind != model.RuleKindPrefixRun {
		t.Errorf("expected prefix fix second, got %v", prefix.Kind)
	}
	if prefix.Original != "ðŸš€!" {
		t.Errorf("expected run \"ðŸš€!\", got %q", prefix.Original)
	}
	if !prefix.IsRemoval() {
		t.Error("expected prefix fix to be a removal")
	}
}

// TestNewNormalizer tests construction and validation.
func TestNewNormalizer(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		rules   []Rule
		wantErr error
	}{
		{
			name:    "empty literal match",
			rules:   []Rule{Literal{Match: ""}},
			wantErr: ErrEmptyMatch,
		},
		{
			name:    "self replacing literal",
			rules:   []Rule{Literal{Match: "x", Replacement: "xx"}},
			wantErr: ErrSelfReplacing,
		},
		{
			name: "replacement containing a marker",
			rules: []Rule{
				Literal{Match: "bad", Replacement: "ð"},
				PrefixRun{Marker: 'ð'},
			},
			wantErr: ErrMarkerInReplacement,
		},
		{
			name:    "literal without a marker",
			rules:   append([]Rule{Literal{Match: "ab"}}, DefaultCleanupRules()...),
			wantErr: ErrLiteralWithoutMarker,
		},
		{
			name:    "literal without any prefix rule",
			rules:   []Rule{Literal{Match: "ðŸ“±"}},
			wantErr: ErrLiteralWithoutMarker,
		},
		{
			name:    "zero marker",
			rules:   []Rule{PrefixRun{}},
			wantErr: ErrZeroMarker,
		},
		{
			name:    "unknown stop class",
			rules:   []Rule{PrefixRun{Marker: 'ð', Stop: "everything"}},
			wantErr: ErrUnknownStopClass,
		},
		{
			name:    "insert rule",
			rules:   []Rule{Insert{After: "<li>", Glyph: "✓"}},
			wantErr: ErrUnsupportedRule,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := NewNormalizer(tt.rules...)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}

	t.Run("default table is valid", func(t *testing.T) {
		t.Parallel()

		if _, err := NewNormalizer(DefaultCleanupRules()...); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("first prefix rule for a marker wins", func(t *testing.T) {
		t.Parallel()

		n := MustNewNormalizer(
			PrefixRun{Marker: 'ð', Stop: StopWordSpace},
			PrefixRun{Marker: 'ð', Stop: StopASCIIAlnumSpace},
		)
		if len(n.Rules()) != 1 {
			t.Errorf("expected duplicate marker dropped, got %d rules", len(n.Rules()))
		}
		if got := n.Normalize("ð“éa"); got != "éa" {
			t.Errorf("expected word class to apply, got %q", got)
		}
	})

	t.Run("marker spliced by the sweep cannot feed a literal", func(t *testing.T) {
		t.Parallel()

		// With a marker-free literal "ab", "aðb" would become "ab" after the
		// sweep and then "" on the next run.
		n := MustNewNormalizer(
			Literal{Match: "ðb"},
			PrefixRun{Marker: 'ð', Stop: StopASCIIAlnumSpace},
		)
		for _, input := range []string{"aðb", "aððbb", "xaðb ðbb"} {
			once := n.Normalize(input)
			if twice := n.Normalize(once); twice != once {
				t.Errorf("not idempotent for %q: %q then %q", input, once, twice)
			}
		}
	})

	t.Run("empty table is a no-op", func(t *testing.T) {
		t.Parallel()

		n := MustNewNormalizer()
		if got := n.Normalize("ðŸ“±"); got != "ðŸ“±" {
			t.Errorf("expected no change, got %q", got)
		}
	})

	t.Run("MustNewNormalizer panics on invalid table", func(t *testing.T) {
		t.Parallel()

		defer func() {
			if recover() == nil {
				t.Error("expected panic")
			}
		}()
		MustNewNormalizer(Literal{})
	})
}

// TestNormalizerMarkers tests the marker accessor.
func TestNormalizerMarkers(t *testing.T) {
	t.Parallel()

	markers := Default().Markers()
	expected := []rune{'ð', 'â', 'Å', 'Ÿ', 'Ã', 'Â'}

	if len(markers) != len(expected) {
		t.Fatalf("expected %d markers, got %d", len(expected), len(markers))
	}
	for i, m := range expected {
		if markers[i] != m {
			t.Errorf("marker %d: expected %q, got %q", i, m, markers[i])
		}
	}
}

// TestHasCorruption tests the corruption predicate.
func TestHasCorruption(t *testing.T) {
	t.Parallel()

	n := Default()
	if n.HasCorruption("clean text") {
		t.Error("expected clean text to report no corruption")
	}
	if !n.HasCorruption("dirty âœ“") {
		t.Error("expected corrupted checkmark to be reported")
	}
}
