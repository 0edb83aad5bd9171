package normalize

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/nao1215/mojifix/internal/model"
)

// maxLiteralRounds bounds the literal phase. Deleting a literal can splice
// two fragments into a new match, so the phase repeats until nothing changes.
// Well-formed tables settle in one or two rounds.
const maxLiteralRounds = 8

// Result is the outcome of applying a rule engine to a buffer.
type Result struct {
	// Text is the transformed buffer.
	Text string

	// Fixes lists every change in the order it was made.
	Fixes []model.Fix
}

// Changed reports whether any rule fired.
func (r Result) Changed() bool {
	return len(r.Fixes) > 0
}

// Normalizer removes recognized corruption patterns from text.
// A Normalizer is immutable after construction and safe for concurrent use.
type Normalizer struct {
	literals []Literal
	prefixes map[rune]PrefixRun
	rules    []Rule
}

// NewNormalizer builds a Normalizer from an ordered table of Literal and
// PrefixRun rules. Literal rules keep their relative order. When two prefix
// rules share a marker, the first one wins.
func NewNormalizer(rules ...Rule) (*Normalizer, error) {
	if err := Validate(rules); err != nil {
		return nil, err
	}

	n := &Normalizer{
		literals: make([]Literal, 0),
		prefixes: make(map[rune]PrefixRun),
		rules:    make([]Rule, 0, len(rules)),
	}

	for _, r := range rules {
		switch rule := r.(type) {
		case Literal:
			n.literals = append(n.literals, rule)
		case PrefixRun:
			if _, dup := n.prefixes[rule.Marker]; dup {
				continue
			}
			if rule.Stop == "" {
				rule.Stop = StopASCIIAlnumSpace
			}
			n.prefixes[rule.Marker] = rule
			r = rule
		default:
			return nil, fmt.Errorf("rule %s: %w", r.Name(), ErrUnsupportedRule)
		}
		n.rules = append(n.rules, r)
	}

	return n, nil
}

// MustNewNormalizer is like NewNormalizer but panics on an invalid table.
// It is meant for tables defined in code.
func MustNewNormalizer(rules ...Rule) *Normalizer {
	n, err := NewNormalizer(rules...)
	if err != nil {
		panic(err)
	}
	return n
}

// Default returns a Normalizer for DefaultCleanupRules.
func Default() *Normalizer {
	return MustNewNormalizer(DefaultCleanupRules()...)
}

// Rules returns the effective rule table, in evaluation order within each
// kind. Duplicate prefix markers are dropped.
func (n *Normalizer) Rules() []Rule {
	out := make([]Rule, len(n.rules))
	copy(out, n.rules)
	return out
}

// Markers returns the configured prefix marker runes.
func (n *Normalizer) Markers() []rune {
	markers := make([]rune, 0, len(n.prefixes))
	for _, r := range n.rules {
		if p, ok := r.(PrefixRun); ok {
			markers = append(markers, p.Marker)
		}
	}
	return markers
}

// Normalize returns text with every recognized corruption pattern removed.
// Text that contains no pattern is returned unchanged.
func (n *Normalizer) Normalize(text string) string {
	return n.Apply(text).Text
}

// Apply is Normalize that also reports what changed.
func (n *Normalizer) Apply(text string) Result {
	fixes := make([]model.Fix, 0)
	text, fixes = n.applyLiterals(text, fixes)
	text, fixes = n.sweep(text, fixes)
	return Result{Text: text, Fixes: fixes}
}

// HasCorruption reports whether Normalize would change text.
func (n *Normalizer) HasCorruption(text string) bool {
	return n.Apply(text).Changed()
}

func (n *Normalizer) applyLiterals(text string, fixes []model.Fix) (string, []model.Fix) {
	for range maxLiteralRounds {
		changed := false
		for _, l := range n.literals {
			var hit bool
			text, fixes, hit = l.apply(text, fixes)
			changed = changed || hit
		}
		if !changed {
			break
		}
	}
	return text, fixes
}

// apply replaces every non-overlapping occurrence, left to right.
func (l Literal) apply(text string, fixes []model.Fix) (string, []model.Fix, bool) {
	idx := strings.Index(text, l.Match)
	if idx < 0 {
		return text, fixes, false
	}

	likely := Likely(l.Match)

	var sb strings.Builder
	sb.Grow(len(text))

	start := 0
	for idx >= 0 {
		pos := start + idx
		sb.WriteString(text[start:pos])
		sb.WriteString(l.Replacement)
		fixes = append(fixes, model.Fix{
			Rule:        l.Name(),
			Kind:        model.RuleKindLiteral,
			Offset:      pos,
			Original:    l.Match,
			Replacement: l.Replacement,
			Likely:      likely,
		})
		start = pos + len(l.Match)
		idx = strings.Index(text[start:], l.Match)
	}
	sb.WriteString(text[start:])

	return sb.String(), fixes, true
}

// sweep is the prefix-marker pass. At a marker it drops the marker and the
// run after it, then resumes at the rune that ended the run, so a marker
// right after a run is handled on its own.
func (n *Normalizer) sweep(text string, fixes []model.Fix) (string, []model.Fix) {
	if len(n.prefixes) == 0 || !strings.ContainsFunc(text, n.isMarker) {
		return text, fixes
	}

	var sb strings.Builder
	sb.Grow(len(text))

	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		rule, ok := n.prefixes[r]
		if !ok {
			// Copy bytes, not runes, so invalid UTF-8 passes through untouched.
			sb.WriteString(text[i : i+size])
			i += size
			continue
		}

		start := i
		i += size
		for i < len(text) {
			next, nextSize := utf8.DecodeRuneInString(text[i:])
			if rule.Stop.Stops(next) {
				break
			}
			i += nextSize
		}

		seq := text[start:i]
		fixes = append(fixes, model.Fix{
			Rule:     rule.Name(),
			Kind:     model.RuleKindPrefixRun,
			Offset:   start,
			Original: seq,
			Likely:   Likely(seq),
		})
	}

	return sb.String(), fixes
}

func (n *Normalizer) isMarker(r rune) bool {
	_, ok := n.prefixes[r]
	return ok
}
