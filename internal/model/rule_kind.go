package model

import (
	"fmt"
	"strings"
)

// RuleKind identifies which variant of the rule table produced a Fix.
//
// Design decision: We use iota-based constants rather than string constants
// for cheap comparisons and a fixed sort order. MarshalText keeps JSON output
// and the history database human-readable.
type RuleKind int

const (
	// RuleKindLiteral is an exact substring replaced by a fixed string.
	RuleKindLiteral RuleKind = iota

	// RuleKindPrefixRun is a marker rune plus the garbled run that follows it.
	RuleKindPrefixRun

	// RuleKindInsert is a decorative glyph inserted between two anchors.
	RuleKindInsert
)

// String returns the lowercase name of the kind.
func (k RuleKind) String() string {
	switch k {
	case RuleKindLiteral:
		return "literal"
	case RuleKindPrefixRun:
		return "prefix"
	case RuleKindInsert:
		return "insert"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k RuleKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *RuleKind) UnmarshalText(text []byte) error {
	parsed, err := ParseRuleKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// ParseRuleKind converts a name produced by String back into a RuleKind.
func ParseRuleKind(s string) (RuleKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "literal":
		return RuleKindLiteral, nil
	case "prefix":
		return RuleKindPrefixRun, nil
	case "insert":
		return RuleKindInsert, nil
	default:
		return 0, fmt.Errorf("unknown rule kind %q", s)
	}
}
