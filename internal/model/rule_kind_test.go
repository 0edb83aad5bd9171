package model

import (
	"encoding/json"
	"testing"
)

// TestRuleKindString tests the String method of RuleKind.
func TestRuleKindString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		kind     RuleKind
		expected string
	}{
		{RuleKindLiteral, "literal"},
		{RuleKindPrefixRun, "prefix"},
		{RuleKindInsert, "insert"},
		{RuleKind(99), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			t.Parallel()
			if got := tt.kind.String(); got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

// TestParseRuleKind tests parsing kind names back into values.
func TestParseRuleKind(t *testing.T) {
	t.Parallel()

	t.Run("parses names case-insensitively", func(t *testing.T) {
		t.Parallel()

		kind, err := ParseRuleKind(" Prefix ")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if kind != RuleKindPrefixRun {
			t.Errorf("expected RuleKindPrefixRun, got %v", kind)
		}
	})

	t.Run("rejects unknown names", func(t *testing.T) {
		t.Parallel()

		if _, err := ParseRuleKind("regex"); err == nil {
			t.Error("expected error for unknown kind")
		}
	})
}

// TestRuleKindJSON tests that kinds serialize by name.
func TestRuleKindJSON(t *testing.T) {
	t.Parallel()

	data, err := json.Marshal(Fix{Rule: "r", Kind: RuleKindInsert})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if decoded["kind"] != "insert" {
		t.Errorf("expected kind \"insert\", got %v", decoded["kind"])
	}

	var fix Fix
	if err := json.Unmarshal(data, &fix); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fix.Kind != RuleKindInsert {
		t.Errorf("expected RuleKindInsert after round trip, got %v", fix.Kind)
	}
}
