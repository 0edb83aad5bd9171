package model

import (
	"errors"
	"testing"
)

// TestNewDocument tests the Document constructor.
func TestNewDocument(t *testing.T) {
	t.Parallel()

	doc := NewDocument("public/services.html")

	if doc.Path != "public/services.html" {
		t.Errorf("expected path to be set, got %q", doc.Path)
	}
	if doc.DateProcessed.IsZero() {
		t.Error("expected DateProcessed to be set")
	}
	if doc.Fixes == nil || doc.PerformedSteps == nil {
		t.Error("expected slices to be initialized")
	}
	if doc.Changed() {
		t.Error("expected new document to be unchanged")
	}
}

// TestDocumentUpdate tests loading, updating and counting fixes.
func TestDocumentUpdate(t *testing.T) {
	t.Parallel()

	doc := NewDocument("a.html")
	doc.Load("Before ðŸ“± After <li> x")

	if doc.BytesBefore != len(doc.Original) || doc.BytesAfter != doc.BytesBefore {
		t.Fatalf("unexpected sizes: before=%d after=%d", doc.BytesBefore, doc.BytesAfter)
	}

	doc.Update("Before  After <li> x", []Fix{
		{Rule: "prefix ð", Kind: RuleKindPrefixRun, Original: "ðŸ“±"},
	})
	doc.Update("Before  After <li>✓ x", []Fix{
		{Rule: "checkmark", Kind: RuleKindInsert, Replacement: "✓"},
	})
	doc.Update("Before  After <li>✓ x", []Fix{
		{Rule: "literal", Kind: RuleKindLiteral, Original: "âœ“", Replacement: "✓"},
	})

	if !doc.Changed() {
		t.Error("expected document to be changed")
	}
	if doc.BytesAfter != len("Before  After <li>✓ x") {
		t.Errorf("unexpected BytesAfter %d", doc.BytesAfter)
	}
	if doc.Removed() != 1 {
		t.Errorf("expected 1 removal, got %d", doc.Removed())
	}
	if doc.Replaced() != 1 {
		t.Errorf("expected 1 replacement, got %d", doc.Replaced())
	}
	if doc.Inserted() != 1 {
		t.Errorf("expected 1 insertion, got %d", doc.Inserted())
	}
	if doc.Corruptions() != 2 {
		t.Errorf("expected 2 corruptions, got %d", doc.Corruptions())
	}
}

// TestDocumentSetError tests error recording.
func TestDocumentSetError(t *testing.T) {
	t.Parallel()

	doc := NewDocument("a.html")
	doc.SetError(nil)
	if doc.ErrorMessage != "" {
		t.Errorf("expected empty message for nil error, got %q", doc.ErrorMessage)
	}

	doc.SetError(errors.New("boom"))
	if doc.ErrorMessage != "boom" {
		t.Errorf("expected message \"boom\", got %q", doc.ErrorMessage)
	}
}
