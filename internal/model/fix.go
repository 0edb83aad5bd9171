package model

// Fix records one change made to a text buffer.
type Fix struct {
	// Rule is the name of the rule that produced the change.
	Rule string `json:"rule"`

	// Kind is the variant of that rule.
	Kind RuleKind `json:"kind"`

	// Offset is the byte offset of the change within the buffer as it was
	// when the rule ran. Earlier rules may have shifted later offsets.
	Offset int `json:"offset"`

	// Original is the removed or replaced text. Empty for insertions.
	Original string `json:"original,omitempty"`

	// Replacement is the text written in its place. Empty for deletions.
	Replacement string `json:"replacement,omitempty"`

	// Likely is the probable pre-corruption text, when one could be derived.
	Likely string `json:"likely,omitempty"`
}

// IsRemoval reports whether the fix deleted text without replacing it.
func (f Fix) IsRemoval() bool {
	return f.Kind != RuleKindInsert && f.Replacement == ""
}

// IsReplacement reports whether the fix swapped text for a glyph.
func (f Fix) IsReplacement() bool {
	return f.Kind != RuleKindInsert && f.Replacement != ""
}

// IsInsertion reports whether the fix added a decorative glyph.
func (f Fix) IsInsertion() bool {
	return f.Kind == RuleKindInsert
}
