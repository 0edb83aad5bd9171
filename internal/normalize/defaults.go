package normalize

// Checkmark is the glyph used for list items and for repaired checkmarks.
const Checkmark = "✓"

// DefaultCleanupRules returns the built-in cleanup table.
//
// The literal entries are the exact sequences left behind when the page's
// emoji were saved through a Windows-1252 round trip, with and without the
// C1 control characters that some editors drop. They are deleted, except
// the checkmark, which is restored. The prefix entries then remove whatever
// garbled runs remain.
func DefaultCleanupRules() []Rule {
	return []Rule{
		Literal{Label: "mobile phone", Match: "ðŸ“±"},
		Literal{Label: "ledger", Match: "ðŸ“’"},
		Literal{Label: "briefcase", Match: "ðŸ’¼"},
		Literal{Label: "office building", Match: "ðŸ\u008f¢"},
		Literal{Label: "office building", Match: "ðŸ¢"},
		Literal{Label: "classical building", Match: "ðŸ\u008f›ï¸\u008f"},
		Literal{Label: "classical building", Match: "ðŸ›ï¸"},
		Literal{Label: "handshake", Match: "ðŸ¤\u009d"},
		Literal{Label: "handshake", Match: "ðŸ¤"},
		Literal{Label: "check mark", Match: "âœ“", Replacement: Checkmark},

		PrefixRun{Marker: 'ð', Stop: StopASCIIAlnumSpace},
		PrefixRun{Marker: 'â', Stop: StopASCIIAlnumSpace},
		PrefixRun{Marker: 'Å', Stop: StopASCIIAlnumSpace},
		PrefixRun{Marker: 'Ÿ', Stop: StopASCIIAlnumSpace},
		PrefixRun{Marker: 'Ã', Stop: StopASCIIAlnumSpace},
		PrefixRun{Marker: 'Â', Stop: StopASCIIAlnumSpace},
	}
}

// CheckmarkRules returns the rule that puts a checkmark at the start of
// list items written as "<li> text".
func CheckmarkRules() []Insert {
	return []Insert{
		{Label: "list item checkmark", After: "<li>", Before: " ", Glyph: Checkmark},
	}
}

// tierOpen is the opening tag of a pricing tier.
const tierOpen = `<div class="tier">`

// TierEmojiRules returns the rules that prefix each known pricing tier with
// its emoji.
func TierEmojiRules() []Insert {
	tiers := []struct {
		name  string
		glyph string
	}{
		// Community and organization plans
		{"Community", "🏛️"},
		{"Organization", "🤝"},
		{"Network", "🌍"},

		// E-commerce plans
		{"Starter Store", "🏪"},
		{"Business Store", "🏬"},
		{"Enterprise Store", "🏢"},

		// Job portal plans
		{"Basic", "📋"},
		{"Pro", "📊"},
		{"Enterprise", "🏢"},

		// Restaurant plans
		{"Menu", "🍽️"},
		{"Delivery", "🚚"},
		{"Full Restaurant", "🏢"},
	}

	rules := make([]Insert, 0, len(tiers))
	for _, tier := range tiers {
		rules = append(rules, TierEmoji(tier.name, tier.glyph))
	}
	return rules
}

// TierEmoji returns the rule that inserts glyph before a tier's name.
func TierEmoji(name, glyph string) Insert {
	return Insert{
		Label:  "tier " + name,
		After:  tierOpen,
		Before: " <strong>" + name + ":</strong>",
		Glyph:  glyph,
	}
}
