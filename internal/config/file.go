package config

import (
	"fmt"
	"unicode/utf8"

	"github.com/nao1215/mojifix/internal/normalize"
)

// File represents the structure of the .mojifix configuration file.
type File struct {
	// Target is the file processed when no path is given on the command line.
	Target string `yaml:"target,omitempty"`

	// Clean turns the cleanup pass on or off. Nil keeps the default (on).
	Clean *bool `yaml:"clean,omitempty"`

	// Checkmarks enables the built-in list item checkmark rule.
	Checkmarks bool `yaml:"checkmarks,omitempty"`

	// TierEmojis enables the built-in pricing tier emoji rules.
	TierEmojis bool `yaml:"tierEmojis,omitempty"`

	// Rules holds site-specific rules added to the built-in tables.
	Rules RulesConfig `yaml:"rules,omitempty"`

	// ReplaceDefaults drops the built-in cleanup table, leaving only Rules.
	ReplaceDefaults bool `yaml:"replaceDefaults,omitempty"`
}

// RulesConfig is the rules section of the config file.
type RulesConfig struct {
	Literals []LiteralConfig `yaml:"literals,omitempty"`
	Prefixes []PrefixConfig  `yaml:"prefixes,omitempty"`
	Inserts  []InsertConfig  `yaml:"inserts,omitempty"`
}

// LiteralConfig is an exact corrupted sequence and what replaces it.
type LiteralConfig struct {
	Name        string `yaml:"name,omitempty"`
	Match       string `yaml:"match"`
	Replacement string `yaml:"replacement,omitempty"`
}

// PrefixConfig is a marker character whose run is removed.
type PrefixConfig struct {
	Name string `yaml:"name,omitempty"`

	// Marker must be a single character.
	Marker string `yaml:"marker"`

	// Stop is one of "ascii-alnum-space", "word-space" or "markup".
	Stop string `yaml:"stop,omitempty"`
}

// InsertConfig places a glyph between two anchors.
type InsertConfig struct {
	Name   string `yaml:"name,omitempty"`
	After  string `yaml:"after"`
	Before string `yaml:"before,omitempty"`
	Glyph  string `yaml:"glyph"`
}

// CleanupRules converts the literal and prefix sections into normalize
// rules, literals first. Rule validation is left to normalize.NewNormalizer.
func (rc RulesConfig) CleanupRules() ([]normalize.Rule, error) {
	rules := make([]normalize.Rule, 0, len(rc.Literals)+len(rc.Prefixes))

	for _, l := range rc.Literals {
		rules = append(rules, normalize.Literal{
			Label:       l.Name,
			Match:       l.Match,
			Replacement: l.Replacement,
		})
	}

	for _, p := range rc.Prefixes {
		marker, size := utf8.DecodeRuneInString(p.Marker)
		if marker == utf8.RuneError || size != len(p.Marker) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidMarker, p.Marker)
		}
		rules = append(rules, normalize.PrefixRun{
			Label:  p.Name,
			Marker: marker,
			Stop:   normalize.StopClass(p.Stop),
		})
	}

	return rules, nil
}

// InsertRules converts the inserts section into normalize rules.
func (rc RulesConfig) InsertRules() []normalize.Insert {
	rules := make([]normalize.Insert, 0, len(rc.Inserts))
	for _, i := range rc.Inserts {
		rules = append(rules, normalize.Insert{
			Label:  i.Name,
			After:  i.After,
			Before: i.Before,
			Glyph:  i.Glyph,
		})
	}
	return rules
}
