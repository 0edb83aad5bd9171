package normalize

import (
	"fmt"
	"strings"

	"github.com/nao1215/mojifix/internal/model"
)

// Decorator inserts glyphs after structural markers.
// Applying a Decorator twice gives the same text as applying it once.
type Decorator struct {
	rules []Insert
}

// NewDecorator builds a Decorator. Rules run in the given order.
func NewDecorator(rules ...Insert) (*Decorator, error) {
	for _, r := range rules {
		if err := r.validate(); err != nil {
			return nil, fmt.Errorf("rule %s: %w", r.Name(), err)
		}
	}

	d := &Decorator{rules: make([]Insert, len(rules))}
	copy(d.rules, rules)
	return d, nil
}

// MustNewDecorator is like NewDecorator but panics on an invalid rule.
func MustNewDecorator(rules ...Insert) *Decorator {
	d, err := NewDecorator(rules...)
	if err != nil {
		panic(err)
	}
	return d
}

// Rules returns the insertion rules in evaluation order.
func (d *Decorator) Rules() []Insert {
	out := make([]Insert, len(d.rules))
	copy(out, d.rules)
	return out
}

// Decorate returns text with every applicable glyph inserted.
func (d *Decorator) Decorate(text string) string {
	return d.Apply(text).Text
}

// Apply is Decorate that also reports each insertion.
func (d *Decorator) Apply(text string) Result {
	fixes := make([]model.Fix, 0)
	for _, r := range d.rules {
		text, fixes = r.apply(text, fixes)
	}
	return Result{Text: text, Fixes: fixes}
}

func (i Insert) apply(text string, fixes []model.Fix) (string, []model.Fix) {
	needle := i.After + i.Before
	if !strings.Contains(text, needle) {
		return text, fixes
	}

	var sb strings.Builder
	sb.Grow(len(text) + len(i.Glyph))

	start := 0
	for {
		idx := strings.Index(text[start:], needle)
		if idx < 0 {
			break
		}
		pos := start + idx + len(i.After)
		sb.WriteString(text[start:pos])
		start = pos

		// Only reachable with an empty Before anchor.
		if strings.HasPrefix(text[pos:], i.Glyph) {
			continue
		}

		sb.WriteString(i.Glyph)
		fixes = append(fixes, model.Fix{
			Rule:        i.Name(),
			Kind:        model.RuleKindInsert,
			Offset:      pos,
			Replacement: i.Glyph,
		})
	}
	sb.WriteString(text[start:])

	return sb.String(), fixes
}
