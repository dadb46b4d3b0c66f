package ewaste

import (
	"strings"
	"unicode"
)

// Classifier maps free-text detection labels onto taxonomy keys.
type Classifier struct {
	keys []string
}

// NewClassifier captures the taxonomy's key order.
func NewClassifier(t *Taxonomy) *Classifier {
	return &Classifier{keys: t.Keys()}
}

// Classify returns the first key, in taxonomy order, that contains the
// normalized label or is contained by it. Empty and whitespace-only labels
// never match.
//
// Matching is a plain substring test in both directions, so a label such as
// "mousetrap" matches "mouse".
func (c *Classifier) Classify(label string) (string, bool) {
	if strings.TrimSpace(label) == "" {
		return "", false
	}
	normalized := normalizeLabel(label)

	for _, key := range c.keys {
		if strings.Contains(normalized, key) || strings.Contains(key, normalized) {
			return key, true
		}
	}
	return "", false
}

// normalizeLabel lower-cases s and replaces every run of whitespace with a
// single underscore.
func normalizeLabel(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	inSpace := false
	for _, r := range strings.ToLower(s) {
		if unicode.IsSpace(r) {
			if !inSpace {
				b.WriteByte('_')
				inSpace = true
			}
			continue
		}
		inSpace = false
		b.WriteRune(r)
	}
	return b.String()
}
