// Package ewaste turns raw detection results and statistics counters into
// display data: category classification, recycling and reuse guidance,
// environmental-impact estimates and breakdown shares.
//
// Everything in this package is pure. The Taxonomy is immutable once built and
// all components can be shared between goroutines without locking.
package ewaste

import (
	_ "embed"
	"fmt"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed taxonomy.yaml
var defaultTaxonomyYAML []byte

// Category is one taxonomy entry: a canonical key and its curated reuse ideas.
type Category struct {
	Key   string   `yaml:"key"`
	Reuse []string `yaml:"reuse"`
}

// Taxonomy is the ordered category table plus the generic fallback lists.
// Declaration order is significant: it is the classifier's tie-break.
type Taxonomy struct {
	categories []Category
	index      map[string]int
	recycling  []string
	reuse      []string
}

type taxonomyFile struct {
	Fallback struct {
		Recycling []string `yaml:"recycling"`
		Reuse     []string `yaml:"reuse"`
	} `yaml:"fallback"`
	Categories []Category `yaml:"categories"`
}

// NewTaxonomy validates and copies the given tables. Keys are normalized the
// same way labels are, so "circuit board" and "circuit_board" are the same key.
func NewTaxonomy(categories []Category, recycling, reuse []string) (*Taxonomy, error) {
	if len(recycling) == 0 {
		return nil, fmt.Errorf("taxonomy: fallback recycling list is empty")
	}
	if len(reuse) == 0 {
		return nil, fmt.Errorf("taxonomy: fallback reuse list is empty")
	}

	t := &Taxonomy{
		categories: make([]Category, 0, len(categories)),
		index:      make(map[string]int, len(categories)),
		recycling:  slices.Clone(recycling),
		reuse:      slices.Clone(reuse),
	}

	for i, c := range categories {
		key := normalizeLabel(strings.TrimSpace(c.Key))
		if key == "" {
			return nil, fmt.Errorf("taxonomy: category %d has an empty key", i)
		}
		if _, dup := t.index[key]; dup {
			return nil, fmt.Errorf("taxonomy: duplicate category %q", key)
		}
		if len(c.Reuse) == 0 {
			return nil, fmt.Errorf("taxonomy: category %q has no reuse ideas", key)
		}
		t.index[key] = len(t.categories)
		t.categories = append(t.categories, Category{Key: key, Reuse: slices.Clone(c.Reuse)})
	}

	return t, nil
}

// ParseTaxonomy decodes a YAML taxonomy document.
func ParseTaxonomy(data []byte) (*Taxonomy, error) {
	var file taxonomyFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("taxonomy: failed to parse yaml: %w", err)
	}
	return NewTaxonomy(file.Categories, file.Fallback.Recycling, file.Fallback.Reuse)
}

// LoadTaxonomy reads a taxonomy file. An empty path yields the built-in table.
func LoadTaxonomy(path string) (*Taxonomy, error) {
	if path == "" {
		return ParseTaxonomy(defaultTaxonomyYAML)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("taxonomy: failed to read %s: %w", path, err)
	}
	return ParseTaxonomy(data)
}

// DefaultTaxonomy returns the built-in taxonomy. It panics only if the embedded
// document is broken, which the package tests guard against.
func DefaultTaxonomy() *Taxonomy {
	t, err := ParseTaxonomy(defaultTaxonomyYAML)
	if err != nil {
		panic(err)
	}
	return t
}

// Keys returns the category keys in declaration order.
func (t *Taxonomy) Keys() []string {
	keys := make([]string, len(t.categories))
	for i, c := range t.categories {
		keys[i] = c.Key
	}
	return keys
}

// Len returns the number of categories.
func (t *Taxonomy) Len() int {
	return len(t.categories)
}

// ReuseIdeas returns a copy of the curated ideas for key.
func (t *Taxonomy) ReuseIdeas(key string) ([]string, bool) {
	i, ok := t.index[key]
	if !ok {
		return nil, false
	}
	return slices.Clone(t.categories[i].Reuse), true
}

// RecyclingSuggestions returns the generic recycling list. Every category
// shares it.
func (t *Taxonomy) RecyclingSuggestions() []string {
	return slices.Clone(t.recycling)
}

// FallbackReuseIdeas returns the generic reuse list used for unknown labels.
func (t *Taxonomy) FallbackReuseIdeas() []string {
	return slices.Clone(t.reuse)
}
