package ewaste

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trashify/internal/dto"
)

func TestResolve_ServerListsWin(t *testing.T) {
	r := NewResolver(DefaultTaxonomy())

	d := dto.Detection{
		Label:                "laptop",
		Confidence:           0.9,
		RecyclingSuggestions: []string{"Separate battery before recycling"},
		ReuseIdeas:           []string{"Convert to a digital photo frame"},
	}
	g := r.Resolve(d)

	assert.Equal(t, []string{"Separate battery before recycling"}, g.Suggestions)
	assert.Equal(t, dto.SourceServer, g.SuggestionSource)
	assert.Equal(t, []string{"Convert to a digital photo frame"}, g.Ideas)
	assert.Equal(t, dto.SourceServer, g.IdeaSource)
	assert.Equal(t, "laptop", g.Category)
}

func TestResolve_CategoryIdeasWhenServerOmitsThem(t *testing.T) {
	tax := DefaultTaxonomy()
	r := NewResolver(tax)

	g := r.Resolve(dto.Detection{Label: "TV Remote", Confidence: 0.65})

	want, ok := tax.ReuseIdeas("tv")
	require.True(t, ok)
	assert.Equal(t, want, g.Ideas)
	assert.Equal(t, dto.SourceCategory, g.IdeaSource)
	assert.Equal(t, "tv", g.Category)

	assert.Equal(t, tax.RecyclingSuggestions(), g.Suggestions)
	assert.Len(t, g.Suggestions, 3)
	assert.Equal(t, dto.SourceFallback, g.SuggestionSource)
}

func TestResolve_GenericFallbackForUnknownLabel(t *testing.T) {
	tax := DefaultTaxonomy()
	r := NewResolver(tax)

	g := r.Resolve(dto.Detection{Label: "xyz_unknown_device", Confidence: 0.3})

	assert.Equal(t, tax.FallbackReuseIdeas(), g.Ideas)
	assert.Len(t, g.Ideas, 4)
	assert.Equal(t, dto.SourceFallback, g.IdeaSource)
	assert.Empty(t, g.Category)
	assert.Len(t, g.Suggestions, 3)
}

func TestResolve_EmptyServerListsCountAsMissing(t *testing.T) {
	r := NewResolver(DefaultTaxonomy())

	g := r.Resolve(dto.Detection{
		Label:                "Mouse",
		Confidence:           0.8,
		RecyclingSuggestions: []string{},
		ReuseIdeas:           []string{},
	})

	assert.Equal(t, dto.SourceFallback, g.SuggestionSource)
	assert.Equal(t, dto.SourceCategory, g.IdeaSource)
	assert.Equal(t, "Turn into a retro desk lamp by adding LED lights", g.Ideas[0])
}

func TestResolve_AlwaysNonEmpty(t *testing.T) {
	r := NewResolver(DefaultTaxonomy())

	labels := []string{"", "   ", "mouse", "circuit board", "xyz_unknown_device", "??"}
	for _, label := range labels {
		g := r.Resolve(dto.Detection{Label: label})
		if len(g.Suggestions) == 0 {
			t.Errorf("Resolve(%q) returned no suggestions", label)
		}
		if len(g.Ideas) == 0 {
			t.Errorf("Resolve(%q) returned no ideas", label)
		}
	}
}

func TestResolve_ResultDoesNotAliasTaxonomy(t *testing.T) {
	tax := DefaultTaxonomy()
	r := NewResolver(tax)

	g := r.Resolve(dto.Detection{Label: "battery"})
	g.Ideas[0] = "mutated"
	g.Suggestions[0] = "mutated"

	again := r.Resolve(dto.Detection{Label: "battery"})
	assert.NotEqual(t, "mutated", again.Ideas[0])
	assert.NotEqual(t, "mutated", again.Suggestions[0])
}
