package ewaste

import (
	"slices"

	"trashify/internal/dto"
)

// Guidance is the resolved advice for one detection.
type Guidance struct {
	Suggestions      []string
	SuggestionSource dto.GuidanceSource
	Ideas            []string
	IdeaSource       dto.GuidanceSource
	// Category is the matched taxonomy key, empty when the label is unknown.
	Category string
}

// Resolver fills in recycling suggestions and reuse ideas that the detection
// service left out.
type Resolver struct {
	taxonomy   *Taxonomy
	classifier *Classifier
}

// NewResolver builds a resolver over t.
func NewResolver(t *Taxonomy) *Resolver {
	return &Resolver{taxonomy: t, classifier: NewClassifier(t)}
}

// Resolve never returns empty lists. Server-provided lists win; otherwise
// suggestions fall back to the generic list and ideas to the classified
// category, then to the generic list.
func (r *Resolver) Resolve(d dto.Detection) Guidance {
	var g Guidance
	key, matched := r.classifier.Classify(d.Label)
	if matched {
		g.Category = key
	}

	if len(d.RecyclingSuggestions) > 0 {
		g.Suggestions = slices.Clone(d.RecyclingSuggestions)
		g.SuggestionSource = dto.SourceServer
	} else {
		g.Suggestions = r.taxonomy.RecyclingSuggestions()
		g.SuggestionSource = dto.SourceFallback
	}

	if len(d.ReuseIdeas) > 0 {
		g.Ideas = slices.Clone(d.ReuseIdeas)
		g.IdeaSource = dto.SourceServer
		return g
	}

	if matched {
		if ideas, ok := r.taxonomy.ReuseIdeas(key); ok {
			g.Ideas = ideas
			g.IdeaSource = dto.SourceCategory
			return g
		}
	}

	g.Ideas = r.taxonomy.FallbackReuseIdeas()
	g.IdeaSource = dto.SourceFallback
	return g
}
