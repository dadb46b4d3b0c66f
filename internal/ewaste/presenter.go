package ewaste

import (
	"fmt"
	"math"

	"trashify/internal/dto"
)

const (
	highConfidence   = 0.7
	mediumConfidence = 0.5
)

// TierFor buckets a confidence score. Both thresholds are strict, so 0.7 is
// medium and 0.5 is low.
func TierFor(confidence float64) dto.ConfidenceTier {
	switch {
	case confidence > highConfidence:
		return dto.TierHigh
	case confidence > mediumConfidence:
		return dto.TierMedium
	default:
		return dto.TierLow
	}
}

// Presenter turns detection responses into display records.
type Presenter struct {
	resolver *Resolver
}

// NewPresenter returns a presenter backed by r.
func NewPresenter(r *Resolver) *Presenter {
	return &Presenter{resolver: r}
}

// Present enriches every detection, keeping the response order. The input must
// already be validated; Present has no failure mode.
func (p *Presenter) Present(resp dto.DetectionResponse) []dto.DisplayRecord {
	records := make([]dto.DisplayRecord, 0, len(resp.Detections))
	for _, d := range resp.Detections {
		g := p.resolver.Resolve(d)
		records = append(records, dto.DisplayRecord{
			Label:             d.Label,
			Confidence:        d.Confidence,
			ConfidencePercent: int(math.Round(d.Confidence * 100)),
			Tier:              TierFor(d.Confidence),
			Category:          g.Category,
			Suggestions:       g.Suggestions,
			SuggestionSource:  g.SuggestionSource,
			Ideas:             g.Ideas,
			IdeaSource:        g.IdeaSource,
		})
	}
	return records
}

// View wraps Present with the image references and the results caption.
func (p *Presenter) View(resp dto.DetectionResponse) dto.DetectionView {
	records := p.Present(resp)
	return dto.DetectionView{
		Records:           records,
		AnnotatedImageRef: resp.AnnotatedImageRef,
		OriginalImageRef:  resp.OriginalImageRef,
		ItemCount:         len(records),
		Caption:           caption(len(records)),
	}
}

func caption(n int) string {
	if n == 0 {
		return "No objects detected. Try a different image."
	}
	if n == 1 {
		return "1 item detected"
	}
	return fmt.Sprintf("%d items detected", n)
}
