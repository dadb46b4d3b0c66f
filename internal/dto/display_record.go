package dto

// ConfidenceTier buckets a confidence score for display emphasis.
type ConfidenceTier string

const (
	TierHigh   ConfidenceTier = "high"
	TierMedium ConfidenceTier = "medium"
	TierLow    ConfidenceTier = "low"
)

// GuidanceSource tells where a suggestion or idea list came from.
type GuidanceSource string

const (
	SourceServer   GuidanceSource = "server"
	SourceCategory GuidanceSource = "category"
	SourceFallback GuidanceSource = "fallback"
)

// DisplayRecord is a Detection enriched for rendering. It is derived per
// request and never stored.
type DisplayRecord struct {
	Label             string         `json:"label"`
	Confidence        float64        `json:"confidence"`
	ConfidencePercent int            `json:"confidencePercent"`
	Tier              ConfidenceTier `json:"tier"`
	Category          string         `json:"category,omitempty"`
	Suggestions       []string       `json:"recyclingSuggestions"`
	SuggestionSource  GuidanceSource `json:"recyclingSource"`
	Ideas             []string       `json:"reuseIdeas"`
	IdeaSource        GuidanceSource `json:"reuseSource"`
}

// DetectionView is the payload returned to the browser after an upload.
type DetectionView struct {
	Records           []DisplayRecord `json:"detections"`
	AnnotatedImageRef string          `json:"annotatedImage,omitempty"`
	OriginalImageRef  string          `json:"originalImage,omitempty"`
	ItemCount         int             `json:"itemCount"`
	Caption           string          `json:"caption"`
}
