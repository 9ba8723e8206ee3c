package wardrobe

import (
	"time"

	"github.com/FrenchMajesty/wardrobe-vision/taxonomy"
)

// Prediction is one ranked candidate from a classifier.
type Prediction struct {
	// Label is the raw label from the underlying classifier vocabulary
	Label string `json:"label"`

	// Confidence is in [0, 1]; its semantics are adapter-local (softmax
	// probability, heuristic score/100, or a fixed constant on fallback)
	// and not comparable across adapters
	Confidence float64 `json:"confidence"`

	// Category is the normalized taxonomy value
	Category taxonomy.Category `json:"category"`

	// Subcategory is normalized and category-scoped; "unknown" if unmapped
	Subcategory string `json:"subcategory"`
}

// Result is the canonical output of any classifier or adapter. Category is
// always a taxonomy member, never the raw adapter label.
type Result struct {
	// PredictedLabel is the raw winning label from the classifier vocabulary
	PredictedLabel string `json:"predicted_label"`

	// Confidence is adapter-local, in [0, 1]
	Confidence float64 `json:"confidence"`

	// Category is the normalized taxonomy category
	Category taxonomy.Category `json:"category"`

	// Subcategory is normalized within Category; "unknown" if unmapped
	Subcategory string `json:"subcategory"`

	// Styles are suggested styles from the fixed style vocabulary
	Styles []string `json:"styles,omitempty"`

	// Colors are detected colors from the fixed color vocabulary
	Colors []string `json:"colors,omitempty"`

	// MatchedKeywords lists the filename keywords that drove a heuristic
	// match, if any
	MatchedKeywords []string `json:"matched_keywords,omitempty"`

	// Reasoning describes how the result was produced, including fallback
	// causes
	Reasoning string `json:"reasoning,omitempty"`

	// Alternates is ranked highest confidence first, ties in adapter order.
	// Some adapters provide it, some do not; absence is not an error.
	Alternates []Prediction `json:"all_predictions,omitempty"`
}

// Item is a persisted wardrobe item. The classification pipeline only
// produces the values used to construct one; it never mutates stored items.
type Item struct {
	ID                string            `json:"id"`
	Name              string            `json:"name"`
	Category          taxonomy.Category `json:"category"`
	Subcategory       string            `json:"subcategory,omitempty"`
	Styles            []string          `json:"styles,omitempty"`
	Colors            []string          `json:"colors,omitempty"`
	Occasions         []string          `json:"occasions,omitempty"`
	Seasons           []string          `json:"seasons,omitempty"`
	OriginalImageURL  string            `json:"original_image_url,omitempty"`
	ProcessedImageURL string            `json:"processed_image_url,omitempty"`
	AIConfidence      float64           `json:"ai_confidence,omitempty"`
	CreatedAt         time.Time         `json:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at"`
}

// UserIdentity identifies an authenticated caller.
type UserIdentity struct {
	ID    string `json:"id"`
	Email string `json:"email,omitempty"`
}
