package heuristic

import (
	"context"
	"fmt"
	"strings"

	wardrobe "github.com/FrenchMajesty/wardrobe-vision"
	"github.com/FrenchMajesty/wardrobe-vision/taxonomy"
)

// KeywordClassifier classifies from the uploaded file's name alone. The
// first rule in table order with at least one keyword hit wins.
type KeywordClassifier struct{}

// NewKeywordClassifier creates a new filename-keyword classifier
func NewKeywordClassifier() *KeywordClassifier {
	return &KeywordClassifier{}
}

var _ wardrobe.ImageClassifier = (*KeywordClassifier)(nil)

// Classify scans fileName case-insensitively against every rule's keyword
// set. A hit returns that rule's category and styles with fixed high
// confidence; no hit resolves to the default category with an explicit
// reason. The image bytes are ignored.
func (k *KeywordClassifier) Classify(ctx context.Context, image []byte, fileName string) (*wardrobe.Result, error) {
	lowerName := strings.ToLower(fileName)
	if strings.TrimSpace(lowerName) == "" {
		return noSignalResult("no filename provided"), nil
	}

	for _, rule := range rules {
		matched := matchKeywords(rule.Keywords, lowerName)
		if len(matched) == 0 {
			continue
		}

		label := matched[0]
		return &wardrobe.Result{
			PredictedLabel:  label,
			Confidence:      KeywordConfidence,
			Category:        rule.Category,
			Subcategory:     taxonomy.NormalizeSubcategory(label, rule.Category),
			Styles:          taxonomy.NormalizeStyles(rule.Styles),
			MatchedKeywords: matched,
			Reasoning:       fmt.Sprintf("filename matched keywords %v", matched),
		}, nil
	}

	return noSignalResult("no keyword matched"), nil
}

// matchKeywords returns every keyword contained in lowerName, in keyword
// order.
func matchKeywords(keywords []string, lowerName string) []string {
	var matched []string
	for _, kw := range keywords {
		if strings.Contains(lowerName, kw) {
			matched = append(matched, kw)
		}
	}
	return matched
}
