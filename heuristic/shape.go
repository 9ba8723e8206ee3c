package heuristic

import (
	"context"
	"fmt"
	"sort"
	"strings"

	wardrobe "github.com/FrenchMajesty/wardrobe-vision"
	"github.com/FrenchMajesty/wardrobe-vision/internal/imaging"
	"github.com/FrenchMajesty/wardrobe-vision/taxonomy"
)

// Shape is a discretized aspect-ratio class used as a proxy for garment
// type.
type Shape string

const (
	VeryWide     Shape = "very_wide"
	Wide         Shape = "wide"
	Square       Shape = "square"
	SlightlyTall Shape = "slightly_tall"
	Tall         Shape = "tall"
	VeryTall     Shape = "very_tall"
)

// BucketAspectRatio maps a height/width ratio onto a shape bucket. Boundary
// values belong to the upper bucket.
func BucketAspectRatio(ratio float64) Shape {
	switch {
	case ratio < 0.4:
		return VeryWide
	case ratio < 0.7:
		return Wide
	case ratio < 1.2:
		return Square
	case ratio < 1.5:
		return SlightlyTall
	case ratio < 3.0:
		return Tall
	default:
		return VeryTall
	}
}

// shapeBonus encodes per-category shape evidence. Pants photos in this
// system are landscape crops, shoes portrait, hence the asymmetry.
func shapeBonus(cat taxonomy.Category, shape Shape) int {
	switch cat {
	case taxonomy.Pants:
		if shape == Wide || shape == VeryWide {
			return 30
		}
		if shape == Tall || shape == VeryTall {
			return -20
		}
	case taxonomy.Shoes:
		if shape == Tall || shape == VeryTall {
			return 30
		}
		if shape == Wide || shape == VeryWide {
			return -20
		}
	case taxonomy.Dress:
		if shape == Tall || shape == VeryTall {
			return 20
		}
	case taxonomy.Tops, taxonomy.Skirts:
		if shape == Square || shape == SlightlyTall {
			return 10
		}
	case taxonomy.Outerwear:
		if shape == SlightlyTall {
			return 10
		}
	case taxonomy.Bags, taxonomy.Hats, taxonomy.Jewelry, taxonomy.Nails:
		if shape == Square {
			return 10
		}
	}
	return 0
}

// ScoredRule is one rule with its accumulated heuristic score.
type ScoredRule struct {
	Rule            Rule
	Score           int
	MatchedKeywords []string
}

// scoreShape accumulates the aspect-ratio portion of a rule's score:
// base score, declared-range bonus, color-hint bonus, and the category
// shape bonus. The result is clamped to [0, MaxScore].
func scoreShape(rule Rule, ratio float64, shape Shape, lowerName string) int {
	score := BaseScore
	if ratio >= rule.AspectRatioMin && ratio <= rule.AspectRatioMax {
		score += RangeBonus
	}
	for _, hint := range rule.ColorHints {
		if lowerName != "" && strings.Contains(lowerName, hint) {
			score += ColorBonus
			break
		}
	}
	score += shapeBonus(rule.Category, shape)
	return clampScore(score)
}

func clampScore(score int) int {
	if score > MaxScore {
		return MaxScore
	}
	if score < 0 {
		return 0
	}
	return score
}

// sortScoredRules orders rules by descending score; ties keep the original
// rule-table order.
func sortScoredRules(scored []ScoredRule) {
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
}

// ShapeClassifier classifies from image dimensions alone.
type ShapeClassifier struct{}

// NewShapeClassifier creates a new shape-heuristic classifier
func NewShapeClassifier() *ShapeClassifier {
	return &ShapeClassifier{}
}

var _ wardrobe.ImageClassifier = (*ShapeClassifier)(nil)

// Classify buckets the image's aspect ratio and scores every rule against
// it. It never returns an error; unreadable images resolve to the default
// category with low confidence.
func (s *ShapeClassifier) Classify(ctx context.Context, image []byte, fileName string) (*wardrobe.Result, error) {
	width, height, err := imaging.Dimensions(image)
	if err != nil {
		return noSignalResult("image dimensions unavailable"), nil
	}

	ratio := imaging.AspectRatio(width, height)
	shape := BucketAspectRatio(ratio)
	lowerName := strings.ToLower(fileName)

	scored := make([]ScoredRule, 0, len(rules))
	for _, rule := range rules {
		scored = append(scored, ScoredRule{
			Rule:  rule,
			Score: scoreShape(rule, ratio, shape, lowerName),
		})
	}
	sortScoredRules(scored)

	return resultFromScores(scored, fmt.Sprintf("aspect ratio %.2f (%s)", ratio, shape)), nil
}

// resultFromScores converts a sorted score table into a Result. The winning
// rule's score/100 becomes the confidence; runners-up become alternates.
func resultFromScores(scored []ScoredRule, reasoning string) *wardrobe.Result {
	winner := scored[0]
	label := strings.ToLower(string(winner.Rule.Category))

	alternates := make([]wardrobe.Prediction, 0, 3)
	for _, sr := range scored[1:] {
		if len(alternates) == 3 {
			break
		}
		altLabel := strings.ToLower(string(sr.Rule.Category))
		alternates = append(alternates, wardrobe.Prediction{
			Label:       altLabel,
			Confidence:  float64(sr.Score) / float64(MaxScore),
			Category:    sr.Rule.Category,
			Subcategory: taxonomy.NormalizeSubcategory(altLabel, sr.Rule.Category),
		})
	}

	return &wardrobe.Result{
		PredictedLabel:  label,
		Confidence:      float64(winner.Score) / float64(MaxScore),
		Category:        winner.Rule.Category,
		Subcategory:     taxonomy.NormalizeSubcategory(label, winner.Rule.Category),
		Styles:          taxonomy.NormalizeStyles(winner.Rule.Styles),
		MatchedKeywords: winner.MatchedKeywords,
		Reasoning:       reasoning,
		Alternates:      alternates,
	}
}

// noSignalResult is the heuristic classifiers' degraded output: default
// category, low confidence, explicit reason.
func noSignalResult(reason string) *wardrobe.Result {
	return &wardrobe.Result{
		PredictedLabel: "unknown",
		Confidence:     NoSignalConfidence,
		Category:       taxonomy.DefaultCategory,
		Subcategory:    taxonomy.UnknownSubcategory,
		Styles:         []string{"Casual"},
		Reasoning:      reason,
	}
}
