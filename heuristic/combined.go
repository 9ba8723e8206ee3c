package heuristic

import (
	"context"
	"fmt"
	"strings"

	wardrobe "github.com/FrenchMajesty/wardrobe-vision"
	"github.com/FrenchMajesty/wardrobe-vision/internal/imaging"
	"github.com/FrenchMajesty/wardrobe-vision/taxonomy"
)

// pantsOverrideMargin and pantsOverrideFloor gate the pants tie-break: when
// pants score within the margin of the top score and above the floor, pants
// win. This is a targeted recall fix for the category the system
// misclassifies most; do not extend it to other categories without new
// evidence.
const (
	pantsOverrideMargin = 20
	pantsOverrideFloor  = 70
)

// CombinedClassifier applies shape scoring and filename-keyword bonuses
// additively across the whole rule table.
type CombinedClassifier struct{}

// NewCombinedClassifier creates a new combined rule-table classifier
func NewCombinedClassifier() *CombinedClassifier {
	return &CombinedClassifier{}
}

var _ wardrobe.ImageClassifier = (*CombinedClassifier)(nil)

// Classify scores every rule with shape evidence plus keyword bonuses, sorts
// descending, and applies the pants override before picking the winner. It
// never returns an error.
func (c *CombinedClassifier) Classify(ctx context.Context, image []byte, fileName string) (*wardrobe.Result, error) {
	lowerName := strings.ToLower(fileName)

	var (
		ratio    float64
		shape    Shape
		hasShape bool
	)
	if width, height, err := imaging.Dimensions(image); err == nil {
		ratio = imaging.AspectRatio(width, height)
		shape = BucketAspectRatio(ratio)
		hasShape = true
	}

	if !hasShape && strings.TrimSpace(lowerName) == "" {
		return noSignalResult("no shape or filename signal"), nil
	}

	scored := make([]ScoredRule, 0, len(rules))
	for _, rule := range rules {
		sr := ScoredRule{Rule: rule, Score: BaseScore}
		if hasShape {
			sr.Score = scoreShape(rule, ratio, shape, lowerName)
		}
		sr.MatchedKeywords = matchKeywords(rule.Keywords, lowerName)
		sr.Score = clampScore(sr.Score + keywordBonus(rule, sr.MatchedKeywords, shape, hasShape))
		scored = append(scored, sr)
	}

	sortScoredRules(scored)
	scored = ApplyPantsOverride(scored)

	reasoning := "filename keywords only"
	if hasShape {
		reasoning = fmt.Sprintf("aspect ratio %.2f (%s) with filename keywords", ratio, shape)
	}
	return resultFromScores(scored, reasoning), nil
}

// keywordBonus computes the additive keyword portion of a rule's score. The
// curated pants keyword subset earns a larger bonus, plus a corroboration
// bonus when the shape also suggests pants.
func keywordBonus(rule Rule, matched []string, shape Shape, hasShape bool) int {
	if len(matched) == 0 {
		return 0
	}
	bonus := KeywordBonus
	if rule.Category == taxonomy.Pants && containsAny(matched, pantsKeywords) {
		bonus = PantsKeywordBonus
		if hasShape && (shape == Wide || shape == VeryWide) {
			bonus += PantsShapeCorroboration
		}
	}
	return bonus
}

// ApplyPantsOverride force-selects pants when their score is within
// pantsOverrideMargin of the top score and above pantsOverrideFloor. The
// input must already be sorted descending; the returned slice has the
// selected winner first.
func ApplyPantsOverride(scored []ScoredRule) []ScoredRule {
	if len(scored) == 0 || scored[0].Rule.Category == taxonomy.Pants {
		return scored
	}

	for i, sr := range scored {
		if sr.Rule.Category != taxonomy.Pants {
			continue
		}
		if sr.Score > pantsOverrideFloor && scored[0].Score-sr.Score <= pantsOverrideMargin {
			reordered := make([]ScoredRule, 0, len(scored))
			reordered = append(reordered, sr)
			reordered = append(reordered, scored[:i]...)
			reordered = append(reordered, scored[i+1:]...)
			return reordered
		}
		break
	}
	return scored
}

func containsAny(haystack []string, needles []string) bool {
	for _, h := range haystack {
		for _, n := range needles {
			if h == n {
				return true
			}
		}
	}
	return false
}
