// Package outfit builds prompts for the generative outfit-recommendation
// flow and parses the model's free-form answers back into validated
// outfits.
package outfit

import (
	"fmt"
	"math/rand"
	"strings"

	wardrobe "github.com/FrenchMajesty/wardrobe-vision"
)

// styleRule maps occasion keywords to an ordered target-style list. Rules
// are checked in order; the first rule with a matching keyword wins.
type styleRule struct {
	keywords []string
	styles   []string
}

// styleRules is the fixed occasion lookup. Order matters: an occasion like
// "date night after class" resolves to the campus styles because campus
// keywords are checked first.
var styleRules = []styleRule{
	{
		keywords: []string{"campus", "school", "class", "college", "lecture"},
		styles:   []string{"Preppy", "Casual", "Streetwear"},
	},
	{
		keywords: []string{"office", "work", "meeting", "interview", "business"},
		styles:   []string{"Classic", "Formal", "Minimalist"},
	},
	{
		keywords: []string{"date", "dinner", "anniversary", "romantic"},
		styles:   []string{"Chic", "Classic", "Formal"},
	},
	{
		keywords: []string{"beach", "pool", "vacation", "resort"},
		styles:   []string{"Bohemian", "Casual"},
	},
	{
		keywords: []string{"hangout", "friends", "weekend", "brunch"},
		styles:   []string{"Casual", "Streetwear", "Y2K"},
	},
}

// defaultStyles applies when no keyword matches, including an empty
// occasion.
var defaultStyles = []string{"Casual", "Minimalist"}

// TargetStyles derives the ordered style preference for an occasion by
// substring match against the fixed keyword rules.
func TargetStyles(occasion string) []string {
	lowered := strings.ToLower(occasion)
	for _, rule := range styleRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lowered, kw) {
				out := make([]string, len(rule.styles))
				copy(out, rule.styles)
				return out
			}
		}
	}
	out := make([]string, len(defaultStyles))
	copy(out, defaultStyles)
	return out
}

// BuildPrompt renders the outfit-generation prompt from a wardrobe
// snapshot and an optional occasion. The item list is shuffled so the
// model does not consistently favor recently added items; everything else
// in the prompt is deterministic for a given occasion.
func BuildPrompt(items []wardrobe.Item, occasion string) string {
	shuffled := make([]wardrobe.Item, len(items))
	copy(shuffled, items)
	rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	styles := TargetStyles(occasion)
	if occasion == "" {
		occasion = "everyday wear"
	}

	var b strings.Builder
	b.WriteString("You are a personal stylist. Build outfits from this wardrobe.\n\n")
	b.WriteString("Wardrobe items:\n")
	for _, item := range shuffled {
		b.WriteString(fmt.Sprintf("- id=%s name=%q category=%s styles=%s confidence=%.2f\n",
			item.ID, item.Name, item.Category, strings.Join(item.Styles, "/"), item.AIConfidence))
	}

	b.WriteString(fmt.Sprintf("\nOccasion: %s\n", occasion))
	b.WriteString(fmt.Sprintf("Preferred styles, most important first: %s\n\n", strings.Join(styles, ", ")))

	b.WriteString("Create exactly 3 outfits using only the item ids listed above. ")
	b.WriteString("Respond with ONLY a JSON object in exactly this shape, no other text:\n")
	b.WriteString(`{"outfit_1": {"name": "...", "description": "...", "items": ["id", ...], "reasoning": "..."}, ` +
		`"outfit_2": {...}, "outfit_3": {...}}`)

	return b.String()
}
