// Package heuristic provides stateless classification strategies that work
// from filename keywords and image shape alone. They are cheap, offline, and
// never fail: absence of signal degrades to the default category with low
// confidence instead of an error.
package heuristic

import "github.com/FrenchMajesty/wardrobe-vision/taxonomy"

const (
	// BaseScore is granted to every rule before bonuses
	BaseScore = 25

	// RangeBonus is granted when the aspect ratio falls inside the rule's
	// declared range
	RangeBonus = 30

	// ColorBonus is granted when the filename mentions one of the rule's
	// color hints. True color analysis is out of scope; this is a filename
	// heuristic only.
	ColorBonus = 20

	// KeywordBonus is the combined classifier's bonus for a filename
	// keyword hit
	KeywordBonus = 25

	// PantsKeywordBonus replaces KeywordBonus for the curated pants keyword
	// subset
	PantsKeywordBonus = 30

	// PantsShapeCorroboration is added when a pants keyword hit is backed
	// by a pants-like shape
	PantsShapeCorroboration = 15

	// MaxScore caps every rule score
	MaxScore = 100

	// KeywordConfidence is the fixed confidence of a pure keyword match
	KeywordConfidence = 0.9

	// NoSignalConfidence is the confidence when no heuristic signal exists
	NoSignalConfidence = 0.5
)

// Rule describes one category's heuristic profile. Rules are immutable and
// defined at process start.
type Rule struct {
	Category       taxonomy.Category
	Keywords       []string
	AspectRatioMin float64
	AspectRatioMax float64
	Styles         []string
	ColorHints     []string
	BaseConfidence float64
}

// pantsKeywords is the curated subset that earns the larger keyword bonus.
// Pants are the category the system misclassifies most, so their keyword
// evidence is weighted above everyone else's.
var pantsKeywords = []string{"jeans", "pants", "trousers", "denim", "slacks", "chinos"}

// rules is evaluated in order; the keyword matcher takes the first hit.
var rules = []Rule{
	{
		Category:       taxonomy.Pants,
		Keywords:       []string{"jeans", "pants", "trousers", "denim", "slacks", "chinos", "leggings", "joggers", "shorts"},
		AspectRatioMin: 0.3,
		AspectRatioMax: 0.9,
		Styles:         []string{"Casual", "Classic"},
		ColorHints:     []string{"blue", "black", "khaki", "denim"},
		BaseConfidence: 0.85,
	},
	{
		Category:       taxonomy.Shoes,
		Keywords:       []string{"shoe", "sneaker", "boot", "heel", "sandal", "loafer", "flats", "trainer"},
		AspectRatioMin: 1.2,
		AspectRatioMax: 3.5,
		Styles:         []string{"Casual", "Streetwear"},
		ColorHints:     []string{"white", "black", "brown"},
		BaseConfidence: 0.85,
	},
	{
		Category:       taxonomy.Dress,
		Keywords:       []string{"dress", "gown", "sundress"},
		AspectRatioMin: 1.3,
		AspectRatioMax: 2.5,
		Styles:         []string{"Chic", "Formal"},
		ColorHints:     []string{"red", "black", "floral"},
		BaseConfidence: 0.8,
	},
	{
		Category:       taxonomy.Skirts,
		Keywords:       []string{"skirt", "miniskirt"},
		AspectRatioMin: 0.8,
		AspectRatioMax: 1.4,
		Styles:         []string{"Preppy", "Chic"},
		ColorHints:     []string{"plaid", "black"},
		BaseConfidence: 0.8,
	},
	{
		Category:       taxonomy.Tops,
		Keywords:       []string{"shirt", "tshirt", "t-shirt", "tee", "blouse", "sweater", "hoodie", "top", "polo", "tank"},
		AspectRatioMin: 0.7,
		AspectRatioMax: 1.3,
		Styles:         []string{"Casual", "Minimalist"},
		ColorHints:     []string{"white", "gray", "graphic"},
		BaseConfidence: 0.8,
	},
	{
		Category:       taxonomy.Outerwear,
		Keywords:       []string{"jacket", "coat", "blazer", "cardigan", "parka", "puffer", "trench"},
		AspectRatioMin: 0.9,
		AspectRatioMax: 1.5,
		Styles:         []string{"Classic", "Streetwear"},
		ColorHints:     []string{"black", "brown", "olive"},
		BaseConfidence: 0.8,
	},
	{
		Category:       taxonomy.Bags,
		Keywords:       []string{"bag", "tote", "purse", "handbag", "backpack", "clutch"},
		AspectRatioMin: 0.8,
		AspectRatioMax: 1.2,
		Styles:         []string{"Chic", "Classic"},
		ColorHints:     []string{"brown", "black", "beige"},
		BaseConfidence: 0.75,
	},
	{
		Category:       taxonomy.Hats,
		Keywords:       []string{"hat", "cap", "beanie", "fedora"},
		AspectRatioMin: 0.6,
		AspectRatioMax: 1.1,
		Styles:         []string{"Streetwear", "Casual"},
		ColorHints:     []string{"black", "navy"},
		BaseConfidence: 0.75,
	},
	{
		Category:       taxonomy.Jewelry,
		Keywords:       []string{"necklace", "earring", "bracelet", "ring", "watch", "jewelry"},
		AspectRatioMin: 0.9,
		AspectRatioMax: 1.1,
		Styles:         []string{"Chic", "Vintage Retro"},
		ColorHints:     []string{"gold", "silver"},
		BaseConfidence: 0.75,
	},
	{
		Category:       taxonomy.Nails,
		Keywords:       []string{"nail", "manicure", "polish"},
		AspectRatioMin: 0.9,
		AspectRatioMax: 1.1,
		Styles:         []string{"Y2K", "Chic"},
		ColorHints:     []string{"pink", "red"},
		BaseConfidence: 0.7,
	},
	{
		Category:       taxonomy.Accessories,
		Keywords:       []string{"belt", "scarf", "sunglasses", "glove", "sock"},
		AspectRatioMin: 0.5,
		AspectRatioMax: 1.5,
		Styles:         []string{"Casual", "Bohemian"},
		ColorHints:     []string{"black", "brown"},
		BaseConfidence: 0.7,
	},
}

// Rules returns the rule table in evaluation order.
func Rules() []Rule {
	out := make([]Rule, len(rules))
	copy(out, rules)
	return out
}
