package taxonomy

import "strings"

// Category is a wardrobe category in the fixed two-level taxonomy.
type Category string

const (
	Tops        Category = "TOPS"
	Pants       Category = "PANTS"
	Dress       Category = "DRESS"
	Skirts      Category = "SKIRTS"
	Shoes       Category = "SHOES"
	Bags        Category = "BAGS"
	Jewelry     Category = "JEWELRY"
	Hats        Category = "HATS"
	Nails       Category = "NAILS"
	Outerwear   Category = "OUTERWEAR"
	Accessories Category = "ACCESSORIES"
)

// DefaultCategory is returned whenever a raw label cannot be mapped.
// Classification must never hard-fail an upload, so misses degrade to the
// most common category instead of erroring.
const DefaultCategory = Tops

// UnknownSubcategory is returned when a raw subcategory cannot be mapped
// within its category's allowed set.
const UnknownSubcategory = "unknown"

// Truncation limits applied by the Normalize* slice helpers. They bound the
// size of downstream prompts built from normalized attributes.
const (
	MaxStyles    = 2
	MaxOccasions = 3
	MaxSeasons   = 2
	MaxColors    = 3
)

var allCategories = []Category{
	Tops, Pants, Dress, Skirts, Shoes, Bags,
	Jewelry, Hats, Nails, Outerwear, Accessories,
}

// Styles is the fixed style vocabulary, in display order.
var Styles = []string{
	"Casual", "Classic", "Chic", "Streetwear", "Preppy",
	"Vintage Retro", "Y2K", "Minimalist", "Formal", "Bohemian",
}

// Occasions is the fixed occasion vocabulary.
var Occasions = []string{
	"Casual", "Work", "Campus", "Date", "Party",
	"Beach", "Travel", "Formal Event", "Sport", "Hangout",
}

// Seasons is the fixed season vocabulary.
var Seasons = []string{"Spring", "Summer", "Fall", "Winter"}

// Colors is the fixed color vocabulary.
var Colors = []string{
	"Black", "White", "Gray", "Beige", "Brown", "Red", "Orange",
	"Yellow", "Green", "Blue", "Navy", "Purple", "Pink", "Gold",
	"Silver", "Multicolor",
}

// Patterns is the fixed pattern vocabulary used by the vision rubric.
var Patterns = []string{
	"solid", "striped", "plaid", "floral", "polka dot",
	"graphic", "animal print", "color block",
}

// Materials is the fixed material vocabulary used by the vision rubric.
var Materials = []string{
	"cotton", "denim", "leather", "wool", "silk", "linen",
	"polyester", "knit", "suede", "satin",
}

var subcategories = map[Category][]string{
	Tops:        {"t-shirt", "shirt", "blouse", "sweater", "hoodie", "tank top", "polo", "crop top"},
	Pants:       {"jeans", "trousers", "shorts", "leggings", "joggers", "cargo pants"},
	Dress:       {"mini dress", "midi dress", "maxi dress", "slip dress", "shirt dress"},
	Skirts:      {"mini skirt", "midi skirt", "maxi skirt", "pleated skirt", "pencil skirt"},
	Shoes:       {"sneakers", "boots", "heels", "sandals", "flats", "loafers"},
	Bags:        {"handbag", "tote", "shoulder bag", "crossbody", "backpack", "clutch"},
	Jewelry:     {"necklace", "earrings", "bracelet", "ring", "watch"},
	Hats:        {"cap", "beanie", "bucket hat", "sun hat", "fedora"},
	Nails:       {"polish", "gel", "acrylic", "press-on"},
	Outerwear:   {"jacket", "coat", "blazer", "cardigan", "puffer", "trench coat"},
	Accessories: {"belt", "scarf", "sunglasses", "gloves", "hair accessory", "socks"},
}

// Categories returns every category in the taxonomy, in display order.
func Categories() []Category {
	out := make([]Category, len(allCategories))
	copy(out, allCategories)
	return out
}

// Subcategories returns the allowed subcategory set for a category.
func Subcategories(cat Category) []string {
	subs := subcategories[cat]
	out := make([]string, len(subs))
	copy(out, subs)
	return out
}

// IsValidCategory reports whether raw is exactly a taxonomy category,
// case-insensitively.
func IsValidCategory(raw string) bool {
	upper := Category(strings.ToUpper(strings.TrimSpace(raw)))
	for _, cat := range allCategories {
		if cat == upper {
			return true
		}
	}
	return false
}

// NormalizeStyles filters raw to values present in the style vocabulary,
// preserving input order, truncated to MaxStyles.
func NormalizeStyles(raw []string) []string {
	return filterVocabulary(raw, Styles, MaxStyles)
}

// NormalizeOccasions filters raw to the occasion vocabulary, truncated to
// MaxOccasions.
func NormalizeOccasions(raw []string) []string {
	return filterVocabulary(raw, Occasions, MaxOccasions)
}

// NormalizeSeasons filters raw to the season vocabulary, truncated to
// MaxSeasons.
func NormalizeSeasons(raw []string) []string {
	return filterVocabulary(raw, Seasons, MaxSeasons)
}

// NormalizeColors filters raw to the color vocabulary, truncated to
// MaxColors.
func NormalizeColors(raw []string) []string {
	return filterVocabulary(raw, Colors, MaxColors)
}

// filterVocabulary keeps entries of raw whose case-insensitive match exists
// in vocab, replacing each with the vocabulary's canonical casing. Order is
// preserved and the result is capped at max entries.
func filterVocabulary(raw []string, vocab []string, max int) []string {
	out := make([]string, 0, max)
	for _, value := range raw {
		if len(out) >= max {
			break
		}
		trimmed := strings.TrimSpace(value)
		for _, canonical := range vocab {
			if strings.EqualFold(trimmed, canonical) {
				out = append(out, canonical)
				break
			}
		}
	}
	return out
}
