package taxonomy

import "strings"

// categoryAliases maps lowercased raw classifier vocabulary to taxonomy
// categories. It covers the Fashion-MNIST class names, the concept names the
// detection API is known to emit, and common free-form labels from the
// generative model. Lookups are exact after lowercasing and trimming.
var categoryAliases = map[string]Category{
	// Fashion-MNIST classes
	"t-shirt/top": Tops,
	"trouser":     Pants,
	"pullover":    Tops,
	"dress":       Dress,
	"coat":        Outerwear,
	"sandal":      Shoes,
	"shirt":       Tops,
	"sneaker":     Shoes,
	"bag":         Bags,
	"ankle boot":  Shoes,

	// Tops
	"t-shirt":  Tops,
	"tshirt":   Tops,
	"tee":      Tops,
	"top":      Tops,
	"tops":     Tops,
	"blouse":   Tops,
	"sweater":  Tops,
	"hoodie":   Tops,
	"tank top": Tops,
	"polo":     Tops,
	"crop top": Tops,
	"clothing": Tops,
	"apparel":  Tops,

	// Pants
	"pants":    Pants,
	"trousers": Pants,
	"jeans":    Pants,
	"denim":    Pants,
	"shorts":   Pants,
	"leggings": Pants,
	"joggers":  Pants,

	// Dresses and skirts
	"gown":       Dress,
	"sundress":   Dress,
	"skirt":      Skirts,
	"skirts":     Skirts,
	"miniskirt":  Skirts,
	"mini skirt": Skirts,

	// Shoes
	"shoe":     Shoes,
	"shoes":    Shoes,
	"footwear": Shoes,
	"boot":     Shoes,
	"boots":    Shoes,
	"sneakers": Shoes,
	"heel":     Shoes,
	"heels":    Shoes,
	"sandals":  Shoes,
	"loafer":   Shoes,

	// Bags
	"bags":     Bags,
	"handbag":  Bags,
	"purse":    Bags,
	"tote":     Bags,
	"backpack": Bags,
	"clutch":   Bags,

	// Jewelry
	"jewelry":   Jewelry,
	"jewellery": Jewelry,
	"necklace":  Jewelry,
	"earring":   Jewelry,
	"earrings":  Jewelry,
	"bracelet":  Jewelry,
	"ring":      Jewelry,
	"watch":     Jewelry,

	// Hats
	"hat":        Hats,
	"hats":       Hats,
	"cap":        Hats,
	"beanie":     Hats,
	"bucket hat": Hats,

	// Nails
	"nails":       Nails,
	"nail":        Nails,
	"nail polish": Nails,

	// Outerwear
	"outerwear": Outerwear,
	"jacket":    Outerwear,
	"blazer":    Outerwear,
	"cardigan":  Outerwear,
	"parka":     Outerwear,
	"puffer":    Outerwear,
	"raincoat":  Outerwear,

	// Accessories
	"accessories": Accessories,
	"accessory":   Accessories,
	"belt":        Accessories,
	"scarf":       Accessories,
	"sunglasses":  Accessories,
	"glasses":     Accessories,
	"glove":       Accessories,
	"gloves":      Accessories,
	"sock":        Accessories,
	"socks":       Accessories,
}

// subcategoryAliases maps lowercased raw labels to a category-scoped
// subcategory. Only hits whose category matches the requested one are used.
var subcategoryAliases = map[Category]map[string]string{
	Tops: {
		"t-shirt/top": "t-shirt",
		"t-shirt":     "t-shirt",
		"tshirt":      "t-shirt",
		"tee":         "t-shirt",
		"pullover":    "sweater",
		"sweater":     "sweater",
		"shirt":       "shirt",
		"blouse":      "blouse",
		"hoodie":      "hoodie",
		"tank top":    "tank top",
		"polo":        "polo",
		"crop top":    "crop top",
	},
	Pants: {
		"trouser":  "trousers",
		"trousers": "trousers",
		"jeans":    "jeans",
		"denim":    "jeans",
		"shorts":   "shorts",
		"leggings": "leggings",
		"joggers":  "joggers",
	},
	Dress: {
		"mini dress":  "mini dress",
		"midi dress":  "midi dress",
		"maxi dress":  "maxi dress",
		"gown":        "maxi dress",
		"sundress":    "midi dress",
		"slip dress":  "slip dress",
		"shirt dress": "shirt dress",
	},
	Skirts: {
		"mini skirt":    "mini skirt",
		"miniskirt":     "mini skirt",
		"midi skirt":    "midi skirt",
		"maxi skirt":    "maxi skirt",
		"pleated skirt": "pleated skirt",
		"pencil skirt":  "pencil skirt",
	},
	Shoes: {
		"sneaker":    "sneakers",
		"sneakers":   "sneakers",
		"ankle boot": "boots",
		"boot":       "boots",
		"boots":      "boots",
		"heel":       "heels",
		"heels":      "heels",
		"sandal":     "sandals",
		"sandals":    "sandals",
		"flats":      "flats",
		"loafer":     "loafers",
		"loafers":    "loafers",
	},
	Bags: {
		"handbag":      "handbag",
		"purse":        "handbag",
		"tote":         "tote",
		"shoulder bag": "shoulder bag",
		"crossbody":    "crossbody",
		"backpack":     "backpack",
		"clutch":       "clutch",
	},
	Jewelry: {
		"necklace": "necklace",
		"earring":  "earrings",
		"earrings": "earrings",
		"bracelet": "bracelet",
		"ring":     "ring",
		"watch":    "watch",
	},
	Hats: {
		"cap":        "cap",
		"beanie":     "beanie",
		"bucket hat": "bucket hat",
		"sun hat":    "sun hat",
		"fedora":     "fedora",
	},
	Nails: {
		"polish":      "polish",
		"nail polish": "polish",
		"gel":         "gel",
		"acrylic":     "acrylic",
		"press-on":    "press-on",
	},
	Outerwear: {
		"jacket":      "jacket",
		"coat":        "coat",
		"blazer":      "blazer",
		"cardigan":    "cardigan",
		"parka":       "puffer",
		"puffer":      "puffer",
		"raincoat":    "trench coat",
		"trench coat": "trench coat",
	},
	Accessories: {
		"belt":           "belt",
		"scarf":          "scarf",
		"sunglasses":     "sunglasses",
		"glasses":        "sunglasses",
		"glove":          "gloves",
		"gloves":         "gloves",
		"sock":           "socks",
		"socks":          "socks",
		"hair accessory": "hair accessory",
	},
}

// NormalizeCategory maps a raw classifier label to a taxonomy category. The
// lookup is case-insensitive; a direct category name also resolves. Unmapped
// labels resolve to DefaultCategory so that an unrecognized vocabulary never
// fails the upload flow.
func NormalizeCategory(raw string) Category {
	lower := strings.ToLower(strings.TrimSpace(raw))
	if lower == "" {
		return DefaultCategory
	}
	if cat, ok := categoryAliases[lower]; ok {
		return cat
	}
	upper := Category(strings.ToUpper(lower))
	for _, cat := range allCategories {
		if cat == upper {
			return cat
		}
	}
	return DefaultCategory
}

// NormalizeSubcategory maps a raw label to a subcategory within cat's
// allowed set. A raw value that already names an allowed subcategory passes
// through; anything else goes through the alias table. Misses return
// UnknownSubcategory.
func NormalizeSubcategory(raw string, cat Category) string {
	lower := strings.ToLower(strings.TrimSpace(raw))
	if lower == "" {
		return UnknownSubcategory
	}
	for _, sub := range subcategories[cat] {
		if sub == lower {
			return sub
		}
	}
	if aliases, ok := subcategoryAliases[cat]; ok {
		if sub, ok := aliases[lower]; ok {
			return sub
		}
	}
	return UnknownSubcategory
}
