package outfit

import (
	"fmt"
	"regexp"

	wardrobe "github.com/FrenchMajesty/wardrobe-vision"
	"github.com/tidwall/gjson"
)

// Outfit is one validated recommendation from the generative model.
type Outfit struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	ItemIDs     []string `json:"items"`
	Reasoning   string   `json:"reasoning,omitempty"`
}

// outfitKeys are the slots the prompt demands, in presentation order.
var outfitKeys = []string{"outfit_1", "outfit_2", "outfit_3"}

// jsonBlockPattern finds the first {...} block in the model's prose.
var jsonBlockPattern = regexp.MustCompile(`(?s)\{.*\}`)

// ParseResponse extracts the outfit JSON from the model's answer and
// validates it against the wardrobe. Item ids the wardrobe doesn't contain
// are dropped; an outfit left with no valid items is discarded. At least
// one valid outfit must survive.
func ParseResponse(text string, items []wardrobe.Item) ([]Outfit, error) {
	block := jsonBlockPattern.FindString(text)
	if block == "" {
		return nil, fmt.Errorf("no JSON object in outfit response")
	}

	parsed := gjson.Parse(block)
	if !parsed.IsObject() {
		return nil, fmt.Errorf("outfit response JSON is not an object")
	}

	known := make(map[string]bool, len(items))
	for _, item := range items {
		known[item.ID] = true
	}

	var outfits []Outfit
	for _, key := range outfitKeys {
		entry := parsed.Get(key)
		if !entry.Exists() || !entry.IsObject() {
			continue
		}

		name := entry.Get("name").String()
		if name == "" {
			continue
		}

		var ids []string
		for _, id := range entry.Get("items").Array() {
			if known[id.String()] {
				ids = append(ids, id.String())
			}
		}
		if len(ids) == 0 {
			continue
		}

		outfits = append(outfits, Outfit{
			Name:        name,
			Description: entry.Get("description").String(),
			ItemIDs:     ids,
			Reasoning:   entry.Get("reasoning").String(),
		})
	}

	if len(outfits) == 0 {
		return nil, fmt.Errorf("no valid outfits in response")
	}
	return outfits, nil
}
