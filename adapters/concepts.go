package adapters

import (
	"context"
	"fmt"
	"sort"
	"strings"

	wardrobe "github.com/FrenchMajesty/wardrobe-vision"
	"github.com/FrenchMajesty/wardrobe-vision/adapters/clarifai"
	"github.com/FrenchMajesty/wardrobe-vision/taxonomy"
	"github.com/tidwall/gjson"
)

// conceptFallbackConfidence is the confidence of the constant result
// returned when no concept can be extracted from any known response shape.
const conceptFallbackConfidence = 0.3

// Concept is one detected visual concept.
type Concept struct {
	Name  string
	Value float64
}

// ConceptClient is the detection surface the concept adapter needs
type ConceptClient interface {
	DetectConcepts(ctx context.Context, image []byte) ([]byte, error)
}

// conceptExtractor pulls concepts out of one plausible response shape.
// Extractors are pure: they return nil when the shape doesn't match.
type conceptExtractor struct {
	name string
	fn   func(body gjson.Result) []Concept
}

// conceptExtractors is the ordered fallback chain. Region-based extraction
// runs first because the apparel model nests detections per region; flatter
// shapes cover older model versions.
var conceptExtractors = []conceptExtractor{
	{"regions", func(body gjson.Result) []Concept {
		return collectConcepts(body.Get("outputs.#.data.regions.#.data.concepts"))
	}},
	{"outputs", func(body gjson.Result) []Concept {
		return collectConcepts(body.Get("outputs.#.data.concepts"))
	}},
	{"data", func(body gjson.Result) []Concept {
		return collectConcepts(body.Get("data.concepts"))
	}},
	{"flat", func(body gjson.Result) []Concept {
		return collectConcepts(body.Get("concepts"))
	}},
}

// collectConcepts flattens arbitrarily nested concept arrays into one list.
func collectConcepts(value gjson.Result) []Concept {
	var out []Concept
	var walk func(v gjson.Result)
	walk = func(v gjson.Result) {
		if v.IsArray() {
			v.ForEach(func(_, item gjson.Result) bool {
				walk(item)
				return true
			})
			return
		}
		name := v.Get("name").String()
		if name != "" {
			out = append(out, Concept{Name: name, Value: v.Get("value").Float()})
		}
	}
	walk(value)
	return out
}

// ConceptClassifier classifies via a remote visual-concept detection API.
type ConceptClassifier struct {
	client ConceptClient
}

// NewConceptClassifier creates a concept classifier using the CLARIFAI_API_KEY
// environment variable when apiKey is nil
func NewConceptClassifier(apiKey *string) (*ConceptClassifier, error) {
	key, err := loadEnvVar(apiKey, "CLARIFAI_API_KEY")
	if err != nil {
		return nil, err
	}
	return &ConceptClassifier{client: clarifai.NewClient(*key)}, nil
}

// NewConceptClassifierWithClient creates a concept classifier over an
// existing detection client
func NewConceptClassifierWithClient(client ConceptClient) *ConceptClassifier {
	return &ConceptClassifier{client: client}
}

var _ wardrobe.ImageClassifier = (*ConceptClassifier)(nil)

// Classify sends the image for concept detection and tries each known
// response shape in order. Transport errors propagate; an empty but
// well-formed response degrades to the constant fallback result instead.
func (c *ConceptClassifier) Classify(ctx context.Context, image []byte, fileName string) (*wardrobe.Result, error) {
	if len(image) == 0 {
		return nil, fmt.Errorf("no image bytes provided")
	}

	body, err := c.client.DetectConcepts(ctx, image)
	if err != nil {
		return nil, fmt.Errorf("concept detection failed: %w", err)
	}

	parsed := gjson.ParseBytes(body)
	var concepts []Concept
	var shape string
	for _, extractor := range conceptExtractors {
		if found := extractor.fn(parsed); len(found) > 0 {
			concepts = found
			shape = extractor.name
			break
		}
	}

	if len(concepts) == 0 {
		// Nothing extractable from any shape. Still not an error: the
		// upload flow proceeds with a generic result.
		return &wardrobe.Result{
			PredictedLabel: "unknown",
			Confidence:     conceptFallbackConfidence,
			Category:       taxonomy.DefaultCategory,
			Subcategory:    taxonomy.UnknownSubcategory,
			Reasoning:      "no concepts extracted from detection response",
		}, nil
	}

	sort.SliceStable(concepts, func(i, j int) bool {
		return concepts[i].Value > concepts[j].Value
	})
	concepts = dedupeConcepts(concepts)

	winner := concepts[0]
	category := taxonomy.NormalizeCategory(winner.Name)

	alternates := make([]wardrobe.Prediction, 0, 3)
	for _, concept := range concepts[1:] {
		if len(alternates) == 3 {
			break
		}
		altCategory := taxonomy.NormalizeCategory(concept.Name)
		alternates = append(alternates, wardrobe.Prediction{
			Label:       concept.Name,
			Confidence:  concept.Value,
			Category:    altCategory,
			Subcategory: taxonomy.NormalizeSubcategory(concept.Name, altCategory),
		})
	}

	return &wardrobe.Result{
		PredictedLabel: winner.Name,
		Confidence:     winner.Value,
		Category:       category,
		Subcategory:    taxonomy.NormalizeSubcategory(winner.Name, category),
		Reasoning:      fmt.Sprintf("detected %d concepts (%s shape)", len(concepts), shape),
		Alternates:     alternates,
	}, nil
}

// dedupeConcepts drops repeated concept names, keeping the highest-ranked
// occurrence. The input must already be sorted by value.
func dedupeConcepts(concepts []Concept) []Concept {
	seen := make(map[string]bool, len(concepts))
	out := concepts[:0]
	for _, c := range concepts {
		key := strings.ToLower(c.Name)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, c)
	}
	return out
}
