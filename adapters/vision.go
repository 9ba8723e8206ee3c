package adapters

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	wardrobe "github.com/FrenchMajesty/wardrobe-vision"
	"github.com/FrenchMajesty/wardrobe-vision/adapters/openai"
	"github.com/FrenchMajesty/wardrobe-vision/taxonomy"
	"github.com/tidwall/gjson"
)

const defaultVisionModel = "gpt-4o-mini"

// defaultVisionConfidence replaces a missing or out-of-range confidence
// field in the model's answer.
const defaultVisionConfidence = 0.5

// jsonBlockPattern finds the first {...} block in prose. Models regularly
// wrap the JSON in pleasantries.
var jsonBlockPattern = regexp.MustCompile(`(?s)\{.*\}`)

// VisionChatClient is the completion surface the vision adapter needs
type VisionChatClient interface {
	ChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (*openai.ChatCompletionResponse, error)
}

// VisionClassifier classifies clothing images with a generative
// vision-language model. Every field of the model's JSON answer is
// re-validated against the taxonomy; the model's output is never trusted
// verbatim.
type VisionClassifier struct {
	client VisionChatClient
	model  string
}

// NewVisionClassifier creates a vision classifier using the OpenAI API key
// from the environment when apiKey is nil. A missing credential is a
// construction error so the adapter can be skipped instead of failing every
// call.
func NewVisionClassifier(apiKey *string, model string) (*VisionClassifier, error) {
	key, err := loadEnvVar(apiKey, "OPENAI_API_KEY")
	if err != nil {
		return nil, err
	}

	if model == "" {
		model = defaultVisionModel
	}

	return &VisionClassifier{
		client: openai.NewClient(*key),
		model:  model,
	}, nil
}

// NewVisionClassifierWithClient creates a vision classifier over an
// existing chat client
func NewVisionClassifierWithClient(client VisionChatClient, model string) *VisionClassifier {
	if model == "" {
		model = defaultVisionModel
	}
	return &VisionClassifier{client: client, model: model}
}

var _ wardrobe.ImageClassifier = (*VisionClassifier)(nil)

// Classify sends the image with the fixed rubric prompt and normalizes the
// JSON answer. Network and auth failures propagate to the orchestrator.
func (v *VisionClassifier) Classify(ctx context.Context, image []byte, fileName string) (*wardrobe.Result, error) {
	if len(image) == 0 {
		return nil, fmt.Errorf("no image bytes provided")
	}

	req := openai.ChatCompletionRequest{
		Model: v.model,
		Messages: []openai.ChatMessage{
			openai.UserImageMessage(visionRubric(), openai.DataURL(image)),
		},
		MaxCompletionTokens: 400,
	}

	resp, err := v.client.ChatCompletion(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("vision completion failed: %w", err)
	}

	return parseVisionAnswer(resp.Choices[0].Message.Content)
}

// parseVisionAnswer extracts the first JSON object from the model's text
// and re-validates every field against the taxonomy.
func parseVisionAnswer(text string) (*wardrobe.Result, error) {
	block := jsonBlockPattern.FindString(text)
	if block == "" {
		return nil, fmt.Errorf("no JSON object in vision response")
	}

	parsed := gjson.Parse(block)
	if !parsed.IsObject() {
		return nil, fmt.Errorf("vision response JSON is not an object")
	}

	// An explicit error payload is a failure, not a classification.
	if errMsg := parsed.Get("error"); errMsg.Exists() {
		return nil, fmt.Errorf("vision model reported error: %s", errMsg.String())
	}

	// The category must be exactly a taxonomy enum value. Anything else,
	// including plausible-sounding inventions, degrades to the default.
	rawCategory := parsed.Get("category").String()
	category := taxonomy.DefaultCategory
	if taxonomy.IsValidCategory(rawCategory) {
		category = taxonomy.Category(strings.ToUpper(strings.TrimSpace(rawCategory)))
	}

	rawSubcategory := parsed.Get("subcategory").String()
	subcategory := taxonomy.NormalizeSubcategory(rawSubcategory, category)

	confidence := parsed.Get("confidence").Float()
	if confidence <= 0 || confidence > 1 {
		confidence = defaultVisionConfidence
	}

	label := strings.TrimSpace(rawSubcategory)
	if label == "" {
		label = strings.TrimSpace(rawCategory)
	}
	if label == "" {
		label = "unknown"
	}

	return &wardrobe.Result{
		PredictedLabel: label,
		Confidence:     confidence,
		Category:       category,
		Subcategory:    subcategory,
		Styles:         taxonomy.NormalizeStyles(stringSlice(parsed.Get("styles"))),
		Colors:         taxonomy.NormalizeColors(stringSlice(parsed.Get("colors"))),
		Reasoning:      parsed.Get("reasoning").String(),
	}, nil
}

// stringSlice flattens a gjson array (or single string) into []string.
func stringSlice(value gjson.Result) []string {
	if !value.Exists() {
		return nil
	}
	if value.IsArray() {
		arr := value.Array()
		out := make([]string, 0, len(arr))
		for _, v := range arr {
			out = append(out, v.String())
		}
		return out
	}
	return []string{value.String()}
}

// visionRubric renders the fixed classification instructions, enumerating
// every allowed value so the model has no room to invent vocabulary.
func visionRubric() string {
	var b strings.Builder
	b.WriteString("You are a wardrobe cataloging assistant. Classify the clothing item in this image.\n\n")
	b.WriteString("Respond with ONLY a JSON object, no other text, using exactly these fields:\n")
	b.WriteString(`{"category": "...", "subcategory": "...", "colors": [...], "pattern": "...", "material": "...", "styles": [...], "occasions": [...], "seasons": [...], "confidence": 0.0}`)
	b.WriteString("\n\nAllowed values:\n")

	b.WriteString("category: ")
	cats := taxonomy.Categories()
	for i, cat := range cats {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(string(cat))
	}
	b.WriteString("\n")

	for _, cat := range cats {
		b.WriteString(fmt.Sprintf("subcategory for %s: %s\n", cat, strings.Join(taxonomy.Subcategories(cat), ", ")))
	}

	b.WriteString("colors: " + strings.Join(taxonomy.Colors, ", ") + "\n")
	b.WriteString("pattern: " + strings.Join(taxonomy.Patterns, ", ") + "\n")
	b.WriteString("material: " + strings.Join(taxonomy.Materials, ", ") + "\n")
	b.WriteString("styles: " + strings.Join(taxonomy.Styles, ", ") + "\n")
	b.WriteString("occasions: " + strings.Join(taxonomy.Occasions, ", ") + "\n")
	b.WriteString("seasons: " + strings.Join(taxonomy.Seasons, ", ") + "\n")
	b.WriteString("\nconfidence is your certainty in [0, 1]. If the image is not a clothing item, respond with {\"error\": \"reason\"}.")

	return b.String()
}
