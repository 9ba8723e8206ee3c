package adapters

import (
	"context"
	"fmt"

	wardrobe "github.com/FrenchMajesty/wardrobe-vision"
	"github.com/FrenchMajesty/wardrobe-vision/adapters/openai"
)

const defaultGeneratorModel = "gpt-4o-mini"

// ChatGenerator produces free-form text through an OpenAI-compatible chat
// endpoint. It performs no parsing of the answer; the outfit flow does its
// own extraction and validation.
type ChatGenerator struct {
	client VisionChatClient
	model  string
}

var _ wardrobe.TextGenerator = (*ChatGenerator)(nil)

// NewChatGenerator creates a generator using the OpenAI API key from the
// environment when apiKey is nil.
func NewChatGenerator(apiKey *string, model string) (*ChatGenerator, error) {
	key, err := loadEnvVar(apiKey, "OPENAI_API_KEY")
	if err != nil {
		return nil, err
	}
	if model == "" {
		model = defaultGeneratorModel
	}
	return &ChatGenerator{client: openai.NewClient(*key), model: model}, nil
}

// NewChatGeneratorWithClient creates a generator over an existing chat
// client
func NewChatGeneratorWithClient(client VisionChatClient, model string) *ChatGenerator {
	if model == "" {
		model = defaultGeneratorModel
	}
	return &ChatGenerator{client: client, model: model}
}

// Generate sends the prompt and returns the model's raw text answer.
func (g *ChatGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	if prompt == "" {
		return "", fmt.Errorf("prompt is empty")
	}

	resp, err := g.client.ChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatMessage{
			openai.TextMessage(openai.MessageRoleUser, prompt),
		},
		MaxCompletionTokens: 1200,
	})
	if err != nil {
		return "", fmt.Errorf("text generation failed: %w", err)
	}
	return resp.Choices[0].Message.Content, nil
}
