package openai

import "encoding/json"

type MessageRole string

const (
	MessageRoleSystem MessageRole = "system"
	MessageRoleUser   MessageRole = "user"
)

// ContentPart is one element of a multi-part chat message. Text parts carry
// Text; image parts carry ImageURL.
type ContentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *ImageURL `json:"image_url,omitempty"`
}

type ImageURL struct {
	URL string `json:"url"`
}

// ChatMessage is a single request message. Content is always the multi-part
// form; plain text messages have one text part.
type ChatMessage struct {
	Role    MessageRole   `json:"role"`
	Content []ContentPart `json:"content"`
}

// TextMessage builds a single-part text message
func TextMessage(role MessageRole, text string) ChatMessage {
	return ChatMessage{
		Role:    role,
		Content: []ContentPart{{Type: "text", Text: text}},
	}
}

// UserImageMessage builds a user message carrying a text instruction and one
// image as a data URL
func UserImageMessage(text string, imageDataURL string) ChatMessage {
	return ChatMessage{
		Role: MessageRoleUser,
		Content: []ContentPart{
			{Type: "text", Text: text},
			{Type: "image_url", ImageURL: &ImageURL{URL: imageDataURL}},
		},
	}
}

// ChatCompletionRequest is the request body for the chat completion endpoint
type ChatCompletionRequest struct {
	Model               string        `json:"model"`
	Messages            []ChatMessage `json:"messages"`
	MaxCompletionTokens int           `json:"max_completion_tokens,omitempty"`
	Temperature         float32       `json:"temperature,omitempty"`
}

// ResponseMessage is a message in a completion response; content comes back
// as plain text, not parts.
type ResponseMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatCompletionChoice struct {
	Index        int             `json:"index"`
	Message      ResponseMessage `json:"message"`
	FinishReason string          `json:"finish_reason"`
}

// ChatCompletionResponse is the response from the chat completion endpoint
type ChatCompletionResponse struct {
	ID      string                 `json:"id"`
	Object  string                 `json:"object"`
	Model   string                 `json:"model"`
	Choices []ChatCompletionChoice `json:"choices"`
	Usage   ChatCompletionUsage    `json:"usage"`
}

type ChatCompletionUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// ChatCompletionError carries the raw body of an unparseable or failed
// completion response
type ChatCompletionError struct {
	Message string
	RawBody json.RawMessage
}

func (e *ChatCompletionError) Error() string {
	return e.Message
}
