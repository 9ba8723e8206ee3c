// Package openai is a minimal typed client for OpenAI-compatible chat
// completion APIs, including multimodal (vision) requests.
package openai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/FrenchMajesty/wardrobe-vision/internal/retry"
)

const openaiBaseURL = "https://api.openai.com/v1"

const maxResponseBytes = 1 << 20 // 1MB cap on completion bodies

// Client talks to an OpenAI-compatible chat completion endpoint
type Client struct {
	APIKey      string
	BaseURL     string
	HTTPClient  *http.Client
	RetryConfig retry.Config
	Logger      retry.Logger
}

// NewClient creates a new Client against the default OpenAI base URL
func NewClient(apiKey string) *Client {
	return &Client{
		APIKey:      apiKey,
		BaseURL:     openaiBaseURL,
		HTTPClient:  http.DefaultClient,
		RetryConfig: retry.DefaultConfig(),
	}
}

// SetBaseURL points the client at a different OpenAI-compatible endpoint
func (c *Client) SetBaseURL(baseURL string) {
	c.BaseURL = baseURL
}

// ChatCompletion sends a chat completion request with retry logic
func (c *Client) ChatCompletion(ctx context.Context, req ChatCompletionRequest) (*ChatCompletionResponse, error) {
	url := c.BaseURL + "/chat/completions"

	bodyBytes, err := c.runRetryableRequest(ctx, url, req, "chat")
	if err != nil {
		return nil, err
	}

	var chatResp ChatCompletionResponse
	if err := json.Unmarshal(bodyBytes, &chatResp); err != nil {
		return nil, &ChatCompletionError{
			Message: fmt.Sprintf("failed to parse chat completion response: %v", err),
			RawBody: json.RawMessage(bodyBytes),
		}
	}

	if len(chatResp.Choices) == 0 {
		return nil, &ChatCompletionError{
			Message: "chat completion returned no choices",
			RawBody: json.RawMessage(bodyBytes),
		}
	}

	return &chatResp, nil
}

// runRetryableRequest marshals req, posts it, and retries transient
// failures per the client's retry configuration.
func (c *Client) runRetryableRequest(ctx context.Context, url string, req any, apiName string) ([]byte, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s request: %w", apiName, err)
	}

	opts := retry.Options{
		Config:       c.RetryConfig,
		ErrorChecker: retry.HTTPErrorChecker,
		Logger:       c.Logger,
		APIName:      apiName,
	}

	return retry.Execute(ctx, opts, func(attempt int) (int, []byte, error) {
		httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
		if err != nil {
			return 0, nil, fmt.Errorf("failed to create %s request: %w", apiName, err)
		}
		httpReq.Header.Set("Authorization", "Bearer "+c.APIKey)
		httpReq.Header.Set("Content-Type", "application/json")

		resp, err := c.HTTPClient.Do(httpReq)
		if err != nil {
			return 0, nil, err
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
		if err != nil {
			return resp.StatusCode, nil, fmt.Errorf("failed to read %s response: %w", apiName, err)
		}
		return resp.StatusCode, body, nil
	})
}

// DataURL encodes image bytes as a base64 data URL, sniffing the MIME type
// from the content.
func DataURL(image []byte) string {
	mime := http.DetectContentType(image)
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(image)
}
