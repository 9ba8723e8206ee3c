// Package clarifai is a minimal client for Clarifai-style visual concept
// detection APIs. It handles transport and retries only; interpreting the
// response shape is the caller's job, because the shape is not stable across
// model versions.
package clarifai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/FrenchMajesty/wardrobe-vision/internal/retry"
)

const clarifaiBaseURL = "https://api.clarifai.com/v2"

const defaultModel = "apparel-detection"

const maxResponseBytes = 1 << 20

// Client calls a concept-detection model endpoint
type Client struct {
	APIKey      string
	BaseURL     string
	Model       string
	HTTPClient  *http.Client
	RetryConfig retry.Config
	Logger      retry.Logger
}

// NewClient creates a new Client for the given API key
func NewClient(apiKey string) *Client {
	return &Client{
		APIKey:      apiKey,
		BaseURL:     clarifaiBaseURL,
		Model:       defaultModel,
		HTTPClient:  &http.Client{Timeout: 30 * time.Second},
		RetryConfig: retry.DefaultConfig(),
	}
}

type predictRequest struct {
	Inputs []predictInput `json:"inputs"`
}

type predictInput struct {
	Data predictData `json:"data"`
}

type predictData struct {
	Image predictImage `json:"image"`
}

type predictImage struct {
	Base64 string `json:"base64"`
}

// DetectConcepts posts the image to the model's outputs endpoint and
// returns the raw response body.
func (c *Client) DetectConcepts(ctx context.Context, image []byte) ([]byte, error) {
	url := fmt.Sprintf("%s/models/%s/outputs", c.BaseURL, c.Model)

	payload, err := json.Marshal(predictRequest{
		Inputs: []predictInput{
			{Data: predictData{Image: predictImage{Base64: base64.StdEncoding.EncodeToString(image)}}},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal predict request: %w", err)
	}

	opts := retry.Options{
		Config:       c.RetryConfig,
		ErrorChecker: retry.HTTPErrorChecker,
		Logger:       c.Logger,
		APIName:      "clarifai",
	}

	return retry.Execute(ctx, opts, func(attempt int) (int, []byte, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
		if err != nil {
			return 0, nil, fmt.Errorf("failed to create predict request: %w", err)
		}
		req.Header.Set("Authorization", "Key "+c.APIKey)
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.HTTPClient.Do(req)
		if err != nil {
			return 0, nil, err
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
		if err != nil {
			return resp.StatusCode, nil, fmt.Errorf("failed to read predict response: %w", err)
		}
		return resp.StatusCode, body, nil
	})
}
