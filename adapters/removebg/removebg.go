// Package removebg is a minimal client for remove.bg-style background
// removal APIs. A failed removal is expected to be tolerated by callers:
// the upload flow keeps the original image when this service is down.
package removebg

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"
)

const removeBgBaseURL = "https://api.remove.bg/v1.0"

// requestTimeout bounds each removal call. Background removal is a
// best-effort enhancement, so it fails fast rather than holding up the
// upload.
const requestTimeout = 15 * time.Second

const maxResponseBytes = 10 << 20

// Client calls a background-removal endpoint
type Client struct {
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient creates a new Client for the given API key
func NewClient(apiKey string) *Client {
	return &Client{
		APIKey:     apiKey,
		BaseURL:    removeBgBaseURL,
		HTTPClient: &http.Client{Timeout: requestTimeout},
	}
}

// RemoveBackground posts the image and returns the processed image bytes.
// No retry: a single slow or failed attempt already exhausts the caller's
// patience for an optional enhancement.
func (c *Client) RemoveBackground(ctx context.Context, image []byte) ([]byte, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("image_file", "upload.png")
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := part.Write(image); err != nil {
		return nil, fmt.Errorf("failed to write image to form: %w", err)
	}
	if err := writer.WriteField("size", "auto"); err != nil {
		return nil, fmt.Errorf("failed to write size field: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize form: %w", err)
	}

	url := c.BaseURL + "/removebg"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &buf)
	if err != nil {
		return nil, fmt.Errorf("failed to create removebg request: %w", err)
	}
	req.Header.Set("X-Api-Key", c.APIKey)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("removebg request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read removebg response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("removebg returned status %d: %s", resp.StatusCode, body)
	}
	return body, nil
}
