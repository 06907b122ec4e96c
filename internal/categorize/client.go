// Package categorize calls the hosted text-categorization service used to
// prefill the tag lists on the BL form. The service is optional: any failure
// degrades to "no suggestions".
package categorize

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Suggestion holds the tag lists returned for a free-text description
type Suggestion struct {
	Categories    []string `json:"categories"`
	SubCategories []string `json:"sub_categories"`
}

// Categorizer produces tag suggestions for a shipment description
type Categorizer interface {
	Categorize(ctx context.Context, description string) (Suggestion, error)
}

// Client talks HTTP to the hosted service
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient returns a Client for the given endpoint. An empty baseURL yields
// a client whose calls always fail, which callers degrade gracefully from.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

type categorizeRequest struct {
	Description string `json:"description"`
}

func (c *Client) Categorize(ctx context.Context, description string) (Suggestion, error) {
	if c.baseURL == "" {
		return Suggestion{}, fmt.Errorf("categorize: no endpoint configured")
	}

	payload, err := json.Marshal(categorizeRequest{Description: description})
	if err != nil {
		return Suggestion{}, fmt.Errorf("categorize: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(payload))
	if err != nil {
		return Suggestion{}, fmt.Errorf("categorize: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Suggestion{}, fmt.Errorf("categorize: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Suggestion{}, fmt.Errorf("categorize: unexpected status %d", resp.StatusCode)
	}

	var suggestion Suggestion
	if err := json.NewDecoder(resp.Body).Decode(&suggestion); err != nil {
		return Suggestion{}, fmt.Errorf("categorize: decode response: %w", err)
	}

	return suggestion, nil
}
