// Package vision talks to an OpenAI-compatible vision model server.
package vision

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/huangsam/docname/internal/contract"
)

// Sampling settings for extraction. Low temperature keeps replies in the
// requested line format.
const (
	requestTemperature = 0.1
	requestMaxTokens   = 256
)

// Client is a hand-rolled chat/completions client. Any server that speaks
// the OpenAI API works, local llama.cpp and vLLM included.
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	verbose    bool
	httpClient *http.Client
}

var _ contract.VisionModel = &Client{} // Compile-time check

// NewClient builds a client from the validated run configuration.
func NewClient(cfg *contract.Config) *Client {
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
		verbose:    cfg.Verbose,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

// ModelID returns the configured model identifier.
func (c *Client) ModelID() string { return c.model }

// Ping verifies the server is reachable by listing its models.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/models", nil)
	if err != nil {
		return err
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", contract.ErrModelUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: status %d from %s", contract.ErrModelUnavailable, resp.StatusCode, c.baseURL)
	}
	return nil
}

// Analyze sends one document to the model and returns the raw reply text.
func (c *Client) Analyze(ctx context.Context, req contract.AnalysisRequest) (string, error) {
	rid := uuid.New().String()
	start := time.Now()

	prompt := buildPrompt(req)

	// The image part is omitted in no-image mode; the model then works
	// from the filename hint alone
	var content []map[string]any
	if req.ImageBase64 != "" {
		content = append(content, map[string]any{
			"type":      "image_url",
			"image_url": map[string]any{"url": "data:image/png;base64," + req.ImageBase64},
		})
	}
	content = append(content, map[string]any{"type": "text", "text": prompt})

	body := map[string]any{
		"model":       c.model,
		"temperature": requestTemperature,
		"max_tokens":  requestMaxTokens,
		"messages": []map[string]any{
			{"role": "user", "content": content},
		},
	}

	raw, err := c.post(ctx, c.baseURL+"/chat/completions", body)
	if err != nil {
		return "", err
	}

	var cc struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(raw, &cc); err != nil {
		return "", fmt.Errorf("decode model response: %w", err)
	}
	if len(cc.Choices) == 0 {
		return "", fmt.Errorf("no choices in model response")
	}

	reply := strings.TrimSpace(cc.Choices[0].Message.Content)
	if c.verbose {
		fmt.Printf("Model reply for %s (req %s, %dms): %d chars\n",
			req.Filename, rid, time.Since(start).Milliseconds(), len(reply))
	}
	return reply, nil
}

func (c *Client) post(ctx context.Context, url string, body map[string]any) ([]byte, error) {
	b, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("model http error: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read model response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("model status %d: %s", resp.StatusCode, string(payload))
	}
	return payload, nil
}
