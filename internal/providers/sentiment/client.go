// Package sentiment classifies how an answer-engine response talks about a
// brand. Enrichment is best effort: callers treat any error as "no sentiment".
package sentiment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"server/internal/domain"
)

type Options struct {
	APIKey     string
	Model      string
	BaseURL    string
	HTTPClient *http.Client
}

// Client labels responses via an OpenAI JSON-mode completion.
type Client struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

// Result is the enrichment payload merged into a check before it is stored.
type Result struct {
	Sentiment        domain.Sentiment
	BrandDescription string
}

const (
	defaultTimeout = 20 * time.Second
	defaultModel   = "gpt-4o-mini"

	systemPrompt = "You judge how a passage of text portrays a specific brand. Reply with a JSON object {\"sentiment\": \"positive\"|\"neutral\"|\"negative\", \"brand_description\": \"<one sentence on how the text describes the brand>\"}."
)

type chatRequest struct {
	Model          string        `json:"model"`
	Messages       []chatMessage `json:"messages"`
	ResponseFormat *chatFormat   `json:"response_format,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

type verdict struct {
	Sentiment        string `json:"sentiment"`
	BrandDescription string `json:"brand_description"`
}

func NewClient(opts Options) (*Client, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, errors.New("sentiment api key is required")
	}
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = defaultModel
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{
		apiKey:  strings.TrimSpace(opts.APIKey),
		model:   model,
		baseURL: baseURL,
		client:  client,
	}, nil
}

// Analyze returns the sentiment label and short brand description for a
// response that mentioned the target domain.
func (c *Client) Analyze(ctx context.Context, responseText, targetDomain string) (*Result, error) {
	payload := chatRequest{
		Model:          c.model,
		ResponseFormat: &chatFormat{Type: "json_object"},
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: fmt.Sprintf("Brand: %s\n\nText:\n%s", targetDomain, responseText)},
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return nil, errors.New("empty choices")
	}
	var v verdict
	if err := json.Unmarshal([]byte(parsed.Choices[0].Message.Content), &v); err != nil {
		return nil, fmt.Errorf("decode verdict: %w", err)
	}
	label := domain.Sentiment(strings.ToLower(strings.TrimSpace(v.Sentiment)))
	if !label.Valid() {
		return nil, fmt.Errorf("unknown sentiment label %q", v.Sentiment)
	}
	return &Result{
		Sentiment:        label,
		BrandDescription: strings.TrimSpace(v.BrandDescription),
	}, nil
}
