package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// HostedClient is a minimal client for OpenAI-compatible hosted chat APIs
type HostedClient struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewHostedClient creates a hosted API client
func NewHostedClient(baseURL, apiKey string) *HostedClient {
	if baseURL == "" {
		baseURL = "https://api.groq.com"
	}
	return &HostedClient{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 60 * time.Second},
	}
}

func (h *HostedClient) Name() string {
	return "hosted"
}

// Reachable is configuration-driven for hosted providers; an API key means
// the provider is usable.
func (h *HostedClient) Reachable(_ context.Context) bool {
	return h.apiKey != ""
}

// ChatRequest is the shape for chat completion requests
type ChatRequest struct {
	Model       string      `json:"model,omitempty"`
	Messages    interface{} `json:"messages,omitempty"`
	Temperature float64     `json:"temperature,omitempty"`
	MaxTokens   int         `json:"max_tokens,omitempty"`
}

// ChatResponse is a minimal response shape
type ChatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Complete sends the prompt as a single user message
func (h *HostedClient) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	reqBody := ChatRequest{
		Model:       req.Model,
		Messages:    []map[string]string{{"role": "user", "content": req.Prompt}},
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	}

	b, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}

	endpoint := h.baseURL + "/openai/v1/chat/completions"
	httpReq, err := http.NewRequestWithContext(ctx, "POST", endpoint, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Authorization", "Bearer "+h.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := h.client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode >= 400 {
		return nil, &APIError{Provider: h.Name(), StatusCode: resp.StatusCode, Reason: compactBody(raw)}
	}

	var cr ChatResponse
	if err := json.Unmarshal(raw, &cr); err != nil {
		return nil, fmt.Errorf("decode hosted reply: %w", err)
	}
	if len(cr.Choices) == 0 {
		return nil, fmt.Errorf("empty response from hosted provider")
	}
	return &CompletionResponse{Text: cr.Choices[0].Message.Content}, nil
}
