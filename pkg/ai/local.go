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

// LocalClient talks to a self-hosted llama-style inference server exposing a
// /v1/completions endpoint.
type LocalClient struct {
	baseURL      string
	authHeader   string
	model        string
	probeTimeout time.Duration
	client       *http.Client
}

// NewLocalClient creates a client for a local inference endpoint.
// authHeader is an optional raw Authorization header value.
func NewLocalClient(baseURL, authHeader, model string, probeTimeout time.Duration) *LocalClient {
	if probeTimeout <= 0 {
		probeTimeout = 2 * time.Second
	}
	return &LocalClient{
		baseURL:      strings.TrimRight(baseURL, "/"),
		authHeader:   authHeader,
		model:        model,
		probeTimeout: probeTimeout,
		client:       &http.Client{Timeout: 120 * time.Second},
	}
}

func (l *LocalClient) Name() string {
	return "local"
}

// DefaultModel returns the model identifier configured for the endpoint
func (l *LocalClient) DefaultModel() string {
	return l.model
}

// Reachable probes the endpoint with a short GET. Any HTTP response counts,
// a transport error does not.
func (l *LocalClient) Reachable(ctx context.Context) bool {
	if l.baseURL == "" {
		return false
	}
	probeCtx, cancel := context.WithTimeout(ctx, l.probeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(probeCtx, "GET", l.baseURL+"/health", nil)
	if err != nil {
		return false
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)
	return true
}

type localRequest struct {
	Prompt      string  `json:"prompt"`
	MaxTokens   int     `json:"max_tokens"`
	Temperature float64 `json:"temperature"`
	TopP        float64 `json:"top_p"`
}

// localResponse covers the reply shapes seen across llama server builds.
// Whichever field is populated first wins.
type localResponse struct {
	GeneratedText string `json:"generated_text"`
	Text          string `json:"text"`
	Choices       []struct {
		Text    string `json:"text"`
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (r *localResponse) reply() string {
	if r.GeneratedText != "" {
		return r.GeneratedText
	}
	if r.Text != "" {
		return r.Text
	}
	if len(r.Choices) > 0 {
		if r.Choices[0].Text != "" {
			return r.Choices[0].Text
		}
		return r.Choices[0].Message.Content
	}
	return ""
}

// Complete sends the prompt to the local completions endpoint
func (l *LocalClient) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	body := localRequest{
		Prompt:      req.Prompt,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
		TopP:        0.9,
	}

	b, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", l.baseURL+"/v1/completions", bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if l.authHeader != "" {
		httpReq.Header.Set("Authorization", l.authHeader)
	}

	resp, err := l.client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode >= 400 {
		return nil, &APIError{Provider: l.Name(), StatusCode: resp.StatusCode, Reason: compactBody(raw)}
	}

	var lr localResponse
	if err := json.Unmarshal(raw, &lr); err != nil {
		return nil, fmt.Errorf("decode local reply: %w", err)
	}

	text := lr.reply()
	if text == "" {
		return nil, fmt.Errorf("empty reply from local endpoint")
	}
	return &CompletionResponse{Text: text}, nil
}

// compactBody trims a response body down to a loggable reason string
func compactBody(raw []byte) string {
	s := strings.TrimSpace(string(raw))
	if len(s) > 240 {
		s = s[:240]
	}
	return s
}
