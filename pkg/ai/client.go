package ai

import "context"

// CompletionRequest is the provider-neutral shape for one model call
type CompletionRequest struct {
	Model       string
	Prompt      string
	MaxTokens   int
	Temperature float64
}

// CompletionResponse carries the raw text reply of a model call
type CompletionResponse struct {
	Text string
}

// Client is one inference provider. Implementations wrap a concrete HTTP API
// and return APIError for non-2xx responses so callers can classify retries.
type Client interface {
	Name() string
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)
	// Reachable reports whether the provider is worth trying at all.
	// Hosted providers answer based on configuration; local providers probe.
	Reachable(ctx context.Context) bool
}
