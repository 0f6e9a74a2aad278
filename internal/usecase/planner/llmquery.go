package planner

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/vibecut/autoeditor/pkg/ai"
	"github.com/vibecut/autoeditor/pkg/config"
)

const jitterCapMillis = 250

// retryableStatuses are provider response codes worth another attempt.
var retryableStatuses = map[int]bool{
	408: true, 409: true, 425: true, 429: true,
	500: true, 502: true, 503: true, 504: true,
}

// retryableReasons are substrings of transient failure messages.
var retryableReasons = []string{"rate", "timeout", "overload", "busy", "loading"}

// ProviderSpec is one rung group of the fallback ladder: a client plus the
// ordered models to try on it.
type ProviderSpec struct {
	Client ai.Client
	Models []string
}

// QueryResult is the structured outcome of one ladder query. OK is false on
// exhaustion; callers always have a heuristic fallback, so exhaustion is a
// soft failure, not an error.
type QueryResult struct {
	OK       bool
	Name     string
	Text     string
	JSON     string
	Provider string
	Model    string
	Status   int
	Reason   string
	Attempts int
}

// NamedPrompt pairs a prompt with the name it is audited under.
type NamedPrompt struct {
	Name   string
	Prompt string
}

// QueryLadder walks providers, their models, and bounded retries until one
// call yields extractable JSON. Backoff between attempts is exponential with
// jitter.
type QueryLadder struct {
	cfg       config.PlannerConfig
	providers func(ctx context.Context) []ProviderSpec
	logger    *zap.Logger

	// test seams
	sleep  func(time.Duration)
	jitter func() time.Duration
}

// NewQueryLadder builds the ladder from configuration and the two provider
// clients. Either client may be nil when unconfigured.
func NewQueryLadder(cfg config.PlannerConfig, local *ai.LocalClient, hosted *ai.HostedClient, logger *zap.Logger) *QueryLadder {
	ladder := &QueryLadder{
		cfg:    cfg,
		logger: logger,
		sleep:  time.Sleep,
		jitter: func() time.Duration {
			return time.Duration(rand.Intn(jitterCapMillis+1)) * time.Millisecond
		},
	}
	ladder.providers = func(ctx context.Context) []ProviderSpec {
		return selectProviders(ctx, cfg, local, hosted)
	}
	return ladder
}

// selectProviders resolves the provider order for this query. Auto mode
// prefers the local endpoint when it answers a probe, then falls back to the
// hosted API.
func selectProviders(ctx context.Context, cfg config.PlannerConfig, local *ai.LocalClient, hosted *ai.HostedClient) []ProviderSpec {
	var out []ProviderSpec

	localSpec := func() (ProviderSpec, bool) {
		if local == nil || !local.Reachable(ctx) {
			return ProviderSpec{}, false
		}
		return ProviderSpec{Client: local, Models: []string{local.DefaultModel()}}, true
	}
	hostedSpec := func() (ProviderSpec, bool) {
		if hosted == nil || !hosted.Reachable(ctx) {
			return ProviderSpec{}, false
		}
		models := append([]string{cfg.HostedModel}, cfg.FallbackModels...)
		return ProviderSpec{Client: hosted, Models: models}, true
	}

	switch cfg.ProviderMode {
	case "local":
		if spec, ok := localSpec(); ok {
			out = append(out, spec)
		}
	case "hosted":
		if spec, ok := hostedSpec(); ok {
			out = append(out, spec)
		}
	default: // auto
		if spec, ok := localSpec(); ok {
			out = append(out, spec)
		}
		if spec, ok := hostedSpec(); ok {
			out = append(out, spec)
		}
	}
	return out
}

// Query walks the full ladder for one prompt. The state machine per rung is
// attempt -> success | retry | next model | next provider, ending in a
// structured exhaustion result rather than an error.
func (l *QueryLadder) Query(ctx context.Context, prompt NamedPrompt) QueryResult {
	result := QueryResult{Name: prompt.Name, Reason: "no provider available"}

	for _, provider := range l.providers(ctx) {
	modelLoop:
		for _, model := range provider.Models {
			for attempt := 1; attempt <= l.cfg.MaxRetries; attempt++ {
				result.Attempts++
				reply, err := provider.Client.Complete(ctx, ai.CompletionRequest{
					Model:       model,
					Prompt:      prompt.Prompt,
					MaxTokens:   l.cfg.MaxTokens,
					Temperature: l.cfg.Temperature,
				})

				if err == nil {
					doc, ok := ExtractJSON(reply.Text)
					if ok {
						result.OK = true
						result.Text = reply.Text
						result.JSON = doc
						result.Provider = provider.Client.Name()
						result.Model = model
						result.Status = 0
						result.Reason = ""
						return result
					}
					// unusable reply counts as a failed attempt
					err = errors.New("reply contained no well-formed JSON")
				}

				retryable, status, permanent := classify(err)
				result.Provider = provider.Client.Name()
				result.Model = model
				result.Status = status
				result.Reason = err.Error()

				if l.logger != nil {
					l.logger.Warn("model query attempt failed",
						zap.String("prompt", prompt.Name),
						zap.String("provider", provider.Client.Name()),
						zap.String("model", model),
						zap.Int("attempt", attempt),
						zap.Error(err))
				}

				if permanent {
					// auth or malformed-request style failure: this
					// provider will not recover, move on
					break modelLoop
				}
				if !retryable {
					break
				}
				if attempt < l.cfg.MaxRetries {
					l.sleep(l.backoffDelay(attempt))
				}
			}
		}
	}
	return result
}

// classify buckets an attempt failure: retryable transient errors, permanent
// provider errors (auth, bad request), everything else moves to the next
// model.
func classify(err error) (retryable bool, status int, permanent bool) {
	var apiErr *ai.APIError
	if errors.As(err, &apiErr) {
		status = apiErr.StatusCode
		if status == 401 || status == 403 {
			return false, status, true
		}
		if retryableStatuses[status] {
			return true, status, false
		}
		return reasonRetryable(apiErr.Reason), status, false
	}

	// transport failures and empty replies are transient by nature
	return reasonRetryable(err.Error()) || isTransportError(err), 0, false
}

func reasonRetryable(reason string) bool {
	lower := strings.ToLower(reason)
	for _, marker := range retryableReasons {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

func isTransportError(err error) bool {
	lower := strings.ToLower(err.Error())
	return strings.Contains(lower, "connection") ||
		strings.Contains(lower, "no such host") ||
		strings.Contains(lower, "eof")
}

// backoffDelay is base * 2^(attempt-1) plus up to 250ms of jitter.
func (l *QueryLadder) backoffDelay(attempt int) time.Duration {
	base := l.cfg.BackoffBase
	if base <= 0 {
		base = 1200 * time.Millisecond
	}
	delay := base * time.Duration(1<<uint(attempt-1))
	return delay + l.jitter()
}

// QueryBatch dispatches independent prompts with a bounded concurrency
// width. Results come back in input order, calls within the batch are
// unordered.
func (l *QueryLadder) QueryBatch(ctx context.Context, prompts []NamedPrompt) []QueryResult {
	width := l.cfg.BatchWidth
	if width < 1 {
		width = 1
	}

	results := make([]QueryResult, len(prompts))
	sem := make(chan struct{}, width)
	var wg sync.WaitGroup

	for i, prompt := range prompts {
		wg.Add(1)
		go func(i int, prompt NamedPrompt) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			results[i] = l.Query(ctx, prompt)
		}(i, prompt)
	}
	wg.Wait()
	return results
}
