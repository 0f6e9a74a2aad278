package planner

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/vibecut/autoeditor/pkg/ai"
	"github.com/vibecut/autoeditor/pkg/config"
)

// scriptedClient replays a fixed sequence of replies and errors.
type scriptedClient struct {
	name    string
	replies []scriptedReply
	calls   int
}

type scriptedReply struct {
	text string
	err  error
}

func (s *scriptedClient) Name() string { return s.name }

func (s *scriptedClient) Reachable(_ context.Context) bool { return true }

func (s *scriptedClient) Complete(_ context.Context, req ai.CompletionRequest) (*ai.CompletionResponse, error) {
	idx := s.calls
	s.calls++
	if idx >= len(s.replies) {
		idx = len(s.replies) - 1
	}
	r := s.replies[idx]
	if r.err != nil {
		return nil, r.err
	}
	return &ai.CompletionResponse{Text: r.text}, nil
}

func testLadder(client ai.Client, models []string, maxRetries int) (*QueryLadder, *[]time.Duration) {
	var delays []time.Duration
	ladder := &QueryLadder{
		cfg: config.PlannerConfig{
			MaxRetries:  maxRetries,
			BackoffBase: 100 * time.Millisecond,
			MaxTokens:   256,
			BatchWidth:  2,
		},
		providers: func(_ context.Context) []ProviderSpec {
			return []ProviderSpec{{Client: client, Models: models}}
		},
		sleep:  func(d time.Duration) { delays = append(delays, d) },
		jitter: func() time.Duration { return 0 },
	}
	return ladder, &delays
}

func TestQuery_RateLimitedExhaustion(t *testing.T) {
	client := &scriptedClient{
		name:    "stub",
		replies: []scriptedReply{{err: &ai.APIError{Provider: "stub", StatusCode: 429, Reason: "rate limit exceeded"}}},
	}
	ladder, delays := testLadder(client, []string{"model-a"}, 3)

	res := ladder.Query(context.Background(), NamedPrompt{Name: "cut_plan", Prompt: "p"})
	if res.OK {
		t.Fatal("expected exhaustion, got OK")
	}
	if res.Attempts != 3 {
		t.Fatalf("expected exactly 3 attempts, got %d", res.Attempts)
	}
	if res.Status != 429 {
		t.Fatalf("expected last status 429, got %d", res.Status)
	}
	// no sleep after the final attempt
	if len(*delays) != 2 {
		t.Fatalf("expected 2 backoff sleeps, got %d", len(*delays))
	}
	for i := 1; i < len(*delays); i++ {
		if (*delays)[i] <= (*delays)[i-1] {
			t.Fatalf("backoff must grow: delay[%d]=%v <= delay[%d]=%v", i, (*delays)[i], i-1, (*delays)[i-1])
		}
	}
	if (*delays)[0] != 100*time.Millisecond || (*delays)[1] != 200*time.Millisecond {
		t.Fatalf("unexpected backoff sequence: %v", *delays)
	}
}

func TestQuery_ExhaustsEveryModel(t *testing.T) {
	client := &scriptedClient{
		name:    "stub",
		replies: []scriptedReply{{err: &ai.APIError{Provider: "stub", StatusCode: 503, Reason: "overloaded"}}},
	}
	ladder, _ := testLadder(client, []string{"model-a", "model-b"}, 2)

	res := ladder.Query(context.Background(), NamedPrompt{Name: "cut_plan", Prompt: "p"})
	if res.OK {
		t.Fatal("expected exhaustion")
	}
	if res.Attempts != 4 {
		t.Fatalf("expected 2 attempts per model across 2 models, got %d", res.Attempts)
	}
	if res.Model != "model-b" {
		t.Fatalf("last model tried should be model-b, got %s", res.Model)
	}
}

func TestQuery_AuthFailureSkipsRemainingModels(t *testing.T) {
	client := &scriptedClient{
		name:    "stub",
		replies: []scriptedReply{{err: &ai.APIError{Provider: "stub", StatusCode: 401, Reason: "invalid api key"}}},
	}
	ladder, delays := testLadder(client, []string{"model-a", "model-b"}, 3)

	res := ladder.Query(context.Background(), NamedPrompt{Name: "hook_rank", Prompt: "p"})
	if res.OK {
		t.Fatal("expected failure")
	}
	if client.calls != 1 {
		t.Fatalf("401 should stop the provider after one call, got %d calls", client.calls)
	}
	if len(*delays) != 0 {
		t.Fatalf("permanent failure must not sleep, slept %d times", len(*delays))
	}
}

func TestQuery_NonRetryableMovesToNextModel(t *testing.T) {
	client := &scriptedClient{
		name:    "stub",
		replies: []scriptedReply{{err: &ai.APIError{Provider: "stub", StatusCode: 422, Reason: "bad request shape"}}},
	}
	ladder, _ := testLadder(client, []string{"model-a", "model-b"}, 3)

	res := ladder.Query(context.Background(), NamedPrompt{Name: "cut_plan", Prompt: "p"})
	if res.OK {
		t.Fatal("expected failure")
	}
	if client.calls != 2 {
		t.Fatalf("422 should try each model once, got %d calls", client.calls)
	}
}

func TestQuery_RecoversAfterTransientFailure(t *testing.T) {
	client := &scriptedClient{
		name: "stub",
		replies: []scriptedReply{
			{err: &ai.APIError{Provider: "stub", StatusCode: 429, Reason: "rate limit"}},
			{text: "Here you go:\n{\"selected_id\": \"hook_2\"}\nHope that helps."},
		},
	}
	ladder, delays := testLadder(client, []string{"model-a"}, 3)

	res := ladder.Query(context.Background(), NamedPrompt{Name: "hook_rank", Prompt: "p"})
	if !res.OK {
		t.Fatalf("expected success, got reason %q", res.Reason)
	}
	if res.Attempts != 2 {
		t.Fatalf("expected 2 attempts, got %d", res.Attempts)
	}
	if res.JSON != `{"selected_id": "hook_2"}` {
		t.Fatalf("unexpected extracted JSON: %s", res.JSON)
	}
	if res.Provider != "stub" || res.Model != "model-a" {
		t.Fatalf("provenance lost: %s/%s", res.Provider, res.Model)
	}
	if len(*delays) != 1 {
		t.Fatalf("expected 1 backoff sleep, got %d", len(*delays))
	}
}

func TestQuery_JSONFreeReplyCountsAsFailedAttempt(t *testing.T) {
	client := &scriptedClient{
		name:    "stub",
		replies: []scriptedReply{{text: "sorry, I cannot answer in that format"}},
	}
	ladder, _ := testLadder(client, []string{"model-a"}, 2)

	res := ladder.Query(context.Background(), NamedPrompt{Name: "cut_plan", Prompt: "p"})
	if res.OK {
		t.Fatal("a reply without JSON must not count as success")
	}
	if !strings.Contains(res.Reason, "JSON") {
		t.Fatalf("reason should mention the missing JSON, got %q", res.Reason)
	}
}

func TestQuery_NoProviders(t *testing.T) {
	ladder := &QueryLadder{
		cfg:       config.PlannerConfig{MaxRetries: 3},
		providers: func(_ context.Context) []ProviderSpec { return nil },
		sleep:     func(time.Duration) {},
		jitter:    func() time.Duration { return 0 },
	}
	res := ladder.Query(context.Background(), NamedPrompt{Name: "cut_plan", Prompt: "p"})
	if res.OK || res.Attempts != 0 {
		t.Fatalf("expected zero-attempt failure, got ok=%v attempts=%d", res.OK, res.Attempts)
	}
}

func TestQueryBatch_PreservesInputOrder(t *testing.T) {
	client := &echoClient{}
	ladder := &QueryLadder{
		cfg: config.PlannerConfig{MaxRetries: 1, BatchWidth: 2},
		providers: func(_ context.Context) []ProviderSpec {
			return []ProviderSpec{{Client: client, Models: []string{"m"}}}
		},
		sleep:  func(time.Duration) {},
		jitter: func() time.Duration { return 0 },
	}

	prompts := []NamedPrompt{
		{Name: "first", Prompt: "alpha"},
		{Name: "second", Prompt: "beta"},
		{Name: "third", Prompt: "gamma"},
	}
	results := ladder.QueryBatch(context.Background(), prompts)
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	for i, p := range prompts {
		if results[i].Name != p.Name {
			t.Fatalf("result %d out of order: %s", i, results[i].Name)
		}
		if !strings.Contains(results[i].JSON, p.Prompt) {
			t.Fatalf("result %d does not carry its own prompt: %s", i, results[i].JSON)
		}
	}
}

// echoClient replies with a JSON document embedding the prompt.
type echoClient struct{}

func (e *echoClient) Name() string { return "echo" }

func (e *echoClient) Reachable(_ context.Context) bool { return true }

func (e *echoClient) Complete(_ context.Context, req ai.CompletionRequest) (*ai.CompletionResponse, error) {
	return &ai.CompletionResponse{Text: `{"echo": "` + req.Prompt + `"}`}, nil
}
