package ai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHostedComplete_Success(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/openai/v1/chat/completions" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Fatalf("bearer auth missing: %q", got)
		}
		var payload ChatRequest
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("invalid payload: %v", err)
		}
		if payload.Model != "llama-3.3-70b-versatile" {
			t.Fatalf("model not forwarded: %q", payload.Model)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"content": `{"selected_id": "hook_1"}`}},
			},
		})
	}))
	defer ts.Close()

	client := NewHostedClient(ts.URL, "test-key")
	resp, err := client.Complete(context.Background(), CompletionRequest{
		Model:  "llama-3.3-70b-versatile",
		Prompt: "rank these",
	})
	if err != nil {
		t.Fatalf("complete failed: %v", err)
	}
	if resp.Text != `{"selected_id": "hook_1"}` {
		t.Fatalf("unexpected reply %q", resp.Text)
	}
}

func TestHostedComplete_NoChoices(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"choices": []}`))
	}))
	defer ts.Close()

	client := NewHostedClient(ts.URL, "test-key")
	if _, err := client.Complete(context.Background(), CompletionRequest{Prompt: "p"}); err == nil {
		t.Fatal("empty choices must be an error")
	}
}

func TestHostedComplete_ErrorStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"error": "over capacity"}`))
	}))
	defer ts.Close()

	client := NewHostedClient(ts.URL, "test-key")
	_, err := client.Complete(context.Background(), CompletionRequest{Prompt: "p"})

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.StatusCode != http.StatusServiceUnavailable || apiErr.Provider != "hosted" {
		t.Fatalf("error details lost: %+v", apiErr)
	}
}

func TestHostedReachable(t *testing.T) {
	if !NewHostedClient("", "key").Reachable(context.Background()) {
		t.Fatal("a configured key means reachable")
	}
	if NewHostedClient("", "").Reachable(context.Background()) {
		t.Fatal("no key means unreachable")
	}
}
