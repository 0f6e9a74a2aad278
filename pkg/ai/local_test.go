package ai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestLocalComplete_Success(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Fatalf("expected POST got %s", r.Method)
		}
		if r.URL.Path != "/v1/completions" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer local-token" {
			t.Fatalf("auth header not forwarded: %q", got)
		}
		var payload localRequest
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("invalid payload: %v", err)
		}
		if payload.Prompt != "rank the hooks" {
			t.Fatalf("prompt not forwarded: %q", payload.Prompt)
		}
		if payload.TopP != 0.9 {
			t.Fatalf("top_p should be pinned at 0.9, got %v", payload.TopP)
		}
		json.NewEncoder(w).Encode(map[string]string{"generated_text": "hello from llama"})
	}))
	defer ts.Close()

	client := NewLocalClient(ts.URL, "Bearer local-token", "llama-3-8b", time.Second)
	resp, err := client.Complete(context.Background(), CompletionRequest{
		Model:       "llama-3-8b",
		Prompt:      "rank the hooks",
		MaxTokens:   256,
		Temperature: 0.2,
	})
	if err != nil {
		t.Fatalf("complete failed: %v", err)
	}
	if resp.Text != "hello from llama" {
		t.Fatalf("unexpected reply %q", resp.Text)
	}
}

func TestLocalComplete_ReplyShapes(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{"generated_text", `{"generated_text": "a"}`, "a"},
		{"text", `{"text": "b"}`, "b"},
		{"choices text", `{"choices": [{"text": "c"}]}`, "c"},
		{"chat message", `{"choices": [{"message": {"content": "d"}}]}`, "d"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.Write([]byte(tc.body))
			}))
			defer ts.Close()

			client := NewLocalClient(ts.URL, "", "m", time.Second)
			resp, err := client.Complete(context.Background(), CompletionRequest{Prompt: "p"})
			if err != nil {
				t.Fatalf("complete failed: %v", err)
			}
			if resp.Text != tc.want {
				t.Fatalf("reply %q, want %q", resp.Text, tc.want)
			}
		})
	}
}

func TestLocalComplete_EmptyReply(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer ts.Close()

	client := NewLocalClient(ts.URL, "", "m", time.Second)
	if _, err := client.Complete(context.Background(), CompletionRequest{Prompt: "p"}); err == nil {
		t.Fatal("empty reply must be an error")
	}
}

func TestLocalComplete_ErrorStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte("model is loading"))
	}))
	defer ts.Close()

	client := NewLocalClient(ts.URL, "", "m", time.Second)
	_, err := client.Complete(context.Background(), CompletionRequest{Prompt: "p"})

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("status not carried: %d", apiErr.StatusCode)
	}
	if apiErr.Reason != "model is loading" {
		t.Fatalf("reason not carried: %q", apiErr.Reason)
	}
	if apiErr.Provider != "local" {
		t.Fatalf("provider not carried: %q", apiErr.Provider)
	}
}

func TestLocalReachable(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/health" {
			t.Fatalf("probe hit %s", r.URL.Path)
		}
		w.WriteHeader(http.StatusOK)
	}))
	client := NewLocalClient(ts.URL, "", "m", time.Second)
	if !client.Reachable(context.Background()) {
		t.Fatal("live server must be reachable")
	}

	ts.Close()
	if client.Reachable(context.Background()) {
		t.Fatal("closed server must not be reachable")
	}

	empty := NewLocalClient("", "", "m", time.Second)
	if empty.Reachable(context.Background()) {
		t.Fatal("unconfigured client must not be reachable")
	}
}
