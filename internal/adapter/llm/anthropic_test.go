package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestAnthropicClient(url string) *AnthropicClient {
	return &AnthropicClient{
		apiURL:      url,
		apiKey:      "test-key",
		model:       "claude-sonnet-4-20250514",
		temperature: 0.1,
		maxTokens:   800,
		client:      NewResilientClient(5*time.Second, testResilientConfig()),
	}
}

func TestAnthropicSubmit(t *testing.T) {
	var gotAPIKey, gotVersion string
	var gotBody map[string]interface{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAPIKey = r.Header.Get("x-api-key")
		gotVersion = r.Header.Get("anthropic-version")
		json.NewDecoder(r.Body).Decode(&gotBody)

		json.NewEncoder(w).Encode(map[string]interface{}{
			"content": []map[string]string{
				{"type": "text", "text": `{"severity": "low"}`},
			},
		})
	}))
	defer server.Close()

	client := newTestAnthropicClient(server.URL)
	reply, err := client.Submit(context.Background(), "classify this event")

	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if reply != `{"severity": "low"}` {
		t.Errorf("reply = %q, want the first content block's text", reply)
	}
	if gotAPIKey != "test-key" {
		t.Errorf("x-api-key = %q, want test-key", gotAPIKey)
	}
	if gotVersion != anthropicVersion {
		t.Errorf("anthropic-version = %q, want %s", gotVersion, anthropicVersion)
	}
	if gotBody["model"] != "claude-sonnet-4-20250514" {
		t.Errorf("model = %v", gotBody["model"])
	}
	if gotBody["max_tokens"] != float64(800) {
		t.Errorf("max_tokens = %v, want 800", gotBody["max_tokens"])
	}
}

func TestAnthropicSubmitServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := newTestAnthropicClient(server.URL)
	_, err := client.Submit(context.Background(), "prompt")

	if err == nil {
		t.Fatal("Submit() should fail on HTTP 503")
	}
}

func TestAnthropicSubmitEmptyContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"content": []interface{}{}})
	}))
	defer server.Close()

	client := newTestAnthropicClient(server.URL)
	_, err := client.Submit(context.Background(), "prompt")

	if err == nil {
		t.Fatal("Submit() should fail when the response has no content blocks")
	}
}

func TestAnthropicName(t *testing.T) {
	if got := newTestAnthropicClient("http://example.com").Name(); got != "anthropic" {
		t.Errorf("Name() = %q, want anthropic", got)
	}
}
