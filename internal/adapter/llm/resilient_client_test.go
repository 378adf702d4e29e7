package llm

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func fastRetryConfig(maxRetries int) ResilientClientConfig {
	return ResilientClientConfig{
		EnableCircuitBreaker: false,
		MaxRetries:           maxRetries,
		InitialInterval:      time.Millisecond,
		MaxInterval:          5 * time.Millisecond,
	}
}

func TestResilientClientRetriesOnServerError(t *testing.T) {
	var attempts int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&attempts, 1) < 3 {
			http.Error(w, "try again", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewResilientClient(5*time.Second, fastRetryConfig(3))

	req, _ := http.NewRequest("GET", server.URL, nil)
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("Do() error = %v, want success after retries", err)
	}
	resp.Body.Close()

	if got := atomic.LoadInt32(&attempts); got != 3 {
		t.Errorf("server saw %d attempts, want 3", got)
	}
}

func TestResilientClientDoesNotRetryClientError(t *testing.T) {
	var attempts int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&attempts, 1)
		http.Error(w, "bad request", http.StatusBadRequest)
	}))
	defer server.Close()

	client := NewResilientClient(5*time.Second, fastRetryConfig(3))

	req, _ := http.NewRequest("GET", server.URL, nil)
	_, err := client.Do(req)
	if err == nil {
		t.Fatal("Do() should fail on HTTP 400")
	}

	if got := atomic.LoadInt32(&attempts); got != 1 {
		t.Errorf("server saw %d attempts, want 1 (4xx is permanent)", got)
	}
}

func TestResilientClientRetriesRateLimit(t *testing.T) {
	var attempts int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&attempts, 1) == 1 {
			http.Error(w, "slow down", http.StatusTooManyRequests)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewResilientClient(5*time.Second, fastRetryConfig(2))

	req, _ := http.NewRequest("GET", server.URL, nil)
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("Do() error = %v, want success after 429 retry", err)
	}
	resp.Body.Close()

	if got := atomic.LoadInt32(&attempts); got != 2 {
		t.Errorf("server saw %d attempts, want 2", got)
	}
}

func TestResilientClientCircuitBreakerOpens(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad request", http.StatusBadRequest)
	}))
	defer server.Close()

	config := ResilientClientConfig{
		EnableCircuitBreaker: true,
		MaxFailures:          2,
		CircuitTimeout:       time.Minute,
		MaxRetries:           0,
	}
	client := NewResilientClient(5*time.Second, config)

	// Trip the breaker with consecutive failures.
	for i := 0; i < 2; i++ {
		req, _ := http.NewRequest("GET", server.URL, nil)
		if _, err := client.Do(req); err == nil {
			t.Fatal("expected failure while tripping the breaker")
		}
	}

	req, _ := http.NewRequest("GET", server.URL, nil)
	_, err := client.Do(req)
	if err == nil {
		t.Fatal("Do() should fail once the breaker is open")
	}
	if !strings.Contains(err.Error(), "circuit breaker is open") {
		t.Errorf("error = %v, want an open-breaker error", err)
	}
}

func TestResilientClientBreakerDisabled(t *testing.T) {
	var attempts int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&attempts, 1)
		http.Error(w, "bad request", http.StatusBadRequest)
	}))
	defer server.Close()

	client := NewResilientClient(5*time.Second, ResilientClientConfig{
		EnableCircuitBreaker: false,
		MaxRetries:           0,
	})

	// Without a breaker every call reaches the server, no matter how many fail.
	for i := 0; i < 10; i++ {
		req, _ := http.NewRequest("GET", server.URL, nil)
		client.Do(req)
	}

	if got := atomic.LoadInt32(&attempts); got != 10 {
		t.Errorf("server saw %d attempts, want 10", got)
	}
}
