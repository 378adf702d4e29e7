package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"
)

// OpenAIClient submits prompts to an OpenAI-compatible chat-completions
// endpoint. A LiteLLM-style proxy works too: only the wire shape matters.
type OpenAIClient struct {
	apiURL      string
	apiKey      string
	model       string
	temperature float64
	maxTokens   int
	client      *ResilientClient
}

// NewOpenAIClient creates a client configured from the environment.
func NewOpenAIClient() *OpenAIClient {
	apiKey := os.Getenv("CLASSIFIER_API_KEY")
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}

	apiURL := os.Getenv("CLASSIFIER_API_URL")
	if apiURL == "" {
		apiURL = "https://api.openai.com/v1/chat/completions"
	}

	model := os.Getenv("CLASSIFIER_MODEL")
	if model == "" {
		model = "gpt-4-turbo-preview"
	}

	return &OpenAIClient{
		apiURL: apiURL,
		apiKey: apiKey,
		model:  model,
		// Low temperature: repeated analysis of the same event must stay
		// consistent for analysts, this is a correctness property.
		temperature: getEnvFloat("CLASSIFIER_TEMPERATURE", 0.1),
		maxTokens:   getEnvInt("CLASSIFIER_MAX_TOKENS", 800),
		client:      NewResilientClient(30*time.Second, DefaultResilientClientConfig()),
	}
}

func (c *OpenAIClient) Name() string {
	return "openai"
}

// Submit sends the prompt and returns the raw completion text.
func (c *OpenAIClient) Submit(ctx context.Context, prompt string) (string, error) {
	timer := StartTimer()
	defer timer.ObserveDuration()

	requestBody := map[string]interface{}{
		"model": c.model,
		"messages": []map[string]string{
			{"role": "user", "content": prompt},
		},
		"temperature": c.temperature,
		"max_tokens":  c.maxTokens,
	}

	jsonBody, err := json.Marshal(requestBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.apiURL, bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.apiKey))

	resp, err := c.client.Do(req)
	if err != nil {
		recordSubmitFailure(c.Name(), err)
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		RecordClassifierRequest("error", c.Name())
		return "", fmt.Errorf("classifier API error (status %d): %s", resp.StatusCode, string(body))
	}

	var response struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		RecordClassifierRequest("error", c.Name())
		RecordError("parse")
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	if len(response.Choices) == 0 {
		RecordClassifierRequest("error", c.Name())
		return "", fmt.Errorf("no choices in classifier response")
	}

	RecordClassifierRequest("success", c.Name())
	return response.Choices[0].Message.Content, nil
}

// recordSubmitFailure classifies a transport error for the error counter.
func recordSubmitFailure(provider string, err error) {
	RecordClassifierRequest("error", provider)
	msg := err.Error()
	switch {
	case strings.Contains(msg, "timeout") || strings.Contains(msg, "deadline exceeded"):
		RecordError("timeout")
	case strings.Contains(msg, "circuit breaker"):
		RecordError("circuit_open")
	case strings.Contains(msg, "401") || strings.Contains(msg, "403"):
		RecordError("auth")
	default:
		RecordError("connection")
	}
}

// getEnvFloat reads a float from environment variable or returns default
func getEnvFloat(key string, defaultValue float64) float64 {
	if val := os.Getenv(key); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	}
	return defaultValue
}
