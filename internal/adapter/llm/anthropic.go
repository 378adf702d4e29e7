package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

const anthropicVersion = "2023-06-01"

// AnthropicClient submits prompts to the Anthropic messages endpoint. It is
// interchangeable with OpenAIClient behind ports.Classifier.
type AnthropicClient struct {
	apiURL      string
	apiKey      string
	model       string
	temperature float64
	maxTokens   int
	client      *ResilientClient
}

// NewAnthropicClient creates a client configured from the environment.
func NewAnthropicClient() *AnthropicClient {
	apiKey := os.Getenv("CLASSIFIER_API_KEY")
	if apiKey == "" {
		apiKey = os.Getenv("ANTHROPIC_API_KEY")
	}

	apiURL := os.Getenv("CLASSIFIER_API_URL")
	if apiURL == "" {
		apiURL = "https://api.anthropic.com/v1/messages"
	}

	model := os.Getenv("CLASSIFIER_MODEL")
	if model == "" {
		model = "claude-sonnet-4-20250514"
	}

	return &AnthropicClient{
		apiURL:      apiURL,
		apiKey:      apiKey,
		model:       model,
		temperature: getEnvFloat("CLASSIFIER_TEMPERATURE", 0.1),
		maxTokens:   getEnvInt("CLASSIFIER_MAX_TOKENS", 800),
		client:      NewResilientClient(30*time.Second, DefaultResilientClientConfig()),
	}
}

func (c *AnthropicClient) Name() string {
	return "anthropic"
}

// Submit sends the prompt and returns the raw completion text.
func (c *AnthropicClient) Submit(ctx context.Context, prompt string) (string, error) {
	timer := StartTimer()
	defer timer.ObserveDuration()

	requestBody := map[string]interface{}{
		"model":      c.model,
		"max_tokens": c.maxTokens,
		"messages": []map[string]string{
			{"role": "user", "content": prompt},
		},
		"temperature": c.temperature,
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
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", anthropicVersion)

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
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		RecordClassifierRequest("error", c.Name())
		RecordError("parse")
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	if len(response.Content) == 0 {
		RecordClassifierRequest("error", c.Name())
		return "", fmt.Errorf("no content in classifier response")
	}

	RecordClassifierRequest("success", c.Name())
	return response.Content[0].Text, nil
}
