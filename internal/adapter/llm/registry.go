package llm

import (
	"os"

	"github.com/hive-corporation/autosoc/internal/core/ports"
)

// NewClassifierFromEnv selects the classification backend by the
// CLASSIFIER_PROVIDER environment variable. Providers are interchangeable;
// "openai" is the default, matching the most common proxy deployments.
func NewClassifierFromEnv() ports.Classifier {
	switch os.Getenv("CLASSIFIER_PROVIDER") {
	case "anthropic":
		return NewAnthropicClient()
	default:
		return NewOpenAIClient()
	}
}
