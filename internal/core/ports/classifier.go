package ports

import "context"

// Classifier is the capability the detector consumes: submit a text prompt,
// get text back or fail. Providers are interchangeable behind this single
// method; the detector never sees which backend answered.
type Classifier interface {
	Submit(ctx context.Context, prompt string) (string, error)
	Name() string
}
