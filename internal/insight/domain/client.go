package domain

import "context"

// ModelClient completes a prompt against a hosted language model.
type ModelClient interface {
	Complete(ctx context.Context, prompt string) (string, error)
}
