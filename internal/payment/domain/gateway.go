package domain

import "context"

type PushRequest struct {
	Phone     string
	Amount    int64
	Currency  string
	Reference string
}

type PushResult struct {
	Success    bool
	Message    string
	CheckoutID string
}

// Gateway initiates a mobile money push with one provider. Implementations
// block until the push resolves; an issued push always runs to completion.
type Gateway interface {
	Provider() string
	Push(ctx context.Context, req PushRequest) (PushResult, error)
}
