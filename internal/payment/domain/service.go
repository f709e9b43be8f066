package domain

import "context"

type InitiateSTKPushRequest struct {
	Phone  string `json:"phone" validate:"required"`
	Amount int64  `json:"amount" validate:"required,gt=0"`
}

type STKPushResponse struct {
	Success    bool   `json:"success"`
	Message    string `json:"message"`
	CheckoutID string `json:"checkout_id,omitempty"`
}

type Service interface {
	// InitiateSTKPush validates the request, records the attempt, and blocks
	// until the gateway resolves it.
	InitiateSTKPush(ctx context.Context, req InitiateSTKPushRequest) (STKPushResponse, error)
}
