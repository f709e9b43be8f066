package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
)

type SignUpRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8"`
	Phone       string `json:"phone" validate:"omitempty,e164"`
	DisplayName string `json:"display_name"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type SessionGrant struct {
	Token     string  `json:"token"`
	ExpiresAt string  `json:"expires_at"`
	Account   Account `json:"account"`
}

type Service interface {
	SignUp(ctx context.Context, req SignUpRequest) (SessionGrant, error)
	Login(ctx context.Context, req LoginRequest) (SessionGrant, error)
	Logout(ctx context.Context, token string) error
	// ResolveSession maps a bearer token to its account, enforcing expiry.
	ResolveSession(ctx context.Context, token string) (*Account, error)
	GetAccount(ctx context.Context, id snowflake.ID) (*Account, error)
}

var (
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrEmailTaken         = errors.New("email_taken")
	ErrSessionExpired     = errors.New("session_expired")
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrAccountNotFound    = errors.New("account_not_found")
)
