package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/go-playground/validator/v10"
	authdomain "github.com/samogera/BrightEco-Pay-sub000/internal/auth/domain"
	"github.com/samogera/BrightEco-Pay-sub000/internal/auth/repository"
	"github.com/samogera/BrightEco-Pay-sub000/internal/clock"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestSignUpAndLogin(t *testing.T) {
	svc := setupAuthService(t, clock.SystemClock{})

	grant, err := svc.SignUp(context.Background(), authdomain.SignUpRequest{
		Email:    "amina@example.com",
		Password: "sunrise-2550",
		Phone:    "+254712345678",
	})
	if err != nil {
		t.Fatalf("sign up: %v", err)
	}
	if grant.Token == "" {
		t.Fatal("expected a session token")
	}

	login, err := svc.Login(context.Background(), authdomain.LoginRequest{
		Email:    "Amina@Example.com",
		Password: "sunrise-2550",
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if login.Account.ID != grant.Account.ID {
		t.Fatalf("login resolved account %s, want %s", login.Account.ID, grant.Account.ID)
	}

	_, err = svc.Login(context.Background(), authdomain.LoginRequest{
		Email:    "amina@example.com",
		Password: "wrong",
	})
	if !errors.Is(err, authdomain.ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials, got %v", err)
	}
}

func TestSignUpRejectsDuplicateEmail(t *testing.T) {
	svc := setupAuthService(t, clock.SystemClock{})

	req := authdomain.SignUpRequest{Email: "dup@example.com", Password: "password1"}
	if _, err := svc.SignUp(context.Background(), req); err != nil {
		t.Fatalf("first sign up: %v", err)
	}
	_, err := svc.SignUp(context.Background(), req)
	if !errors.Is(err, authdomain.ErrEmailTaken) {
		t.Fatalf("expected email taken, got %v", err)
	}
}

func TestSignUpValidatesInput(t *testing.T) {
	svc := setupAuthService(t, clock.SystemClock{})

	_, err := svc.SignUp(context.Background(), authdomain.SignUpRequest{
		Email:    "not-an-email",
		Password: "password1",
	})
	var verr validator.ValidationErrors
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation errors, got %v", err)
	}

	_, err = svc.SignUp(context.Background(), authdomain.SignUpRequest{
		Email:    "short@example.com",
		Password: "short",
	})
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation errors for short password, got %v", err)
	}
}

func TestResolveSession(t *testing.T) {
	svc := setupAuthService(t, clock.SystemClock{})

	grant, err := svc.SignUp(context.Background(), authdomain.SignUpRequest{
		Email:    "resolve@example.com",
		Password: "password1",
	})
	if err != nil {
		t.Fatalf("sign up: %v", err)
	}

	account, err := svc.ResolveSession(context.Background(), grant.Token)
	if err != nil {
		t.Fatalf("resolve session: %v", err)
	}
	if account.ID != grant.Account.ID {
		t.Fatalf("resolved account %s, want %s", account.ID, grant.Account.ID)
	}

	if _, err := svc.ResolveSession(context.Background(), "bep_unknown"); !errors.Is(err, authdomain.ErrUnauthenticated) {
		t.Fatalf("expected unauthenticated for unknown token, got %v", err)
	}

	if err := svc.Logout(context.Background(), grant.Token); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, err := svc.ResolveSession(context.Background(), grant.Token); !errors.Is(err, authdomain.ErrUnauthenticated) {
		t.Fatalf("expected unauthenticated after logout, got %v", err)
	}
}

func TestResolveSessionExpired(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	fixed := &steppingClock{at: now}
	svc := setupAuthService(t, fixed)

	grant, err := svc.SignUp(context.Background(), authdomain.SignUpRequest{
		Email:    "expired@example.com",
		Password: "password1",
	})
	if err != nil {
		t.Fatalf("sign up: %v", err)
	}

	fixed.at = now.Add(sessionTTL + time.Hour)
	_, err = svc.ResolveSession(context.Background(), grant.Token)
	if !errors.Is(err, authdomain.ErrSessionExpired) {
		t.Fatalf("expected session expired, got %v", err)
	}
}

type steppingClock struct {
	at time.Time
}

func (c *steppingClock) Now() time.Time { return c.at }

func setupAuthService(t *testing.T, clk clock.Clock) authdomain.Service {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.Exec(
		`CREATE TABLE IF NOT EXISTS accounts (
			id BIGINT PRIMARY KEY,
			email TEXT NOT NULL UNIQUE,
			phone TEXT,
			display_name TEXT NOT NULL DEFAULT '',
			password_hash TEXT NOT NULL,
			is_admin BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
	).Error; err != nil {
		t.Fatalf("create accounts: %v", err)
	}
	if err := db.Exec(
		`CREATE TABLE IF NOT EXISTS sessions (
			id BIGINT PRIMARY KEY,
			account_id BIGINT NOT NULL,
			token_hash TEXT NOT NULL UNIQUE,
			expires_at TIMESTAMP NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
	).Error; err != nil {
		t.Fatalf("create sessions: %v", err)
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("snowflake node: %v", err)
	}

	return NewService(Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Clock: clk,
		Repo:  repository.Provide(),
	})
}
