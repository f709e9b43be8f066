package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/go-playground/validator/v10"
	authdomain "github.com/samogera/BrightEco-Pay-sub000/internal/auth/domain"
	"github.com/samogera/BrightEco-Pay-sub000/internal/auth/password"
	"github.com/samogera/BrightEco-Pay-sub000/internal/clock"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const sessionTTL = 30 * 24 * time.Hour

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
	Repo  authdomain.Repository
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	genID    *snowflake.Node
	clock    clock.Clock
	repo     authdomain.Repository
	validate *validator.Validate
}

func NewService(p Params) authdomain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("auth.service"),
		genID:    p.GenID,
		clock:    p.Clock,
		repo:     p.Repo,
		validate: validator.New(),
	}
}

func (s *Service) SignUp(ctx context.Context, req authdomain.SignUpRequest) (authdomain.SessionGrant, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := s.validate.Struct(req); err != nil {
		return authdomain.SessionGrant{}, err
	}

	if _, err := s.repo.FindAccountByEmail(ctx, s.db, req.Email); err == nil {
		return authdomain.SessionGrant{}, authdomain.ErrEmailTaken
	} else if !errors.Is(err, authdomain.ErrAccountNotFound) {
		return authdomain.SessionGrant{}, err
	}

	hash, err := password.Hash(req.Password)
	if err != nil {
		return authdomain.SessionGrant{}, err
	}

	account := &authdomain.Account{
		ID:           s.genID.Generate(),
		Email:        req.Email,
		Phone:        strings.TrimSpace(req.Phone),
		DisplayName:  strings.TrimSpace(req.DisplayName),
		PasswordHash: hash,
	}
	if err := s.repo.InsertAccount(ctx, s.db, account); err != nil {
		return authdomain.SessionGrant{}, err
	}

	s.log.Info("account created",
		zap.String("account_id", account.ID.String()),
	)
	return s.issueSession(ctx, account)
}

func (s *Service) Login(ctx context.Context, req authdomain.LoginRequest) (authdomain.SessionGrant, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := s.validate.Struct(req); err != nil {
		return authdomain.SessionGrant{}, err
	}

	account, err := s.repo.FindAccountByEmail(ctx, s.db, req.Email)
	if errors.Is(err, authdomain.ErrAccountNotFound) {
		return authdomain.SessionGrant{}, authdomain.ErrInvalidCredentials
	}
	if err != nil {
		return authdomain.SessionGrant{}, err
	}

	if !password.Verify(req.Password, account.PasswordHash) {
		s.log.Warn("login rejected",
			zap.String("account_id", account.ID.String()),
		)
		return authdomain.SessionGrant{}, authdomain.ErrInvalidCredentials
	}

	return s.issueSession(ctx, account)
}

func (s *Service) Logout(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return authdomain.ErrUnauthenticated
	}
	return s.repo.DeleteSessionByTokenHash(ctx, s.db, authdomain.HashSessionToken(token))
}

func (s *Service) ResolveSession(ctx context.Context, token string) (*authdomain.Account, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, authdomain.ErrUnauthenticated
	}

	session, err := s.repo.FindSessionByTokenHash(ctx, s.db, authdomain.HashSessionToken(token))
	if err != nil {
		return nil, err
	}
	if s.clock.Now().After(session.ExpiresAt) {
		return nil, authdomain.ErrSessionExpired
	}

	return s.repo.FindAccountByID(ctx, s.db, session.AccountID)
}

func (s *Service) GetAccount(ctx context.Context, id snowflake.ID) (*authdomain.Account, error) {
	return s.repo.FindAccountByID(ctx, s.db, id)
}

func (s *Service) issueSession(ctx context.Context, account *authdomain.Account) (authdomain.SessionGrant, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return authdomain.SessionGrant{}, err
	}
	token := "bep_" + hex.EncodeToString(raw)

	expiresAt := s.clock.Now().Add(sessionTTL)
	session := &authdomain.Session{
		ID:        s.genID.Generate(),
		AccountID: account.ID,
		TokenHash: authdomain.HashSessionToken(token),
		ExpiresAt: expiresAt,
	}
	if err := s.repo.InsertSession(ctx, s.db, session); err != nil {
		return authdomain.SessionGrant{}, err
	}

	return authdomain.SessionGrant{
		Token:     token,
		ExpiresAt: expiresAt.UTC().Format(time.RFC3339),
		Account:   *account,
	}, nil
}
