package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/nomzodai/nomzod-api/internal/auth"
	"github.com/nomzodai/nomzod-api/internal/domain/user"
	"github.com/nomzodai/nomzod-api/internal/repo"
	"github.com/nomzodai/nomzod-api/internal/security"
)

type TokenManager interface {
	GenerateAccessToken(userID int64, email string) (string, error)
	VerifyAccessToken(token string) (*auth.Claims, error)
}

type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type AuthService struct {
	store  repo.Store
	tokens TokenManager
	log    *slog.Logger
}

func NewAuthService(store repo.Store, tokens TokenManager, log *slog.Logger) *AuthService {
	if log == nil {
		log = slog.Default()
	}
	return &AuthService{store: store, tokens: tokens, log: log}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates an active, unprivileged account. Privileged flags on the
// request are ignored.
func (s *AuthService) Register(ctx context.Context, req user.RegisterRequest) (user.User, error) {
	fullName, err := nonBlank("fullName", req.FullName)
	if err != nil {
		return user.User{}, err
	}

	hash, err := security.HashPassword(req.Password)
	if err != nil {
		return user.User{}, fmt.Errorf("hash password: %w", err)
	}

	var created user.User

	err = s.store.WithTx(ctx, func(tx repo.Repos) error {
		u, err := tx.Users().Create(ctx, user.User{
			FullName:       fullName,
			Email:          normalizeEmail(req.Email),
			HashedPassword: hash,
			Role:           req.Role,
			IsActive:       true,
		})
		if err != nil {
			return err
		}
		created = u
		return nil
	})
	if err != nil {
		return user.User{}, err
	}

	s.log.InfoContext(ctx, "user registered", "user_id", created.ID, "role", created.Role)
	return created, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (Token, error) {
	u, err := s.store.Users().GetByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, user.ErrNotFound) {
		return Token{}, ErrInvalidCredentials
	}
	if err != nil {
		return Token{}, err
	}

	if err := security.CheckPassword(u.HashedPassword, password); err != nil {
		return Token{}, ErrInvalidCredentials
	}

	if !u.IsActive {
		return Token{}, ErrInactiveUser
	}

	access, err := s.tokens.GenerateAccessToken(u.ID, u.Email)
	if err != nil {
		return Token{}, fmt.Errorf("generate access token: %w", err)
	}

	return Token{AccessToken: access, TokenType: "bearer"}, nil
}

// ResolveUser maps a bearer token to the active user it was issued for.
func (s *AuthService) ResolveUser(ctx context.Context, rawToken string) (user.User, error) {
	claims, err := s.tokens.VerifyAccessToken(rawToken)
	if err != nil {
		return user.User{}, ErrUnauthorized
	}

	id, err := claims.UserID()
	if err != nil {
		return user.User{}, ErrUnauthorized
	}

	u, err := s.store.Users().GetByID(ctx, id)
	if errors.Is(err, user.ErrNotFound) {
		return user.User{}, ErrUnauthorized
	}
	if err != nil {
		return user.User{}, err
	}

	if !u.IsActive {
		return user.User{}, ErrInactiveUser
	}
	return u, nil
}
