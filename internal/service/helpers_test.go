package service

import (
	"context"
	"testing"
	"time"

	"github.com/nomzodai/nomzod-api/internal/auth"
	"github.com/nomzodai/nomzod-api/internal/domain/user"
	"github.com/nomzodai/nomzod-api/internal/repo/memory"
	"github.com/stretchr/testify/require"
)

func newAuth(t *testing.T) (*AuthService, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	return NewAuthService(store, auth.NewManager("test-secret", time.Hour), nil), store
}

func register(t *testing.T, svc *AuthService, email string) user.User {
	t.Helper()
	u, err := svc.Register(context.Background(), user.RegisterRequest{
		FullName: "Test User",
		Email:    email,
		Password: "pw123",
		Role:     user.RoleCandidate,
	})
	require.NoError(t, err)
	return u
}

func ptr[T any](v T) *T { return &v }
