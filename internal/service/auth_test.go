package service

import (
	"context"
	"testing"
	"time"

	"github.com/nomzodai/nomzod-api/internal/auth"
	"github.com/nomzodai/nomzod-api/internal/domain/user"
	"github.com/nomzodai/nomzod-api/internal/repo/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterIgnoresPrivilegedFlags(t *testing.T) {
	svc, _ := newAuth(t)

	u, err := svc.Register(context.Background(), user.RegisterRequest{
		FullName:    "Eve",
		Email:       "  Eve@Test.io ",
		Password:    "pw123",
		Role:        user.RoleInterviewer,
		IsSuperuser: ptr(true),
		IsActive:    ptr(false),
		IsVerified:  ptr(true),
	})
	require.NoError(t, err)

	assert.Equal(t, "eve@test.io", u.Email)
	assert.True(t, u.IsActive)
	assert.False(t, u.IsSuperuser)
	assert.False(t, u.IsVerified)
	assert.NotEqual(t, "pw123", u.HashedPassword)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := newAuth(t)
	register(t, svc, "a@test.io")

	for i := 0; i < 2; i++ {
		_, err := svc.Register(context.Background(), user.RegisterRequest{
			FullName: "Again", Email: "a@test.io", Password: "pw123", Role: user.RoleCandidate,
		})
		assert.ErrorIs(t, err, user.ErrEmailTaken)
	}
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	svc, store := newAuth(t)
	u := register(t, svc, "a@test.io")

	tok, err := svc.Login(ctx, "A@test.io", "pw123")
	require.NoError(t, err)
	assert.Equal(t, "bearer", tok.TokenType)
	assert.NotEmpty(t, tok.AccessToken)

	_, err = svc.Login(ctx, "a@test.io", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, "nobody@test.io", "pw123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	u.IsActive = false
	_, err = store.Users().Update(ctx, u)
	require.NoError(t, err)

	_, err = svc.Login(ctx, "a@test.io", "pw123")
	assert.ErrorIs(t, err, ErrInactiveUser)
}

func TestResolveUserHonorsExpiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	store := memory.NewStore()
	jwtm := auth.NewManager("test-secret", time.Hour).WithClock(func() time.Time { return now })
	svc := NewAuthService(store, jwtm, nil)

	u := register(t, svc, "a@test.io")
	tok, err := svc.Login(ctx, "a@test.io", "pw123")
	require.NoError(t, err)

	now = now.Add(3599 * time.Second)
	got, err := svc.ResolveUser(ctx, tok.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	now = now.Add(2 * time.Second)
	_, err = svc.ResolveUser(ctx, tok.AccessToken)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestResolveUserDeletedOrGarbage(t *testing.T) {
	ctx := context.Background()
	svc, store := newAuth(t)
	u := register(t, svc, "a@test.io")

	tok, err := svc.Login(ctx, "a@test.io", "pw123")
	require.NoError(t, err)

	_, err = svc.ResolveUser(ctx, "not-a-token")
	assert.ErrorIs(t, err, ErrUnauthorized)

	require.NoError(t, store.Users().Delete(ctx, u.ID))
	_, err = svc.ResolveUser(ctx, tok.AccessToken)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestRegisterRejectsBlankFullName(t *testing.T) {
	svc, store := newAuth(t)

	_, err := svc.Register(context.Background(), user.RegisterRequest{
		FullName: "  ",
		Email:    "blank@example.com",
		Password: "pw123",
		Role:     user.RoleCandidate,
	})
	var blank *BlankFieldError
	require.ErrorAs(t, err, &blank)
	assert.Equal(t, "fullName", blank.Field)

	_, err = store.Users().GetByEmail(context.Background(), "blank@example.com")
	assert.ErrorIs(t, err, user.ErrNotFound)
}
