package db

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/nomzodai/nomzod-api/internal/config"
	"github.com/nomzodai/nomzod-api/internal/domain/user"
	"github.com/nomzodai/nomzod-api/internal/repo"
	"github.com/nomzodai/nomzod-api/internal/security"
)

// EnsureAdminUser creates the configured superuser when it does not exist yet.
func EnsureAdminUser(ctx context.Context, users repo.UserRepository, cfg config.Config, log *slog.Logger) error {
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		return nil
	}

	email := strings.ToLower(strings.TrimSpace(cfg.AdminEmail))

	_, err := users.GetByEmail(ctx, email)

	if err == nil {
		return nil
	}

	if !errors.Is(err, user.ErrNotFound) {
		return err
	}

	hash, err := security.HashPassword(cfg.AdminPassword)

	if err != nil {
		return err
	}

	u, err := users.Create(ctx, user.User{
		FullName:       cfg.AdminName,
		Email:          email,
		HashedPassword: hash,
		Role:           user.RoleInterviewer,
		IsActive:       true,
		IsSuperuser:    true,
		IsVerified:     true,
	})

	if errors.Is(err, user.ErrEmailTaken) {
		// another instance won the race
		return nil
	}
	if err != nil {
		return err
	}

	log.Info("admin user created", "user_id", u.ID, "email", u.Email)
	return nil
}
