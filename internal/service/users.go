package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/nomzodai/nomzod-api/internal/config"
	"github.com/nomzodai/nomzod-api/internal/domain/user"
	"github.com/nomzodai/nomzod-api/internal/repo"
	"github.com/nomzodai/nomzod-api/internal/security"
)

type UserService struct {
	store repo.Store
	files FileStore
	acl   string
	log   *slog.Logger
}

// NewUserService takes the USER_ACL mode. files may be nil, in which case
// image files are left on disk when their owner is deleted.
func NewUserService(store repo.Store, files FileStore, acl string, log *slog.Logger) *UserService {
	if log == nil {
		log = slog.Default()
	}
	return &UserService{store: store, files: files, acl: acl, log: log}
}

func (s *UserService) List(ctx context.Context) ([]user.User, error) {
	return s.store.Users().List(ctx)
}

func (s *UserService) Get(ctx context.Context, id int64) (user.User, error) {
	return s.store.Users().GetByID(ctx, id)
}

func (s *UserService) authorizeUpdate(actor user.User, id int64, req user.UpdateRequest) error {
	if s.acl != config.UserACLStrict || actor.IsSuperuser {
		return nil
	}
	if actor.ID != id || req.TouchesPrivilegedFields() {
		return ErrForbidden
	}
	return nil
}

// Update applies the non-nil fields of req to user id.
func (s *UserService) Update(ctx context.Context, actor user.User, id int64, req user.UpdateRequest) (user.User, error) {
	if err := s.authorizeUpdate(actor, id, req); err != nil {
		return user.User{}, err
	}

	var fullName string
	if req.FullName != nil {
		n, err := nonBlank("fullName", *req.FullName)
		if err != nil {
			return user.User{}, err
		}
		fullName = n
	}

	var hash string
	if req.Password != nil {
		h, err := security.HashPassword(*req.Password)
		if err != nil {
			return user.User{}, fmt.Errorf("hash password: %w", err)
		}
		hash = h
	}

	var updated user.User

	err := s.store.WithTx(ctx, func(tx repo.Repos) error {
		u, err := tx.Users().GetByID(ctx, id)
		if err != nil {
			return err
		}

		if req.FullName != nil {
			u.FullName = fullName
		}
		if req.Email != nil {
			u.Email = normalizeEmail(*req.Email)
		}
		if hash != "" {
			u.HashedPassword = hash
		}
		if req.Role != nil {
			u.Role = *req.Role
		}
		if req.IsActive != nil {
			u.IsActive = *req.IsActive
		}
		if req.IsSuperuser != nil {
			u.IsSuperuser = *req.IsSuperuser
		}
		if req.IsVerified != nil {
			u.IsVerified = *req.IsVerified
		}

		updated, err = tx.Users().Update(ctx, u)
		return err
	})
	if err != nil {
		return user.User{}, err
	}

	return updated, nil
}

func (s *UserService) Delete(ctx context.Context, id int64) error {
	var imageURL string

	err := s.store.WithTx(ctx, func(tx repo.Repos) error {
		img, err := tx.UserImages().GetByUserID(ctx, id)
		switch {
		case err == nil:
			imageURL = img.ImageURL
		case !errors.Is(err, user.ErrImageNotFound):
			return err
		}

		return tx.Users().Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	if imageURL != "" && s.files != nil {
		s.removeFile(ctx, imageURL)
	}

	s.log.InfoContext(ctx, "user deleted", "user_id", id)
	return nil
}

func (s *UserService) removeFile(ctx context.Context, url string) {
	rel, ok := s.files.RelFromURL(url)
	if !ok {
		return
	}
	if err := s.files.Delete(ctx, rel); err != nil {
		s.log.WarnContext(ctx, "remove image file failed", "path", rel, "err", err)
	}
}
