package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strconv"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/nomzodai/nomzod-api/internal/domain/user"
	"github.com/nomzodai/nomzod-api/internal/observability"
	"github.com/nomzodai/nomzod-api/internal/repo"
)

const sniffLen = 512

type FileStore interface {
	Save(ctx context.Context, rel string, r io.Reader) (int64, error)
	Delete(ctx context.Context, rel string) error
	URL(rel string) string
	RelFromURL(url string) (string, bool)
}

type ImageService struct {
	store repo.Store
	files FileStore
	prom  *observability.Prom
	log   *slog.Logger
}

func NewImageService(store repo.Store, files FileStore, prom *observability.Prom, log *slog.Logger) *ImageService {
	if log == nil {
		log = slog.Default()
	}
	return &ImageService{store: store, files: files, prom: prom, log: log}
}

// Upload stores r as the image of userID, replacing any previous one.
// Content that does not sniff as an image yields ErrUnsupportedMedia.
func (s *ImageService) Upload(ctx context.Context, userID int64, r io.Reader) (user.Image, error) {
	head := make([]byte, sniffLen)
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return user.Image{}, fmt.Errorf("read upload: %w", err)
	}
	head = head[:n]

	mt := mimetype.Detect(head)
	if !strings.HasPrefix(mt.String(), "image/") {
		return user.Image{}, ErrUnsupportedMedia
	}

	rel := path.Join("images", strconv.FormatInt(userID, 10), uuid.NewString()+mt.Extension())

	written, err := s.files.Save(ctx, rel, io.MultiReader(bytes.NewReader(head), r))
	if err != nil {
		return user.Image{}, fmt.Errorf("save upload: %w", err)
	}

	var (
		img     user.Image
		prevURL string
	)

	err = s.store.WithTx(ctx, func(tx repo.Repos) error {
		prev, err := tx.UserImages().GetByUserID(ctx, userID)
		switch {
		case err == nil:
			prevURL = prev.ImageURL
		case !errors.Is(err, user.ErrImageNotFound):
			return err
		}

		img, err = tx.UserImages().Upsert(ctx, userID, s.files.URL(rel))
		return err
	})
	if err != nil {
		if derr := s.files.Delete(ctx, rel); derr != nil {
			s.log.WarnContext(ctx, "cleanup of unsaved upload failed", "path", rel, "err", derr)
		}
		return user.Image{}, err
	}

	if prevURL != "" && prevURL != img.ImageURL {
		if prevRel, ok := s.files.RelFromURL(prevURL); ok {
			if err := s.files.Delete(ctx, prevRel); err != nil {
				s.log.WarnContext(ctx, "remove previous image failed", "path", prevRel, "err", err)
			}
		}
	}

	s.prom.ObserveUpload(written)
	s.log.InfoContext(ctx, "image uploaded", "user_id", userID, "bytes", written, "mime", mt.String())

	return img, nil
}
