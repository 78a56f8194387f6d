package service

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nomzodai/nomzod-api/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// PNG signature followed by an IHDR chunk header.
const pngBytes = "\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00"

func TestUploadStoresAndReplaces(t *testing.T) {
	ctx := context.Background()
	authSvc, store := newAuth(t)
	u := register(t, authSvc, "a@test.io")

	root := t.TempDir()
	files := storage.NewLocal(root, "http://api.test")
	svc := NewImageService(store, files, nil, nil)

	first, err := svc.Upload(ctx, u.ID, strings.NewReader(pngBytes))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(first.ImageURL, "http://api.test/storage/images/"))
	assert.True(t, strings.HasSuffix(first.ImageURL, ".png"))

	firstRel, _ := files.RelFromURL(first.ImageURL)
	assert.FileExists(t, filepath.Join(root, firstRel))

	second, err := svc.Upload(ctx, u.ID, strings.NewReader(pngBytes))
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID, "one image row per user")
	assert.NotEqual(t, first.ImageURL, second.ImageURL)
	assert.NoFileExists(t, filepath.Join(root, firstRel))

	got, err := store.Users().GetByID(ctx, u.ID)
	require.NoError(t, err)
	require.NotNil(t, got.ImageURL)
	assert.Equal(t, second.ImageURL, *got.ImageURL)
}

func TestUploadRejectsNonImages(t *testing.T) {
	ctx := context.Background()
	authSvc, store := newAuth(t)
	u := register(t, authSvc, "a@test.io")

	svc := NewImageService(store, storage.NewLocal(t.TempDir(), ""), nil, nil)

	_, err := svc.Upload(ctx, u.ID, strings.NewReader("just some text"))
	assert.ErrorIs(t, err, ErrUnsupportedMedia)

	_, err = svc.Upload(ctx, u.ID, strings.NewReader(""))
	assert.ErrorIs(t, err, ErrUnsupportedMedia)
}
