// Package storage keeps uploaded files on the local filesystem and builds the
// public URLs they are served under.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// PublicPrefix is the route uploaded files are served from.
const PublicPrefix = "/storage"

var ErrInvalidPath = errors.New("invalid storage path")

type Local struct {
	root    string
	baseURL string
}

func NewLocal(root, baseURL string) *Local {
	return &Local{root: root, baseURL: strings.TrimRight(baseURL, "/")}
}

func (l *Local) Root() string { return l.root }

func (l *Local) resolve(rel string) (string, error) {
	clean := path.Clean("/" + filepath.ToSlash(rel))
	if clean == "/" {
		return "", ErrInvalidPath
	}
	return filepath.Join(l.root, filepath.FromSlash(clean)), nil
}

// Save writes r to rel and returns the number of bytes written. A partially
// written file is removed.
func (l *Local) Save(ctx context.Context, rel string, r io.Reader) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	full, err := l.resolve(rel)
	if err != nil {
		return 0, err
	}

	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return 0, fmt.Errorf("create dir: %w", err)
	}

	f, err := os.Create(full)
	if err != nil {
		return 0, fmt.Errorf("create file: %w", err)
	}

	n, err := io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(full)
		return 0, fmt.Errorf("write file: %w", err)
	}

	return n, nil
}

// Delete removes rel. A missing file is not an error.
func (l *Local) Delete(_ context.Context, rel string) error {
	full, err := l.resolve(rel)
	if err != nil {
		return err
	}

	if err := os.Remove(full); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func (l *Local) URL(rel string) string {
	return l.baseURL + PublicPrefix + "/" + strings.TrimLeft(filepath.ToSlash(rel), "/")
}

// RelFromURL reverses URL. ok is false for URLs this storage did not build.
func (l *Local) RelFromURL(url string) (string, bool) {
	prefix := l.baseURL + PublicPrefix + "/"
	if !strings.HasPrefix(url, prefix) {
		return "", false
	}
	rel := strings.TrimPrefix(url, prefix)
	if rel == "" {
		return "", false
	}
	return rel, true
}
