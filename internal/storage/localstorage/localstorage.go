// Package localstorage keeps images in a directory on the local filesystem
package localstorage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/url"
	"os"
	"path/filepath"
)

var ErrBadKey = errors.New("storage key escapes pictures directory")

type LocalImageStorage struct {
	root string
	perm os.FileMode
}

// NewLocalStorage создает корневую папку если ее еще нет
func NewLocalStorage(dir string, perm os.FileMode) (*LocalImageStorage, error) {
	if perm == 0 {
		perm = 0o644
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("local storage: resolve %s: %w", dir, err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("local storage: mkdir %s: %w", abs, err)
	}
	return &LocalImageStorage{root: abs, perm: perm}, nil
}

func (s *LocalImageStorage) Root() string {
	return s.root
}

func (s *LocalImageStorage) path(key string) (string, error) {
	clean := filepath.FromSlash(key)
	if !filepath.IsLocal(clean) {
		return "", fmt.Errorf("%w: %q", ErrBadKey, key)
	}
	return filepath.Join(s.root, clean), nil
}

// Put пишет во временный файл и переименовывает: недописанный файл никогда не лежит под итоговым именем
func (s *LocalImageStorage) Put(ctx context.Context, key string, _ int64, _ string, r io.Reader) error {
	if r == nil {
		return errors.New("nil reader passed to storage.Put")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	dst, err := s.path(key)
	if err != nil {
		return err
	}
	dir := filepath.Dir(dst)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("local storage: mkdir %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("local storage: create temp: %w", err)
	}
	defer os.Remove(tmp.Name()) // no-op after successful rename

	if _, err := io.Copy(tmp, r); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("local storage: write %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("local storage: close %s: %w", key, err)
	}
	if err := os.Chmod(tmp.Name(), s.perm); err != nil {
		return fmt.Errorf("local storage: chmod %s: %w", key, err)
	}
	if err := os.Rename(tmp.Name(), dst); err != nil {
		return fmt.Errorf("local storage: rename %s: %w", key, err)
	}
	return nil
}

func (s *LocalImageStorage) Get(ctx context.Context, key string) (io.ReadCloser, string, error) {
	if err := ctx.Err(); err != nil {
		return nil, "", err
	}
	p, err := s.path(key)
	if err != nil {
		return nil, "", err
	}
	f, err := os.Open(p)
	if err != nil {
		return nil, "", err
	}
	return f, mime.TypeByExtension(filepath.Ext(p)), nil
}

func (s *LocalImageStorage) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// Location - file:// URI, как Uri.fromFile
func (s *LocalImageStorage) Location(_ context.Context, key string) (string, error) {
	p, err := s.path(key)
	if err != nil {
		return "", err
	}
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(p)}).String(), nil
}
