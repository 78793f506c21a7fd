package services

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// ErrImageNotFound is returned by ImageStorage.Remove when nothing is stored under the key.
var ErrImageNotFound = errors.New("image not found")

// ImageStorage stores encoded images under slash-separated keys and maps keys to public URLs.
type ImageStorage interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Remove(ctx context.Context, key string) error
	URLFor(key string) string
	KeyFromURL(url string) (string, error)
}

// cleanKey rejects keys that could escape the storage root.
func cleanKey(key string) (string, error) {
	key = strings.TrimPrefix(key, "/")
	if key == "" {
		return "", fmt.Errorf("empty image key")
	}
	cleaned := path.Clean(key)
	if cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, "../") || strings.Contains(key, "\\") {
		return "", fmt.Errorf("invalid image key %q", key)
	}
	return cleaned, nil
}

// LocalImageStorage keeps images on disk below root and serves them under publicPrefix.
type LocalImageStorage struct {
	root         string
	publicPrefix string
}

func NewLocalImageStorage(root, publicPrefix string) (*LocalImageStorage, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create image directory: %w", err)
	}
	return &LocalImageStorage{
		root:         root,
		publicPrefix: "/" + strings.Trim(publicPrefix, "/"),
	}, nil
}

func (ls *LocalImageStorage) Root() string {
	return ls.root
}

func (ls *LocalImageStorage) PublicPrefix() string {
	return ls.publicPrefix
}

func (ls *LocalImageStorage) Put(ctx context.Context, key string, data []byte, contentType string) error {
	key, err := cleanKey(key)
	if err != nil {
		return err
	}
	target := filepath.Join(ls.root, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("failed to create image directory: %w", err)
	}
	if err := os.WriteFile(target, data, 0o644); err != nil {
		return fmt.Errorf("failed to write image: %w", err)
	}
	return nil
}

func (ls *LocalImageStorage) Remove(ctx context.Context, key string) error {
	key, err := cleanKey(key)
	if err != nil {
		return err
	}
	if err := os.Remove(filepath.Join(ls.root, filepath.FromSlash(key))); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ErrImageNotFound
		}
		return fmt.Errorf("failed to remove image: %w", err)
	}
	return nil
}

func (ls *LocalImageStorage) URLFor(key string) string {
	return ls.publicPrefix + "/" + strings.TrimPrefix(key, "/")
}

func (ls *LocalImageStorage) KeyFromURL(url string) (string, error) {
	if i := strings.IndexAny(url, "?#"); i >= 0 {
		url = url[:i]
	}
	rest, ok := strings.CutPrefix(url, ls.publicPrefix+"/")
	if !ok {
		return "", fmt.Errorf("url %q is not served from %s", url, ls.publicPrefix)
	}
	return cleanKey(rest)
}
