package book

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

const fileExtension = ".book"

// FileStore keeps one zstd-compressed BSON file per key.
type FileStore struct {
	dir string
}

func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		dir = "books"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating book directory: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) path(key string) string {
	return filepath.Join(s.dir, filepath.Base(key)+fileExtension)
}

func (s *FileStore) Save(ctx context.Context, key string, b *Book) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := pack(b)
	if err != nil {
		return err
	}

	// Write then rename so that a crash never leaves a truncated book behind
	tmp, err := os.CreateTemp(s.dir, filepath.Base(key)+"-*.tmp")
	if err != nil {
		return fmt.Errorf("saving book %q: %w", key, err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("saving book %q: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("saving book %q: %w", key, err)
	}
	if err := os.Rename(tmp.Name(), s.path(key)); err != nil {
		return fmt.Errorf("saving book %q: %w", key, err)
	}
	return nil
}

func (s *FileStore) Load(ctx context.Context, key string) (*Book, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	compressed, err := os.ReadFile(s.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, key)
	}
	if err != nil {
		return nil, fmt.Errorf("loading book %q: %w", key, err)
	}
	return unpack(compressed)
}

func (s *FileStore) Close(ctx context.Context) error {
	return nil
}
