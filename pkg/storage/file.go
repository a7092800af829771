package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileBackend stores each key as a file under a directory. Pointing the
// directory at a per-terminal-session location gives it session scope:
// values survive separate invocations in the same shell and vanish with it.
type FileBackend struct {
	name string
	dir  string
}

func NewFileBackend(name, dir string) (*FileBackend, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("storage: create %s dir: %w", name, err)
	}
	return &FileBackend{name: name, dir: dir}, nil
}

func (b *FileBackend) Name() string { return b.name }

func (b *FileBackend) Read(key string) (string, error) {
	data, err := os.ReadFile(b.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (b *FileBackend) Write(key, value string) error {
	return os.WriteFile(b.path(key), []byte(value), 0o600)
}

func (b *FileBackend) Delete(key string) error {
	err := os.Remove(b.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

func (b *FileBackend) path(key string) string {
	return filepath.Join(b.dir, sanitizeKey(key))
}

func sanitizeKey(key string) string {
	var sb strings.Builder
	for _, r := range key {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			sb.WriteRune(r)
		default:
			sb.WriteByte('_')
		}
	}
	return sb.String()
}
