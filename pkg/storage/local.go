package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Local keeps files under one root directory with a subdirectory per kind.
type Local struct {
	root  string
	kinds []string
}

func NewLocal(root string, kinds ...string) (*Local, error) {
	for _, kind := range kinds {
		if err := os.MkdirAll(filepath.Join(root, kind), 0o755); err != nil {
			return nil, fmt.Errorf("create %s directory: %w", kind, err)
		}
	}
	return &Local{root: root, kinds: kinds}, nil
}

func (l *Local) Path(kind, name string) (string, error) {
	dir := filepath.Join(l.root, kind)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create %s directory: %w", kind, err)
	}
	return filepath.Join(dir, filepath.Base(name)), nil
}

func (l *Local) Write(kind, name string, r io.Reader) (string, error) {
	path, err := l.Path(kind, name)
	if err != nil {
		return "", err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("write file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close file: %w", err)
	}
	return path, nil
}

// Find returns the first kind directory holding a regular file with the given base name.
func (l *Local) Find(name string) (string, error) {
	name = filepath.Base(name)
	for _, kind := range l.kinds {
		path := filepath.Join(l.root, kind, name)
		if info, err := os.Stat(path); err == nil && info.Mode().IsRegular() {
			return path, nil
		}
	}
	return "", fmt.Errorf("%s: %w", name, os.ErrNotExist)
}
