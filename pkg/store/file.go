package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
)

// ErrInvalidID is returned when an id cannot be used as a file name.
var ErrInvalidID = errors.New("invalid canvas id")

var fileIDPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// FileBackend stores each document as <dir>/<id>.json.
type FileBackend struct {
	mu  sync.RWMutex
	dir string
}

// NewFileBackend creates a file backend rooted at dir, creating it if
// needed. If dir is empty, defaults to $XDG_DATA_HOME/canvaskit/canvases
// (~/.local/share/canvaskit/canvases).
func NewFileBackend(dir string) (*FileBackend, error) {
	if dir == "" {
		var err error
		if dir, err = DefaultDir(); err != nil {
			return nil, err
		}
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}
	return &FileBackend{dir: dir}, nil
}

// DefaultDir returns the default document directory.
func DefaultDir() (string, error) {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "canvaskit", "canvases"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, ".local", "share", "canvaskit", "canvases"), nil
}

// Path returns the directory holding the documents.
func (f *FileBackend) Path() string { return f.dir }

func (f *FileBackend) Name() string { return "file" }

func (f *FileBackend) path(id string) (string, bool) {
	if !fileIDPattern.MatchString(id) {
		return "", false
	}
	return filepath.Join(f.dir, id+".json"), true
}

func (f *FileBackend) Load(_ context.Context, id string) ([]byte, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	path, ok := f.path(id)
	if !ok {
		return nil, ErrNotFound
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read canvas file: %w", err)
	}
	return data, nil
}

// Save writes to a temporary file and renames it into place so readers
// never observe a partial document.
func (f *FileBackend) Save(_ context.Context, id string, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	path, ok := f.path(id)
	if !ok {
		return fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	tmp, err := os.CreateTemp(f.dir, "."+id+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write canvas file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write canvas file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("write canvas file: %w", err)
	}
	return nil
}

func (f *FileBackend) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	path, ok := f.path(id)
	if !ok {
		return ErrNotFound
	}
	err := os.Remove(path)
	if errors.Is(err, os.ErrNotExist) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("remove canvas file: %w", err)
	}
	return nil
}

func (f *FileBackend) List(context.Context) ([]string, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	entries, err := os.ReadDir(f.dir)
	if err != nil {
		return nil, fmt.Errorf("read store dir: %w", err)
	}
	var ids []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || filepath.Ext(name) != ".json" || strings.HasPrefix(name, ".") {
			continue
		}
		ids = append(ids, strings.TrimSuffix(name, ".json"))
	}
	return ids, nil
}

func (f *FileBackend) Close() error { return nil }

var _ Backend = (*FileBackend)(nil)
