package session

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	berrors "github.com/felixgeelhaar/biblio/internal/errors"
)

// FileStorage keeps every key in one JSON object on disk.
// The file is created with mode 0600 and replaced atomically on each write.
type FileStorage struct {
	path string
	mu   sync.Mutex
}

// NewFileStorage returns a storage backed by the file at path
func NewFileStorage(path string) *FileStorage {
	return &FileStorage{path: path}
}

// Path returns the backing file
func (f *FileStorage) Path() string {
	return f.path
}

// Get implements Storage
func (f *FileStorage) Get(_ context.Context, key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	values, err := f.load()
	if err != nil {
		return "", false, err
	}
	v, ok := values[key]
	return v, ok, nil
}

// Set implements Storage
func (f *FileStorage) Set(_ context.Context, key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	values, err := f.load()
	if err != nil {
		// An unreadable file is replaced rather than blocking a new login.
		values = map[string]string{}
	}
	values[key] = value
	return f.save(values)
}

// Remove implements Storage
func (f *FileStorage) Remove(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	values, err := f.load()
	if err != nil {
		return f.save(map[string]string{})
	}
	if _, ok := values[key]; !ok {
		return nil
	}
	delete(values, key)

	if len(values) == 0 {
		if err := os.Remove(f.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return berrors.Wrap(berrors.ErrCodeSessionWrite, "failed to remove session file", err)
		}
		return nil
	}
	return f.save(values)
}

func (f *FileStorage) load() (map[string]string, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, berrors.Wrap(berrors.ErrCodeSessionRead, "failed to read session file", err)
	}

	values := map[string]string{}
	if len(data) == 0 {
		return values, nil
	}
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, berrors.Wrap(berrors.ErrCodeSessionRead, "session file is corrupt", err).
			WithSuggestion("Run 'biblio logout' to reset it")
	}
	return values, nil
}

func (f *FileStorage) save(values map[string]string) error {
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return berrors.Wrap(berrors.ErrCodeSessionWrite, "failed to create session directory", err)
	}

	data, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return berrors.Wrap(berrors.ErrCodeSessionWrite, "failed to encode session", err)
	}

	tmp, err := os.CreateTemp(dir, ".session-*.json")
	if err != nil {
		return berrors.Wrap(berrors.ErrCodeSessionWrite, "failed to create session file", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	if err := tmp.Chmod(0600); err != nil {
		tmp.Close()
		return berrors.Wrap(berrors.ErrCodeSessionWrite, "failed to restrict session file", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return berrors.Wrap(berrors.ErrCodeSessionWrite, "failed to write session file", err)
	}
	if err := tmp.Close(); err != nil {
		return berrors.Wrap(berrors.ErrCodeSessionWrite, "failed to write session file", err)
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		return berrors.Wrap(berrors.ErrCodeSessionWrite, "failed to replace session file", err)
	}
	return nil
}
