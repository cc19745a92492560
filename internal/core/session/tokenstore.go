package session

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// TokenStore persists the bearer token across restarts. It is the only
// durable client-side state.
type TokenStore interface {
	Load() (string, error)
	Save(token string) error
	Clear() error
}

// FileTokenStore keeps the token in a 0600 file under the config directory.
type FileTokenStore struct {
	path string
}

// NewFileTokenStore returns a store rooted at path, typically
// ~/.config/nyaya/token.
func NewFileTokenStore(path string) *FileTokenStore {
	return &FileTokenStore{path: path}
}

// Load returns the stored token, or "" when none exists.
func (s *FileTokenStore) Load() (string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

func (s *FileTokenStore) Save(token string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return err
	}
	return os.WriteFile(s.path, []byte(token+"\n"), 0600)
}

// Clear removes the token file. Removing an absent file is not an error.
func (s *FileTokenStore) Clear() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
