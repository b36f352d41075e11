package session

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// EnvToken overrides the persisted token when set. It is read-only: Write
// and Clear still operate on the file, so a logout with the env var set
// takes effect once the variable is unset.
const EnvToken = "ATLAS_TOKEN"

// TokenStore persists the opaque credential token between runs. An empty
// Read means signed out.
type TokenStore interface {
	Read() string
	Write(token string) error
	Clear() error
}

// FileStore keeps the token in a single file, by default ~/.atlas/token.
type FileStore struct {
	path string
}

// NewFileStore creates a token store backed by the given file path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// DefaultTokenPath returns ~/.atlas/token.
func DefaultTokenPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, ".atlas", "token"), nil
}

// Read returns the token using precedence: env var > file > empty.
func (f *FileStore) Read() string {
	if tok := os.Getenv(EnvToken); tok != "" {
		return tok
	}
	data, err := os.ReadFile(f.path)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// Write stores the token with owner-only permissions.
func (f *FileStore) Write(token string) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0700); err != nil {
		return fmt.Errorf("create token dir: %w", err)
	}
	if err := os.WriteFile(f.path, []byte(token), 0600); err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	return nil
}

// Clear removes the token file. A missing file is not an error.
func (f *FileStore) Clear() error {
	if err := os.Remove(f.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove token: %w", err)
	}
	return nil
}
