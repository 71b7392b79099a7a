// ABOUTME: Persistent session token storage for the taskdock CLI
// ABOUTME: Keeps the bearer token in a 0600 file under the XDG data directory

package client

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrNotLoggedIn is returned when no session token is stored.
var ErrNotLoggedIn = errors.New("not logged in")

// TokenStore persists the session token across CLI invocations. It is the
// only place the token lives on the client; clearing it is a logout.
type TokenStore struct {
	path string
}

// NewTokenStore creates a token store backed by the given file path.
func NewTokenStore(path string) *TokenStore {
	return &TokenStore{path: path}
}

// DefaultTokenPath returns the token file location.
// Priority: XDG_DATA_HOME/taskdock/token > ~/.local/share/taskdock/token
func DefaultTokenPath() string {
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return filepath.Join("data", "token") // fallback
		}
		dataDir = filepath.Join(homeDir, ".local", "share")
	}
	return filepath.Join(dataDir, "taskdock", "token")
}

// Load returns the stored token, or ErrNotLoggedIn if none is stored.
func (ts *TokenStore) Load() (string, error) {
	data, err := os.ReadFile(ts.path)
	if os.IsNotExist(err) {
		return "", ErrNotLoggedIn
	}
	if err != nil {
		return "", fmt.Errorf("reading token file: %w", err)
	}

	token := strings.TrimSpace(string(data))
	if token == "" {
		return "", ErrNotLoggedIn
	}
	return token, nil
}

// Save stores a fresh token. The file is 0600 since the token is bearer
// proof of identity.
func (ts *TokenStore) Save(token string) error {
	if err := os.MkdirAll(filepath.Dir(ts.path), 0755); err != nil {
		return fmt.Errorf("creating token directory: %w", err)
	}
	if err := os.WriteFile(ts.path, []byte(token+"\n"), 0600); err != nil {
		return fmt.Errorf("writing token file: %w", err)
	}
	return nil
}

// Clear removes the stored token. Clearing an absent token is not an error.
func (ts *TokenStore) Clear() error {
	err := os.Remove(ts.path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing token file: %w", err)
	}
	return nil
}
