// Package session persists the login session (bearer token plus user record)
// between CLI runs, standing in for the mobile app's on-device key-value
// store.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"donortrack"
)

// ErrNoSession is returned by Load when no session has been stored yet.
var ErrNoSession = errors.New("no stored session")

// Store reads and writes the session file. The file holds credentials, so it
// is written with owner-only permissions.
type Store struct {
	path string
}

// NewStore returns a store backed by the given file path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Load reads the stored session. ErrNoSession is returned when the file does
// not exist.
func (s *Store) Load() (donortrack.Session, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return donortrack.Session{}, ErrNoSession
		}
		return donortrack.Session{}, fmt.Errorf("failed to read session file: %w", err)
	}

	var session donortrack.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return donortrack.Session{}, fmt.Errorf("failed to unmarshal session: %w", err)
	}

	return session, nil
}

// Save writes the session, creating the parent directory if needed.
func (s *Store) Save(session donortrack.Session) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}

	data, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}

	return nil
}

// Clear removes the stored session. Clearing an absent session is not an
// error.
func (s *Store) Clear() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove session file: %w", err)
	}
	return nil
}
