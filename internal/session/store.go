package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/equipo25/ragcli/internal/ragapi"
)

// storedCredentials mirrors the browser client's two cookies: the current
// user as JSON under "user" and the opaque bearer token under "token", with
// an absolute expiry derived from the server-issued expiresIn.
type storedCredentials struct {
	User      *ragapi.User `json:"user"`
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
}

// Store persists session credentials to a single JSON file, owner-readable
// only.
type Store struct {
	path string
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

func (s *Store) Save(sess *Session) error {
	creds := storedCredentials{
		User:      sess.User,
		Token:     sess.Token,
		ExpiresAt: sess.ExpiresAt,
	}

	data, err := json.MarshalIndent(creds, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal credentials: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("failed to create credentials directory: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write credentials: %w", err)
	}
	return nil
}

// Load restores a previously saved session. A missing file or an expired
// token both yield (nil, nil); expiry is enforced the way a cookie TTL would
// have been.
func (s *Store) Load() (*Session, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read credentials: %w", err)
	}

	var creds storedCredentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return nil, fmt.Errorf("failed to parse credentials: %w", err)
	}

	sess := &Session{
		User:      creds.User,
		Token:     creds.Token,
		ExpiresAt: creds.ExpiresAt,
	}
	if !sess.Valid() {
		return nil, nil
	}
	return sess, nil
}

func (s *Store) Clear() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove credentials: %w", err)
	}
	return nil
}
