// Package auth persists the bearer token for the current session.
package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	credFileName = "credentials.json"

	// EnvToken overrides any stored credential when set.
	EnvToken = "JOURNAL_TOKEN"
)

// TokenInfo describes where the active token came from and when it expires.
type TokenInfo struct {
	Token     string     `json:"token"`
	Source    string     `json:"source"`     // "env" | "file"
	CreatedAt time.Time  `json:"created_at"` // when we saved to file
	ExpiresAt *time.Time `json:"expires_at"` // optional (JWT or server-provided)
}

// Store reads and writes the credentials file. The zero value is not usable;
// construct one with NewStore (or NewStoreAt in tests) and hand it to the API
// client rather than reaching for globals.
type Store struct {
	dir string
}

// NewStore keeps credentials under ~/.journal.
func NewStore() (*Store, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("home: %w", err)
	}
	return &Store{dir: filepath.Join(home, ".journal")}, nil
}

// NewStoreAt keeps credentials under an explicit directory.
func NewStoreAt(dir string) *Store {
	return &Store{dir: dir}
}

func (s *Store) credFilePath() string {
	return filepath.Join(s.dir, credFileName)
}

// Get returns the active token, preferring the env override, or nil when
// not logged in.
func (s *Store) Get() (*TokenInfo, error) {
	if env := strings.TrimSpace(os.Getenv(EnvToken)); env != "" {
		return &TokenInfo{Token: stripBearer(env), Source: "env"}, nil
	}

	b, err := os.ReadFile(s.credFilePath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil // not logged in
		}
		return nil, fmt.Errorf("read credentials: %w", err)
	}
	var ti TokenInfo
	if err := json.Unmarshal(b, &ti); err != nil {
		return nil, fmt.Errorf("parse credentials: %w", err)
	}
	ti.Token = stripBearer(ti.Token)
	return &ti, nil
}

// Token returns the bare token string. Any storage failure is swallowed and
// reported as "no token"; requests then simply go out unauthenticated.
func (s *Store) Token() string {
	ti, err := s.Get()
	if err != nil || ti == nil {
		return ""
	}
	return ti.Token
}

// Set persists a token to the credentials file.
func (s *Store) Set(token string, expires *time.Time) error {
	token = stripBearer(strings.TrimSpace(token))
	if token == "" {
		return fmt.Errorf("empty token")
	}
	// ensure the credentials dir exists with 0700
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	ti := TokenInfo{
		Token:     token,
		Source:    "file",
		CreatedAt: time.Now(),
		ExpiresAt: expires,
	}
	b, err := json.MarshalIndent(ti, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	// write with 0600 (owner-only)
	if err := os.WriteFile(s.credFilePath(), b, 0o600); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return nil
}

// Delete removes the credentials file. Missing file is not an error.
func (s *Store) Delete() error {
	if err := os.Remove(s.credFilePath()); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("remove: %w", err)
	}
	return nil
}

func stripBearer(s string) string {
	if strings.HasPrefix(strings.ToLower(s), "bearer ") {
		return strings.TrimSpace(s[7:])
	}
	return s
}
