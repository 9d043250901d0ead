// Package session holds the authenticated user's credentials for the lifetime
// of the process and mirrors them to a durable file so a later invocation
// starts in the same state.
package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Profile represents the logged-in admin user as returned by the backend
type Profile struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username,omitempty"`
	Role     string `json:"role,omitempty"`
}

// Reader is the read-only view of the session handed to the transport layer.
// Only the auth flows (login, logout, verify failure) may write the store.
type Reader interface {
	Token() string
	IsAuthenticated() bool
}

// persisted is the on-disk shape: exactly the token and the serialized profile
type persisted struct {
	Token string   `json:"token"`
	User  *Profile `json:"user"`
}

// Store is the single source of truth for "who is logged in".
// Token and profile are set and cleared together, never individually.
type Store struct {
	mu      sync.RWMutex
	token   string
	profile *Profile
	path    string
}

// NewStore creates a session store backed by the given file path.
// The file is not read until Load is called.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Load hydrates the session from durable storage without a network call.
// A missing file is not an error: it simply means "not logged in".
func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading session file: %w", err)
	}

	var p persisted
	if err := json.Unmarshal(data, &p); err != nil {
		// A corrupt session file is treated as logged out rather than
		// wedging every command until the user deletes it by hand.
		s.token = ""
		s.profile = nil
		return nil
	}

	// Both-or-neither: a token without a profile (or vice versa) is invalid
	if p.Token == "" || p.User == nil {
		s.token = ""
		s.profile = nil
		return nil
	}

	s.token = p.Token
	s.profile = p.User
	return nil
}

// SetCredentials stores the token and profile atomically and writes through
// to durable storage before returning.
func (s *Store) SetCredentials(token string, profile *Profile) error {
	if token == "" || profile == nil {
		return fmt.Errorf("session requires both token and profile")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = token
	s.profile = profile
	return s.persistLocked()
}

// Clear removes the token and profile from memory and durable storage.
// Used by logout and by 401 handling; it must always succeed locally even
// when the file removal fails.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = ""
	s.profile = nil

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing session file: %w", err)
	}
	return nil
}

// Token returns the current bearer token, or "" when logged out
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Profile returns a copy of the current user profile, or nil when logged out
func (s *Store) Profile() *Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.profile == nil {
		return nil
	}
	p := *s.profile
	return &p
}

// IsAuthenticated reports whether both a token and a profile are present
func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != "" && s.profile != nil
}

// Path returns the durable storage location
func (s *Store) Path() string {
	return s.path
}

// persistLocked writes the session file via a temp-file rename so a crash
// mid-write never leaves a half-written session behind. Caller holds mu.
func (s *Store) persistLocked() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("creating session dir: %w", err)
	}

	data, err := json.MarshalIndent(persisted{Token: s.token, User: s.profile}, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding session: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("writing session file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replacing session file: %w", err)
	}
	return nil
}
