package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/Kerhoff/MealMate/internal/models"
)

// Session holds the signed-in user's token. It is created once, passed to the
// Client, and persisted to a JSON file between runs.
type Session struct {
	path string

	mu    sync.RWMutex
	token string
	user  *models.PublicUser
}

type sessionFile struct {
	Token string             `json:"token"`
	User  *models.PublicUser `json:"user"`
}

// NewSession returns an empty session stored at path. An empty path keeps the
// session in memory only.
func NewSession(path string) *Session {
	return &Session{path: path}
}

// Load reads the session file. A missing file leaves the session signed out.
func (s *Session) Load() error {
	if s.path == "" {
		return nil
	}

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read session: %w", err)
	}

	var f sessionFile
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("failed to decode session: %w", err)
	}

	s.mu.Lock()
	s.token, s.user = f.Token, f.User
	s.mu.Unlock()
	return nil
}

// Save writes the session file
func (s *Session) Save() error {
	if s.path == "" {
		return nil
	}

	s.mu.RLock()
	data, err := json.Marshal(sessionFile{Token: s.token, User: s.user})
	s.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write session: %w", err)
	}
	return nil
}

// Clear signs out and removes the session file
func (s *Session) Clear() error {
	s.mu.Lock()
	s.token, s.user = "", nil
	s.mu.Unlock()

	if s.path == "" {
		return nil
	}
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove session: %w", err)
	}
	return nil
}

// Set stores the result of a register or login
func (s *Session) Set(res *models.AuthResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = res.Token
	user := res.User
	s.user = &user
}

// Token returns the bearer token, empty when signed out
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// User returns the signed-in user or nil
func (s *Session) User() *models.PublicUser {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// SignedIn reports whether the session holds a token
func (s *Session) SignedIn() bool {
	return s.Token() != ""
}
