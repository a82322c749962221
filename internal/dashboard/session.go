package dashboard

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"github.com/NarekMan21/test-deploy-crm/internal/domain/model"
)

// sessionState is the persisted shape: bearer token plus the user it was
// issued to, so the dashboard can render without a round trip.
type sessionState struct {
	Token string `json:"token"`
	User  struct {
		ID       int64  `json:"id"`
		Username string `json:"username"`
		Role     string `json:"role"`
	} `json:"user"`
}

// Session holds the authenticated identity and persists it to a state
// file between runs. All methods are safe for concurrent use.
type Session struct {
	mu    sync.RWMutex
	path  string
	token string
	user  *model.User
}

// NewSession loads any previously persisted state from path. A missing
// or corrupt file leaves the session anonymous.
func NewSession(path string) *Session {
	s := &Session{path: path}
	s.restore()
	return s
}

func (s *Session) restore() {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return
	}
	var state sessionState
	if err := json.Unmarshal(data, &state); err != nil || state.Token == "" {
		return
	}
	s.token = state.Token
	s.user = &model.User{
		ID:       state.User.ID,
		Username: state.User.Username,
		Role:     model.Role(state.User.Role),
		Active:   true,
	}
}

// Set stores a fresh identity and persists it.
func (s *Session) Set(token string, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.user = user

	var state sessionState
	state.Token = token
	state.User.ID = user.ID
	state.User.Username = user.Username
	state.User.Role = string(user.Role)

	data, err := json.Marshal(state)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(s.path, data, 0o600)
}

// Clear drops the identity and removes the state file. Called on logout
// and on any authentication failure from the store.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.user = nil
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return
	}
}

// Token returns the persisted bearer token, empty when anonymous.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// CurrentUser returns the signed-in user or nil.
func (s *Session) CurrentUser() *model.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// Authenticated reports whether a token is present.
func (s *Session) Authenticated() bool {
	return s.Token() != ""
}
