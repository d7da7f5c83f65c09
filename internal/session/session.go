package session

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"luct/reporting/internal/model"
)

// Session is the logged-in state kept between CLI invocations.
type Session struct {
	ID       int64      `json:"id"`
	Username string     `json:"username"`
	Token    string     `json:"token"`
	Role     model.Role `json:"role"`
}

// Valid reports whether the session carries a token and a known role.
func (s Session) Valid() bool {
	if s.Token == "" || s.Role == "" {
		return false
	}
	_, ok := model.ParseRole(string(s.Role))
	return ok
}

// Store persists a single session as a JSON file.
type Store struct {
	mu   sync.Mutex
	path string
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

// DefaultPath places the session under the user's config directory.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "luct-reporting", "session.json"), nil
}

func (s *Store) Path() string {
	return s.path
}

// Read returns ok=false when no usable session exists. A stored session that
// fails to parse or is missing its token or role is removed.
func (s *Store) Read() (Session, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return Session{}, false, nil
	}
	if err != nil {
		return Session{}, false, err
	}

	var sess Session
	if err := json.Unmarshal(raw, &sess); err != nil || !sess.Valid() {
		if rmErr := s.remove(); rmErr != nil {
			return Session{}, false, rmErr
		}
		return Session{}, false, nil
	}
	return sess, true, nil
}

func (s *Store) Write(sess Session) error {
	if !sess.Valid() {
		return errors.New("refusing to store session without token and role")
	}
	data, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.remove()
}

func (s *Store) remove() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
