package session

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/gofrs/flock"
	"github.com/spf13/afero"
)

// Keys persisted by the credential store. The HTTP client's 401 handler
// and the session manager both mutate the store, so they must agree on
// these two keys.
const (
	KeyToken = "token"
	KeyRole  = "role"
)

// Store persists the session token and role across process runs as a
// small JSON file. It performs no validation and no expiry tracking.
type Store struct {
	fs   afero.Fs
	path string
	mu   sync.Mutex
}

// NewStore creates a credential store backed by the given filesystem.
// Tests pass an in-memory filesystem.
func NewStore(fs afero.Fs, path string) *Store {
	return &Store{fs: fs, path: path}
}

// Path returns the credentials file location.
func (s *Store) Path() string {
	return s.path
}

// Get returns the value for key, or absent. A missing or unreadable file
// is treated as absent.
func (s *Store) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	values := s.read()
	value, ok := values[key]
	return value, ok && value != ""
}

// Set persists a value for key.
func (s *Store) Set(key, value string) error {
	return s.update(func(values map[string]string) {
		values[key] = value
	})
}

// Clear removes a single key.
func (s *Store) Clear(key string) error {
	return s.update(func(values map[string]string) {
		delete(values, key)
	})
}

// ClearAll removes every stored credential. Logout and the 401 handler
// use this so token and role never diverge.
func (s *Store) ClearAll() error {
	return s.update(func(values map[string]string) {
		delete(values, KeyToken)
		delete(values, KeyRole)
	})
}

// Token returns the stored session token, or empty.
func (s *Store) Token() string {
	token, _ := s.Get(KeyToken)
	return token
}

// Role returns the stored session role, or empty.
func (s *Store) Role() string {
	role, _ := s.Get(KeyRole)
	return role
}

func (s *Store) update(mutate func(map[string]string)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	unlock, err := s.lockFile()
	if err != nil {
		return err
	}
	defer unlock()
	values := s.read()
	mutate(values)
	return s.write(values)
}

// lockFile guards the read-modify-write cycle against concurrent CLI
// invocations. In-memory filesystems have no lock files to take.
func (s *Store) lockFile() (func(), error) {
	if _, ok := s.fs.(*afero.OsFs); !ok {
		return func() {}, nil
	}
	if err := s.fs.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return nil, fmt.Errorf("failed to create credentials directory: %w", err)
	}
	fl := flock.New(s.path + ".lock")
	if err := fl.Lock(); err != nil {
		return nil, fmt.Errorf("failed to lock credentials file: %w", err)
	}
	return func() { _ = fl.Unlock() }, nil
}

func (s *Store) read() map[string]string {
	values := make(map[string]string)
	data, err := afero.ReadFile(s.fs, s.path)
	if err != nil {
		return values
	}
	if err := json.Unmarshal(data, &values); err != nil {
		return make(map[string]string)
	}
	return values
}

func (s *Store) write(values map[string]string) error {
	if err := s.fs.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("failed to create credentials directory: %w", err)
	}
	data, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode credentials: %w", err)
	}
	if err := afero.WriteFile(s.fs, s.path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write credentials: %w", err)
	}
	return nil
}
