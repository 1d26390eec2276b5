// Package session persists the last shared script between playground runs,
// the CLI counterpart of the browser's query-string persistence.
package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

// Current schema version - increment when State format changes.
const schemaVersion uint16 = 1

// State is the persisted session. Encoded holds the share-link form of the
// script; an empty Encoded means there is no prior session.
type State struct {
	Schema  uint16
	Encoded string
	Layout  string
	Theme   int
	SavedAt time.Time
}

// Store reads and writes the session file under the user cache directory.
// Thread-safe for concurrent access.
type Store struct {
	mu   sync.RWMutex
	path string
}

// Open initializes a store at the standard location for app.
func Open(app string) (*Store, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	dir := filepath.Join(base, app)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Store{path: filepath.Join(dir, "session.mp")}, nil
}

// OpenAt initializes a store at an explicit path. Used by tests and by the
// --session flag.
func OpenAt(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	return &Store{path: path}, nil
}

// Save serializes and writes the session state atomically.
func (s *Store) Save(state State) error {
	if s == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	state.Schema = schemaVersion
	state.SavedAt = time.Now()

	f, err := os.CreateTemp(filepath.Dir(s.path), "tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		if err := os.Remove(f.Name()); err != nil && !errors.Is(err, os.ErrNotExist) {
			fmt.Printf("failed to remove temp file: %v", err)
		}
	}()

	if err := msgpack.NewEncoder(f).Encode(&state); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), s.path)
}

// Load reads the persisted session. ok is false when no usable session
// exists: missing file, schema mismatch or empty encoded script.
func (s *Store) Load() (State, bool, error) {
	if s == nil {
		return State{}, false, nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return State{}, false, nil
		}
		return State{}, false, err
	}
	defer f.Close()

	var state State
	if err := msgpack.NewDecoder(f).Decode(&state); err != nil {
		// A corrupt session is discarded, not fatal.
		return State{}, false, nil
	}
	if state.Schema != schemaVersion || state.Encoded == "" {
		return State{}, false, nil
	}
	return state, true, nil
}

// Clear removes the persisted session, if any.
func (s *Store) Clear() error {
	if s == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
