// Package ticketstore persists the owned ticket identifier for this device.
// It is a single slot: saving a new id overwrites the previous one, and the
// binding is advisory only; nothing on the remote side knows about it.
package ticketstore

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
)

type Store struct {
	mu   sync.Mutex
	path string
}

func New(path string) *Store {
	return &Store{path: path}
}

// Save overwrites the stored ticket id. Last write wins; two near-simultaneous
// joins from the same device race without a guard, which is accepted.
func (s *Store) Save(ticketID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, []byte(ticketID+"\n"), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

// Get returns the stored ticket id, or false when none is stored. It does not
// check that the ticket still exists remotely; staleness resolves downstream
// when lookups come back empty.
func (s *Store) Get() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		return "", false
	}
	id := strings.TrimSpace(string(data))
	if id == "" {
		return "", false
	}
	return id, true
}

func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.path)
	if err != nil && os.IsNotExist(err) {
		return nil
	}
	return err
}

func (s *Store) Has() bool {
	_, ok := s.Get()
	return ok
}
