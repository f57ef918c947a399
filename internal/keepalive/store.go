package keepalive

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Store persists the instant of the last successful ping.
type Store interface {
	LastPing() (time.Time, bool, error)
	SetLastPing(t time.Time) error
}

type fileState struct {
	LastPing time.Time `json:"lastPing"`
}

// FileStore keeps the last ping instant in a small JSON file.
// Writes go to a temp file that is then renamed into place.
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore returns a store backed by path. The file is created on first write.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// LastPing returns ok=false when nothing was ever recorded.
func (s *FileStore) LastPing() (time.Time, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("reading keep-alive state %s: %w", s.path, err)
	}

	var st fileState
	if err := json.Unmarshal(data, &st); err != nil {
		return time.Time{}, false, fmt.Errorf("decoding keep-alive state %s: %w", s.path, err)
	}
	if st.LastPing.IsZero() {
		return time.Time{}, false, nil
	}
	return st.LastPing, true, nil
}

// SetLastPing records t (stored in UTC).
func (s *FileStore) SetLastPing(t time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating keep-alive state dir: %w", err)
		}
	}

	data, err := json.MarshalIndent(fileState{LastPing: t.UTC()}, "", "  ")
	if err != nil {
		return err
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing keep-alive state: %w", err)
	}
	return os.Rename(tmp, s.path)
}
