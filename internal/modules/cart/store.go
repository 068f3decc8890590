package cart

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// Store persists a cart's tenant-partitioned state. Load returns nil for
// a cart that has never been saved.
type Store interface {
	Load() (map[string][]string, error)
	Save(state map[string][]string) error
}

// MemoryStore keeps state in process. Useful for tests and for carts
// that should not survive a restart.
type MemoryStore struct {
	state map[string][]string
}

func NewMemoryStore() *MemoryStore { return &MemoryStore{} }

func (s *MemoryStore) Load() (map[string][]string, error) { return s.state, nil }

func (s *MemoryStore) Save(state map[string][]string) error {
	s.state = state
	return nil
}

// FileStore persists a cart as a JSON snapshot on disk, one file per
// device. Last write wins across concurrent devices.
type FileStore struct {
	path string
}

func NewFileStore(dir, deviceID string) *FileStore {
	return &FileStore{path: filepath.Join(dir, deviceID+".json")}
}

func (s *FileStore) Load() (map[string][]string, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var state map[string][]string
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, err
	}
	return state, nil
}

func (s *FileStore) Save(state map[string][]string) error {
	data, err := json.Marshal(state)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}
