// internal/store/snapshots.go
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/natask/faibricator/internal/apperrors"
	"github.com/natask/faibricator/internal/models"
)

// SnapshotStore persists the studio project collection as a single JSON
// document under a hard byte quota, mirroring the storage ceiling the
// client-side store lives with. Writes are atomic via temp-file rename.
type SnapshotStore struct {
	path  string
	quota int64
	mu    sync.Mutex
}

func NewSnapshotStore(path string, quotaBytes int64) *SnapshotStore {
	return &SnapshotStore{path: path, quota: quotaBytes}
}

// Load returns the persisted project list. A missing file is an empty list,
// not an error.
func (s *SnapshotStore) Load() ([]models.StudioProject, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *SnapshotStore) load() ([]models.StudioProject, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return []models.StudioProject{}, nil
	}
	if err != nil {
		return nil, &apperrors.StorageUnavailableError{Err: err}
	}

	var projects []models.StudioProject
	if err := json.Unmarshal(data, &projects); err != nil {
		return nil, fmt.Errorf("corrupt snapshot file: %w", err)
	}
	return projects, nil
}

// Save persists the full project list. A serialized payload over the quota
// is rejected with QuotaExceededError without touching the file, so a
// failed write never clobbers the previous good state.
func (s *SnapshotStore) Save(projects []models.StudioProject) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(projects)
}

func (s *SnapshotStore) save(projects []models.StudioProject) error {
	data, err := json.Marshal(projects)
	if err != nil {
		return fmt.Errorf("failed to encode projects: %w", err)
	}

	if s.quota > 0 && int64(len(data)) > s.quota {
		return &apperrors.QuotaExceededError{Size: int64(len(data)), Quota: s.quota}
	}

	if dir := filepath.Dir(s.path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return &apperrors.StorageUnavailableError{Err: err}
		}
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return &apperrors.StorageUnavailableError{Err: err}
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return &apperrors.StorageUnavailableError{Err: err}
	}
	return nil
}

// Quota returns the configured ceiling in bytes.
func (s *SnapshotStore) Quota() int64 {
	return s.quota
}
