package slot

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"gopkg.in/yaml.v3"
)

// FileStore persists slot records as YAML files next to flock-backed lock
// files in a single directory, typically under the user's runtime dir.
type FileStore struct {
	dir string
}

// NewFileStore creates the backing directory if needed and returns a store
// rooted there.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create slot state dir %s: %w", dir, err)
	}
	return &FileStore{dir: dir}, nil
}

// Dir returns the backing directory.
func (s *FileStore) Dir() string {
	return s.dir
}

func (s *FileStore) lockPath(id int) string {
	return filepath.Join(s.dir, fmt.Sprintf("slot-%d.lock", id))
}

func (s *FileStore) recordPath(id int) string {
	return filepath.Join(s.dir, fmt.Sprintf("slot-%d.yaml", id))
}

// TryLock implements Store. The flock is released by the kernel if the
// holding process exits, so a crashed creation never wedges the slot.
func (s *FileStore) TryLock(id int) (Lock, error) {
	fl := flock.New(s.lockPath(id))
	locked, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("failed to lock slot %d: %w", id, err)
	}
	if !locked {
		return nil, fmt.Errorf("slot %d: %w", id, ErrAlreadyLocked)
	}
	return &fileLock{id: id, fl: fl}, nil
}

// Read implements Store. A missing record file is the slot's first-ever
// access and reads as a free record (initialize-on-read).
func (s *FileStore) Read(id int) (Record, error) {
	data, err := os.ReadFile(s.recordPath(id))
	if os.IsNotExist(err) {
		return Record{ID: id}, nil
	}
	if err != nil {
		return Record{}, fmt.Errorf("failed to read slot %d record: %w", id, err)
	}

	var rec Record
	if err := yaml.Unmarshal(data, &rec); err != nil {
		return Record{}, fmt.Errorf("failed to parse slot %d record: %w", id, err)
	}
	rec.ID = id
	return rec, nil
}

// Write implements Store.
func (s *FileStore) Write(id int, rec Record) error {
	rec.ID = id
	rec.UpdatedAt = time.Now().UTC()

	data, err := yaml.Marshal(&rec)
	if err != nil {
		return fmt.Errorf("failed to marshal slot %d record: %w", id, err)
	}

	// Write-then-rename so a killed process never leaves a torn record.
	tmp := s.recordPath(id) + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write slot %d record: %w", id, err)
	}
	if err := os.Rename(tmp, s.recordPath(id)); err != nil {
		return fmt.Errorf("failed to persist slot %d record: %w", id, err)
	}
	return nil
}

type fileLock struct {
	id int
	fl *flock.Flock
}

func (l *fileLock) SlotID() int {
	return l.id
}

func (l *fileLock) Release() error {
	if err := l.fl.Unlock(); err != nil {
		return fmt.Errorf("failed to unlock slot %d: %w", l.id, err)
	}
	return nil
}
