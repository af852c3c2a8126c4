package recorder

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/litetable/litetable-readrows/internal/readrows"
)

var (
	// ErrNotFound is returned when a recording does not exist.
	ErrNotFound = errors.New("recording not found")
)

// Store resolves recordings by name inside one directory.
type Store struct {
	dir string
}

// NewStore returns a store rooted at dir. The directory does not need to exist yet.
func NewStore(dir string) (*Store, error) {
	if dir == "" {
		return nil, errors.New("store directory cannot be empty")
	}
	return &Store{dir: dir}, nil
}

// Open returns a replaying source for the named recording.
func (s *Store) Open(name string) (readrows.Source, io.Closer, error) {
	if !validName(name) {
		return nil, nil, fmt.Errorf("%w: %q", ErrNotFound, name)
	}

	path := RecordingPath(s.dir, name)
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, nil, fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return nil, nil, fmt.Errorf("failed to stat recording %s: %w", name, err)
	}

	return Load(path)
}

// List returns the names of every stored recording.
func (s *Store) List() ([]string, error) {
	return List(s.dir)
}

// Create starts a new recording in the store.
func (s *Store) Create(name string) (*Recorder, error) {
	return New(&Config{Path: s.dir, Name: name})
}

// Expired returns the recordings last written before cutoff, sorted by name.
func (s *Store) Expired(cutoff time.Time) ([]string, error) {
	names, err := s.List()
	if err != nil {
		return nil, err
	}

	var expired []string
	for _, name := range names {
		info, err := os.Stat(RecordingPath(s.dir, name))
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("failed to stat recording %s: %w", name, err)
		}
		if info.ModTime().Before(cutoff) {
			expired = append(expired, name)
		}
	}
	return expired, nil
}

// Remove deletes a recording.
func (s *Store) Remove(name string) error {
	if !validName(name) {
		return fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	if err := os.Remove(RecordingPath(s.dir, name)); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return fmt.Errorf("failed to remove recording %s: %w", name, err)
	}
	return nil
}

func validName(name string) bool {
	return name != "" && !strings.ContainsAny(name, `/\`) && !strings.HasPrefix(name, ".")
}
