// Package lockfile implements the on-disk lock protocol that arbitrates
// inter-process access to a queue directory.
//
// Three marker files express the sharing state:
//
//   - .rolock: one or more readers hold the queue; its single byte is the
//     current reader count.
//   - .wolock: exactly one writer holds the queue write-only.
//   - .rwlock: exactly one user holds the queue read/write.
//
// At most one of the three is present at any instant. Creation of a lock
// file uses the filesystem's exclusive-create primitive as the
// authoritative arbiter; probing alone is advisory.
package lockfile

import (
	"fmt"
	"path/filepath"

	"github.com/rmmiranda/DataQueue/internal/fsport"
)

// Lock file names inside a queue directory.
const (
	ReadLockName      = ".rolock"
	WriteLockName     = ".wolock"
	ReadWriteLockName = ".rwlock"
)

// State is a snapshot of the lock files present in a queue directory.
type State struct {
	// Readers is the reader count stored in .rolock, 0 if absent.
	Readers uint8

	// WriteHeld reports a .wolock file.
	WriteHeld bool

	// ReadWriteHeld reports a .rwlock file.
	ReadWriteHeld bool
}

// Any reports whether any lock file is present.
func (s State) Any() bool {
	return s.Readers > 0 || s.WriteHeld || s.ReadWriteHeld
}

// Exclusive reports whether a writer lock (.wolock or .rwlock) is held.
func (s State) Exclusive() bool {
	return s.WriteHeld || s.ReadWriteHeld
}

// Manager performs lock transitions for queue directories through the
// filesystem port.
type Manager struct {
	fs fsport.FS
}

// NewManager returns a lock manager over the given filesystem.
func NewManager(fs fsport.FS) *Manager {
	return &Manager{fs: fs}
}

// Inspect reads the lock state of a queue directory.
func (m *Manager) Inspect(dir string) (State, error) {
	var s State

	if held, err := m.fs.Exists(filepath.Join(dir, WriteLockName)); err != nil {
		return s, fmt.Errorf("failed to probe %s: %w", WriteLockName, err)
	} else if held {
		s.WriteHeld = true
	}

	if held, err := m.fs.Exists(filepath.Join(dir, ReadWriteLockName)); err != nil {
		return s, fmt.Errorf("failed to probe %s: %w", ReadWriteLockName, err)
	} else if held {
		s.ReadWriteHeld = true
	}

	roPath := filepath.Join(dir, ReadLockName)
	held, err := m.fs.Exists(roPath)
	if err != nil {
		return s, fmt.Errorf("failed to probe %s: %w", ReadLockName, err)
	}
	if held {
		data, err := m.fs.ReadFile(roPath)
		if err != nil {
			return s, fmt.Errorf("failed to read %s: %w", ReadLockName, err)
		}
		if len(data) < 1 {
			return s, fmt.Errorf("malformed %s: empty", ReadLockName)
		}
		s.Readers = data[0]
	}

	return s, nil
}

// AcquireRead registers a reader: creates .rolock with count 1, or
// increments the count of an existing one.
func (m *Manager) AcquireRead(dir string) error {
	roPath := filepath.Join(dir, ReadLockName)

	err := m.fs.CreateExclusive(roPath, []byte{1})
	if err == nil {
		return nil
	}
	if !fsport.IsExist(err) {
		return fmt.Errorf("failed to create %s: %w", ReadLockName, err)
	}

	// Another reader got there first; bump its count instead.
	data, err := m.fs.ReadFile(roPath)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", ReadLockName, err)
	}
	if len(data) < 1 {
		return fmt.Errorf("malformed %s: empty", ReadLockName)
	}
	if err := m.fs.WriteFile(roPath, []byte{data[0] + 1}); err != nil {
		return fmt.Errorf("failed to update %s: %w", ReadLockName, err)
	}
	return nil
}

// AcquireExclusive creates the named writer lock file (.wolock or
// .rwlock). Returns an error satisfying fsport.IsExist if another holder
// won the race.
func (m *Manager) AcquireExclusive(dir, name string) error {
	return m.fs.CreateExclusive(filepath.Join(dir, name), nil)
}

// ReleaseRead deregisters a reader: decrements the .rolock count and
// deletes the file when it reaches zero.
func (m *Manager) ReleaseRead(dir string) error {
	roPath := filepath.Join(dir, ReadLockName)

	data, err := m.fs.ReadFile(roPath)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", ReadLockName, err)
	}
	if len(data) < 1 {
		return fmt.Errorf("malformed %s: empty", ReadLockName)
	}

	users := data[0] - 1
	if users == 0 {
		if err := m.fs.Remove(roPath); err != nil {
			return fmt.Errorf("failed to remove %s: %w", ReadLockName, err)
		}
		return nil
	}
	if err := m.fs.WriteFile(roPath, []byte{users}); err != nil {
		return fmt.Errorf("failed to update %s: %w", ReadLockName, err)
	}
	return nil
}

// ReleaseExclusive removes whichever writer lock file is present.
func (m *Manager) ReleaseExclusive(dir string) error {
	for _, name := range []string{WriteLockName, ReadWriteLockName} {
		path := filepath.Join(dir, name)
		held, err := m.fs.Exists(path)
		if err != nil {
			return fmt.Errorf("failed to probe %s: %w", name, err)
		}
		if held {
			if err := m.fs.Remove(path); err != nil {
				return fmt.Errorf("failed to remove %s: %w", name, err)
			}
		}
	}
	return nil
}
