// Package fsport defines the narrow filesystem interface the queue engine
// is written against.
//
// The engine only ever needs a handful of primitives: directory create and
// recursive remove, an existence probe, whole-file reads and writes, an
// exclusive create (the lock-file arbiter), unlink, a file-size probe, and
// a directory listing.
// Everything is addressed by absolute paths rooted at the engine's base
// directory; the port never touches the process working directory.
//
// The production implementation wraps afero.NewOsFs(); tests use
// afero.NewMemMapFs() through the same constructor.
package fsport

import (
	"fmt"
	"os"

	"github.com/spf13/afero"
)

// FS is the filesystem port consumed by the queue engine.
type FS interface {
	// Mkdir creates a single directory.
	Mkdir(path string) error

	// RemoveAll removes a directory and everything beneath it.
	// Removing a path that does not exist is not an error.
	RemoveAll(path string) error

	// Exists reports whether a file or directory exists at path.
	Exists(path string) (bool, error)

	// ReadFile reads the whole file at path.
	ReadFile(path string) ([]byte, error)

	// WriteFile writes data to path, creating or truncating it.
	WriteFile(path string, data []byte) error

	// CreateExclusive creates path with the given contents, failing with
	// ErrExist if the file is already present. This is the atomic
	// create-if-absent primitive lock files are built on.
	CreateExclusive(path string, data []byte) error

	// Remove unlinks a single file.
	Remove(path string) error

	// FileSize returns the size in bytes of the file at path.
	FileSize(path string) (int64, error)

	// List returns the names of the entries in the directory at path.
	List(path string) ([]string, error)
}

const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// aferoFS adapts an afero.Fs to the FS port.
type aferoFS struct {
	fs afero.Fs
}

// New wraps an afero filesystem as an FS port.
func New(fs afero.Fs) FS {
	return &aferoFS{fs: fs}
}

// NewOS returns an FS backed by the operating system filesystem.
func NewOS() FS {
	return New(afero.NewOsFs())
}

// NewMemory returns an FS backed by an in-memory filesystem. Intended for
// tests and host stubs.
func NewMemory() FS {
	return New(afero.NewMemMapFs())
}

func (a *aferoFS) Mkdir(path string) error {
	return a.fs.Mkdir(path, dirPerm)
}

func (a *aferoFS) RemoveAll(path string) error {
	return a.fs.RemoveAll(path)
}

func (a *aferoFS) Exists(path string) (bool, error) {
	return afero.Exists(a.fs, path)
}

func (a *aferoFS) ReadFile(path string) ([]byte, error) {
	return afero.ReadFile(a.fs, path)
}

func (a *aferoFS) WriteFile(path string, data []byte) error {
	return afero.WriteFile(a.fs, path, data, filePerm)
}

func (a *aferoFS) CreateExclusive(path string, data []byte) error {
	f, err := a.fs.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, filePerm)
	if err != nil {
		return err
	}
	if len(data) > 0 {
		if _, err := f.Write(data); err != nil {
			_ = f.Close()
			_ = a.fs.Remove(path)
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
	}
	return f.Close()
}

func (a *aferoFS) Remove(path string) error {
	return a.fs.Remove(path)
}

func (a *aferoFS) FileSize(path string) (int64, error) {
	info, err := a.fs.Stat(path)
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

func (a *aferoFS) List(path string) ([]string, error) {
	infos, err := afero.ReadDir(a.fs, path)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(infos))
	for _, info := range infos {
		names = append(names, info.Name())
	}
	return names, nil
}

// IsExist reports whether err indicates a file that already exists, as
// returned by CreateExclusive on a collision.
func IsExist(err error) bool {
	return os.IsExist(err)
}

// IsNotExist reports whether err indicates a missing file.
func IsNotExist(err error) bool {
	return os.IsNotExist(err)
}
