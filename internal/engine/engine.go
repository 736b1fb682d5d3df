// Package engine implements the persistent file-backed FIFO queue
// operations on top of the on-disk layout, the lock protocol and the
// process-local handle table.
//
// Every queue is a directory under the engine's base directory holding a
// fixed header record, a circular lookup table (LUT) file, one payload
// file per live entry and at most one lock file. All filesystem work goes
// through the fsport.FS interface using absolute paths; the engine never
// changes the process working directory.
package engine

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rmmiranda/DataQueue/internal/fsport"
	"github.com/rmmiranda/DataQueue/internal/handle"
	"github.com/rmmiranda/DataQueue/internal/layout"
	"github.com/rmmiranda/DataQueue/internal/lockfile"
	"github.com/rmmiranda/DataQueue/internal/logging"
	"github.com/rmmiranda/DataQueue/internal/metrics"
)

// MaxNameLen is the longest queue name accepted.
const MaxNameLen = 31

// Options configures an Engine.
type Options struct {
	// FS is the filesystem port. Defaults to the operating system
	// filesystem.
	FS fsport.FS

	// Logger for structured logging. Defaults to no logging.
	Logger logging.Logger

	// Metrics collects operation counters. Defaults to a private,
	// unregistered collector.
	Metrics *metrics.Collector
}

// Engine manages the queues under one base directory.
//
// The engine serializes its operations with an internal mutex, so a
// single Engine may be shared by multiple goroutines. Cross-process
// coordination is carried entirely by the on-disk lock files.
type Engine struct {
	mu sync.Mutex

	base    string
	fs      fsport.FS
	locks   *lockfile.Manager
	handles *handle.Table
	log     logging.Logger
	metrics *metrics.Collector
}

// New creates an engine rooted at the given base directory, creating the
// directory if needed.
func New(base string, opts Options) (*Engine, error) {
	if base == "" {
		return nil, fmt.Errorf("%w: empty base directory", ErrInvalidArg)
	}
	if opts.FS == nil {
		opts.FS = fsport.NewOS()
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoopLogger{}
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.NewCollector("dataqueue")
	}

	exists, err := opts.FS.Exists(base)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFSAccess, err)
	}
	if !exists {
		if err := opts.FS.Mkdir(base); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrFSAccess, err)
		}
	}

	return &Engine{
		base:    base,
		fs:      opts.FS,
		locks:   lockfile.NewManager(opts.FS),
		handles: handle.NewTable(),
		log:     opts.Logger,
		metrics: opts.Metrics,
	}, nil
}

// Metrics returns the engine's metrics collector.
func (e *Engine) Metrics() *metrics.Collector {
	return e.metrics
}

// queueDir returns the absolute directory of a queue.
func (e *Engine) queueDir(name string) string {
	return filepath.Join(e.base, name)
}

func headerPath(dir string) string {
	return filepath.Join(dir, layout.HeaderFileName)
}

func lutPath(dir string) string {
	return filepath.Join(dir, layout.LUTFileName)
}

func payloadPath(dir, ref string) string {
	return filepath.Join(dir, ref)
}

// validateName enforces the queue naming rules: non-empty, at most
// MaxNameLen bytes, a single path element with no separators or NULs.
func validateName(name string) error {
	if name == "" || len(name) > MaxNameLen {
		return fmt.Errorf("%w: bad queue name length", ErrInvalidArg)
	}
	if name == "." || name == ".." {
		return fmt.Errorf("%w: bad queue name %q", ErrInvalidArg, name)
	}
	if strings.ContainsAny(name, "/\\\x00") {
		return fmt.Errorf("%w: bad queue name %q", ErrInvalidArg, name)
	}
	return nil
}

// queueExists probes the queue directory.
func (e *Engine) queueExists(name string) (bool, error) {
	exists, err := e.fs.Exists(e.queueDir(name))
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrFSAccess, err)
	}
	return exists, nil
}

// resolve validates a handle and confirms the queue directory is still
// present.
func (e *Engine) resolve(h handle.Handle) (handle.Info, string, error) {
	info, err := e.handles.Get(h)
	if err != nil {
		return handle.Info{}, "", ErrInvalidHandle
	}
	dir := e.queueDir(info.Name)
	exists, err := e.fs.Exists(dir)
	if err != nil {
		return handle.Info{}, "", fmt.Errorf("%w: %v", ErrFSAccess, err)
	}
	if !exists {
		return handle.Info{}, "", ErrQueueMissing
	}
	return info, dir, nil
}

// loadState reads and decodes the header and LUT of a queue.
func (e *Engine) loadState(dir string) (*layout.Header, *layout.LUT, error) {
	hdr, err := e.loadHeader(dir)
	if err != nil {
		return nil, nil, err
	}
	raw, err := e.fs.ReadFile(lutPath(dir))
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrFSAccess, err)
	}
	lut, err := layout.LoadLUT(raw, hdr.MaxEntries)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrFSAccess, err)
	}
	return hdr, lut, nil
}

// loadHeader reads and decodes just the header of a queue.
func (e *Engine) loadHeader(dir string) (*layout.Header, error) {
	raw, err := e.fs.ReadFile(headerPath(dir))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFSAccess, err)
	}
	hdr, err := layout.UnmarshalHeader(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFSAccess, err)
	}
	return hdr, nil
}

// storeState persists the LUT and then the header. The header write is
// last so it commits the mutation.
func (e *Engine) storeState(dir string, hdr *layout.Header, lut *layout.LUT) error {
	if err := e.fs.WriteFile(lutPath(dir), lut.Bytes()); err != nil {
		return fmt.Errorf("%w: %v", ErrFSAccess, err)
	}
	if err := e.storeHeader(dir, hdr); err != nil {
		return err
	}
	return nil
}

// isExistErr reports an exclusive-create collision.
func isExistErr(err error) bool {
	return fsport.IsExist(err)
}

// storeHeader persists just the header of a queue.
func (e *Engine) storeHeader(dir string, hdr *layout.Header) error {
	if err := e.fs.WriteFile(headerPath(dir), hdr.Marshal()); err != nil {
		return fmt.Errorf("%w: %v", ErrFSAccess, err)
	}
	return nil
}
