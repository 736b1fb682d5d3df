// Package dataqueue provides a persistent, file-backed FIFO queue for
// embedded and local-first applications.
//
// Each queue lives in its own directory under an engine's base
// directory: a fixed header record, a circular lookup table (LUT) file,
// one payload file per live entry and at most one lock file. Queue state
// survives process restart; concurrent access from separate processes is
// arbitrated by the on-disk lock files.
//
// Entries are inserted at the tail and consumed from the head. When a
// queue is full, enqueueing evicts the oldest entry. Queues created with
// FlagRandomAccess additionally carry a seek cursor for non-destructive
// reads.
//
// Example usage:
//
//	eng, err := dataqueue.New("/var/lib/myapp/queues")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	if err := eng.Create("events", 16, 512, dataqueue.FlagRandomAccess); err != nil {
//		log.Fatal(err)
//	}
//
//	h, err := eng.Open("events", dataqueue.ReadWrite, dataqueue.BinaryPacked)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer eng.Close(h)
//
//	if err := eng.Enqueue(h, []byte("hello")); err != nil {
//		log.Fatal(err)
//	}
//
//	data, err := eng.Dequeue(h)
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Printf("%s\n", data)
package dataqueue

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/rmmiranda/DataQueue/internal/engine"
	"github.com/rmmiranda/DataQueue/internal/fsport"
	"github.com/rmmiranda/DataQueue/internal/handle"
	"github.com/rmmiranda/DataQueue/internal/logging"
	"github.com/rmmiranda/DataQueue/internal/metrics"
)

// Access is the access type a queue is opened with.
type Access = engine.Access

// Access types.
const (
	ReadOnly  = engine.ReadOnly
	WriteOnly = engine.WriteOnly
	ReadWrite = engine.ReadWrite
)

// Mode is the access mode a queue is opened with.
type Mode = engine.Mode

// Access modes.
const (
	Unpacked     = engine.Unpacked
	BinaryPacked = engine.BinaryPacked
)

// SeekType selects the target of a Seek operation.
type SeekType = engine.SeekType

// Seek types.
const (
	SeekHead     = engine.SeekHead
	SeekTail     = engine.SeekTail
	SeekPosition = engine.SeekPosition
)

// Queue characteristic flags.
const (
	// FlagMessageLog marks the queue as holding log-style messages.
	FlagMessageLog = engine.FlagMessageLog

	// FlagRandomAccess enables the seek cursor and Seek operation.
	FlagRandomAccess = engine.FlagRandomAccess
)

// Handle is an opaque reference to an open queue, valid between Open and
// Close.
type Handle = handle.Handle

// QueueInfo is a read-only snapshot of a queue's persistent state.
type QueueInfo = engine.QueueInfo

// Engine manages the queues under one base directory. An Engine is safe
// for use by multiple goroutines.
type Engine struct {
	inner *engine.Engine
}

// New creates an engine rooted at the given base directory, creating the
// directory if needed.
func New(base string, opts ...Option) (*Engine, error) {
	cfg := options{}
	for _, opt := range opts {
		opt(&cfg)
	}

	eopts := engine.Options{}
	if cfg.fs != nil {
		eopts.FS = fsport.New(cfg.fs)
	}
	if cfg.logger != nil {
		eopts.Logger = logging.NewZapLogger(cfg.logger)
	}
	if cfg.registry != nil {
		eopts.Metrics = metrics.NewCollector("dataqueue")
		if err := cfg.registry.Register(eopts.Metrics); err != nil {
			return nil, err
		}
	}

	inner, err := engine.New(base, eopts)
	if err != nil {
		return nil, err
	}
	return &Engine{inner: inner}, nil
}

// Create creates a new, empty queue holding at most maxEntries entries
// of at most maxEntrySize bytes each.
func (e *Engine) Create(name string, maxEntries, maxEntrySize int, flags uint16) error {
	return e.inner.Create(name, maxEntries, maxEntrySize, flags)
}

// Destroy removes a queue and all of its files. Destroying an absent
// queue succeeds; a queue that is open anywhere is busy.
func (e *Engine) Destroy(name string) error {
	return e.inner.Destroy(name)
}

// Open opens a queue for access and returns its handle.
func (e *Engine) Open(name string, access Access, mode Mode) (Handle, error) {
	return e.inner.Open(name, access, mode)
}

// Close releases the lock held by a handle and invalidates it.
func (e *Engine) Close(h Handle) error {
	return e.inner.Close(h)
}

// Enqueue inserts a new entry at the tail of the queue, evicting the
// oldest entry if the queue is full.
func (e *Engine) Enqueue(h Handle, data []byte) error {
	return e.inner.Enqueue(h, data)
}

// Dequeue removes the oldest entry and returns its payload.
func (e *Engine) Dequeue(h Handle) ([]byte, error) {
	return e.inner.Dequeue(h)
}

// Seek positions the queue's seek cursor for subsequent GetEntry calls.
func (e *Engine) Seek(h Handle, st SeekType, position int) error {
	return e.inner.Seek(h, st, position)
}

// GetEntry reads the entry under the seek cursor without removing it.
func (e *Engine) GetEntry(h Handle) ([]byte, error) {
	return e.inner.GetEntry(h)
}

// Length returns the number of live entries in the queue.
func (e *Engine) Length(h Handle) (int, error) {
	return e.inner.Length(h)
}

// Stat reads a queue's header and lock state without opening it.
func (e *Engine) Stat(name string) (QueueInfo, error) {
	return e.inner.Stat(name)
}

// options collects the configuration applied by Option values.
type options struct {
	fs       afero.Fs
	logger   *zap.Logger
	registry prometheus.Registerer
}

// Option configures an Engine.
type Option func(*options)

// WithFileSystem runs the engine on the given afero filesystem instead
// of the operating system filesystem. Useful for tests and embedded
// filesystem ports.
func WithFileSystem(fs afero.Fs) Option {
	return func(o *options) {
		o.fs = fs
	}
}

// WithLogger routes the engine's structured logs to a zap logger.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithMetrics registers the engine's operation counters with a
// Prometheus registry.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(o *options) {
		o.registry = reg
	}
}
