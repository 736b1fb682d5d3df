package engine

import "errors"

// Status errors returned by engine operations. Each operation returns
// exactly one of these (possibly wrapped with context); callers match
// with errors.Is.
var (
	// ErrInvalidArg indicates a malformed or out-of-range argument.
	ErrInvalidArg = errors.New("dataqueue: invalid argument")

	// ErrInvalidHandle indicates a handle that is not currently open.
	ErrInvalidHandle = errors.New("dataqueue: invalid handle")

	// ErrInvalidSeek indicates a seek position outside the live entries.
	ErrInvalidSeek = errors.New("dataqueue: invalid seek position")

	// ErrQueueExists indicates a create for a name already in use.
	ErrQueueExists = errors.New("dataqueue: queue already exists")

	// ErrQueueMissing indicates the queue directory is absent.
	ErrQueueMissing = errors.New("dataqueue: queue missing")

	// ErrQueueOpened indicates the queue is already open in this process
	// with different access parameters.
	ErrQueueOpened = errors.New("dataqueue: queue already opened")

	// ErrQueueClosed indicates the operation requires a lock that is not
	// held.
	ErrQueueClosed = errors.New("dataqueue: queue not open")

	// ErrQueueFull is reserved. Enqueue evicts the oldest entry instead
	// of failing, so the engine never returns it.
	ErrQueueFull = errors.New("dataqueue: queue is full")

	// ErrQueueEmpty indicates the queue holds no entries.
	ErrQueueEmpty = errors.New("dataqueue: queue is empty")

	// ErrQueueBusy indicates another holder blocks the operation; a
	// retry may succeed.
	ErrQueueBusy = errors.New("dataqueue: queue is busy")

	// ErrQueueReadOnly indicates a mutating operation on a read-only
	// handle.
	ErrQueueReadOnly = errors.New("dataqueue: queue opened read-only")

	// ErrQueueWriteOnly indicates a reading operation on a write-only
	// handle.
	ErrQueueWriteOnly = errors.New("dataqueue: queue opened write-only")

	// ErrQueueNotSeekable indicates a seek on a queue created without
	// random access.
	ErrQueueNotSeekable = errors.New("dataqueue: queue not seekable")

	// ErrFSAccess indicates a filesystem port failure.
	ErrFSAccess = errors.New("dataqueue: filesystem access failed")

	// ErrHandleNotAvail indicates the handle table is full.
	ErrHandleNotAvail = errors.New("dataqueue: no handle available")
)
