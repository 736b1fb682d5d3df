package dataqueue

import "github.com/rmmiranda/DataQueue/internal/engine"

// Status errors returned by queue operations. Match with errors.Is.
var (
	// ErrInvalidArg indicates a malformed or out-of-range argument.
	ErrInvalidArg = engine.ErrInvalidArg

	// ErrInvalidHandle indicates a handle that is not currently open.
	ErrInvalidHandle = engine.ErrInvalidHandle

	// ErrInvalidSeek indicates a seek position outside the live entries.
	ErrInvalidSeek = engine.ErrInvalidSeek

	// ErrQueueExists indicates a create for a name already in use.
	ErrQueueExists = engine.ErrQueueExists

	// ErrQueueMissing indicates the queue directory is absent.
	ErrQueueMissing = engine.ErrQueueMissing

	// ErrQueueOpened indicates the queue is already open in this process
	// with different access parameters.
	ErrQueueOpened = engine.ErrQueueOpened

	// ErrQueueClosed indicates the operation requires a lock that is not
	// held.
	ErrQueueClosed = engine.ErrQueueClosed

	// ErrQueueFull is reserved; enqueue evicts instead of failing.
	ErrQueueFull = engine.ErrQueueFull

	// ErrQueueEmpty indicates the queue holds no entries.
	ErrQueueEmpty = engine.ErrQueueEmpty

	// ErrQueueBusy indicates another holder blocks the operation; a
	// retry may succeed.
	ErrQueueBusy = engine.ErrQueueBusy

	// ErrQueueReadOnly indicates a mutating operation on a read-only
	// handle.
	ErrQueueReadOnly = engine.ErrQueueReadOnly

	// ErrQueueWriteOnly indicates a reading operation on a write-only
	// handle.
	ErrQueueWriteOnly = engine.ErrQueueWriteOnly

	// ErrQueueNotSeekable indicates a seek on a queue created without
	// random access.
	ErrQueueNotSeekable = engine.ErrQueueNotSeekable

	// ErrFSAccess indicates a filesystem port failure.
	ErrFSAccess = engine.ErrFSAccess

	// ErrHandleNotAvail indicates the handle table is full.
	ErrHandleNotAvail = engine.ErrHandleNotAvail
)
