package engine

import (
	"fmt"
	"math"

	"github.com/rmmiranda/DataQueue/internal/handle"
	"github.com/rmmiranda/DataQueue/internal/layout"
	"github.com/rmmiranda/DataQueue/internal/lockfile"
	"github.com/rmmiranda/DataQueue/internal/logging"
)

// Create creates a new, empty queue: its directory, a zeroed header and
// a zeroed LUT of maxEntries slots. A partially created directory is
// removed before an error return.
func (e *Engine) Create(name string, maxEntries, maxEntrySize int, flags uint16) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := validateName(name); err != nil {
		return err
	}
	if maxEntries <= 0 || maxEntries > layout.MaxEntriesLimit {
		return fmt.Errorf("%w: max entries %d out of range 1..%d", ErrInvalidArg, maxEntries, layout.MaxEntriesLimit)
	}
	if maxEntrySize <= 0 || int64(maxEntrySize) > math.MaxUint32 {
		return fmt.Errorf("%w: max entry size %d out of range", ErrInvalidArg, maxEntrySize)
	}

	exists, err := e.queueExists(name)
	if err != nil {
		return err
	}
	if exists {
		return ErrQueueExists
	}

	dir := e.queueDir(name)
	if err := e.fs.Mkdir(dir); err != nil {
		return fmt.Errorf("%w: %v", ErrFSAccess, err)
	}

	hdr := layout.NewHeader(uint8(maxEntries), uint32(maxEntrySize), flags)
	lut := layout.NewLUT(uint8(maxEntries))
	if err := e.storeState(dir, hdr, lut); err != nil {
		// Do not leave a half-built queue behind.
		if rmErr := e.fs.RemoveAll(dir); rmErr != nil {
			e.log.Warn("failed to clean up partial queue",
				logging.F("queue", name), logging.F("error", rmErr))
		}
		return err
	}

	e.log.Info("queue created",
		logging.F("queue", name),
		logging.F("max_entries", maxEntries),
		logging.F("max_entry_size", maxEntrySize),
		logging.F("flags", flags))
	return nil
}

// Destroy removes a queue and all of its files. Destroying an absent
// queue is a no-op. A queue that is open in this process or locked by
// any process is busy.
func (e *Engine) Destroy(name string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := validateName(name); err != nil {
		return err
	}

	exists, err := e.queueExists(name)
	if err != nil {
		return err
	}
	if !exists {
		return nil
	}

	if e.handles.InUse(name) {
		return ErrQueueBusy
	}

	dir := e.queueDir(name)
	state, err := e.locks.Inspect(dir)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrFSAccess, err)
	}
	if state.Any() {
		return ErrQueueBusy
	}

	if err := e.fs.RemoveAll(dir); err != nil {
		return fmt.Errorf("%w: %v", ErrFSAccess, err)
	}

	e.log.Info("queue destroyed", logging.F("queue", name))
	return nil
}

// Open opens a queue for access and returns its handle.
//
// Reopening a queue this process already holds with matching access
// parameters returns the existing handle; mismatched parameters fail
// with ErrQueueOpened. Cross-process sharing follows the lock protocol:
// any writer lock blocks every open, a reader lock blocks writers.
func (e *Engine) Open(name string, access Access, mode Mode) (handle.Handle, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := validateName(name); err != nil {
		return handle.Handle{}, err
	}
	if !access.Valid() || !mode.Valid() {
		return handle.Handle{}, fmt.Errorf("%w: bad access type or mode", ErrInvalidArg)
	}

	exists, err := e.queueExists(name)
	if err != nil {
		return handle.Handle{}, err
	}
	if !exists {
		return handle.Handle{}, ErrQueueMissing
	}

	if h, info, ok := e.handles.Lookup(name); ok {
		if Access(info.Access) == access && Mode(info.Mode) == mode {
			return h, nil
		}
		return handle.Handle{}, ErrQueueOpened
	}

	dir := e.queueDir(name)
	state, err := e.locks.Inspect(dir)
	if err != nil {
		return handle.Handle{}, fmt.Errorf("%w: %v", ErrFSAccess, err)
	}
	if state.Exclusive() || (state.Readers > 0 && access != ReadOnly) {
		e.metrics.RecordLockConflict()
		return handle.Handle{}, ErrQueueBusy
	}

	if err := e.acquireLock(dir, access); err != nil {
		return handle.Handle{}, err
	}

	h, err := e.handles.Reserve(handle.Info{Name: name, Access: int(access), Mode: int(mode)})
	if err != nil {
		// Back out the lock we just took.
		if relErr := e.releaseLock(dir, access); relErr != nil {
			e.log.Warn("failed to back out lock",
				logging.F("queue", name), logging.F("error", relErr))
		}
		return handle.Handle{}, ErrHandleNotAvail
	}

	e.log.Info("queue opened",
		logging.F("queue", name), logging.F("access", access.String()))
	return h, nil
}

// Close releases the lock held by a handle and frees its table slot.
func (e *Engine) Close(h handle.Handle) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	info, err := e.handles.Get(h)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidArg, err)
	}

	dir := e.queueDir(info.Name)
	exists, err := e.fs.Exists(dir)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrFSAccess, err)
	}
	if !exists {
		return ErrQueueMissing
	}

	if err := e.releaseLock(dir, Access(info.Access)); err != nil {
		return err
	}
	_ = e.handles.Release(h)

	e.log.Info("queue closed", logging.F("queue", info.Name))
	return nil
}

func (e *Engine) acquireLock(dir string, access Access) error {
	switch access {
	case ReadOnly:
		if err := e.locks.AcquireRead(dir); err != nil {
			return fmt.Errorf("%w: %v", ErrFSAccess, err)
		}
	case WriteOnly:
		if err := e.locks.AcquireExclusive(dir, lockfile.WriteLockName); err != nil {
			return e.mapExclusiveErr(err)
		}
	case ReadWrite:
		if err := e.locks.AcquireExclusive(dir, lockfile.ReadWriteLockName); err != nil {
			return e.mapExclusiveErr(err)
		}
	}
	return nil
}

// mapExclusiveErr turns an exclusive-create collision into busy; the
// probe above raced another opener.
func (e *Engine) mapExclusiveErr(err error) error {
	if isExistErr(err) {
		e.metrics.RecordLockConflict()
		return ErrQueueBusy
	}
	return fmt.Errorf("%w: %v", ErrFSAccess, err)
}

func (e *Engine) releaseLock(dir string, access Access) error {
	var err error
	if access == ReadOnly {
		err = e.locks.ReleaseRead(dir)
	} else {
		err = e.locks.ReleaseExclusive(dir)
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrFSAccess, err)
	}
	return nil
}
