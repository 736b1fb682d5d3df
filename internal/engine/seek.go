package engine

import (
	"fmt"

	"github.com/rmmiranda/DataQueue/internal/handle"
)

// Seek positions the queue's seek cursor for subsequent GetEntry calls.
//
// The queue must have been created with FlagRandomAccess and must hold
// at least one entry. SeekPosition counts forward from the head; the
// position must lie within the live entries.
func (e *Engine) Seek(h handle.Handle, st SeekType, position int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !st.Valid() {
		return fmt.Errorf("%w: bad seek type", ErrInvalidArg)
	}

	info, dir, err := e.resolve(h)
	if err != nil {
		return err
	}
	if Access(info.Access) == WriteOnly {
		return ErrQueueWriteOnly
	}

	state, err := e.locks.Inspect(dir)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrFSAccess, err)
	}
	if state.Readers == 0 && !state.ReadWriteHeld {
		return ErrQueueClosed
	}

	hdr, err := e.loadHeader(dir)
	if err != nil {
		return err
	}
	if !hdr.Seekable() {
		return ErrQueueNotSeekable
	}
	if hdr.Empty() {
		return ErrQueueEmpty
	}
	if position < 0 || position >= int(hdr.NumEntries) {
		return ErrInvalidSeek
	}

	switch st {
	case SeekHead:
		hdr.SeekOffs = hdr.HeadOffs
	case SeekTail:
		hdr.SeekOffs = hdr.TailOffs
	case SeekPosition:
		hdr.SeekOffs = uint8((uint16(hdr.HeadOffs) + uint16(position)) % uint16(hdr.MaxEntries))
	}

	if err := e.storeHeader(dir, hdr); err != nil {
		return err
	}

	e.metrics.RecordSeek()
	return nil
}

// GetEntry reads the entry under the seek cursor without removing it,
// then advances the cursor unless it already sits on the tail.
func (e *Engine) GetEntry(h handle.Handle) ([]byte, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	info, dir, err := e.resolve(h)
	if err != nil {
		return nil, err
	}
	if Access(info.Access) == WriteOnly {
		return nil, ErrQueueWriteOnly
	}

	state, err := e.locks.Inspect(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFSAccess, err)
	}
	if state.Readers == 0 && !state.ReadWriteHeld {
		return nil, ErrQueueClosed
	}

	hdr, lut, err := e.loadState(dir)
	if err != nil {
		return nil, err
	}
	if hdr.Empty() {
		return nil, ErrQueueEmpty
	}

	ref := lut.Slot(hdr.SeekOffs)
	if ref == "" {
		return nil, fmt.Errorf("%w: seek slot empty with %d entries", ErrFSAccess, hdr.NumEntries)
	}

	data, err := e.fs.ReadFile(payloadPath(dir, ref))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFSAccess, err)
	}

	// The cursor stops at the tail instead of wrapping past it.
	if hdr.SeekOffs != hdr.TailOffs {
		hdr.SeekOffs = hdr.Next(hdr.SeekOffs)
		if err := e.storeHeader(dir, hdr); err != nil {
			return nil, err
		}
	}

	e.metrics.RecordGetEntry(len(data))
	return data, nil
}

// Length returns the number of live entries in the queue. Any lock,
// reader or writer, qualifies the queue as open.
func (e *Engine) Length(h handle.Handle) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	_, dir, err := e.resolve(h)
	if err != nil {
		return 0, err
	}

	state, err := e.locks.Inspect(dir)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrFSAccess, err)
	}
	if !state.Any() {
		return 0, ErrQueueClosed
	}

	hdr, err := e.loadHeader(dir)
	if err != nil {
		return 0, err
	}
	return int(hdr.NumEntries), nil
}
