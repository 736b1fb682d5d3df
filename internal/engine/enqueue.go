package engine

import (
	"fmt"

	"github.com/rmmiranda/DataQueue/internal/handle"
	"github.com/rmmiranda/DataQueue/internal/layout"
	"github.com/rmmiranda/DataQueue/internal/logging"
)

// Enqueue inserts a new entry at the tail of the queue.
//
// The handle must have write access and its writer lock must still be on
// disk. When the queue is full the oldest entry is evicted: its LUT slot
// is zeroed and its payload file unlinked. The new payload file is
// written before any existing state changes, so a crash mid-operation
// never loses an already-committed entry.
func (e *Engine) Enqueue(h handle.Handle, data []byte) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.enqueue(h, data); err != nil {
		e.metrics.RecordEnqueueError()
		return err
	}
	e.metrics.RecordEnqueue(len(data))
	return nil
}

func (e *Engine) enqueue(h handle.Handle, data []byte) error {
	if len(data) == 0 {
		return fmt.Errorf("%w: empty payload", ErrInvalidArg)
	}

	info, dir, err := e.resolve(h)
	if err != nil {
		return err
	}
	if !Access(info.Access).CanWrite() {
		return ErrQueueReadOnly
	}

	state, err := e.locks.Inspect(dir)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrFSAccess, err)
	}
	if !state.Exclusive() {
		return ErrQueueClosed
	}

	hdr, lut, err := e.loadState(dir)
	if err != nil {
		return err
	}
	if uint32(len(data)) > hdr.MaxEntrySize {
		return fmt.Errorf("%w: payload %d bytes exceeds max entry size %d", ErrInvalidArg, len(data), hdr.MaxEntrySize)
	}

	ref, err := layout.MintReference(hdr, lut)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrFSAccess, err)
	}

	if err := e.fs.WriteFile(payloadPath(dir, ref), data); err != nil {
		return fmt.Errorf("%w: %v", ErrFSAccess, err)
	}

	var evicted string
	switch {
	case hdr.Empty():
		// First entry lands on the shared head/tail position.
		lut.SetSlot(hdr.TailOffs, ref)
		hdr.NumEntries = 1

	case hdr.Full():
		// Evict the oldest entry to make room. A seek cursor parked on
		// the head moves along with it.
		if hdr.SeekOffs == hdr.HeadOffs {
			hdr.SeekOffs = hdr.Next(hdr.SeekOffs)
		}
		evicted = lut.Slot(hdr.HeadOffs)
		lut.ClearSlot(hdr.HeadOffs)
		hdr.HeadOffs = hdr.Next(hdr.HeadOffs)

		hdr.TailOffs = hdr.Next(hdr.TailOffs)
		lut.SetSlot(hdr.TailOffs, ref)

	default:
		hdr.TailOffs = hdr.Next(hdr.TailOffs)
		lut.SetSlot(hdr.TailOffs, ref)
		hdr.NumEntries++
	}

	hdr.Size += uint32(len(data))
	if evicted != "" {
		if n, err := e.fs.FileSize(payloadPath(dir, evicted)); err == nil {
			hdr.Size -= uint32(n)
		}
	}

	if err := e.storeState(dir, hdr, lut); err != nil {
		return err
	}

	// The eviction is committed; the old payload file is now unreferenced.
	if evicted != "" {
		if err := e.fs.Remove(payloadPath(dir, evicted)); err != nil {
			e.log.Warn("failed to remove evicted payload",
				logging.F("queue", info.Name),
				logging.F("reference", evicted),
				logging.F("error", err))
		}
		e.metrics.RecordEviction()
		e.log.Debug("entry evicted",
			logging.F("queue", info.Name), logging.F("reference", evicted))
	}

	return nil
}
