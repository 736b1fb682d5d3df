package engine

import (
	"fmt"

	"github.com/rmmiranda/DataQueue/internal/handle"
	"github.com/rmmiranda/DataQueue/internal/logging"
)

// Dequeue removes the oldest entry from the queue and returns its
// payload.
//
// Dequeue mutates the queue, so it requires write access and a writer
// lock, the same as Enqueue.
func (e *Engine) Dequeue(h handle.Handle) ([]byte, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	data, err := e.dequeue(h)
	if err != nil {
		e.metrics.RecordDequeueError()
		return nil, err
	}
	e.metrics.RecordDequeue(len(data))
	return data, nil
}

func (e *Engine) dequeue(h handle.Handle) ([]byte, error) {
	info, dir, err := e.resolve(h)
	if err != nil {
		return nil, err
	}
	if !Access(info.Access).CanWrite() {
		return nil, ErrQueueReadOnly
	}

	state, err := e.locks.Inspect(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFSAccess, err)
	}
	if !state.Exclusive() {
		return nil, ErrQueueClosed
	}

	hdr, lut, err := e.loadState(dir)
	if err != nil {
		return nil, err
	}
	if hdr.Empty() {
		return nil, ErrQueueEmpty
	}

	// A seek cursor parked on the head moves to the next live entry.
	if hdr.SeekOffs == hdr.HeadOffs {
		hdr.SeekOffs = hdr.Next(hdr.SeekOffs)
	}

	ref := lut.Slot(hdr.HeadOffs)
	if ref == "" {
		return nil, fmt.Errorf("%w: head slot empty with %d entries", ErrFSAccess, hdr.NumEntries)
	}

	data, err := e.fs.ReadFile(payloadPath(dir, ref))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFSAccess, err)
	}

	if err := e.fs.Remove(payloadPath(dir, ref)); err != nil {
		e.log.Warn("failed to remove dequeued payload",
			logging.F("queue", info.Name),
			logging.F("reference", ref),
			logging.F("error", err))
	}

	lut.ClearSlot(hdr.HeadOffs)
	hdr.HeadOffs = hdr.Next(hdr.HeadOffs)
	hdr.NumEntries--
	// A drained queue parks the tail on the head so it reads as empty.
	if hdr.NumEntries == 0 {
		hdr.TailOffs = hdr.HeadOffs
	}
	if n := uint32(len(data)); hdr.Size >= n {
		hdr.Size -= n
	} else {
		hdr.Size = 0
	}

	if err := e.storeState(dir, hdr, lut); err != nil {
		return nil, err
	}

	return data, nil
}
