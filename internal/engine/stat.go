package engine

import "fmt"

// QueueInfo is a read-only snapshot of a queue's persistent state, taken
// without opening the queue.
type QueueInfo struct {
	Name         string
	MaxEntries   int
	MaxEntrySize int
	Length       int
	Bytes        int
	Flags        uint16
	RefCount     int
	HeadOffs     int
	TailOffs     int
	SeekOffs     int
	Readers      int
	WriteHeld    bool
	RWHeld       bool
}

// Stat reads a queue's header and lock state. It takes no lock of its
// own, so the snapshot may be stale by the time it is inspected.
func (e *Engine) Stat(name string) (QueueInfo, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := validateName(name); err != nil {
		return QueueInfo{}, err
	}

	exists, err := e.queueExists(name)
	if err != nil {
		return QueueInfo{}, err
	}
	if !exists {
		return QueueInfo{}, ErrQueueMissing
	}

	dir := e.queueDir(name)
	hdr, err := e.loadHeader(dir)
	if err != nil {
		return QueueInfo{}, err
	}

	state, err := e.locks.Inspect(dir)
	if err != nil {
		return QueueInfo{}, fmt.Errorf("%w: %v", ErrFSAccess, err)
	}

	return QueueInfo{
		Name:         name,
		MaxEntries:   int(hdr.MaxEntries),
		MaxEntrySize: int(hdr.MaxEntrySize),
		Length:       int(hdr.NumEntries),
		Bytes:        int(hdr.Size),
		Flags:        hdr.Flags,
		RefCount:     int(hdr.RefCount),
		HeadOffs:     int(hdr.HeadOffs),
		TailOffs:     int(hdr.TailOffs),
		SeekOffs:     int(hdr.SeekOffs),
		Readers:      int(state.Readers),
		WriteHeld:    state.WriteHeld,
		RWHeld:       state.ReadWriteHeld,
	}, nil
}
