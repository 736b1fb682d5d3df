package engine

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/rmmiranda/DataQueue/internal/fsport"
	"github.com/rmmiranda/DataQueue/internal/handle"
	"github.com/rmmiranda/DataQueue/internal/layout"
)

const testBase = "/queues"

// newTestEngine builds an engine over a fresh in-memory filesystem.
func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	return engineWithFS(t, fsport.NewMemory())
}

// engineWithFS builds an engine over a shared filesystem. Two engines on
// the same filesystem model two processes sharing a disk.
func engineWithFS(t *testing.T, fs fsport.FS) *Engine {
	t.Helper()
	e, err := New(testBase, Options{FS: fs})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return e
}

func mustCreate(t *testing.T, e *Engine, name string, maxEntries, maxEntrySize int, flags uint16) {
	t.Helper()
	if err := e.Create(name, maxEntries, maxEntrySize, flags); err != nil {
		t.Fatalf("Create(%s) error = %v", name, err)
	}
}

func mustOpen(t *testing.T, e *Engine, name string, access Access, mode Mode) handle.Handle {
	t.Helper()
	h, err := e.Open(name, access, mode)
	if err != nil {
		t.Fatalf("Open(%s, %v) error = %v", name, access, err)
	}
	return h
}

func mustEnqueue(t *testing.T, e *Engine, h handle.Handle, data string) {
	t.Helper()
	if err := e.Enqueue(h, []byte(data)); err != nil {
		t.Fatalf("Enqueue(%q) error = %v", data, err)
	}
}

func mustDequeue(t *testing.T, e *Engine, h handle.Handle) string {
	t.Helper()
	data, err := e.Dequeue(h)
	if err != nil {
		t.Fatalf("Dequeue() error = %v", err)
	}
	return string(data)
}

// checkInvariants re-reads a queue's on-disk state and verifies the
// structural invariants that must hold after every completed operation.
func checkInvariants(t *testing.T, e *Engine, name string) {
	t.Helper()

	dir := filepath.Join(testBase, name)
	raw, err := e.fs.ReadFile(filepath.Join(dir, layout.HeaderFileName))
	if err != nil {
		t.Fatalf("invariants: read header: %v", err)
	}
	hdr, err := layout.UnmarshalHeader(raw)
	if err != nil {
		t.Fatalf("invariants: decode header: %v", err)
	}

	rawLUT, err := e.fs.ReadFile(filepath.Join(dir, layout.LUTFileName))
	if err != nil {
		t.Fatalf("invariants: read lut: %v", err)
	}
	lut, err := layout.LoadLUT(rawLUT, hdr.MaxEntries)
	if err != nil {
		t.Fatalf("invariants: decode lut: %v", err)
	}

	// Entry count matches the occupied slots.
	if got := lut.Occupied(); got != int(hdr.NumEntries) {
		t.Errorf("invariants: occupied slots = %d, header count = %d", got, hdr.NumEntries)
	}

	// Live slots form a contiguous ring run from the head; all other
	// slots are empty.
	live := make(map[uint8]bool)
	for k := uint8(0); k < hdr.NumEntries; k++ {
		pos := uint8((uint16(hdr.HeadOffs) + uint16(k)) % uint16(hdr.MaxEntries))
		live[pos] = true
		if lut.Slot(pos) == "" {
			t.Errorf("invariants: live position %d is empty", pos)
		}
	}
	for i := uint8(0); i < hdr.MaxEntries; i++ {
		if !live[i] && lut.Slot(i) != "" {
			t.Errorf("invariants: position %d holds %q outside the live run", i, lut.Slot(i))
		}
	}

	// Tail is head+count-1 on the ring.
	if hdr.NumEntries > 0 {
		wantTail := uint8((uint16(hdr.HeadOffs) + uint16(hdr.NumEntries) - 1) % uint16(hdr.MaxEntries))
		if hdr.TailOffs != wantTail {
			t.Errorf("invariants: tail = %d, want %d", hdr.TailOffs, wantTail)
		}
	}

	// Payload files correspond one-to-one with live slots, and at most
	// one lock file is present.
	names, err := e.fs.List(dir)
	if err != nil {
		t.Fatalf("invariants: list dir: %v", err)
	}
	payloads := make(map[string]bool)
	locks := 0
	for _, n := range names {
		if strings.HasPrefix(n, ".") {
			switch n {
			case ".rolock", ".wolock", ".rwlock":
				locks++
			}
			continue
		}
		payloads[n] = true
	}
	if locks > 1 {
		t.Errorf("invariants: %d lock files present", locks)
	}

	for pos := range live {
		ref := lut.Slot(pos)
		if !payloads[ref] {
			t.Errorf("invariants: no payload file for live reference %q", ref)
		}
		delete(payloads, ref)
	}
	for orphan := range payloads {
		t.Errorf("invariants: payload file %q has no live slot", orphan)
	}
}
