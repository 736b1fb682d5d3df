package engine

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestDequeue_FIFOOrder(t *testing.T) {
	e := newTestEngine(t)
	mustCreate(t, e, "q", 8, 64, 0)
	h := mustOpen(t, e, "q", ReadWrite, BinaryPacked)

	want := []string{"first", "second", "third", "fourth"}
	for _, s := range want {
		mustEnqueue(t, e, h, s)
	}

	for i, s := range want {
		got := mustDequeue(t, e, h)
		if got != s {
			t.Errorf("Dequeue() #%d = %q, want %q", i, got, s)
		}
		checkInvariants(t, e, "q")
	}

	// Draining the queue removes every payload file.
	names, err := e.fs.List(filepath.Join(testBase, "q"))
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	for _, n := range names {
		if n[0] != '.' {
			t.Errorf("payload file %q left after draining", n)
		}
	}
}

func TestDequeue_Empty(t *testing.T) {
	e := newTestEngine(t)
	mustCreate(t, e, "q", 4, 64, 0)
	h := mustOpen(t, e, "q", ReadWrite, BinaryPacked)

	if _, err := e.Dequeue(h); !errors.Is(err, ErrQueueEmpty) {
		t.Errorf("Dequeue() on empty queue error = %v, want ErrQueueEmpty", err)
	}
}

func TestDequeue_RequiresWriteAccess(t *testing.T) {
	e := newTestEngine(t)
	mustCreate(t, e, "q", 4, 64, 0)
	h := mustOpen(t, e, "q", ReadOnly, BinaryPacked)

	if _, err := e.Dequeue(h); !errors.Is(err, ErrQueueReadOnly) {
		t.Errorf("Dequeue() on read-only handle error = %v, want ErrQueueReadOnly", err)
	}
}

func TestDequeue_ReturnsExactPayload(t *testing.T) {
	e := newTestEngine(t)
	mustCreate(t, e, "q", 4, 64, 0)
	h := mustOpen(t, e, "q", ReadWrite, BinaryPacked)

	payload := []byte{0x00, 0x01, 0xFF, 0x7F, 0x00}
	if err := e.Enqueue(h, payload); err != nil {
		t.Fatalf("Enqueue() error = %v", err)
	}

	got, err := e.Dequeue(h)
	if err != nil {
		t.Fatalf("Dequeue() error = %v", err)
	}
	if len(got) != len(payload) {
		t.Fatalf("Dequeue() returned %d bytes, want %d", len(got), len(payload))
	}
	for i := range payload {
		if got[i] != payload[i] {
			t.Fatalf("Dequeue() byte %d = %#x, want %#x", i, got[i], payload[i])
		}
	}
}

func TestEnqueueDequeue_RoundTrip(t *testing.T) {
	e := newTestEngine(t)
	mustCreate(t, e, "q", 4, 64, FlagRandomAccess)
	h := mustOpen(t, e, "q", ReadWrite, BinaryPacked)

	mustEnqueue(t, e, h, "hello")

	n, err := e.Length(h)
	if err != nil {
		t.Fatalf("Length() error = %v", err)
	}
	if n != 1 {
		t.Errorf("Length() = %d, want 1", n)
	}

	if got := mustDequeue(t, e, h); got != "hello" {
		t.Errorf("Dequeue() = %q, want %q", got, "hello")
	}

	if err := e.Close(h); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := e.Destroy("q"); err != nil {
		t.Fatalf("Destroy() error = %v", err)
	}
}

func TestLength_RequiresSomeLock(t *testing.T) {
	e := newTestEngine(t)
	mustCreate(t, e, "q", 4, 64, 0)
	h := mustOpen(t, e, "q", ReadOnly, BinaryPacked)

	// Simulate the lock vanishing out from under the handle.
	if err := e.fs.Remove(filepath.Join(testBase, "q", ".rolock")); err != nil {
		t.Fatalf("remove lock: %v", err)
	}

	if _, err := e.Length(h); !errors.Is(err, ErrQueueClosed) {
		t.Errorf("Length() without any lock error = %v, want ErrQueueClosed", err)
	}
}
