package lockfile

import (
	"testing"

	"github.com/rmmiranda/DataQueue/internal/fsport"
)

func setup(t *testing.T) (*Manager, string) {
	t.Helper()
	fs := fsport.NewMemory()
	if err := fs.Mkdir("/q"); err != nil {
		t.Fatalf("Mkdir() error = %v", err)
	}
	return NewManager(fs), "/q"
}

func TestInspect_Unlocked(t *testing.T) {
	m, dir := setup(t)

	state, err := m.Inspect(dir)
	if err != nil {
		t.Fatalf("Inspect() error = %v", err)
	}
	if state.Any() {
		t.Errorf("Any() = true on an unlocked directory: %+v", state)
	}
}

func TestAcquireRead_CountsReaders(t *testing.T) {
	m, dir := setup(t)

	if err := m.AcquireRead(dir); err != nil {
		t.Fatalf("AcquireRead() #1 error = %v", err)
	}
	state, err := m.Inspect(dir)
	if err != nil {
		t.Fatalf("Inspect() error = %v", err)
	}
	if state.Readers != 1 {
		t.Errorf("Readers = %d after one acquire, want 1", state.Readers)
	}

	if err := m.AcquireRead(dir); err != nil {
		t.Fatalf("AcquireRead() #2 error = %v", err)
	}
	state, _ = m.Inspect(dir)
	if state.Readers != 2 {
		t.Errorf("Readers = %d after two acquires, want 2", state.Readers)
	}
}

func TestReleaseRead(t *testing.T) {
	m, dir := setup(t)

	if err := m.AcquireRead(dir); err != nil {
		t.Fatalf("AcquireRead() error = %v", err)
	}
	if err := m.AcquireRead(dir); err != nil {
		t.Fatalf("AcquireRead() error = %v", err)
	}

	if err := m.ReleaseRead(dir); err != nil {
		t.Fatalf("ReleaseRead() #1 error = %v", err)
	}
	state, _ := m.Inspect(dir)
	if state.Readers != 1 {
		t.Errorf("Readers = %d after one release, want 1", state.Readers)
	}

	if err := m.ReleaseRead(dir); err != nil {
		t.Fatalf("ReleaseRead() #2 error = %v", err)
	}
	state, _ = m.Inspect(dir)
	if state.Any() {
		t.Errorf("lock state %+v after final release, want none", state)
	}
}

func TestAcquireExclusive(t *testing.T) {
	m, dir := setup(t)

	if err := m.AcquireExclusive(dir, WriteLockName); err != nil {
		t.Fatalf("AcquireExclusive() error = %v", err)
	}

	state, err := m.Inspect(dir)
	if err != nil {
		t.Fatalf("Inspect() error = %v", err)
	}
	if !state.WriteHeld || !state.Exclusive() {
		t.Errorf("state = %+v, want write held", state)
	}

	err = m.AcquireExclusive(dir, WriteLockName)
	if err == nil {
		t.Fatal("AcquireExclusive() succeeded while already held")
	}
	if !fsport.IsExist(err) {
		t.Errorf("collision error = %v, want exist", err)
	}
}

func TestReleaseExclusive(t *testing.T) {
	for _, name := range []string{WriteLockName, ReadWriteLockName} {
		m, dir := setup(t)

		if err := m.AcquireExclusive(dir, name); err != nil {
			t.Fatalf("AcquireExclusive(%s) error = %v", name, err)
		}
		if err := m.ReleaseExclusive(dir); err != nil {
			t.Fatalf("ReleaseExclusive() error = %v", err)
		}

		state, _ := m.Inspect(dir)
		if state.Any() {
			t.Errorf("lock state %+v after release of %s, want none", state, name)
		}
	}
}

func TestState(t *testing.T) {
	tests := []struct {
		state     State
		any       bool
		exclusive bool
	}{
		{State{}, false, false},
		{State{Readers: 1}, true, false},
		{State{WriteHeld: true}, true, true},
		{State{ReadWriteHeld: true}, true, true},
	}

	for _, tt := range tests {
		if got := tt.state.Any(); got != tt.any {
			t.Errorf("%+v Any() = %v, want %v", tt.state, got, tt.any)
		}
		if got := tt.state.Exclusive(); got != tt.exclusive {
			t.Errorf("%+v Exclusive() = %v, want %v", tt.state, got, tt.exclusive)
		}
	}
}
