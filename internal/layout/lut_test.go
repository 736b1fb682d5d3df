package layout

import "testing"

func TestLUTSlots(t *testing.T) {
	lut := NewLUT(4)

	if got := lut.Slot(0); got != "" {
		t.Errorf("Slot(0) = %q on a fresh LUT, want empty", got)
	}

	lut.SetSlot(2, "0042")
	if got := lut.Slot(2); got != "0042" {
		t.Errorf("Slot(2) = %q, want %q", got, "0042")
	}
	if got := lut.Occupied(); got != 1 {
		t.Errorf("Occupied() = %d, want 1", got)
	}

	lut.ClearSlot(2)
	if got := lut.Slot(2); got != "" {
		t.Errorf("Slot(2) = %q after clear, want empty", got)
	}
	if got := lut.Occupied(); got != 0 {
		t.Errorf("Occupied() = %d after clear, want 0", got)
	}
}

func TestLUTContains(t *testing.T) {
	lut := NewLUT(8)
	lut.SetSlot(0, "0001")
	lut.SetSlot(7, "9999")

	if !lut.Contains("0001") || !lut.Contains("9999") {
		t.Error("Contains() missed a live reference")
	}
	if lut.Contains("0002") {
		t.Error("Contains() reported a reference that was never stored")
	}
}

func TestLoadLUT(t *testing.T) {
	src := NewLUT(3)
	src.SetSlot(1, "0007")

	lut, err := LoadLUT(src.Bytes(), 3)
	if err != nil {
		t.Fatalf("LoadLUT() error = %v", err)
	}
	if got := lut.Slot(1); got != "0007" {
		t.Errorf("Slot(1) = %q, want %q", got, "0007")
	}
}

func TestLoadLUT_SizeMismatch(t *testing.T) {
	if _, err := LoadLUT(make([]byte, 5), 3); err == nil {
		t.Fatal("LoadLUT() accepted a buffer of the wrong size")
	}
}
