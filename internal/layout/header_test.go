package layout

import (
	"encoding/binary"
	"strings"
	"testing"
)

func TestHeaderRoundTrip(t *testing.T) {
	h := NewHeader(8, 256, FlagRandomAccess)
	h.NumEntries = 3
	h.HeadOffs = 6
	h.TailOffs = 0
	h.SeekOffs = 7
	h.RefCount = 41
	h.Size = 1234

	buf := h.Marshal()
	if len(buf) != HeaderSize {
		t.Fatalf("Marshal() length = %d, want %d", len(buf), HeaderSize)
	}

	got, err := UnmarshalHeader(buf)
	if err != nil {
		t.Fatalf("UnmarshalHeader() error = %v", err)
	}

	if *got != *h {
		t.Errorf("round trip mismatch: got %+v, want %+v", got, h)
	}
}

func TestHeaderRoundTrip_Empty(t *testing.T) {
	h := NewHeader(1, 1, 0)

	got, err := UnmarshalHeader(h.Marshal())
	if err != nil {
		t.Fatalf("UnmarshalHeader() error = %v", err)
	}
	if !got.Empty() {
		t.Error("Empty() = false for a fresh header")
	}
}

func TestUnmarshalHeader_CorruptCRC(t *testing.T) {
	buf := NewHeader(4, 64, 0).Marshal()
	buf[8] ^= 0xFF

	if _, err := UnmarshalHeader(buf); err == nil {
		t.Fatal("UnmarshalHeader() accepted corrupted data")
	} else if !strings.Contains(err.Error(), "CRC") {
		t.Errorf("error = %v, want CRC mismatch", err)
	}
}

func TestUnmarshalHeader_BadMagic(t *testing.T) {
	buf := NewHeader(4, 64, 0).Marshal()
	binary.LittleEndian.PutUint32(buf[0:], 0xDEADBEEF)
	// Recompute the CRC so the magic check is what fails.
	binary.LittleEndian.PutUint32(buf[HeaderSize-4:], ComputeCRC32C(buf[:HeaderSize-4]))

	if _, err := UnmarshalHeader(buf); err == nil {
		t.Fatal("UnmarshalHeader() accepted bad magic")
	}
}

func TestUnmarshalHeader_Short(t *testing.T) {
	if _, err := UnmarshalHeader(make([]byte, HeaderSize-1)); err == nil {
		t.Fatal("UnmarshalHeader() accepted short buffer")
	}
}

func TestHeaderValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Header)
		wantErr bool
	}{
		{"valid", func(*Header) {}, false},
		{"zero version", func(h *Header) { h.Version = 0 }, true},
		{"future version", func(h *Header) { h.Version = CurrentVersion + 1 }, true},
		{"zero capacity", func(h *Header) { h.MaxEntries = 0 }, true},
		{"zero entry size", func(h *Header) { h.MaxEntrySize = 0 }, true},
		{"overfull", func(h *Header) { h.NumEntries = 9 }, true},
		{"head out of range", func(h *Header) { h.HeadOffs = 8 }, true},
		{"seek out of range", func(h *Header) { h.SeekOffs = 200 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHeader(8, 64, 0)
			tt.mutate(h)
			err := h.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr = %v", err, tt.wantErr)
			}
		})
	}
}

func TestHeaderRing(t *testing.T) {
	h := NewHeader(3, 64, 0)

	if got := h.Next(0); got != 1 {
		t.Errorf("Next(0) = %d, want 1", got)
	}
	if got := h.Next(2); got != 0 {
		t.Errorf("Next(2) = %d, want 0 (wrap)", got)
	}

	h.NumEntries = 3
	if !h.Full() {
		t.Error("Full() = false at capacity")
	}
}

func TestHeaderSeekable(t *testing.T) {
	if NewHeader(4, 64, FlagMessageLog).Seekable() {
		t.Error("Seekable() = true without FlagRandomAccess")
	}
	if !NewHeader(4, 64, FlagRandomAccess).Seekable() {
		t.Error("Seekable() = false with FlagRandomAccess")
	}
}
