package layout

import (
	"bytes"
	"fmt"
)

// LUTEntrySize is the width of one LUT slot in bytes. A slot holds a
// fixed-width decimal reference string, or all zero bytes when empty.
const LUTEntrySize = 4

// LUTFileSizeMax bounds the in-memory LUT buffer for the largest
// possible queue.
const LUTFileSizeMax = 256 * LUTEntrySize

// LUT is the in-memory mirror of a queue's lookup table file: a circular
// array of MaxEntries fixed-width slots mapping ring positions to payload
// file references. It is read and written whole.
type LUT struct {
	buf        []byte
	maxEntries uint8
}

// NewLUT returns a zeroed LUT for a queue of the given capacity.
func NewLUT(maxEntries uint8) *LUT {
	return &LUT{
		buf:        make([]byte, int(maxEntries)*LUTEntrySize),
		maxEntries: maxEntries,
	}
}

// LoadLUT wraps the raw contents of a LUT file.
func LoadLUT(data []byte, maxEntries uint8) (*LUT, error) {
	want := int(maxEntries) * LUTEntrySize
	if len(data) != want {
		return nil, fmt.Errorf("lut size mismatch: %d bytes, want %d", len(data), want)
	}
	return &LUT{buf: data, maxEntries: maxEntries}, nil
}

// Bytes returns the raw buffer to be written back to the LUT file.
func (l *LUT) Bytes() []byte {
	return l.buf
}

var emptySlot [LUTEntrySize]byte

// Slot returns the reference stored at ring position i, or "" if the
// slot is empty.
func (l *LUT) Slot(i uint8) string {
	s := l.buf[int(i)*LUTEntrySize : int(i)*LUTEntrySize+LUTEntrySize]
	if bytes.Equal(s, emptySlot[:]) {
		return ""
	}
	return string(s)
}

// SetSlot stores a reference at ring position i.
func (l *LUT) SetSlot(i uint8, ref string) {
	copy(l.buf[int(i)*LUTEntrySize:], ref[:LUTEntrySize])
}

// ClearSlot marks ring position i empty.
func (l *LUT) ClearSlot(i uint8) {
	copy(l.buf[int(i)*LUTEntrySize:], emptySlot[:])
}

// Occupied counts the non-empty slots.
func (l *LUT) Occupied() int {
	n := 0
	for i := uint8(0); i < l.maxEntries; i++ {
		if l.Slot(i) != "" {
			n++
		}
	}
	return n
}

// Contains reports whether any live slot holds the given reference.
func (l *LUT) Contains(ref string) bool {
	for i := uint8(0); i < l.maxEntries; i++ {
		if l.Slot(i) == ref {
			return true
		}
	}
	return false
}
