package layout

import (
	"errors"
	"fmt"
)

// referenceSpace is the number of distinct reference strings the fixed
// slot width can express.
const referenceSpace = 10000 // 10^LUTEntrySize

// ErrNoReference is returned when every reference name is held by a live
// entry. Unreachable while MaxEntries < referenceSpace.
var ErrNoReference = errors.New("layout: reference space exhausted")

// FormatReference renders a reference counter value as the fixed-width
// zero-padded decimal string used for both the LUT slot and the payload
// filename. Only the low digits are kept, so names revolve through
// "0000".."9999".
func FormatReference(count uint16) string {
	return fmt.Sprintf("%0*d", LUTEntrySize, uint32(count)%referenceSpace)
}

// MintReference advances the header's reference counter and returns the
// next payload reference. The counter's low digits repeat after the
// reference space wraps, so minting probes the LUT and skips names still
// held by a live entry.
func MintReference(h *Header, lut *LUT) (string, error) {
	for probe := 0; probe < referenceSpace; probe++ {
		h.RefCount++
		ref := FormatReference(h.RefCount)
		if !lut.Contains(ref) {
			return ref, nil
		}
	}
	return "", ErrNoReference
}
