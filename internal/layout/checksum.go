// Package layout owns the on-disk encoding of a queue: the fixed header
// record, the circular lookup table (LUT) buffer, and the rules for
// minting payload file references.
//
// All multi-byte integers are little-endian. There is no implicit
// padding; every field lives at a documented offset.
package layout

import "hash/crc32"

// CRC32C table using the Castagnoli polynomial, hardware-accelerated on
// modern Intel and ARM processors.
var crc32cTable = crc32.MakeTable(crc32.Castagnoli)

// ComputeCRC32C computes a CRC32C checksum over the given data.
func ComputeCRC32C(data []byte) uint32 {
	return crc32.Checksum(data, crc32cTable)
}
