package layout

import (
	"encoding/binary"
	"fmt"
)

// HeaderSize is the fixed size of the queue header record (28 bytes).
const HeaderSize = 28

// HeaderMagic identifies a queue header file ("DQUH").
const HeaderMagic = 0x44515548

// CurrentVersion is the header format version written by this package.
const CurrentVersion = 1

// Flag bits stored in the header Flags field.
const (
	// FlagMessageLog marks the queue as holding log-style messages.
	FlagMessageLog uint16 = 0x0001

	// FlagRandomAccess enables the seek cursor and Seek operation.
	FlagRandomAccess uint16 = 0x0002
)

// MaxEntriesLimit is the largest LUT capacity a queue may be created with.
const MaxEntriesLimit = 255

// Header is the persistent metadata record of a queue.
//
// Binary format (little-endian, 28 bytes):
//
//	[Magic:4][Version:2][Flags:2][Size:4][MaxEntrySize:4]
//	[MaxEntries:1][NumEntries:1][HeadOffs:1][TailOffs:1][SeekOffs:1][_:1]
//	[RefCount:2][CRC:4]
type Header struct {
	// Version is the header format version.
	Version uint16

	// Flags is the queue characteristics bitmask.
	Flags uint16

	// Size is the total number of live payload bytes persisted.
	Size uint32

	// MaxEntrySize caps the size of each enqueued payload.
	MaxEntrySize uint32

	// MaxEntries is the LUT capacity (1..255).
	MaxEntries uint8

	// NumEntries is the count of live entries (0..MaxEntries).
	NumEntries uint8

	// HeadOffs is the LUT index of the oldest live entry.
	HeadOffs uint8

	// TailOffs is the LUT index of the newest live entry.
	TailOffs uint8

	// SeekOffs is the LUT index the next GetEntry reads from.
	SeekOffs uint8

	// RefCount mints payload file references. It increases with every
	// minted reference and, being 16 bits wide, wraps to 0 after 65535.
	RefCount uint16
}

// NewHeader returns the header of a freshly created, empty queue.
func NewHeader(maxEntries uint8, maxEntrySize uint32, flags uint16) *Header {
	return &Header{
		Version:      CurrentVersion,
		Flags:        flags,
		MaxEntrySize: maxEntrySize,
		MaxEntries:   maxEntries,
	}
}

// Marshal encodes the header into its 28-byte binary form with a trailing
// CRC32C checksum.
func (h *Header) Marshal() []byte {
	buf := make([]byte, HeaderSize)
	offset := 0

	binary.LittleEndian.PutUint32(buf[offset:], HeaderMagic)
	offset += 4
	binary.LittleEndian.PutUint16(buf[offset:], h.Version)
	offset += 2
	binary.LittleEndian.PutUint16(buf[offset:], h.Flags)
	offset += 2
	binary.LittleEndian.PutUint32(buf[offset:], h.Size)
	offset += 4
	binary.LittleEndian.PutUint32(buf[offset:], h.MaxEntrySize)
	offset += 4
	buf[offset] = h.MaxEntries
	offset++
	buf[offset] = h.NumEntries
	offset++
	buf[offset] = h.HeadOffs
	offset++
	buf[offset] = h.TailOffs
	offset++
	buf[offset] = h.SeekOffs
	offset++
	offset++ // reserved byte

	binary.LittleEndian.PutUint16(buf[offset:], h.RefCount)
	offset += 2

	crc := ComputeCRC32C(buf[:offset])
	binary.LittleEndian.PutUint32(buf[offset:], crc)

	return buf
}

// UnmarshalHeader decodes and validates a header record.
func UnmarshalHeader(data []byte) (*Header, error) {
	if len(data) < HeaderSize {
		return nil, fmt.Errorf("header too short: %d bytes, want %d", len(data), HeaderSize)
	}

	storedCRC := binary.LittleEndian.Uint32(data[HeaderSize-4:])
	computedCRC := ComputeCRC32C(data[:HeaderSize-4])
	if storedCRC != computedCRC {
		return nil, fmt.Errorf("header CRC mismatch: stored=%08x computed=%08x", storedCRC, computedCRC)
	}

	offset := 0
	magic := binary.LittleEndian.Uint32(data[offset:])
	if magic != HeaderMagic {
		return nil, fmt.Errorf("bad header magic: %08x", magic)
	}
	offset += 4

	h := &Header{}
	h.Version = binary.LittleEndian.Uint16(data[offset:])
	offset += 2
	h.Flags = binary.LittleEndian.Uint16(data[offset:])
	offset += 2
	h.Size = binary.LittleEndian.Uint32(data[offset:])
	offset += 4
	h.MaxEntrySize = binary.LittleEndian.Uint32(data[offset:])
	offset += 4
	h.MaxEntries = data[offset]
	offset++
	h.NumEntries = data[offset]
	offset++
	h.HeadOffs = data[offset]
	offset++
	h.TailOffs = data[offset]
	offset++
	h.SeekOffs = data[offset]
	offset += 2 // skip reserved byte
	h.RefCount = binary.LittleEndian.Uint16(data[offset:])

	if err := h.Validate(); err != nil {
		return nil, err
	}

	return h, nil
}

// Validate checks the header for internal consistency.
func (h *Header) Validate() error {
	if h.Version == 0 || h.Version > CurrentVersion {
		return fmt.Errorf("unsupported header version: %d", h.Version)
	}
	if h.MaxEntries == 0 {
		return fmt.Errorf("max entries must be > 0")
	}
	if h.MaxEntrySize == 0 {
		return fmt.Errorf("max entry size must be > 0")
	}
	if h.NumEntries > h.MaxEntries {
		return fmt.Errorf("entry count %d exceeds capacity %d", h.NumEntries, h.MaxEntries)
	}
	if h.HeadOffs >= h.MaxEntries || h.TailOffs >= h.MaxEntries || h.SeekOffs >= h.MaxEntries {
		return fmt.Errorf("ring offsets out of range: head=%d tail=%d seek=%d max=%d",
			h.HeadOffs, h.TailOffs, h.SeekOffs, h.MaxEntries)
	}
	return nil
}

// Empty reports whether the queue holds no entries.
func (h *Header) Empty() bool {
	return h.NumEntries == 0 && h.HeadOffs == h.TailOffs
}

// Full reports whether the queue is at capacity.
func (h *Header) Full() bool {
	return h.NumEntries == h.MaxEntries
}

// Next returns the ring position after i, wrapping at MaxEntries.
func (h *Header) Next(i uint8) uint8 {
	return uint8((uint16(i) + 1) % uint16(h.MaxEntries))
}

// Seekable reports whether the queue was created with random access.
func (h *Header) Seekable() bool {
	return h.Flags&FlagRandomAccess != 0
}
