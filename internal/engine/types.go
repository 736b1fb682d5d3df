package engine

import "github.com/rmmiranda/DataQueue/internal/layout"

// Access is the access type a queue is opened with.
type Access int

const (
	// ReadOnly allows Seek, GetEntry and GetLength. Multiple read-only
	// openers may share a queue.
	ReadOnly Access = iota

	// WriteOnly allows Enqueue, Dequeue and GetLength. Exclusive.
	WriteOnly

	// ReadWrite allows every operation. Exclusive.
	ReadWrite
)

// Valid reports whether the access type is one of the closed set.
func (a Access) Valid() bool {
	switch a {
	case ReadOnly, WriteOnly, ReadWrite:
		return true
	}
	return false
}

// CanRead reports whether the access type permits reading operations.
func (a Access) CanRead() bool {
	return a == ReadOnly || a == ReadWrite
}

// CanWrite reports whether the access type permits mutating operations.
func (a Access) CanWrite() bool {
	return a == WriteOnly || a == ReadWrite
}

// String returns the access type name.
func (a Access) String() string {
	switch a {
	case ReadOnly:
		return "read-only"
	case WriteOnly:
		return "write-only"
	case ReadWrite:
		return "read-write"
	default:
		return "invalid"
	}
}

// Mode is the access mode a queue is opened with.
type Mode int

const (
	// Unpacked moves payload bytes as-is.
	Unpacked Mode = iota

	// BinaryPacked marks payloads as packed binary records.
	BinaryPacked
)

// Valid reports whether the mode is one of the closed set.
func (m Mode) Valid() bool {
	switch m {
	case Unpacked, BinaryPacked:
		return true
	}
	return false
}

// SeekType selects the target of a Seek operation.
type SeekType int

const (
	// SeekHead positions the cursor on the oldest entry.
	SeekHead SeekType = iota

	// SeekTail positions the cursor on the newest entry.
	SeekTail

	// SeekPosition positions the cursor a given distance from the head.
	SeekPosition
)

// Valid reports whether the seek type is one of the closed set.
func (s SeekType) Valid() bool {
	switch s {
	case SeekHead, SeekTail, SeekPosition:
		return true
	}
	return false
}

// Queue characteristic flags, persisted in the header.
const (
	// FlagMessageLog marks the queue as holding log-style messages.
	FlagMessageLog = layout.FlagMessageLog

	// FlagRandomAccess enables the seek cursor and Seek operation.
	FlagRandomAccess = layout.FlagRandomAccess
)
