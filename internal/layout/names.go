package layout

// File names inside a queue directory.
const (
	// HeaderFileName is the fixed metadata record.
	HeaderFileName = ".header"

	// LUTFileName is the circular lookup table.
	LUTFileName = ".lut"
)
