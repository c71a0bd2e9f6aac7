package biff

// Sizer is an interface for types that can report the size of their
// logical payload. Record encoders use it to allocate exactly once.
type Sizer interface {
	// DataSize returns the payload size in bytes, excluding record headers.
	DataSize() int
}

// Serializer is a payload that can write itself field by field.
type Serializer interface {
	Sizer
	// Serialize writes the payload. Strings and other indivisible regions
	// are marked on w so the payload can be split across records.
	Serialize(w *Writer)
}
