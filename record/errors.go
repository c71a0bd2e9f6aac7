package record

import "github.com/pkg/errors"

var (
	// ErrInvalidEnum is returned for a field value outside its defined set.
	ErrInvalidEnum = errors.New("record: invalid enumeration value")

	// ErrUnsupported is returned for a layout the decoder cannot size.
	ErrUnsupported = errors.New("record: unsupported layout")

	// ErrBadLength is returned when a length field disagrees with the
	// bytes that follow it.
	ErrBadLength = errors.New("record: length field out of range")
)
