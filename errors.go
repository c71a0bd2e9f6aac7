package biff

import (
	"errors"
	"fmt"
)

var (
	// ErrNilIO indicates that NewReader/NewWriter was called with an nil interface
	ErrNilIO = errors.New("biff: NewReader/NewWriter called with a nil io.Reader/io.Writer")

	// ErrSizeTooSmall indicates a size conflict with bufio
	ErrSizeTooSmall = errors.New("biff: NewReaderSize with a size smaller than 16 conflict with bufio")

	// ErrAlreadyBuffered indicates that NewReader/NewWriter was called with an already-buffered
	// reader/writer, which would lead to unpredictable behavior and performance issues.
	ErrAlreadyBuffered = errors.New("biff: reader or writer is already buffered")

	// ErrOutOfData is latched by a Cursor or Reader when a typed read needs
	// more bytes than the payload or stream still holds.
	ErrOutOfData = errors.New("biff: out of data")

	// ErrTruncatedData indicates a fixed-layout body shorter than its declared struct.
	ErrTruncatedData = errors.New("biff: truncated data")

	// ErrFraming is the parent of every error that makes the record stream
	// itself ambiguous. Decoding of the remaining stream is abandoned.
	ErrFraming = errors.New("biff: framing error")

	// ErrTruncatedRecord indicates a record header whose length field reads
	// past the end of the source.
	ErrTruncatedRecord = fmt.Errorf("%w: record runs past end of stream", ErrFraming)

	// ErrRecordTooLarge indicates a physical record longer than MaxRecordLength.
	ErrRecordTooLarge = fmt.Errorf("%w: record length exceeds maximum", ErrFraming)

	// ErrInvalidMaxDataSize is returned by WithMaxDataSize for a size the
	// format cannot represent.
	ErrInvalidMaxDataSize = errors.New("biff: max data size out of range")

	// ErrStringTooLong is latched by a Writer when a string has more
	// characters than its count field can hold.
	ErrStringTooLong = errors.New("biff: string too long for its count field")

	// ErrBadSpan indicates a Body whose layout hints overlap or leave the payload.
	ErrBadSpan = errors.New("biff: span outside payload or out of order")
)
