package biff

import (
	"encoding/binary"

	"golang.org/x/exp/constraints"
)

var (
	LE = binary.LittleEndian
	// Order is the byte order of every BIFF field.
	Order = LE
)

const BUFFER_SIZE = 4096

var empty [BUFFER_SIZE]byte

// CeilDiv returns n/d rounded towards positive infinity for non-negative n.
func CeilDiv[T constraints.Integer](n, d T) T {
	if n <= 0 {
		return 0
	}
	return (n + d - 1) / d
}

// CHUNK_SIZE is the default read buffer of a stream Reader.
const CHUNK_SIZE = 16 * 1024
