// Package hash provides the content fingerprints used for string
// deduplication and opaque record identity.
package hash

import "github.com/cespare/xxhash/v2"

// ID computes the xxHash64 of the given string.
func ID(data string) uint64 {
	return xxhash.Sum64String(data)
}

// Record fingerprints a record payload together with its sid, so equal
// bytes under different sids never collide.
func Record(sid uint16, data []byte) uint64 {
	d := xxhash.New()
	_, _ = d.Write([]byte{byte(sid), byte(sid >> 8)})
	_, _ = d.Write(data)
	return d.Sum64()
}
