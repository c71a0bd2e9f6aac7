package hash

import (
	"testing"

	"github.com/cespare/xxhash/v2"
	"github.com/stretchr/testify/assert"
)

func TestID(t *testing.T) {
	tests := []struct {
		name string
		data string
		id   uint64
	}{
		{"empty string", "", 0xef46db3751d8e999},
		{"short string", "test", 0x4fdcca5ddb678139},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.id, ID(tt.data))
		})
	}
}

func TestRecord(t *testing.T) {
	data := []byte{1, 2, 3}
	assert.Equal(t, Record(0x0031, data), Record(0x0031, data))
	assert.NotEqual(t, Record(0x0031, data), Record(0x0032, data))
	assert.Equal(t, xxhash.Sum64(append([]byte{0x31, 0x00}, data...)), Record(0x0031, data))
}

func BenchmarkID(b *testing.B) {
	s := "Rate_Date and some other shared string"
	for b.Loop() {
		ID(s)
	}
}
