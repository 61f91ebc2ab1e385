package byteutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestU8(t *testing.T) {
	buf := []byte{0x01, 0x02, 0x03}
	assert.Equal(t, byte(0x02), U8(buf, 1))
	assert.Equal(t, byte(0), U8(buf, 3))
	assert.Equal(t, byte(0), U8(buf, -1))
	assert.Equal(t, byte(0), U8(nil, 0))
}

func TestU16LE(t *testing.T) {
	buf := []byte{0x34, 0x12}
	assert.Equal(t, uint16(0x1234), U16LE(buf, 0))
	assert.Equal(t, uint16(0), U16LE(buf, 1))
	assert.Equal(t, uint16(0), U16LE(buf, -1))
}

func TestU24LE(t *testing.T) {
	buf := []byte{0x01, 0x02, 0x03, 0x04}
	assert.Equal(t, uint32(0x030201), U24LE(buf, 0))
	assert.Equal(t, uint32(0), U24LE(buf, 2))
}

func TestU24BE(t *testing.T) {
	buf := []byte{0x01, 0x02, 0x03, 0x04}
	assert.Equal(t, uint32(0x010203), U24BE(buf, 0))
	assert.Equal(t, uint32(0), U24BE(buf, 2))
}
