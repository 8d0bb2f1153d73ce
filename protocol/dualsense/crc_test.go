package dualsense_test

import (
	"hash/crc32"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mantukin/dx3/protocol/dualsense"
)

func TestCRC32MatchesStdlib(t *testing.T) {
	payloads := [][]byte{
		{},
		{0x00},
		{0x31, 0x02, 0xFF, 0x15},
		{0xDE, 0xAD, 0xBE, 0xEF, 0x00, 0x01, 0x02, 0x03},
	}
	for _, p := range payloads {
		assert.Equal(t, crc32.ChecksumIEEE(p), dualsense.CRC32(p))
	}
}

func TestCRC32BTIncludesPhantomHeader(t *testing.T) {
	payload := []byte{0x31, 0x12, 0xFF, 0x15, 0x00, 0x00}

	// The firmware checksums the Bluetooth HID header byte 0xA2 even though
	// hidapi strips it from the payload.
	withHeader := append([]byte{0xA2}, payload...)
	assert.Equal(t, crc32.ChecksumIEEE(withHeader), dualsense.CRC32BT(payload))
	assert.NotEqual(t, dualsense.CRC32(payload), dualsense.CRC32BT(payload))
}

func TestCRC32BTAvalanche(t *testing.T) {
	payload := make([]byte, 74)
	payload[0] = 0x31
	base := dualsense.CRC32BT(payload)

	flipped := make([]byte, 74)
	copy(flipped, payload)
	flipped[46] = 0x01
	assert.NotEqual(t, base, dualsense.CRC32BT(flipped))
}
