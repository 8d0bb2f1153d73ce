package dualsense

// CRC32 is the standard reflected CRC-32 (poly 0xEDB88320, init 0xFFFFFFFF,
// final complement) over data. It exists for completeness and for probing
// non-Bluetooth transports; the wire checksum is CRC32BT.
func CRC32(data []byte) uint32 {
	crc := ^uint32(0)
	for _, b := range data {
		crc = crcByte(crc, b)
	}
	return ^crc
}

// CRC32BT computes the checksum the DualSense firmware expects on Bluetooth
// output reports. The Bluetooth HID transport prepends an output-report
// header byte (0xA2) that is stripped before the payload reaches this code,
// but the controller includes it in the checksum. Omitting the phantom byte
// produces a CRC the hardware rejects.
func CRC32BT(data []byte) uint32 {
	crc := crcByte(^uint32(0), phantomHeaderVal)
	for _, b := range data {
		crc = crcByte(crc, b)
	}
	return ^crc
}

func crcByte(crc uint32, b byte) uint32 {
	crc ^= uint32(b)
	for i := 0; i < 8; i++ {
		if crc&1 != 0 {
			crc = (crc >> 1) ^ 0xEDB88320
		} else {
			crc >>= 1
		}
	}
	return crc
}
