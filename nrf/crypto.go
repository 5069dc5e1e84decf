package nrf

import (
	"crypto/sha256"
	"hash/crc32"
)

func sha256Sum(b []byte) []byte {
	h := sha256.Sum256(b)
	return h[:]
}

// regionCrc is the CRC-32 (IEEE) the bootloader settings use for images.
func regionCrc(b []byte) uint32 {
	return crc32.ChecksumIEEE(b)
}
