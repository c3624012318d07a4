// Package hashutil computes the content identities used to match local
// files against registry records: SHA-1 for Modrinth and the whitespace
// stripped murmur2 fingerprint for CurseForge.
package hashutil

import (
	"crypto/sha1"
	"fmt"
)

// SHA1Bytes calculates the SHA-1 checksum of a byte slice as lowercase hex.
func SHA1Bytes(data []byte) string {
	return fmt.Sprintf("%x", sha1.Sum(data))
}

// Fingerprint computes the CurseForge fingerprint of file content:
// MurmurHash2 with seed 1 over the bytes with tab, LF, CR and space
// removed. This matches the value the CurseForge API reports per file.
func Fingerprint(data []byte) uint64 {
	stripped := make([]byte, 0, len(data))
	for _, b := range data {
		switch b {
		case 9, 10, 13, 32:
			continue
		}
		stripped = append(stripped, b)
	}
	return uint64(murmur2(stripped, 1))
}

// murmur2 is the classic 32-bit MurmurHash2 by Austin Appleby, the variant
// CurseForge uses for file fingerprints.
func murmur2(data []byte, seed uint32) uint32 {
	const m = 0x5bd1e995
	const r = 24

	length := uint32(len(data))
	h := seed ^ length

	i := 0
	for ; length >= 4; length -= 4 {
		k := uint32(data[i]) | uint32(data[i+1])<<8 | uint32(data[i+2])<<16 | uint32(data[i+3])<<24
		k *= m
		k ^= k >> r
		k *= m
		h *= m
		h ^= k
		i += 4
	}

	switch length {
	case 3:
		h ^= uint32(data[i+2]) << 16
		fallthrough
	case 2:
		h ^= uint32(data[i+1]) << 8
		fallthrough
	case 1:
		h ^= uint32(data[i])
		h *= m
	}

	h ^= h >> 13
	h *= m
	h ^= h >> 15

	return h
}
