package simd

import "encoding/binary"

// IsASCII checks if all bytes in the slice are ASCII (< 0x80).
// Returns true if all bytes have the high bit clear (values 0x00-0x7F).
//
// Uses SWAR (SIMD Within A Register) technique, processing 8 bytes at a time
// using uint64 bitwise operations. This is critical for UTF-8 optimization in
// the regex engine: when input is ASCII-only, the engine can skip UTF-8
// decoding overhead and use simplified automata (1 byte-range state for '.'
// instead of a multi-state UTF-8 decomposition).
//
// Performance: ~10 GB/s on modern CPUs (memory bandwidth limited for large inputs).
func IsASCII(data []byte) bool {
	dataLen := len(data)
	if dataLen == 0 {
		return true
	}

	if dataLen < 8 {
		for i := 0; i < dataLen; i++ {
			if data[i] >= 0x80 {
				return false
			}
		}
		return true
	}

	// ASCII bytes have bit 7 clear (0x00-0x7F); non-ASCII bytes have it set.
	// AND with 0x8080808080808080 extracts all high bits at once.
	const hi8 = uint64(0x8080808080808080)

	idx := 0
	for idx+8 <= dataLen {
		chunk := binary.LittleEndian.Uint64(data[idx:])
		if chunk&hi8 != 0 {
			return false
		}
		idx += 8
	}

	for idx < dataLen {
		if data[idx] >= 0x80 {
			return false
		}
		idx++
	}

	return true
}

// CountNonASCII returns the number of non-ASCII bytes in the slice.
func CountNonASCII(data []byte) int {
	count := 0
	for _, b := range data {
		if b >= 0x80 {
			count++
		}
	}
	return count
}

// FirstNonASCII returns the index of the first non-ASCII byte, or -1 if all bytes are ASCII.
func FirstNonASCII(data []byte) int {
	for i, b := range data {
		if b >= 0x80 {
			return i
		}
	}
	return -1
}
