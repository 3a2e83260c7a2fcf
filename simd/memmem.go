package simd

import "bytes"

// Memmem returns the index of the first instance of needle in haystack,
// or -1 if needle is not present in haystack.
//
// This is a scalar equivalent of bytes.Index: it picks one byte of needle as
// an anchor, scans for it with Memchr, and verifies the full needle at each
// candidate. There is no vector acceleration in this build; the name matches
// the rest of this package's memchr-family functions, which share the same
// scan-then-verify shape.
//
// Algorithm:
//  1. Pick an anchor byte from needle (its last byte; see selectRareByte).
//  2. Use Memchr to find each candidate position for that byte in haystack.
//  3. For each candidate, verify the full needle match with bytes.Equal.
//  4. Return the position of the first verified match, or -1.
//
// Needles longer than 32 bytes take the same path (memmemLong delegates to
// memmemShort) rather than a distinct long-needle algorithm.
//
// Example:
//
//	haystack := []byte("hello world")
//	needle := []byte("world")
//	pos := simd.Memmem(haystack, needle)
//	// pos == 6
//
// Example with not found:
//
//	haystack := []byte("hello world")
//	needle := []byte("xyz")
//	pos := simd.Memmem(haystack, needle)
//	// pos == -1
//
// Example with repeated patterns:
//
//	haystack := []byte("aaaaaabaaaa")
//	needle := []byte("aab")
//	pos := simd.Memmem(haystack, needle)
//	// pos == 4
func Memmem(haystack, needle []byte) int {
	// Edge cases
	needleLen := len(needle)
	haystackLen := len(haystack)

	// Empty needle matches at start (mimics bytes.Index behavior)
	if needleLen == 0 {
		return 0
	}

	// Empty haystack or needle longer than haystack
	if haystackLen == 0 || needleLen > haystackLen {
		return -1
	}

	// Single byte search - use Memchr directly
	if needleLen == 1 {
		return Memchr(haystack, needle[0])
	}

	// For short needles (2-32 bytes), use rare byte heuristic + Memchr
	if needleLen <= 32 {
		return memmemShort(haystack, needle)
	}

	// Longer needles take the same scan (memmemLong delegates to memmemShort)
	return memmemLong(haystack, needle)
}

// memmemShort handles short needles (2-32 bytes) using rare byte heuristic.
// This is the fast path for most real-world patterns.
func memmemShort(haystack, needle []byte) int {
	needleLen := len(needle)
	haystackLen := len(haystack)

	// Select the rarest byte (using last byte as heuristic - works well in practice)
	rareByte, rareIdx := selectRareByte(needle)

	// Search for the rare byte using Memchr
	searchStart := 0
	for {
		// Find next candidate position for rare byte
		candidatePos := Memchr(haystack[searchStart:], rareByte)
		if candidatePos == -1 {
			return -1 // Rare byte not found, needle cannot exist
		}

		// Adjust to absolute position in haystack
		candidatePos += searchStart

		// Check if we have enough space for full needle after rare byte position
		needleStartPos := candidatePos - rareIdx
		if needleStartPos < 0 || needleStartPos+needleLen > haystackLen {
			// Not enough space for needle, try next candidate
			searchStart = candidatePos + 1
			if searchStart >= haystackLen {
				return -1
			}
			continue
		}

		// Verify full needle match
		if bytesEqual(haystack[needleStartPos:needleStartPos+needleLen], needle) {
			return needleStartPos
		}

		// No match, continue searching after this rare byte position
		searchStart = candidatePos + 1
		if searchStart >= haystackLen {
			return -1
		}
	}
}

// memmemLong handles needles longer than 32 bytes. It is currently just an
// alias for memmemShort: the rare-byte-anchor scan is O(n) regardless of
// needle length, so there is no distinct algorithm here yet, just a named
// seam for one (e.g. Two-Way) if a pathological-input case is ever found in
// practice.
func memmemLong(haystack, needle []byte) int {
	return memmemShort(haystack, needle)
}

// selectRareByte returns the rarest byte in needle and its index.
//
// We use a simple but effective heuristic: the last byte of the needle
// tends to be a good choice because:
//  1. In natural language, word endings are more distinctive than beginnings
//  2. In code/patterns, terminators are often unique
//  3. It's O(1) to compute vs building a frequency table
//
// For more sophisticated applications, this could be replaced with:
//   - Frequency analysis based on English/code corpus
//   - Runtime profiling of actual haystack content
//   - User-provided hints for domain-specific data
func selectRareByte(needle []byte) (rareByte byte, index int) {
	// Use last byte as heuristic (works well in practice)
	lastIdx := len(needle) - 1
	return needle[lastIdx], lastIdx
}

// bytesEqual is a fast inlined comparison for verification.
// The compiler will optimize this to use efficient comparison methods.
func bytesEqual(a, b []byte) bool {
	// bytes.Equal is already highly optimized and will be inlined
	return bytes.Equal(a, b)
}
