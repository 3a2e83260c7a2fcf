package simd

// isWordChar returns true if b is a word character [A-Za-z0-9_].
func isWordChar(b byte) bool {
	return (b >= 'A' && b <= 'Z') ||
		(b >= 'a' && b <= 'z') ||
		(b >= '0' && b <= '9') ||
		b == '_'
}

// MemchrWord finds the first word character [A-Za-z0-9_] in haystack.
// Returns position or -1 if not found.
func MemchrWord(haystack []byte) int {
	for i, b := range haystack {
		if isWordChar(b) {
			return i
		}
	}
	return -1
}

// MemchrNotWord finds the first non-word character in haystack.
// Returns position or -1 if all bytes are word characters.
func MemchrNotWord(haystack []byte) int {
	for i, b := range haystack {
		if !isWordChar(b) {
			return i
		}
	}
	return -1
}

// MemchrInTable finds the first byte in haystack where table[byte] is true.
// Returns -1 if not found. This drives the rolling min-gram mask scan (S4):
// the caller passes the compiled pattern's bit[] or fst[] table directly.
func MemchrInTable(haystack []byte, table *[256]bool) int {
	if len(haystack) == 0 || table == nil {
		return -1
	}
	for i, b := range haystack {
		if table[b] {
			return i
		}
	}
	return -1
}

// MemchrNotInTable finds the first byte in haystack where table[byte] is false.
// Returns -1 if every byte has table[byte] == true.
func MemchrNotInTable(haystack []byte, table *[256]bool) int {
	if len(haystack) == 0 || table == nil {
		return -1
	}
	for i, b := range haystack {
		if !table[b] {
			return i
		}
	}
	return -1
}
