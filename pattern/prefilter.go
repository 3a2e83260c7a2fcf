package pattern

// This file builds the two positional prefilters stored on a Pattern:
//
//   - Pmh: a rolling min-gram Bloom filter. For every prefix of length
//     min(Min, 4) of an accepting path of the pattern, the gram's hash
//     bit is set. The 4-byte (or Min-byte, whichever is smaller) window
//     starting at a candidate offset can then be hashed and checked
//     against Pmh in O(1); a zero bit proves no match can start at that
//     offset, which is what lets the S4 strategy skip candidates without
//     ever invoking the interpreter.
//
//   - Pma: a single-byte-indexed table answering "given the byte just
//     observed at a candidate site, how many of the next four offsets
//     can be ruled out". It is coarser than Pmh (one byte of context
//     instead of four). The fast-skip engine does not consult it: its S4
//     scan tests Bit[0], the same admission set Pma is built from, and
//     then checks Pmh.

const (
	pmhMinBits = 1 << 16 // 8 KiB bit array, enough for Min-gram fingerprints
)

// BuildPmh constructs the rolling min-gram predictor from the set of
// literal grams reachable as a prefix of some accepting path. grams shorter
// than gramLen are ignored (the caller is expected to pass only grams of
// exactly gramLen bytes, typically min(Min, 4)).
func BuildPmh(grams [][]byte, gramLen int) ([]uint64, int) {
	if gramLen == 0 || len(grams) == 0 {
		return nil, 0
	}
	bits := pmhMinBits
	words := bits / 64
	table := make([]uint64, words)
	for _, g := range grams {
		if len(g) != gramLen {
			continue
		}
		h := gramHash(g) % uint32(bits)
		table[h/64] |= 1 << (h % 64)
	}
	return table, bits
}

// gramHash is a small FNV-1a variant, chosen for speed over the tiny
// (<=4 byte) keys this table hashes; cryptographic strength is irrelevant
// here, only low collision rate on short byte strings.
func gramHash(gram []byte) uint32 {
	var h uint32 = 2166136261
	for _, b := range gram {
		h ^= uint32(b)
		h *= 16777619
	}
	return h
}

// PmhContains reports whether the rolling Min-gram predictor admits gram as
// a possible match prefix. A false result is proof the position cannot
// host a match; a true result means the position must be tried by the
// interpreter.
func (p *Pattern) PmhContains(gram []byte) bool {
	if len(p.Pmh) == 0 {
		return true
	}
	h := gramHash(gram) % uint32(p.PmhBits)
	return p.Pmh[h/64]&(1<<(h%64)) != 0
}

// BuildPma derives the four-byte-window prediction table from the
// first-position byte admission set Bit[0]: for bytes that cannot start a
// match at all, Pma is PmaNone; for bytes that can, Pma encodes 0 (the
// fast-skip engine still must confirm, but the nearest offset worth trying
// is right here).
func BuildPma(bit0 [256]bool) [256]byte {
	var pma [256]byte
	for b := 0; b < 256; b++ {
		if bit0[b] {
			pma[b] = 0
		} else {
			pma[b] = PmaNone
		}
	}
	return pma
}
