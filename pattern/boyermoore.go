package pattern

// buildBoyerMoore fills Bms (the bad-character shift table) and returns the
// good-suffix period Bmd for a literal needle. This is the classic
// Boyer-Moore bad-character table (every needle position, the last one
// included, so the needle's last byte maps to 0) plus a simple periodicity bound
// for the good-suffix shift, combined the way a rare-byte-aware prefilter
// combines them: the bad-character table handles the common case, the
// period catches repetitive needles ("aaaa", "abab") where Horspool alone
// degrades to linear shifts.
func buildBoyerMoore(needle []byte) (bms [256]int, bmd int) {
	n := len(needle)
	if n == 0 {
		return bms, 1
	}

	for i := range bms {
		bms[i] = n
	}
	for i := 0; i < n; i++ {
		bms[needle[i]] = n - 1 - i
	}

	bmd = boyerMoorePeriod(needle)
	return bms, bmd
}

// boyerMoorePeriod finds the smallest period p of needle such that
// needle[i] == needle[i+p] for all valid i. A needle with no internal
// repetition has period == len(needle).
func boyerMoorePeriod(needle []byte) int {
	n := len(needle)
	if n <= 1 {
		return n
	}
	for p := 1; p < n; p++ {
		ok := true
		for i := 0; i+p < n; i++ {
			if needle[i] != needle[i+p] {
				ok = false
				break
			}
		}
		if ok {
			return p
		}
	}
	return n
}

// BuildNeedle populates the Pattern's literal-search fields from a literal
// prefix: Literal, Len, Bms/Bmd, and the rarest-byte pair in Chr[0] and
// Chr[1]. Only Chr[0] is read afterwards, by the compile package's
// needle-payoff score; the fast-skip engine's S2 scan (simd.Memmem) does
// not use the pair and anchors on the needle's last byte instead.
func BuildNeedle(p *Pattern, literal []byte) {
	p.Literal = literal
	p.Len = len(literal)
	if p.Len == 0 {
		return
	}
	p.Bms, p.Bmd = buildBoyerMoore(literal)

	rare := SelectRareBytes(literal)
	p.Chr = []Needle{
		{Bytes: []byte{rare.Byte1}, Offset: rare.Index1},
		{Bytes: []byte{rare.Byte2}, Offset: rare.Index2},
	}
}
