// Package skip implements the fast-skip engine: the layer FIND calls
// between failed match attempts to jump the cursor to the next position
// worth trying, instead of probing the interpreter one byte at a time.
//
// Every strategy here is sound in the same sense the compiled Pattern's
// tables are sound: it may propose a position that still fails to match,
// but it never skips past one that would have matched.
package skip

import (
	"github.com/coregx/ahocorasick"
	"github.com/coregx/rxcore/pattern"
	"github.com/coregx/rxcore/simd"
	"github.com/coregx/rxcore/window"
)

// Strategy identifies which acceleration path Advance dispatches to for a
// given pattern. Exposed for diagnostics and tests; callers never need to
// pick one explicitly.
type Strategy int

const (
	// S0 has no literal and no minimum length to exploit: every offset is
	// a candidate, so Advance only needs to detect true exhaustion.
	S0 Strategy = iota
	// S1 is a single fixed byte: plain memchr.
	S1
	// S2 is a literal of length >= 2 scanned via the rare-byte-led
	// SIMD-style search (simd.Memmem).
	S2
	// S3 is an alternation of complete literals (e.g. "foo|bar|baz")
	// scanned with a single Aho-Corasick automaton pass.
	S3
	// S4 has no fixed literal but a minimum match length of 4 or more:
	// scan candidate first bytes via the admissible-byte table, then
	// reject cheaply with the min-gram predictor.
	S4
	// S5 is a literal of length >= 2 scanned via classical Boyer-Moore,
	// chosen over S2 when the needle-payoff heuristic favors the longer
	// bad-character shift over a rare-byte sieve.
	S5
)

// npyBoyerMooreThreshold is the needle-payoff score above which Boyer-Moore's
// longer average shift is judged to outweigh S2's rare-byte-led sieve. Below
// it, a short or common-byte-led literal does better with the simpler scan.
// This threshold, like Npy itself, is an empirical tuning knob; see the
// skip entry and the Open Questions section of DESIGN.md.
const npyBoyerMooreThreshold = 40

// Engine holds the strategy-specific state derived once from a compiled
// Pattern: currently, the Aho-Corasick automaton built for S3.
type Engine struct {
	pat *pattern.Pattern
	ac  *ahocorasick.Automaton
}

// New builds an Engine for pat, compiling the Aho-Corasick automaton up
// front if pat qualifies for S3 so Advance never pays that cost per call.
func New(pat *pattern.Pattern) *Engine {
	e := &Engine{pat: pat}
	if len(pat.AltLiterals) > 1 {
		b := ahocorasick.NewBuilder()
		for _, lit := range pat.AltLiterals {
			b.AddPattern(lit)
		}
		if ac, err := b.Build(); err == nil {
			e.ac = ac
		}
	}
	return e
}

// Select reports which strategy Advance will use for this Engine's pattern.
func (e *Engine) Select() Strategy {
	p := e.pat
	switch {
	case e.ac != nil:
		return S3
	case p.Len == 1:
		return S1
	case p.Len >= 2:
		if p.Npy >= npyBoyerMooreThreshold {
			return S5
		}
		return S2
	case p.Min >= 4:
		return S4
	default:
		return S0
	}
}

// Advance returns the next absolute offset at or after from that might
// begin a match, refilling win from its source as needed. The second
// result is false only when the currently known input is exhausted (the
// window is at true EOF) without turning up a candidate; the caller should
// then treat the search as failed rather than retry.
func (e *Engine) Advance(win *window.Window, from int) (int, bool) {
	switch e.Select() {
	case S0:
		return e.advanceNone(win, from)
	case S1:
		return e.advanceByte(win, from)
	case S2:
		return e.advanceMemmem(win, from)
	case S3:
		return e.advanceAhoCorasick(win, from)
	case S4:
		return e.advanceGramScan(win, from)
	case S5:
		return e.advanceBoyerMoore(win, from)
	default:
		return from, true
	}
}

// scanUntilFound drives the common "scan the newly buffered suffix, refill
// on miss, stop at EOF" loop shared by every literal-based strategy. find
// is handed the not-yet-searched slice and returns the index of a match
// within it, or -1.
func scanUntilFound(win *window.Window, from int, find func(hay []byte) int) (int, bool) {
	pos := from
	for {
		hay := win.Slice(pos, win.End())
		if idx := find(hay); idx >= 0 {
			return pos + idx, true
		}
		if win.AtEOF() {
			return win.End(), false
		}
		pos = win.End()
		if err := win.PeekMore(); err != nil {
			return win.End(), false
		}
	}
}

// advanceNone handles S0: there is no literal or minimum length to exploit,
// so every offset still within the stream is a candidate. The only thing
// Advance must still get right here is exhaustion: force a refill attempt
// when from has caught up to the buffered watermark, and report false once
// that refill confirms true EOF, exactly as scanUntilFound does for the
// literal-based strategies. Without this check Find would retry forever at
// a from past the end of input.
func (e *Engine) advanceNone(win *window.Window, from int) (int, bool) {
	for from >= win.End() && !win.AtEOF() {
		if err := win.PeekMore(); err != nil {
			return win.End(), false
		}
	}
	if from >= win.End() && win.AtEOF() {
		return win.End(), false
	}
	return from, true
}

func (e *Engine) advanceByte(win *window.Window, from int) (int, bool) {
	b := e.pat.Literal[0]
	return scanUntilFound(win, from, func(hay []byte) int {
		return simd.Memchr(hay, b)
	})
}

func (e *Engine) advanceMemmem(win *window.Window, from int) (int, bool) {
	needle := e.pat.Literal
	return scanUntilFound(win, from, func(hay []byte) int {
		return simd.Memmem(hay, needle)
	})
}

func (e *Engine) advanceAhoCorasick(win *window.Window, from int) (int, bool) {
	return scanUntilFound(win, from, func(hay []byte) int {
		m := e.ac.Find(hay, 0)
		if m == nil {
			return -1
		}
		return m.Start
	})
}

// advanceGramScan handles patterns with no fixed literal but a minimum
// match length of 4+: candidate first bytes come from the admissible-byte
// bitmap (Bit[0]), and each candidate is cheaply rejected by the min-gram
// predictor before being proposed, so the interpreter is only ever invoked
// at offsets where the first gramLen bytes are at least plausible.
func (e *Engine) advanceGramScan(win *window.Window, from int) (int, bool) {
	p := e.pat
	gramLen := p.Min
	if gramLen > 4 {
		gramLen = 4
	}
	pos := from
	for {
		hay := win.Slice(pos, win.End())
		idx := simd.MemchrInTable(hay, &p.Bit[0])
		if idx < 0 {
			if win.AtEOF() {
				return win.End(), false
			}
			pos = win.End()
			if err := win.PeekMore(); err != nil {
				return win.End(), false
			}
			continue
		}
		cand := pos + idx
		gram := win.Slice(cand, cand+gramLen)
		if len(gram) < gramLen && !win.AtEOF() {
			if err := win.PeekMore(); err != nil {
				return cand, true
			}
			gram = win.Slice(cand, cand+gramLen)
		}
		if len(gram) < gramLen || p.PmhContains(gram) {
			return cand, true
		}
		pos = cand + 1
	}
}

// advanceBoyerMoore scans for the pattern's literal using the classical
// bad-character/good-suffix shift tables, an alternative to S2's rare-byte
// sieve for literals the needle-payoff heuristic judges worth the longer
// average skip.
func (e *Engine) advanceBoyerMoore(win *window.Window, from int) (int, bool) {
	p := e.pat
	needle := p.Literal
	return scanUntilFound(win, from, func(hay []byte) int {
		return boyerMooreSearch(hay, needle, &p.Bms, p.Bmd)
	})
}

// boyerMooreSearch finds the first occurrence of needle in hay using the
// Boyer-Moore-Horspool bad-character rule: on a mismatch, the shift is
// read from bms keyed on the haystack byte aligned with the needle's last
// position, exactly as buildBoyerMoore computed it. bmd (the good-suffix
// period) is unused by a first-match search; it matters to callers that
// keep scanning past a match for overlapping occurrences.
func boyerMooreSearch(hay, needle []byte, bms *[256]int, bmd int) int {
	n, m := len(hay), len(needle)
	if m == 0 || m > n {
		return -1
	}
	i := 0
	for i <= n-m {
		j := m - 1
		for j >= 0 && hay[i+j] == needle[j] {
			j--
		}
		if j < 0 {
			return i
		}
		shift := bms[hay[i+m-1]]
		if shift < 1 {
			shift = 1
		}
		i += shift
	}
	return -1
}
