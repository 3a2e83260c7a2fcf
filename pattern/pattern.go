// Package pattern defines the immutable compiled-pattern artifact consumed
// read-only by the interpreter and the fast-skip engine.
//
// A Pattern is produced once by the compile package and may be shared
// across goroutines without locking: every field here is written once,
// during compile.Compile, and never mutated afterward.
package pattern

import "github.com/coregx/rxcore/opcode"

// Method selects how the interpreter resolves a single call.
type Method uint8

const (
	// Match requires the pattern to match starting exactly at the cursor.
	Match Method = iota
	// Find searches forward from the cursor for the next match, invoking
	// the fast-skip engine between attempts.
	Find
	// Scan behaves like Match but fails unless the match consumes the
	// entire remaining window.
	Scan
	// Split partitions the input on match boundaries, emitting the text
	// between matches.
	Split
)

func (m Method) String() string {
	switch m {
	case Match:
		return "MATCH"
	case Find:
		return "FIND"
	case Scan:
		return "SCAN"
	case Split:
		return "SPLIT"
	default:
		return "?"
	}
}

// Accept codes for a Result's Cap field.
const (
	NoMatch = 0
	// Empty marks a zero-length match accepted at EOF.
	Empty = -1
	// Redo signals a pending-dedent that must be resolved before the
	// interpreter may resume (see indent.Tracker).
	Redo = -2
)

// Needle holds one pinned-character slot: up to Pin alternative byte values
// that may appear at a fixed offset within the literal prefix (a slot with
// Pin>1 models an alternation like `(a|b|c)...`).
type Needle struct {
	Bytes  []byte // up to 16 alternative byte values
	Offset int    // offset within the literal prefix
}

// Pattern is the read-only artifact the interpreter and fast-skip engine
// operate over. Every table here is sound (may over-approximate, never
// under-approximates): a position the tables reject can never host a match.
type Pattern struct {
	Prog opcode.Prog

	// Fst is the first-byte bitmap: Fst[b] is true only if some match can
	// start with byte b.
	Fst [256]bool

	// Bit holds, for each of the first 4 positions of a candidate match,
	// which bytes may legally appear there. Bit[0] is used by the S4 gram
	// scan and is what BuildPma derives Pma from.
	Bit [4][256]bool

	// Pmh is a rolling min-gram Bloom-style predictor, valid when Min >= 4.
	Pmh     []uint64 // bit array, PmhBits long
	PmhBits int

	// Pma is the four-byte-window prediction table: Pma[b] (b = the byte
	// observed at a candidate position) encodes which of the next 4
	// offsets is the nearest plausible match start, or PmaNone.
	Pma [256]byte

	// Chr holds the pinned-needle-character slots extracted from the
	// literal prefix: BuildNeedle stores two, the rarest and second-rarest
	// byte, each slot holding a single byte value. Pin is len(AltLiterals)
	// for an alternation of literals and 0 otherwise; no slot stores
	// alternative byte values.
	Chr []Needle
	Pin int

	// Bms/Bmd are the Boyer-Moore bad-character shift table and the
	// good-suffix period, valid when Len > 1.
	Bms [256]int
	Bmd int

	// Min is the minimum possible match length in bytes; Len is the exact
	// literal-prefix length (0 if the pattern has no fixed literal prefix).
	Min, Len int

	// Lbk/Cbk/Lbm describe the look-back window for patterns with a
	// right-anchored fragment: Lbk is the max bytes to look back from a
	// predicted site, Cbk which bytes are admissible there, Lbm the
	// minimum look-back needed for the pattern to possibly match.
	Lbk int
	Cbk [256]bool
	Lbm int

	// Npy is the needle-payoff heuristic (0-63). The fast-skip engine
	// compares it against a threshold to choose Boyer-Moore (S5) over the
	// memmem scan (S2) for a multi-byte literal; it is 0 for a pattern with
	// no literal prefix and takes no part in choosing the gram scan (S4).
	Npy int

	// One is true when the pattern is exactly one fixed literal, enabling
	// the memchr-only fast path (S1).
	One bool

	// Literal is the literal prefix bytes themselves (len(Literal) == Len).
	Literal []byte

	// AltLiterals holds one fixed literal per top-level alternative when
	// every alternative of the pattern is itself a plain literal (e.g.
	// "foo|bar|baz"); this is what drives the S3 many-needle prefilter.
	// Pin, when set, records len(AltLiterals).
	AltLiterals [][]byte

	// NumAlts is the number of top-level accepting alternatives (TAKE ids).
	NumAlts int

	// AllowEmpty mirrors the compiled-in Options.AllowEmptyMatch.
	AllowEmpty bool
	// IndentSensitive is true if the pattern uses \i/\j/\k.
	IndentSensitive bool
	// TabSize is the configured tab stop for the indentation tracker.
	TabSize int
	// AsciiOnly mirrors Options.AsciiOnly.
	AsciiOnly bool

	// Source is the original pattern text, kept for diagnostics.
	Source string
}

// PmaNone is the Pma sentinel meaning "no plausible match start in the next
// four bytes from this position".
const PmaNone byte = 0xFF

// Result is the match tuple a single interpreter call produces: Cap is the
// accept code (NoMatch, Empty, Redo, or a positive alternative id), and
// Txt/Len delimit the matched bytes with Pos the post-match scan position.
type Result struct {
	Cap int
	Txt int
	Len int
	Pos int
}

// Matched reports whether Cap denotes an actual accepted match (as
// opposed to NoMatch or the internal Redo signal).
func (r Result) Matched() bool {
	return r.Cap > 0 || r.Cap == Empty
}

// CanSkip reports whether the fast-skip engine has any useful acceleration
// for this pattern (S1-S5 all require at least a minimum length or a
// literal prefix; S0 patterns can't skip at all).
func (p *Pattern) CanSkip() bool {
	return p.Len > 0 || p.Min > 0
}
