// Package compile turns a pattern string into a pattern.Pattern: the
// opcode tape plus every acceleration table the fast-skip engine and
// interpreter rely on. Pattern syntax parsing itself is delegated to the
// standard library's regexp/syntax parser (pattern-to-AST translation is
// deliberately out of scope for this module's core); this package owns
// everything from that AST onward — Thompson construction, eager subset
// construction into a byte-range opcode tape, and prefilter/table
// derivation.
package compile

import (
	"fmt"
	"regexp/syntax"
	"strings"

	"github.com/coregx/rxcore/opcode"
	"github.com/coregx/rxcore/pattern"
)

// Options mirrors the options a compiled pattern carries forward into
// matching; see pattern.Pattern for the corresponding runtime fields.
type Options struct {
	AllowEmptyMatch         bool
	AsciiOnly               bool
	AllowDotAll             bool
	Multiline               bool
	WordBoundaryUsesUnicode bool
	TabSize                 int
	IndentSensitive         bool
}

// DefaultOptions returns the zero-value-safe defaults used when the caller
// does not specify Options explicitly.
func DefaultOptions() Options {
	return Options{TabSize: 8}
}

// Indentation meta-anchors are not part of Go's regex syntax, so \i, \j,
// and \k are preprocessed into private-use-area placeholder runes before
// handing the pattern to syntax.Parse, then recognized again while
// walking the parsed AST.
const (
	indentRune = ''
	dedentRune = ''
	undentRune = ''
)

var indentEscapes = map[byte]rune{
	'i': indentRune,
	'j': dedentRune,
	'k': undentRune,
}

// preprocessIndentEscapes rewrites literal \i, \j, \k sequences (outside
// character classes, where they have no meaning this engine assigns
// anyway) into placeholder runes recognized later by the NFA builder.
func preprocessIndentEscapes(pat string) (string, bool) {
	var sb strings.Builder
	found := false
	inClass := false
	for i := 0; i < len(pat); i++ {
		c := pat[i]
		switch {
		case c == '\\' && i+1 < len(pat):
			next := pat[i+1]
			if r, ok := indentEscapes[next]; ok && !inClass {
				sb.WriteRune(r)
				found = true
				i++
				continue
			}
			sb.WriteByte(c)
			sb.WriteByte(next)
			i++
		case c == '[' && !inClass:
			inClass = true
			sb.WriteByte(c)
		case c == ']' && inClass:
			inClass = false
			sb.WriteByte(c)
		default:
			sb.WriteByte(c)
		}
	}
	return sb.String(), found
}

func (b *builder) isIndentRune(r rune) (opcode.MetaKind, bool) {
	switch r {
	case indentRune:
		return opcode.Indent, true
	case dedentRune:
		return opcode.Dedent, true
	case undentRune:
		return opcode.Undent, true
	default:
		return 0, false
	}
}

// Compile parses pat and produces a ready-to-match Pattern.
func Compile(pat string, opts Options) (*pattern.Pattern, error) {
	if opts.TabSize == 0 {
		opts.TabSize = 8
	}

	rewritten, hasIndent := preprocessIndentEscapes(pat)
	opts.IndentSensitive = opts.IndentSensitive || hasIndent

	flags := syntax.Perl
	if opts.Multiline {
		flags &^= syntax.OneLine
	}
	if opts.AllowDotAll {
		flags |= syntax.DotNL
	}

	re, err := syntax.Parse(rewritten, flags)
	if err != nil {
		return nil, fmt.Errorf("compile: %w", err)
	}
	re = re.Simplify()

	b := newBuilder(opts)
	alts := b.compileAlts(re)
	for i := range alts {
		m := b.add(nfaState{kind: nfaMatch, alt: i})
		b.patch(alts[i].out, m)
	}
	var startIDs []int
	for _, f := range alts {
		startIDs = append(startIDs, f.start)
	}

	det := newDeterminizer(b)
	prog := det.build(startIDs)

	p := &pattern.Pattern{
		Prog:            prog,
		NumAlts:         len(alts),
		AllowEmpty:      opts.AllowEmptyMatch,
		IndentSensitive: opts.IndentSensitive,
		TabSize:         opts.TabSize,
		AsciiOnly:       opts.AsciiOnly,
		Source:          pat,
	}

	fillTables(p, b, prog)
	if lit, ok := extractLiteral(re); ok && len(lit) > 0 {
		pattern.BuildNeedle(p, lit)
		if len(alts) == 1 && isExactLiteral(re) {
			p.One = true
		}
	} else if alt := extractAltLiterals(re); len(alt) > 1 {
		p.AltLiterals = alt
		p.Pin = len(alt)
	}
	p.Npy = needlePayoff(p)

	grams := collectMinGrams(prog, minGramLen(p))
	if minGramLen(p) >= 4 {
		p.Pmh, p.PmhBits = pattern.BuildPmh(grams, minGramLen(p))
	}
	p.Pma = pattern.BuildPma(p.Bit[0])

	return p, nil
}

// MustCompile is Compile but panics on error, for call sites with a
// pattern known valid at compile time.
func MustCompile(pat string, opts Options) *pattern.Pattern {
	p, err := Compile(pat, opts)
	if err != nil {
		panic(err)
	}
	return p
}

func minGramLen(p *pattern.Pattern) int {
	if p.Min < 4 {
		return p.Min
	}
	return 4
}

// fillTables derives Fst (first-byte bitmap), Bit (first-4-byte predicate
// bits) and Min (minimum match length) by walking the reachable byte
// edges out of the program's start state up to 4 levels deep.
func fillTables(p *pattern.Pattern, b *builder, prog opcode.Prog) {
	visited := make(map[int]bool)
	var walk func(pc, depth int)
	walk = func(pc, depth int) {
		if depth >= 4 || visited[pc*8+depth] {
			return
		}
		visited[pc*8+depth] = true
		for i := pc; i < len(prog.Inst); i++ {
			inst := prog.Inst[i]
			switch inst.Op {
			case opcode.Meta:
				walk(int(inst.Target), depth)
			case opcode.Goto:
				for bb := int(inst.Lo); bb <= int(inst.Hi); bb++ {
					if depth == 0 {
						p.Fst[bb] = true
					}
					p.Bit[depth][bb] = true
				}
				walk(int(inst.Target), depth+1)
			case opcode.Take, opcode.Halt:
				return
			}
		}
	}
	walk(prog.Start, 0)

	p.Min = minMatchLen(prog, prog.Start, make(map[int]int))
}

// minMatchLen computes the shortest accepting path length in bytes from
// pc, memoized against cycles (a cycle implies no additional lower bound
// over what's already reachable without it, so cycles are treated as
// infinite and ignored by the caller's min-of-successors).
func minMatchLen(prog opcode.Prog, pc int, seen map[int]int) int {
	if v, ok := seen[pc]; ok {
		return v
	}
	seen[pc] = 1 << 30 // break cycles optimistically
	best := 1 << 30
	for i := pc; i < len(prog.Inst); i++ {
		inst := prog.Inst[i]
		switch inst.Op {
		case opcode.Meta:
			if v := minMatchLen(prog, int(inst.Target), seen); v < best {
				best = v
			}
		case opcode.Goto:
			if v := minMatchLen(prog, int(inst.Target), seen); v+1 < best {
				best = v + 1
			}
		case opcode.Take:
			if 0 < best {
				best = 0
			}
			i = len(prog.Inst) // stop scanning this state
		case opcode.Halt:
			i = len(prog.Inst)
		}
	}
	seen[pc] = best
	return best
}

// extractLiteral reports the fixed literal prefix of re, if the whole
// pattern (after Simplify) reduces to a single concatenation of literal
// runes with no alternation, repetition, or assertion.
func extractLiteral(re *syntax.Regexp) ([]byte, bool) {
	switch re.Op {
	case syntax.OpLiteral:
		if re.Flags&syntax.FoldCase != 0 {
			return nil, false
		}
		for _, r := range re.Rune {
			if r == indentRune || r == dedentRune || r == undentRune {
				return nil, false
			}
		}
		return []byte(string(re.Rune)), true
	case syntax.OpConcat:
		var buf []byte
		for _, sub := range re.Sub {
			lit, ok := extractLiteral(sub)
			if !ok {
				return nil, false
			}
			buf = append(buf, lit...)
		}
		return buf, len(buf) > 0
	default:
		return nil, false
	}
}

func isExactLiteral(re *syntax.Regexp) bool {
	_, ok := extractLiteral(re)
	return ok
}

// extractAltLiterals reports the per-alternative literal set of re when re
// is a top-level OpAlternate all of whose branches are themselves plain
// literals, e.g. "foo|bar|baz". This is what the S3 fast-skip strategy
// (many-needle prefilter via Aho-Corasick) is built from.
func extractAltLiterals(re *syntax.Regexp) [][]byte {
	if re.Op != syntax.OpAlternate {
		return nil
	}
	lits := make([][]byte, 0, len(re.Sub))
	for _, sub := range re.Sub {
		lit, ok := extractLiteral(sub)
		if !ok || len(lit) == 0 {
			return nil
		}
		lits = append(lits, lit)
	}
	return lits
}

// needlePayoff scores, 0-63, how much a literal-prefix scan is worth
// relative to trying a match at every offset: a longer, rarer-byte-led
// prefix scores higher (more positions ruled out per candidate checked).
// The fast-skip engine uses this to choose between the SIMD-style
// rare-byte sieve (S2) and classical Boyer-Moore (S5) for the same
// literal, per the reference's score/freq heuristic (an empirical tuning
// the spec itself flags as platform-specific — see the Open Questions
// section of DESIGN.md).
func needlePayoff(p *pattern.Pattern) int {
	if p.Len == 0 {
		return 0
	}
	score := p.Len * 4
	if score > 60 {
		score = 60
	}
	if len(p.Chr) > 0 {
		rank := int(pattern.ByteRank(p.Chr[0].Bytes[0]))
		score += (255 - rank) / 16
	}
	if score > 63 {
		score = 63
	}
	return score
}

// collectMinGrams gathers every literal byte-gram of length gramLen
// reachable as a prefix of some accepting path, by walking the byte-range
// tape up to gramLen levels deep and taking the Cartesian product of
// admissible bytes at each level. Dense classes are capped to keep the
// gram set bounded; a pattern whose first gramLen bytes admit too many
// combinations degrades gracefully to "predictor absent" (handled by
// pattern.PmhContains when Pmh is nil).
func collectMinGrams(prog opcode.Prog, gramLen int) [][]byte {
	if gramLen == 0 {
		return nil
	}
	const capGrams = 4096
	var grams [][]byte
	var walk func(pc int, prefix []byte)
	walk = func(pc int, prefix []byte) {
		if len(grams) > capGrams {
			return
		}
		if len(prefix) == gramLen {
			g := append([]byte(nil), prefix...)
			grams = append(grams, g)
			return
		}
		for i := pc; i < len(prog.Inst); i++ {
			inst := prog.Inst[i]
			switch inst.Op {
			case opcode.Meta:
				walk(int(inst.Target), prefix)
			case opcode.Goto:
				for bb := int(inst.Lo); bb <= int(inst.Hi) && len(grams) <= capGrams; bb++ {
					walk(int(inst.Target), append(prefix, byte(bb)))
				}
				return
			case opcode.Take, opcode.Halt:
				return
			}
		}
	}
	walk(prog.Start, nil)
	if len(grams) > capGrams {
		return nil
	}
	return grams
}
