package compile

import (
	"regexp/syntax"

	"github.com/coregx/rxcore/opcode"
)

// nfaStateKind distinguishes the handful of node shapes a Thompson
// construction ever produces.
type nfaStateKind uint8

const (
	nfaByte  nfaStateKind = iota // consume a byte in [lo,hi], continue at out
	nfaSplit                     // epsilon-branch to out and out2, out first
	nfaMatch                     // accept as alternative alt
	nfaLook                      // zero-width assertion meta; continue at out if satisfied
	nfaFail                      // dead end, never reached (OpNoMatch)
)

const noState = -1

type nfaState struct {
	kind nfaStateKind
	lo   byte
	hi   byte
	out  int
	out2 int
	meta opcode.MetaKind
	alt  int
}

// builder accumulates nfaStates for one compiled pattern.
type builder struct {
	states  []nfaState
	opts    Options
	nextAlt int
}

func newBuilder(opts Options) *builder {
	return &builder{opts: opts}
}

func (b *builder) add(s nfaState) int {
	b.states = append(b.states, s)
	return len(b.states) - 1
}

// frag is a partially-built fragment: start is its entry state, and out
// holds the dangling "out"/"out2" slots still to be patched once the
// fragment's continuation is known.
type frag struct {
	start int
	out   []patchSlot
}

type patchSlot struct {
	state int
	which int // 0 = out, 1 = out2
}

func (b *builder) patch(out []patchSlot, target int) {
	for _, p := range out {
		if p.which == 0 {
			b.states[p.state].out = target
		} else {
			b.states[p.state].out2 = target
		}
	}
}

// compileAlt turns a parsed regexp into num fragments, one per top-level
// alternative, so the caller can assign each a distinct Take id (needed
// for Split/capture-id reporting). A pattern with no top-level `|` yields
// exactly one fragment.
func (b *builder) compileAlts(re *syntax.Regexp) []frag {
	if re.Op == syntax.OpAlternate {
		frags := make([]frag, 0, len(re.Sub))
		for _, sub := range re.Sub {
			frags = append(frags, b.compileAlts(sub)...)
		}
		return frags
	}
	return []frag{b.compile(re)}
}

// compile builds a Thompson fragment for re, leaving its accept edge(s)
// unpatched in the returned frag.
func (b *builder) compile(re *syntax.Regexp) frag {
	switch re.Op {
	case syntax.OpEmptyMatch:
		return b.nop()
	case syntax.OpNoMatch:
		s := b.add(nfaState{kind: nfaFail})
		return frag{start: s}
	case syntax.OpLiteral:
		return b.compileLiteral(re.Rune, re.Flags&syntax.FoldCase != 0)
	case syntax.OpCharClass:
		return b.compileClass(re.Rune)
	case syntax.OpAnyChar:
		return b.compileClass([]rune{0, maxRune})
	case syntax.OpAnyCharNotNL:
		return b.compileClass([]rune{0, '\n' - 1, '\n' + 1, maxRune})
	case syntax.OpBeginLine:
		return b.look(opcode.BOL)
	case syntax.OpEndLine:
		return b.look(opcode.EOL)
	case syntax.OpBeginText:
		return b.look(opcode.BOB)
	case syntax.OpEndText:
		return b.look(opcode.EOB)
	case syntax.OpWordBoundary:
		return b.look(opcode.WordBoundary)
	case syntax.OpNoWordBoundary:
		return b.look(opcode.NotWordBoundary)
	case syntax.OpCapture:
		return b.compile(re.Sub[0])
	case syntax.OpStar:
		return b.star(re.Sub[0], re.Flags&syntax.NonGreedy != 0)
	case syntax.OpPlus:
		return b.plus(re.Sub[0], re.Flags&syntax.NonGreedy != 0)
	case syntax.OpQuest:
		return b.quest(re.Sub[0], re.Flags&syntax.NonGreedy != 0)
	case syntax.OpRepeat:
		return b.repeat(re.Sub[0], re.Min, re.Max)
	case syntax.OpConcat:
		return b.concat(re.Sub)
	case syntax.OpAlternate:
		return b.alternate(re.Sub)
	default:
		return b.nop()
	}
}

func (b *builder) nop() frag {
	s := b.add(nfaState{kind: nfaSplit})
	return frag{start: s, out: []patchSlot{{s, 0}}}
}

func (b *builder) look(m opcode.MetaKind) frag {
	s := b.add(nfaState{kind: nfaLook, meta: m, out: noState})
	return frag{start: s, out: []patchSlot{{s, 0}}}
}

func (b *builder) byteRange(lo, hi byte) frag {
	s := b.add(nfaState{kind: nfaByte, lo: lo, hi: hi, out: noState})
	return frag{start: s, out: []patchSlot{{s, 0}}}
}

// compileLiteral emits a concatenation of byte-range fragments for a
// literal rune sequence, expanding each rune through splitRune, and (for
// fold-case) forking a split per alternative case-folded encoding. A rune
// equal to one of the \i/\j/\k placeholder sentinels (see
// preprocessIndentEscapes) compiles to a zero-width assertion instead of a
// literal byte match.
func (b *builder) compileLiteral(runes []rune, fold bool) frag {
	frags := make([]frag, 0, len(runes))
	for _, r := range runes {
		if meta, ok := b.isIndentRune(r); ok {
			frags = append(frags, b.look(meta))
			continue
		}
		if fold {
			frags = append(frags, b.compileClass(foldRange(r)))
		} else {
			frags = append(frags, b.compileOneRune(r))
		}
	}
	return b.concatFrags(frags)
}

// foldRange collects the orbit of case-equivalent runes for r into a
// ready-made [lo,hi,lo,hi,...] class, without depending on syntax's
// unexported case-folding tables: ASCII upper/lower is all this engine
// promises for fold-case literals (see Options.AsciiOnly in doc.go).
func foldRange(r rune) []rune {
	set := map[rune]bool{r: true}
	set[toUpperRune(r)] = true
	set[toLowerRune(r)] = true
	out := make([]rune, 0, len(set)*2)
	for rr := range set {
		out = append(out, rr, rr)
	}
	return out
}

func toUpperRune(r rune) rune {
	if r >= 'a' && r <= 'z' {
		return r - 32
	}
	return r
}

func toLowerRune(r rune) rune {
	if r >= 'A' && r <= 'Z' {
		return r + 32
	}
	return r
}

func (b *builder) compileOneRune(r rune) frag {
	return b.compileClass([]rune{r, r})
}

// compileClass builds a fragment accepting any rune in the [lo,hi] pairs
// of ranges, via splitRune's byte-sequence decomposition, branching at
// each decision point with nfaSplit.
func (b *builder) compileClass(ranges []rune) frag {
	var seqs []byteSeq
	for i := 0; i+1 < len(ranges); i += 2 {
		lo, hi := ranges[i], ranges[i+1]
		if b.opts.AsciiOnly {
			if lo > 0x7F {
				continue
			}
			if hi > 0x7F {
				hi = 0x7F
			}
		}
		seqs = append(seqs, splitRune(lo, hi)...)
	}
	if len(seqs) == 0 {
		s := b.add(nfaState{kind: nfaFail})
		return frag{start: s}
	}

	seqFrags := make([]frag, len(seqs))
	for i, seq := range seqs {
		byteFrags := make([]frag, len(seq))
		for j, br := range seq {
			byteFrags[j] = b.byteRange(br.lo, br.hi)
		}
		seqFrags[i] = b.concatFrags(byteFrags)
	}
	return b.alternateFrags(seqFrags)
}

func (b *builder) concatFrags(frags []frag) frag {
	if len(frags) == 0 {
		return b.nop()
	}
	result := frags[0]
	for i := 1; i < len(frags); i++ {
		b.patch(result.out, frags[i].start)
		result.out = frags[i].out
	}
	return result
}

func (b *builder) concat(subs []*syntax.Regexp) frag {
	frags := make([]frag, len(subs))
	for i, s := range subs {
		frags[i] = b.compile(s)
	}
	return b.concatFrags(frags)
}

func (b *builder) alternateFrags(frags []frag) frag {
	if len(frags) == 1 {
		return frags[0]
	}
	split := b.add(nfaState{kind: nfaSplit, out: frags[0].start, out2: noState})
	prev := split
	for i := 1; i < len(frags)-1; i++ {
		next := b.add(nfaState{kind: nfaSplit, out: frags[i].start, out2: noState})
		b.states[prev].out2 = next
		prev = next
	}
	b.states[prev].out2 = frags[len(frags)-1].start

	var out []patchSlot
	for _, f := range frags {
		out = append(out, f.out...)
	}
	return frag{start: split, out: out}
}

func (b *builder) alternate(subs []*syntax.Regexp) frag {
	frags := make([]frag, len(subs))
	for i, s := range subs {
		frags[i] = b.compile(s)
	}
	return b.alternateFrags(frags)
}

func (b *builder) star(sub *syntax.Regexp, nonGreedy bool) frag {
	split := b.add(nfaState{kind: nfaSplit})
	inner := b.compile(sub)
	if nonGreedy {
		b.states[split].out2 = inner.start
	} else {
		b.states[split].out = inner.start
	}
	b.patch(inner.out, split)
	out := patchSlot{split, 1}
	if nonGreedy {
		out = patchSlot{split, 0}
	}
	return frag{start: split, out: []patchSlot{out}}
}

func (b *builder) plus(sub *syntax.Regexp, nonGreedy bool) frag {
	inner := b.compile(sub)
	split := b.add(nfaState{kind: nfaSplit})
	b.patch(inner.out, split)
	if nonGreedy {
		b.states[split].out2 = inner.start
		return frag{start: inner.start, out: []patchSlot{{split, 0}}}
	}
	b.states[split].out = inner.start
	return frag{start: inner.start, out: []patchSlot{{split, 1}}}
}

func (b *builder) quest(sub *syntax.Regexp, nonGreedy bool) frag {
	split := b.add(nfaState{kind: nfaSplit})
	inner := b.compile(sub)
	var primary, alt patchSlot
	if nonGreedy {
		b.states[split].out2 = inner.start
		primary = patchSlot{split, 0}
	} else {
		b.states[split].out = inner.start
		primary = patchSlot{split, 1}
	}
	alt = primary
	out := append([]patchSlot{alt}, inner.out...)
	return frag{start: split, out: out}
}

func (b *builder) repeat(sub *syntax.Regexp, min, max int) frag {
	if max == -1 {
		// {min,} == min copies then a star.
		var frags []frag
		for i := 0; i < min; i++ {
			frags = append(frags, b.compile(sub))
		}
		frags = append(frags, b.star(sub, false))
		return b.concatFrags(frags)
	}

	var frags []frag
	for i := 0; i < min; i++ {
		frags = append(frags, b.compile(sub))
	}
	for i := min; i < max; i++ {
		frags = append(frags, b.quest(sub, false))
	}
	if len(frags) == 0 {
		return b.nop()
	}
	return b.concatFrags(frags)
}
