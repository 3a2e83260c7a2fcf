package compile

import (
	"sort"

	"github.com/coregx/rxcore/internal/conv"
	"github.com/coregx/rxcore/internal/sparse"
	"github.com/coregx/rxcore/opcode"
)

// This file performs eager subset construction over the Thompson NFA built
// by nfa.go, producing the opcode tape the interpreter walks. Each DFA
// state is identified by the (sorted, deduplicated) set of NFA state ids
// reachable by epsilon-only closure; byte-consuming and assertion-gated
// edges out of that set are partitioned into the Goto/Meta instructions
// the spec's tape format calls for.
//
// Unlike a pure byte-DFA, this determinizer treats zero-width assertions
// (nfaLook) as first-class edges rather than folding them away: a state
// reached only behind an unsatisfied assertion is represented as a
// separate target DFA state, wired through a Meta instruction, and the
// interpreter (not the compiler) decides at run time whether to take it.
// This keeps the state count proportional to the pattern's alternations
// instead of exploding by 2^(number of assertions), which is what a naive
// "precompute every assertion combination" determinizer would do.

type stateKey string

func keyOf(ids []int) stateKey {
	sorted := append([]int(nil), ids...)
	sort.Ints(sorted)
	buf := make([]byte, 0, len(sorted)*4)
	for _, id := range sorted {
		buf = append(buf, byte(id), byte(id>>8), byte(id>>16), byte(id>>24))
	}
	return stateKey(buf)
}

// closureResult is what epsilon-closing a set of NFA states yields: the
// accepting alternatives reachable with no further input, the raw (not
// yet closed) successor sets for each distinct byte range, and for each
// meta kind encountered, the raw successor set reached by satisfying it.
type closureResult struct {
	matches  []int
	byteEdge []rawByteEdge
	metaEdge map[opcode.MetaKind][]int
}

type rawByteEdge struct {
	lo, hi byte
	next   int // single NFA state id (the nfaByte's out)
}

func (b *builder) closure(start []int) closureResult {
	seen := sparse.NewSparseSet(conv.IntToUint32(len(b.states)))
	var res closureResult
	res.metaEdge = make(map[opcode.MetaKind][]int)

	var visit func(id int)
	visit = func(id int) {
		sid := conv.IntToUint32(id)
		if seen.Contains(sid) {
			return
		}
		seen.Insert(sid)
		s := b.states[id]
		switch s.kind {
		case nfaSplit:
			if s.out != noState {
				visit(s.out)
			}
			if s.out2 != noState {
				visit(s.out2)
			}
		case nfaMatch:
			res.matches = append(res.matches, s.alt)
		case nfaFail:
			// dead end, contributes nothing
		case nfaLook:
			if s.out != noState {
				res.metaEdge[s.meta] = append(res.metaEdge[s.meta], s.out)
			}
		case nfaByte:
			res.byteEdge = append(res.byteEdge, rawByteEdge{s.lo, s.hi, s.out})
		}
	}
	for _, id := range start {
		visit(id)
	}
	return res
}

// partition splits the (possibly overlapping) byte edges into a minimal
// set of disjoint [lo,hi] intervals, each mapped to the union of NFA
// states reachable by any edge covering that interval.
func partition(edges []rawByteEdge) []struct {
	lo, hi byte
	nexts  []int
} {
	if len(edges) == 0 {
		return nil
	}
	bounds := make(map[int]bool)
	for _, e := range edges {
		bounds[int(e.lo)] = true
		bounds[int(e.hi)+1] = true
	}
	points := make([]int, 0, len(bounds))
	for p := range bounds {
		points = append(points, p)
	}
	sort.Ints(points)

	var out []struct {
		lo, hi byte
		nexts  []int
	}
	for i := 0; i+1 < len(points); i++ {
		lo, hi := points[i], points[i+1]-1
		if lo > 255 {
			break
		}
		if hi > 255 {
			hi = 255
		}
		var nexts []int
		for _, e := range edges {
			if int(e.lo) <= lo && hi <= int(e.hi) {
				nexts = append(nexts, e.next)
			}
		}
		if len(nexts) == 0 {
			continue
		}
		out = append(out, struct {
			lo, hi byte
			nexts  []int
		}{byte(lo), byte(hi), nexts})
	}
	return out
}

// determinizer drives the worklist that turns NFA fragments into a Prog.
type determinizer struct {
	b       *builder
	sets    map[stateKey][]int
	pc      map[stateKey]int
	prog    []opcode.Inst
	pending []stateKey
	fixups  []fixup
}

func newDeterminizer(b *builder) *determinizer {
	return &determinizer{
		b:    b,
		sets: make(map[stateKey][]int),
		pc:   make(map[stateKey]int),
	}
}

// intern returns the stable id for an NFA subset, enqueuing it for
// instruction emission the first time it is seen.
func (d *determinizer) intern(ids []int) stateKey {
	k := keyOf(ids)
	if _, ok := d.sets[k]; !ok {
		d.sets[k] = ids
		d.pending = append(d.pending, k)
	}
	return k
}

// build runs the worklist to completion and returns the finished Prog, with
// Start pointing at the entry state for startIDs.
func (d *determinizer) build(startIDs []int) opcode.Prog {
	startKey := d.intern(startIDs)

	for len(d.pending) > 0 {
		k := d.pending[0]
		d.pending = d.pending[1:]
		if _, done := d.pc[k]; done {
			continue
		}
		d.pc[k] = len(d.prog)

		cr := d.b.closure(d.sets[k])

		// Meta instructions first, each a conditional jump to the target
		// reached by satisfying that one assertion.
		metas := make([]opcode.MetaKind, 0, len(cr.metaEdge))
		for m := range cr.metaEdge {
			metas = append(metas, m)
		}
		sort.Slice(metas, func(i, j int) bool { return metas[i] < metas[j] })
		for _, m := range metas {
			targetKey := d.intern(cr.metaEdge[m])
			d.prog = append(d.prog, opcode.Inst{Op: opcode.Meta, Meta: m, Target: int32(-1)})
			d.fixups = append(d.fixups, fixup{pc: len(d.prog) - 1, target: targetKey})
		}

		// Sorted Goto dispatch table.
		parts := partition(cr.byteEdge)
		sort.Slice(parts, func(i, j int) bool { return parts[i].lo < parts[j].lo })
		for _, part := range parts {
			targetKey := d.intern(part.nexts)
			d.prog = append(d.prog, opcode.Inst{Op: opcode.Goto, Lo: part.lo, Hi: part.hi, Target: int32(-1)})
			d.fixups = append(d.fixups, fixup{pc: len(d.prog) - 1, target: targetKey})
		}

		// Terminal instruction: accept the lowest-numbered alternative
		// (leftmost-first, matching the builder's emission order) or
		// halt this thread.
		if len(cr.matches) > 0 {
			alt := cr.matches[0]
			for _, a := range cr.matches {
				if a < alt {
					alt = a
				}
			}
			d.prog = append(d.prog, opcode.Inst{Op: opcode.Take, Alt: alt, Target: int32(-1)})
		} else {
			d.prog = append(d.prog, opcode.Inst{Op: opcode.Halt, Target: int32(-1)})
		}
	}

	for _, f := range d.fixups {
		target, ok := d.pc[f.target]
		if !ok {
			target = 0
		}
		d.prog[f.pc].Target = int32(target)
	}

	return opcode.Prog{Inst: d.prog, Start: d.pc[startKey]}
}

type fixup struct {
	pc     int
	target stateKey
}
