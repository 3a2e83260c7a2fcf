// Package interp implements the opcode tape interpreter: the
// state-machine executor that, starting at the Buffer Window's cursor,
// follows opcode transitions one input byte at a time, evaluates
// meta-anchor predicates, records lookahead, and commits the longest
// accepting match reachable via the single saved backtrack point the tape
// format guarantees is sufficient.
package interp

import (
	"github.com/coregx/rxcore/indent"
	"github.com/coregx/rxcore/opcode"
	"github.com/coregx/rxcore/pattern"
	"github.com/coregx/rxcore/window"
)

const maxLookahead = 8

// Interp walks one Pattern's opcode tape over one Window. It is not safe
// for concurrent use; each matcher owns exactly one Interp (see the
// concurrency model: one matcher instance per goroutine, patterns shared
// read-only).
type Interp struct {
	pat *pattern.Pattern
	win *window.Window
	ind *indent.Tracker

	lap [maxLookahead]int // HEAD/TAIL lookahead slots, relative to txt
}

// New creates an interpreter bound to pat and win. If pat.IndentSensitive
// is set, an indentation Tracker is created with pat.TabSize.
func New(pat *pattern.Pattern, win *window.Window) *Interp {
	it := &Interp{pat: pat, win: win}
	if pat.IndentSensitive {
		it.ind = indent.NewTracker(pat.TabSize)
	}
	return it
}

// Tracker exposes the interpreter's indentation tracker (nil if the
// pattern is not indent-sensitive), so a caller driving multiple match
// cycles over the same stream can feed it line-scanning state between
// calls if it owns that bookkeeping externally.
func (it *Interp) Tracker() *indent.Tracker { return it.ind }

// backtrack is the single saved (pc, pos) pair the tape format guarantees
// is sufficient: at most one unexplored alternative exists per DFA state,
// so a stack is never needed (see opcode.Prog's doc comment).
type backtrack struct {
	valid bool
	pc    int
	pos   int
}

// Run executes one match cycle using method, starting at the window's
// current cursor, and returns the resulting match tuple. It is the
// direct MATCH/SCAN/SPLIT execution path; FIND additionally loops this
// with the fast-skip engine between attempts (see the skip package and
// the root Matcher).
func (it *Interp) Run(method pattern.Method) pattern.Result {
	txt := it.win.Cur()
	res := it.step(txt)

	switch method {
	case pattern.Match:
		return res
	case pattern.Scan:
		if res.Cap <= 0 {
			return pattern.Result{Cap: pattern.NoMatch, Txt: txt, Pos: it.win.Pos()}
		}
		if !it.win.AtEOB() || res.Pos != it.win.End() {
			return pattern.Result{Cap: pattern.NoMatch, Txt: txt, Pos: it.win.Pos()}
		}
		return res
	default:
		return res
	}
}

// step runs the tape once from txt, returning the match tuple for this
// single attempt (no FIND-style retry, no empty-match skip — callers
// layer that policy on top, per method).
func (it *Interp) step(txt int) pattern.Result {
	pc := it.pat.Prog.Start
	it.win.Rewind(txt)
	var bt backtrack

	bol := it.win.AtBOL(txt)
	cap := pattern.NoMatch
	pos := txt
	lastCap, lastPos := pattern.NoMatch, txt

	for {
		inst := it.pat.Prog.Inst[pc]
		switch inst.Op {
		case opcode.Meta:
			if it.metaSatisfied(inst.Meta, txt, pos, bol) {
				if !bt.valid {
					bt = backtrack{valid: true, pc: pc + 1, pos: pos}
				}
				pc = int(inst.Target)
				continue
			}
			pc++
			continue

		case opcode.Head:
			if inst.Alt >= 0 && inst.Alt < maxLookahead {
				it.lap[inst.Alt] = pos - txt
			}
			pc++
			continue

		case opcode.Tail:
			if inst.Alt >= 0 && inst.Alt < maxLookahead {
				pos = txt + it.lap[inst.Alt]
				it.win.Rewind(pos)
			}
			pc++
			continue

		case opcode.Redo:
			cap = pattern.Redo
			pos = it.win.Pos()
			goto done

		case opcode.Take:
			cap = inst.Alt + 1
			pos = it.win.Pos()
			goto done

		case opcode.Goto:
			// An accepting state ends in Take: remember its accept so a
			// dead end further on still commits this shorter match.
			if t := pc + it.pat.Prog.StateLen(pc); t < len(it.pat.Prog.Inst) && it.pat.Prog.Inst[t].Op == opcode.Take {
				lastCap, lastPos = it.pat.Prog.Inst[t].Alt+1, pos
			}
			entryPos := pos
			b, err := it.win.Get()
			if err != nil {
				cap = pattern.NoMatch
				goto done
			}
			matched := false
			i := pc
			for ; i < len(it.pat.Prog.Inst) && it.pat.Prog.Inst[i].Op == opcode.Goto; i++ {
				gi := it.pat.Prog.Inst[i]
				if b != window.EOB && int(gi.Lo) <= b && b <= int(gi.Hi) {
					pc = int(gi.Target)
					pos = it.win.Pos()
					matched = true
					break
				}
			}
			if matched {
				continue
			}
			// Dispatch miss: per the GOTO encoding, a byte outside every
			// range in this state's sorted table falls through to the
			// next word rather than halting outright, and that next word
			// is this state's terminal Take or Halt (determinize.go always
			// emits a state as Goto*, then exactly one of those two).
			// Falling through to it here, instead of declaring NoMatch
			// directly, lets a state that is both accepting and has an
			// outgoing edge (the loop state for `a+`, say) still commit
			// its accept when the next byte doesn't continue the loop.
			// Rewind past the byte Get() just consumed to reach the
			// dispatch table: it was never part of the match either way.
			it.win.Rewind(entryPos)
			pos = entryPos
			if i >= len(it.pat.Prog.Inst) {
				cap = pattern.NoMatch
				goto done
			}
			pc = i
			continue

		case opcode.Halt:
			if bt.valid {
				it.win.Rewind(bt.pos)
				pos = bt.pos
				pc = bt.pc
				bt.valid = false
				continue
			}
			if lastCap != pattern.NoMatch {
				cap, pos = lastCap, lastPos
				it.win.Rewind(pos)
				goto done
			}
			cap = pattern.NoMatch
			goto done

		default:
			cap = pattern.NoMatch
			goto done
		}
	}

done:
	length := pos - txt
	if cap == pattern.NoMatch {
		length = 0
	}
	if cap > 0 && length == 0 && it.win.AtEOB() {
		cap = pattern.Empty
	}
	return pattern.Result{Cap: cap, Txt: txt, Len: length, Pos: pos}
}

// metaSatisfied evaluates one anchor predicate against the window and
// (when relevant) the indentation tracker.
func (it *Interp) metaSatisfied(m opcode.MetaKind, txt, pos int, bol bool) bool {
	switch m {
	case opcode.BOB:
		return pos == 0 || (it.win.Txt() == 0 && pos == 0)
	case opcode.EOB:
		return it.win.AtEOB() && pos >= it.win.End()
	case opcode.BOL:
		if pos == txt {
			return bol
		}
		return it.win.AtBOL(pos)
	case opcode.EOL:
		b, ok := it.win.Byte(pos)
		return !ok || b == '\n'
	case opcode.WordBoundary:
		return it.win.AtBOW(pos) || it.win.AtEOW(pos)
	case opcode.NotWordBoundary:
		return !(it.win.AtBOW(pos) || it.win.AtEOW(pos))
	case opcode.Indent:
		return it.ind != nil && it.indentTransition(pos) == indent.Indent
	case opcode.Dedent:
		if it.ind == nil || (!it.ind.PendingDedent() && it.indentTransition(pos) != indent.Dedent) {
			return false
		}
		it.ind.ConsumeDedent()
		return true
	case opcode.Undent:
		return it.ind != nil && it.indentTransition(pos) == indent.Undent
	default:
		return false
	}
}

// indentTransition feeds the tracker the whitespace run at the start of
// the line containing pos and returns the resulting transition. Real
// indentation-sensitive matching drives the tracker incrementally as
// lines are consumed; this helper recomputes it defensively from the
// window, which is correct but redundant across repeated meta probes at
// the same line — acceptable since indentation-sensitive patterns are not
// on the fast-skip hot path.
func (it *Interp) indentTransition(pos int) indent.Transition {
	lineStart := pos
	for lineStart > 0 {
		b, ok := it.win.Byte(lineStart - 1)
		if !ok || b == '\n' {
			break
		}
		lineStart--
	}
	it.ind.NewLine()
	i := lineStart
	for {
		b, ok := it.win.Byte(i)
		if !ok || (b != ' ' && b != '\t') {
			break
		}
		it.ind.ScanColumn(b)
		i++
	}
	return it.ind.BeginLine()
}
