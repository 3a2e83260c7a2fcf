// Package opcode defines the instruction tape consumed by the interpreter.
//
// The reference engine this package is modeled on packs each instruction into
// a 32-bit word (a sorted GOTO dispatch table entry, or one of a handful of
// control words: HEAD/TAIL/TAKE/REDO/LONG/META/HALT). A Go port has no reason
// to fight the type system to recover those four bytes: representing the tape
// as a slice of a small struct keeps the interpreter's hot loop branch-free
// over a typed switch instead of bit-shifting out packed fields, while
// preserving the exact transition semantics the tape encodes.
package opcode

// Op identifies the kind of a tape instruction.
type Op uint8

const (
	// Goto consumes the current byte; if it lies in [Lo, Hi], control jumps
	// to Target. A run of sorted Goto instructions at increasing Lo forms a
	// dispatch table for one DFA state (see Prog.StateLen).
	Goto Op = iota
	// Meta conditions a jump on an anchor predicate (BOL, word boundary,
	// indent/dedent, ...) without consuming a byte.
	Meta
	// Head records that lookahead region La begins at the current position.
	Head
	// Tail rewinds the cursor to the position recorded by the matching Head,
	// implementing fixed-width trailing lookahead.
	Tail
	// Redo marks a pending-dedent signal: the interpreter must re-enter the
	// indentation tracker before resuming without consuming input.
	Redo
	// Take accepts the match as alternative Alt.
	Take
	// Halt terminates this thread of execution (no match from this state).
	Halt
)

func (op Op) String() string {
	switch op {
	case Goto:
		return "GOTO"
	case Meta:
		return "META"
	case Head:
		return "HEAD"
	case Tail:
		return "TAIL"
	case Redo:
		return "REDO"
	case Take:
		return "TAKE"
	case Halt:
		return "HALT"
	default:
		return "?"
	}
}

// MetaKind enumerates the anchor predicates a Meta instruction may test.
type MetaKind uint8

const (
	BOB MetaKind = iota // beginning of buffer (\A)
	EOB                 // end of buffer (\z)
	BOL                 // beginning of line (^)
	EOL                 // end of line ($)
	WordBoundary
	NotWordBoundary
	Indent // \i — column increased past the current indent stop
	Dedent // \j — column fell below the current indent stop
	Undent // \k — column equals the current indent stop (no change)
)

func (m MetaKind) String() string {
	switch m {
	case BOB:
		return "BOB"
	case EOB:
		return "EOB"
	case BOL:
		return "BOL"
	case EOL:
		return "EOL"
	case WordBoundary:
		return "WB"
	case NotWordBoundary:
		return "NWB"
	case Indent:
		return "IND"
	case Dedent:
		return "DED"
	case Undent:
		return "UND"
	default:
		return "?"
	}
}

// NoTarget marks an instruction field that carries no jump target.
const NoTarget int32 = -1

// Inst is one tape instruction. Not every field is meaningful for every Op;
// see the Op-specific doc comments above.
type Inst struct {
	Op     Op
	Lo, Hi byte     // Goto: inclusive byte range
	Target int32    // Goto/Meta: jump target (index into Prog), NoTarget if none
	Meta   MetaKind // Meta only
	Alt    int      // Take: accepted alternative id; Head/Tail: lookahead slot
}

// Prog is a compiled opcode tape plus the index of the start state's first
// instruction. States are contiguous runs: zero or more Meta instructions
// (anchor-conditioned alternate jumps), then a sorted run of Goto
// instructions, terminated by a fallthrough Take or Halt.
type Prog struct {
	Inst  []Inst
	Start int // index of the first instruction to execute
}

// StateLen returns the number of Goto instructions making up the dispatch
// table beginning at pc (used by the interpreter to find the Take or Halt
// that ends a state).
func (p *Prog) StateLen(pc int) int {
	n := 0
	for pc+n < len(p.Inst) && p.Inst[pc+n].Op == Goto {
		n++
	}
	return n
}
