package rxcore

import (
	"io"

	"github.com/coregx/rxcore/capture"
	"github.com/coregx/rxcore/compile"
	"github.com/coregx/rxcore/indent"
	"github.com/coregx/rxcore/interp"
	"github.com/coregx/rxcore/opcode"
	"github.com/coregx/rxcore/pattern"
	"github.com/coregx/rxcore/skip"
	"github.com/coregx/rxcore/window"
)

// Compile parses pat and produces a ready-to-match Pattern under opts.
func Compile(pat string, opts Options) (*pattern.Pattern, error) {
	return compile.Compile(pat, opts.toCompileOptions())
}

// MustCompile is Compile but panics on error.
func MustCompile(pat string, opts Options) *pattern.Pattern {
	return compile.MustCompile(pat, opts.toCompileOptions())
}

// Matcher drives one compiled Pattern against one input stream. A Matcher
// is not safe for concurrent use; the Pattern it was built from may be
// shared read-only across any number of Matchers in other goroutines.
type Matcher struct {
	pat  *pattern.Pattern
	win  *window.Window
	it   *interp.Interp
	sk   *skip.Engine
	capb *capture.Backend
	opts Options

	cancel   func() bool
	poisoned error
}

// New creates a Matcher reading from src, an arbitrary io.Reader. Bytes
// are pulled on demand as the match loop needs them.
func New(pat *pattern.Pattern, src io.Reader, opts Options) *Matcher {
	return newMatcher(pat, window.New(src, nil), opts)
}

// NewBytes creates a Matcher over an in-memory byte slice, with no
// further refilling possible once the slice is exhausted.
func NewBytes(pat *pattern.Pattern, data []byte, opts Options) *Matcher {
	return newMatcher(pat, window.New(nil, data), opts)
}

func newMatcher(pat *pattern.Pattern, win *window.Window, opts Options) *Matcher {
	validatePattern(pat)
	m := &Matcher{pat: pat, win: win, opts: opts}
	m.it = interp.New(pat, win)
	m.sk = skip.New(pat)
	if opts.RequireCaptures && pat.Source != "" {
		if b, err := capture.Compile(pat.Source); err == nil {
			m.capb = b
		}
	}
	return m
}

// validatePattern checks the invariants a well-formed compiled Pattern
// must hold. A violation here is a compiler bug, not a condition any
// input could trigger, so it panics rather than returning an error (see
// errors.go's PATTERN_INTERNAL policy).
func validatePattern(pat *pattern.Pattern) {
	prog := pat.Prog
	if len(prog.Inst) == 0 {
		panicPatternInternal("empty instruction tape")
	}
	if prog.Start < 0 || prog.Start >= len(prog.Inst) {
		panicPatternInternal("start pc %d out of range for %d instructions", prog.Start, len(prog.Inst))
	}
	for i, inst := range prog.Inst {
		switch inst.Op {
		case opcode.Meta, opcode.Goto:
			if inst.Target == opcode.NoTarget {
				continue
			}
			if int(inst.Target) < 0 || int(inst.Target) >= len(prog.Inst) {
				panicPatternInternal("instruction %d: jump target %d out of range", i, inst.Target)
			}
		}
	}
}

// SetCancelFunc installs a cooperative cancellation poll: FIND and SPLIT
// check it between candidate offsets and stop with ErrCancelled if it
// returns true. Matches already returned remain valid.
func (m *Matcher) SetCancelFunc(f func() bool) { m.cancel = f }

// Result is one match cycle's outcome, with absolute stream offsets and
// capture-group access when the Matcher was built with RequireCaptures.
type Result struct {
	ok    bool
	empty bool
	begin int
	end   int
	capID int
	text  []byte
	capb  *capture.Backend
}

// Matched reports whether this Result represents an accepted match.
func (r Result) Matched() bool { return r.ok }

// IsEmpty reports whether this Result is a zero-length match accepted at
// EOF (pattern.Empty), as opposed to an ordinary nonzero-length match.
func (r Result) IsEmpty() bool { return r.empty }

// Text returns the matched bytes.
func (r Result) Text() []byte { return r.text }

// Len returns the length of the match in bytes.
func (r Result) Len() int { return r.end - r.begin }

// Begin returns the absolute offset (from the start of the stream) the
// match begins at.
func (r Result) Begin() int { return r.begin }

// EndOffset returns the absolute offset one past the end of the match.
func (r Result) EndOffset() int { return r.end }

// CaptureID returns which top-level alternative matched (1-based), or 0 if
// this Result does not represent a match, or -1 (pattern.Empty) for an
// accepted zero-length match at EOF.
func (r Result) CaptureID() int { return r.capID }

// Group returns the [begin, end) text of capture group i, resolved by the
// external Perl-compatible backend (see the capture package). It reports
// ok == false if the Matcher was not built with RequireCaptures, the group
// didn't participate in the match, or i is out of range.
func (r Result) Group(i int) (text []byte, begin, end int, ok bool) {
	if !r.ok || r.capb == nil {
		return nil, 0, 0, false
	}
	sub := r.capb.FindSubmatch(r.text)
	if sub == nil {
		return nil, 0, 0, false
	}
	b, e, ok := sub.Group(i)
	if !ok {
		return nil, 0, 0, false
	}
	return r.text[b:e], r.begin + b, r.begin + e, true
}

func (m *Matcher) toResult(pr pattern.Result) Result {
	if !pr.Matched() {
		return Result{}
	}
	text := m.win.Slice(pr.Txt, pr.Txt+pr.Len)
	capID := pr.Cap
	if pr.Cap == pattern.Empty {
		capID = -1
	}
	return Result{
		ok:    true,
		empty: pr.Cap == pattern.Empty,
		begin: pr.Txt,
		end:   pr.Txt + pr.Len,
		capID: capID,
		text:  text,
		capb:  m.capb,
	}
}

// Match attempts the pattern starting exactly at the current cursor.
func (m *Matcher) Match() (Result, error) {
	return m.runOnce(pattern.Match)
}

// ScanAll attempts the pattern starting at the current cursor and
// succeeds only if the match consumes the entire remaining window.
func (m *Matcher) ScanAll() (Result, error) {
	return m.runOnce(pattern.Scan)
}

func (m *Matcher) runOnce(method pattern.Method) (Result, error) {
	if m.poisoned != nil {
		return Result{}, m.poisoned
	}
	pr := m.it.Run(method)
	if err := m.checkInputError(); err != nil {
		return Result{}, err
	}
	return m.toResult(pr), nil
}

// Find searches forward from the current cursor for the next match,
// invoking the fast-skip engine between attempts, and advances the window
// past the match on success so a subsequent Find continues from there.
func (m *Matcher) Find() (Result, error) {
	if m.poisoned != nil {
		return Result{}, m.poisoned
	}
	from := m.win.Cur()
	for {
		if m.cancel != nil && m.cancel() {
			return Result{}, ErrCancelled
		}
		cand, ok := m.sk.Advance(m.win, from)
		if !ok {
			if err := m.checkInputError(); err != nil {
				return Result{}, err
			}
			return Result{}, nil
		}
		m.win.SetCurrent(cand)
		pr := m.it.Run(pattern.Match)
		if err := m.checkInputError(); err != nil {
			return Result{}, err
		}
		if pr.Matched() {
			adv := pr.Pos
			if adv <= cand {
				adv = cand + 1
			}
			m.win.SetCurrentMatch(adv)
			return m.toResult(pr), nil
		}
		from = cand + 1
	}
}

// Split repeatedly finds matches from the current cursor to the end of
// the stream and returns the text between them (the matches themselves
// are discarded, mirroring strings.Split's semantics over match
// boundaries rather than literal separators).
func (m *Matcher) Split() ([][]byte, error) {
	var parts [][]byte
	segStart := m.win.Cur()
	for {
		before := m.win.Cur()
		res, err := m.Find()
		if err != nil {
			return parts, err
		}
		if !res.Matched() {
			parts = append(parts, m.win.Slice(segStart, m.win.End()))
			return parts, nil
		}
		parts = append(parts, m.win.Slice(segStart, res.Begin()))
		segStart = res.EndOffset()
		if res.EndOffset() == before {
			// Zero-length match at the same offset: force progress so
			// Split can't spin forever on an empty-accepting pattern.
			m.win.SetCurrentMatch(res.EndOffset() + 1)
		}
	}
}

// checkInputError reports an I/O failure the window observed while the
// interpreter was running, poisoning the Matcher so subsequent calls
// return the same error rather than silently reporting no-match forever.
func (m *Matcher) checkInputError() error {
	if err := m.win.Err(); err != nil {
		wrapped := &InputError{Offset: m.win.Pos(), Err: err}
		m.poisoned = wrapped
		return wrapped
	}
	return nil
}

// Reset clears a poisoned Matcher's error state, for a caller that wants
// to keep using the same Matcher (and underlying Window position) after
// handling an InputError out of band.
func (m *Matcher) Reset() { m.poisoned = nil }

// Tracker exposes the interpreter's indentation tracker (nil unless the
// compiled pattern is indentation-sensitive).
func (m *Matcher) Tracker() *indent.Tracker { return m.it.Tracker() }
