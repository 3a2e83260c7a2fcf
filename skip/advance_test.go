package skip

import (
	"testing"

	"github.com/coregx/rxcore/compile"
	"github.com/coregx/rxcore/window"
)

func TestSelectS1SingleByte(t *testing.T) {
	p, err := compile.Compile("x", compile.DefaultOptions())
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	e := New(p)
	if got := e.Select(); got != S1 {
		t.Fatalf("Select() = %v, want S1", got)
	}
}

func TestSelectS0NoLiteral(t *testing.T) {
	p, err := compile.Compile(`\w+`, compile.DefaultOptions())
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	e := New(p)
	switch e.Select() {
	case S0, S4:
		// either is a valid choice depending on the derived Min; both are
		// sound for a pattern with no fixed literal.
	default:
		t.Fatalf("Select() = %v, want S0 or S4 for a literal-free pattern", e.Select())
	}
}

func TestSelectS3Alternation(t *testing.T) {
	p, err := compile.Compile("foo|bar|baz", compile.DefaultOptions())
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	e := New(p)
	if got := e.Select(); got != S3 {
		t.Fatalf("Select() = %v, want S3", got)
	}
}

func TestAdvanceByteFindsCandidate(t *testing.T) {
	p, err := compile.Compile("x", compile.DefaultOptions())
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	e := New(p)
	w := window.New(nil, []byte("abcxdef"))
	pos, ok := e.Advance(w, 0)
	if !ok {
		t.Fatalf("expected a candidate")
	}
	if pos != 3 {
		t.Fatalf("pos = %d, want 3", pos)
	}
}

func TestAdvanceByteNoCandidate(t *testing.T) {
	p, err := compile.Compile("x", compile.DefaultOptions())
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	e := New(p)
	w := window.New(nil, []byte("abcdef"))
	_, ok := e.Advance(w, 0)
	if ok {
		t.Fatalf("expected no candidate")
	}
}

func TestAdvanceMemmemFindsLiteral(t *testing.T) {
	p, err := compile.Compile("needle", compile.DefaultOptions())
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	e := New(p)
	if e.Select() != S2 && e.Select() != S5 {
		t.Fatalf("Select() = %v, want S2 or S5 for a multi-byte literal", e.Select())
	}
	w := window.New(nil, []byte("haystack with needle inside"))
	pos, ok := e.Advance(w, 0)
	if !ok {
		t.Fatalf("expected a candidate")
	}
	if pos != 14 {
		t.Fatalf("pos = %d, want 14", pos)
	}
}

func TestAdvanceAhoCorasickFindsEarliestAlternative(t *testing.T) {
	p, err := compile.Compile("foo|bar|baz", compile.DefaultOptions())
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	e := New(p)
	w := window.New(nil, []byte("xxxbarxxxfooxxx"))
	pos, ok := e.Advance(w, 0)
	if !ok {
		t.Fatalf("expected a candidate")
	}
	if pos != 3 {
		t.Fatalf("pos = %d, want 3 (bar found before foo)", pos)
	}
}

func TestAdvanceStartsFromOffset(t *testing.T) {
	p, err := compile.Compile("x", compile.DefaultOptions())
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	e := New(p)
	w := window.New(nil, []byte("xabcxdef"))
	pos, ok := e.Advance(w, 1)
	if !ok {
		t.Fatalf("expected a candidate")
	}
	if pos != 4 {
		t.Fatalf("pos = %d, want 4 (first x at/after offset 1)", pos)
	}
}

func TestAdvanceNoneSignalsExhaustion(t *testing.T) {
	// "." has no fixed literal and Min < 4, so it selects S0. Find's retry
	// loop only terminates when Advance reports ok == false; S0 must do
	// that once from reaches true EOF instead of looping forever.
	p, err := compile.Compile(".", compile.DefaultOptions())
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	e := New(p)
	if e.Select() != S0 {
		t.Fatalf("Select() = %v, want S0", e.Select())
	}
	w := window.New(nil, []byte("ab"))
	pos, ok := e.Advance(w, 0)
	if !ok || pos != 0 {
		t.Fatalf("Advance(0) = (%d, %v), want (0, true)", pos, ok)
	}
	pos, ok = e.Advance(w, w.End())
	if ok {
		t.Fatalf("Advance(win.End()) = (%d, %v), want ok == false at true EOF", pos, ok)
	}
}

func TestBoyerMooreSearchMatchesKnownNeedle(t *testing.T) {
	p, err := compile.Compile("abcabd", compile.DefaultOptions())
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	hay := []byte("xxxabcabdxxx")
	got := boyerMooreSearch(hay, p.Literal, &p.Bms, p.Bmd)
	if got != 3 {
		t.Fatalf("boyerMooreSearch = %d, want 3", got)
	}
}
