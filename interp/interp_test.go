package interp

import (
	"testing"

	"github.com/coregx/rxcore/compile"
	"github.com/coregx/rxcore/pattern"
	"github.com/coregx/rxcore/window"
)

func mustCompile(t *testing.T, pat string) *pattern.Pattern {
	t.Helper()
	p, err := compile.Compile(pat, compile.DefaultOptions())
	if err != nil {
		t.Fatalf("compile(%q): %v", pat, err)
	}
	return p
}

func TestInterpLiteralMatch(t *testing.T) {
	p := mustCompile(t, "needle")
	w := window.New(nil, []byte("needle"))
	it := New(p, w)
	res := it.Run(pattern.Match)
	if res.Cap <= 0 {
		t.Fatalf("expected a match, got Cap=%d", res.Cap)
	}
	if res.Len != 6 {
		t.Fatalf("Len = %d, want 6", res.Len)
	}
}

func TestInterpLiteralMismatch(t *testing.T) {
	p := mustCompile(t, "needle")
	w := window.New(nil, []byte("haystack"))
	it := New(p, w)
	res := it.Run(pattern.Match)
	if res.Cap > 0 {
		t.Fatalf("expected no match, got Cap=%d", res.Cap)
	}
}

func TestInterpAlternation(t *testing.T) {
	p := mustCompile(t, "foo|bar")
	for _, input := range []string{"foo", "bar"} {
		w := window.New(nil, []byte(input))
		it := New(p, w)
		res := it.Run(pattern.Match)
		if res.Cap <= 0 {
			t.Fatalf("input %q: expected a match", input)
		}
		if res.Len != 3 {
			t.Fatalf("input %q: Len = %d, want 3", input, res.Len)
		}
	}
}

func TestInterpWordBoundary(t *testing.T) {
	p := mustCompile(t, `\bword\b`)
	w := window.New(nil, []byte("word words sword word"))
	it := New(p, w)
	res := it.Run(pattern.Match)
	if res.Cap <= 0 {
		t.Fatalf("expected a match at offset 0")
	}
	if res.Len != 4 {
		t.Fatalf("Len = %d, want 4", res.Len)
	}
}

func TestInterpEmptyPatternAcceptsEmpty(t *testing.T) {
	p := mustCompile(t, "")
	w := window.New(nil, []byte("abc"))
	it := New(p, w)
	res := it.Run(pattern.Match)
	if res.Len != 0 {
		t.Fatalf("Len = %d, want 0 for empty pattern", res.Len)
	}
	if res.Cap <= 0 {
		t.Fatalf("expected empty pattern to accept at offset 0")
	}
}

func TestInterpScanRequiresFullWindow(t *testing.T) {
	p := mustCompile(t, "abc")
	w := window.New(nil, []byte("abcd"))
	it := New(p, w)
	res := it.Run(pattern.Scan)
	if res.Cap > 0 {
		t.Fatalf("expected SCAN to fail when match doesn't consume the whole window")
	}

	w2 := window.New(nil, []byte("abc"))
	it2 := New(p, w2)
	res2 := it2.Run(pattern.Scan)
	if res2.Cap <= 0 {
		t.Fatalf("expected SCAN to succeed when match consumes the whole window")
	}
}

func TestInterpStarGreedy(t *testing.T) {
	p := mustCompile(t, "a*b")
	w := window.New(nil, []byte("aaab"))
	it := New(p, w)
	res := it.Run(pattern.Match)
	if res.Cap <= 0 {
		t.Fatalf("expected a*b to match aaab")
	}
	if res.Len != 4 {
		t.Fatalf("Len = %d, want 4 (greedy a* should consume all a's)", res.Len)
	}
}

func TestInterpStarFollowedByLiteralPrefix(t *testing.T) {
	// "a*ab" over "aaab": the subset construction merges the star's loop
	// state with the literal prefix's first 'a' state into one DFA state
	// that accepts both continuing the loop and entering the literal, so
	// this resolves without needing the meta backtrack point.
	p := mustCompile(t, "a*ab")
	w := window.New(nil, []byte("aaab"))
	it := New(p, w)
	res := it.Run(pattern.Match)
	if res.Cap <= 0 {
		t.Fatalf("expected a*ab to match aaab")
	}
	if res.Len != 4 {
		t.Fatalf("Len = %d, want 4", res.Len)
	}
}

func TestInterpPlusAcceptsAtLoopMiss(t *testing.T) {
	// "a+" over "aa": the loop state that keeps matching 'a' is itself
	// accepting, so hitting the true end of input (a dispatch miss at
	// EOB) must still commit the match instead of reporting NoMatch.
	p := mustCompile(t, "a+")
	w := window.New(nil, []byte("aa"))
	it := New(p, w)
	res := it.Run(pattern.Match)
	if res.Cap <= 0 {
		t.Fatalf("expected a+ to match aa")
	}
	if res.Len != 2 {
		t.Fatalf("Len = %d, want 2 (greedy a+ should consume both a's)", res.Len)
	}
}

func TestInterpDigitPlusAcceptsOnNonDigitMiss(t *testing.T) {
	// "[0-9]+" over "12a": the loop state must accept at the digit/letter
	// boundary, not just at EOB.
	p := mustCompile(t, "[0-9]+")
	w := window.New(nil, []byte("12a"))
	it := New(p, w)
	res := it.Run(pattern.Match)
	if res.Cap <= 0 {
		t.Fatalf("expected [0-9]+ to match a prefix of 12a")
	}
	if res.Len != 2 {
		t.Fatalf("Len = %d, want 2 (stop before the non-digit byte)", res.Len)
	}
}

func TestInterpStarAcceptsEmptyOnImmediateMiss(t *testing.T) {
	// "a*" over "b": the start state is itself the loop-accepting state,
	// so a miss on the very first byte must still accept, matching zero
	// bytes, rather than reporting NoMatch.
	p := mustCompile(t, "a*")
	w := window.New(nil, []byte("b"))
	it := New(p, w)
	res := it.Run(pattern.Match)
	if res.Cap <= 0 {
		t.Fatalf("expected a* to accept an empty match before b")
	}
	if res.Len != 0 {
		t.Fatalf("Len = %d, want 0", res.Len)
	}
}

func TestInterpMetaFallthrough(t *testing.T) {
	// "a\b|ab" over "ab": at the state reached after the shared prefix
	// 'a', the word-boundary assertion in the first alternative is not
	// satisfied (no boundary between 'a' and 'b'), so the interpreter
	// falls through past the Meta instruction to the second
	// alternative's byte dispatch.
	p := mustCompile(t, `a\b|ab`)
	w := window.New(nil, []byte("ab"))
	it := New(p, w)
	res := it.Run(pattern.Match)
	if res.Cap <= 0 {
		t.Fatalf("expected a\\b|ab to match ab via the second alternative")
	}
	if res.Len != 2 {
		t.Fatalf("Len = %d, want 2", res.Len)
	}
}
