package rxcore

import (
	"errors"
	"io"
	"strings"
	"testing"
)

func TestMatcherMatchSimpleLiteral(t *testing.T) {
	pat := MustCompile("needle", DefaultOptions())
	m := NewBytes(pat, []byte("needle"), DefaultOptions())
	res, err := m.Match()
	if err != nil {
		t.Fatalf("Match: %v", err)
	}
	if !res.Matched() {
		t.Fatalf("expected a match")
	}
	if string(res.Text()) != "needle" {
		t.Fatalf("Text() = %q, want needle", res.Text())
	}
	if res.Begin() != 0 || res.EndOffset() != 6 {
		t.Fatalf("Begin/EndOffset = %d/%d, want 0/6", res.Begin(), res.EndOffset())
	}
}

func TestMatcherFindLocatesMidStream(t *testing.T) {
	pat := MustCompile("needle", DefaultOptions())
	m := NewBytes(pat, []byte("hay hay needle hay"), DefaultOptions())
	res, err := m.Find()
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if !res.Matched() {
		t.Fatalf("expected a match")
	}
	if res.Begin() != 8 {
		t.Fatalf("Begin() = %d, want 8", res.Begin())
	}
}

func TestMatcherFindNoMatch(t *testing.T) {
	pat := MustCompile("needle", DefaultOptions())
	m := NewBytes(pat, []byte("nothing here"), DefaultOptions())
	res, err := m.Find()
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if res.Matched() {
		t.Fatalf("expected no match")
	}
}

func TestMatcherFindMultipleAdvances(t *testing.T) {
	pat := MustCompile("ab", DefaultOptions())
	m := NewBytes(pat, []byte("xx ab yy ab zz"), DefaultOptions())

	res1, err := m.Find()
	if err != nil || !res1.Matched() {
		t.Fatalf("first Find: res=%+v err=%v", res1, err)
	}
	if res1.Begin() != 3 {
		t.Fatalf("first match Begin() = %d, want 3", res1.Begin())
	}

	res2, err := m.Find()
	if err != nil || !res2.Matched() {
		t.Fatalf("second Find: res=%+v err=%v", res2, err)
	}
	if res2.Begin() != 9 {
		t.Fatalf("second match Begin() = %d, want 9", res2.Begin())
	}
}

func TestMatcherScanAllRequiresFullConsumption(t *testing.T) {
	pat := MustCompile("abc", DefaultOptions())

	m := NewBytes(pat, []byte("abc"), DefaultOptions())
	res, err := m.ScanAll()
	if err != nil {
		t.Fatalf("ScanAll: %v", err)
	}
	if !res.Matched() {
		t.Fatalf("expected ScanAll to match the whole buffer")
	}

	m2 := NewBytes(pat, []byte("abcd"), DefaultOptions())
	res2, err := m2.ScanAll()
	if err != nil {
		t.Fatalf("ScanAll: %v", err)
	}
	if res2.Matched() {
		t.Fatalf("expected ScanAll to fail on a partial-consuming match")
	}
}

func TestMatcherSplitOnMatches(t *testing.T) {
	pat := MustCompile(",", DefaultOptions())
	m := NewBytes(pat, []byte("a,b,c"), DefaultOptions())
	parts, err := m.Split()
	if err != nil {
		t.Fatalf("Split: %v", err)
	}
	if len(parts) != 3 {
		t.Fatalf("len(parts) = %d, want 3", len(parts))
	}
	for i, want := range []string{"a", "b", "c"} {
		if string(parts[i]) != want {
			t.Fatalf("parts[%d] = %q, want %q", i, parts[i], want)
		}
	}
}

func TestMatcherGroupResolvesCaptures(t *testing.T) {
	opts := DefaultOptions()
	opts.RequireCaptures = true
	pat, err := Compile(`(\d+)-(\d+)`, opts)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	m := NewBytes(pat, []byte("range 10-20 end"), opts)
	res, err := m.Find()
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if !res.Matched() {
		t.Fatalf("expected a match")
	}
	text, begin, end, ok := res.Group(1)
	if !ok {
		t.Fatalf("expected group 1 to resolve")
	}
	if string(text) != "10" {
		t.Fatalf("group 1 = %q, want 10", text)
	}
	if begin != 6 || end != 8 {
		t.Fatalf("group 1 offsets = %d,%d, want 6,8", begin, end)
	}
}

func TestMatcherGroupWithoutRequireCapturesFails(t *testing.T) {
	pat := MustCompile(`(\d+)-(\d+)`, DefaultOptions())
	m := NewBytes(pat, []byte("10-20"), DefaultOptions())
	res, err := m.Match()
	if err != nil || !res.Matched() {
		t.Fatalf("Match: res=%+v err=%v", res, err)
	}
	if _, _, _, ok := res.Group(1); ok {
		t.Fatalf("expected Group to fail without RequireCaptures")
	}
}

type erroringReader struct{}

func (erroringReader) Read(p []byte) (int, error) {
	return 0, errors.New("simulated device failure")
}

func TestMatcherPropagatesInputError(t *testing.T) {
	pat := MustCompile("needle", DefaultOptions())
	m := New(pat, erroringReader{}, DefaultOptions())
	_, err := m.Find()
	if err == nil {
		t.Fatalf("expected an InputError")
	}
	var ie *InputError
	if !errors.As(err, &ie) {
		t.Fatalf("expected *InputError, got %T: %v", err, err)
	}
	if !errors.Is(err, ErrInput) {
		t.Fatalf("expected errors.Is(err, ErrInput) to hold")
	}
}

func TestMatcherCancelFunc(t *testing.T) {
	pat := MustCompile("needle", DefaultOptions())
	m := NewBytes(pat, []byte("no match here at all"), DefaultOptions())
	calls := 0
	m.SetCancelFunc(func() bool {
		calls++
		return true
	})
	_, err := m.Find()
	if !errors.Is(err, ErrCancelled) {
		t.Fatalf("expected ErrCancelled, got %v", err)
	}
	if calls == 0 {
		t.Fatalf("expected the cancel func to be polled")
	}
}

func TestMatcherStreamingReader(t *testing.T) {
	pat := MustCompile("needle", DefaultOptions())
	r := io.NopCloser(strings.NewReader("hay hay needle hay"))
	m := New(pat, r, DefaultOptions())
	res, err := m.Find()
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if !res.Matched() {
		t.Fatalf("expected a match over a streaming reader")
	}
	if res.Begin() != 8 {
		t.Fatalf("Begin() = %d, want 8", res.Begin())
	}
}
