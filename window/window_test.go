package window

import (
	"io"
	"strings"
	"testing"
)

func TestWindowGetAdvancesPos(t *testing.T) {
	w := New(strings.NewReader("hi"), nil)
	b, err := w.Get()
	if err != nil || b != 'h' {
		t.Fatalf("Get() = %d, %v, want 'h', nil", b, err)
	}
	if w.Pos() != 1 {
		t.Fatalf("Pos() = %d, want 1", w.Pos())
	}
}

func TestWindowGetEOB(t *testing.T) {
	w := New(strings.NewReader("x"), nil)
	w.Get()
	b, err := w.Get()
	if err != nil || b != EOB {
		t.Fatalf("Get() at EOF = %d, %v, want EOB, nil", b, err)
	}
}

func TestWindowByteFromReader(t *testing.T) {
	w := New(strings.NewReader("hello world"), nil)
	b, ok := w.Byte(0)
	if !ok || b != 'h' {
		t.Fatalf("Byte(0) = %q, %v, want 'h', true", b, ok)
	}
	b, ok = w.Byte(6)
	if !ok || b != 'w' {
		t.Fatalf("Byte(6) = %q, %v, want 'w', true", b, ok)
	}
}

func TestWindowByteOutOfRange(t *testing.T) {
	w := New(strings.NewReader("hi"), nil)
	if _, ok := w.Byte(100); ok {
		t.Fatalf("expected Byte past EOF to fail")
	}
}

func TestWindowSlice(t *testing.T) {
	w := New(nil, []byte("abcdef"))
	got := w.Slice(1, 4)
	if string(got) != "bcd" {
		t.Fatalf("Slice(1,4) = %q, want \"bcd\"", got)
	}
}

func TestWindowSetCurrentMatchDiscards(t *testing.T) {
	w := New(nil, []byte("abcdef"))
	w.SetCurrentMatch(3)
	b, ok := w.PriorByte()
	if !ok || b != 'c' {
		t.Fatalf("PriorByte() = %q, %v, want 'c', true", b, ok)
	}
	if _, ok := w.Byte(1); ok {
		t.Fatalf("expected discarded byte to be unreachable")
	}
}

func TestWindowAtEOF(t *testing.T) {
	w := New(strings.NewReader("x"), nil)
	if w.AtEOF() {
		t.Fatalf("should not be EOF before any read")
	}
	w.Slice(0, 10)
	if !w.AtEOF() {
		t.Fatalf("expected EOF once reader is exhausted")
	}
}

func TestWindowMaxSize(t *testing.T) {
	w := New(strings.NewReader(strings.Repeat("x", 1000)), nil)
	w.MaxSize = 10
	err := w.fill(1000)
	if err != ErrTooLong {
		t.Fatalf("fill() error = %v, want ErrTooLong", err)
	}
}

func TestWindowCompaction(t *testing.T) {
	data := strings.Repeat("a", 4*DefaultChunk)
	w := New(strings.NewReader(data), nil)
	w.Slice(0, len(data))
	w.SetCurrentMatch(3 * DefaultChunk)
	if w.base != w.txt {
		t.Fatalf("expected compaction to reset base to txt")
	}
	b, ok := w.Byte(3*DefaultChunk + 1)
	if !ok || b != 'a' {
		t.Fatalf("Byte after compaction = %q, %v, want 'a', true", b, ok)
	}
}

func TestWindowAtBOW(t *testing.T) {
	w := New(nil, []byte("word words sword word"))
	if !w.AtBOW(0) {
		t.Fatalf("expected offset 0 to begin a word")
	}
	if w.AtBOW(7) {
		t.Fatalf("offset 7 is mid-word, should not be a word boundary start")
	}
	if !w.AtBOW(11) {
		t.Fatalf("expected offset 11 (\"sword\") to begin a word")
	}
}

func TestWindowAtEOW(t *testing.T) {
	w := New(nil, []byte("word words"))
	if !w.AtEOW(4) {
		t.Fatalf("expected offset 4 to end the first word")
	}
	if w.AtEOW(2) {
		t.Fatalf("offset 2 is mid-word, should not end a word")
	}
}

func TestWindowAtBOL(t *testing.T) {
	w := New(nil, []byte("a\nb"))
	if !w.AtBOL(0) {
		t.Fatalf("offset 0 should be at beginning of line")
	}
	if !w.AtBOL(2) {
		t.Fatalf("offset 2 (after \\n) should be at beginning of line")
	}
	if w.AtBOL(1) {
		t.Fatalf("offset 1 should not be at beginning of line")
	}
}

var _ io.Reader = (*strings.Reader)(nil)
