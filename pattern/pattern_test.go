package pattern

import "testing"

func TestBuildBoyerMoore(t *testing.T) {
	bms, bmd := buildBoyerMoore([]byte("abcabc"))
	if bms['c'] != 0 {
		t.Fatalf("last byte shift should be 0, got %d", bms['c'])
	}
	if bmd != 3 {
		t.Fatalf("expected period 3 for \"abcabc\", got %d", bmd)
	}
}

func TestBuildBoyerMooreNoRepeat(t *testing.T) {
	needle := []byte("xyz")
	_, bmd := buildBoyerMoore(needle)
	if bmd != len(needle) {
		t.Fatalf("expected period == len for non-repeating needle, got %d", bmd)
	}
}

func TestBuildNeedle(t *testing.T) {
	var p Pattern
	BuildNeedle(&p, []byte("hello"))
	if p.Len != 5 {
		t.Fatalf("expected Len 5, got %d", p.Len)
	}
	if len(p.Chr) != 2 {
		t.Fatalf("expected 2 pinned needle slots, got %d", len(p.Chr))
	}
	if p.Chr[0].Bytes[0] == p.Chr[1].Bytes[0] && p.Chr[0].Offset == p.Chr[1].Offset {
		t.Fatalf("rare byte slots should differ in byte or position")
	}
}

func TestPmhRoundTrip(t *testing.T) {
	grams := [][]byte{[]byte("abcd"), []byte("wxyz")}
	table, bits := BuildPmh(grams, 4)
	p := Pattern{Pmh: table, PmhBits: bits}
	if !p.PmhContains([]byte("abcd")) {
		t.Fatalf("expected gram present in filter")
	}
}

func TestPmhEmptyAlwaysAdmits(t *testing.T) {
	var p Pattern
	if !p.PmhContains([]byte("xxxx")) {
		t.Fatalf("empty predictor must admit every gram")
	}
}

func TestBuildPma(t *testing.T) {
	var bit0 [256]bool
	bit0['a'] = true
	pma := BuildPma(bit0)
	if pma['a'] != 0 {
		t.Fatalf("expected admitted byte to map to 0, got %d", pma['a'])
	}
	if pma['b'] != PmaNone {
		t.Fatalf("expected rejected byte to map to PmaNone")
	}
}

func TestMethodString(t *testing.T) {
	cases := map[Method]string{Match: "MATCH", Find: "FIND", Scan: "SCAN", Split: "SPLIT"}
	for m, want := range cases {
		if got := m.String(); got != want {
			t.Fatalf("Method(%d).String() = %q, want %q", m, got, want)
		}
	}
}
