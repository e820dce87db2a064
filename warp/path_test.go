package warp

import "testing"

func TestCompactEmptyPath(t *testing.T) {
	if cp := Compact(nil); cp != nil {
		t.Fatalf("Compact(nil) = %v, want nil", cp)
	}
}

func TestCompactIdentityPath(t *testing.T) {
	path := Path{{0, 0}, {1, 1}, {2, 2}, {3, 3}}
	cp := Compact(path)
	if len(cp) != 4 {
		t.Fatalf("len(cp) = %d, want 4", len(cp))
	}
	for i, rg := range cp {
		if rg.First != i || rg.Last != i {
			t.Fatalf("cp[%d] = %+v, want {%d,%d}", i, rg, i, i)
		}
	}
}

func TestCompactMergesRepeatedSource(t *testing.T) {
	// source frame 1 spans dest frames 1..3
	path := Path{{0, 0}, {1, 1}, {1, 2}, {1, 3}, {2, 4}}
	cp := Compact(path)
	if len(cp) != 3 {
		t.Fatalf("len(cp) = %d, want 3", len(cp))
	}
	if cp[1] != (Range{First: 1, Last: 3}) {
		t.Fatalf("cp[1] = %+v, want {1,3}", cp[1])
	}
	if cp[0] != (Range{First: 0, Last: 0}) {
		t.Fatalf("cp[0] = %+v", cp[0])
	}
	if cp[2] != (Range{First: 4, Last: 4}) {
		t.Fatalf("cp[2] = %+v", cp[2])
	}
}

func TestMapFrameClampsOutOfRange(t *testing.T) {
	cp := CompactedPath{{First: 0, Last: 0}, {First: 1, Last: 3}, {First: 4, Last: 4}}
	if got := cp.MapFrame(-1, First); got != 0 {
		t.Fatalf("MapFrame(-1, First) = %d, want 0", got)
	}
	if got := cp.MapFrame(10, Last); got != 4 {
		t.Fatalf("MapFrame(10, Last) = %d, want 4", got)
	}
	if got := cp.MapFrame(1, First); got != 1 {
		t.Fatalf("MapFrame(1, First) = %d, want 1", got)
	}
	if got := cp.MapFrame(1, Last); got != 3 {
		t.Fatalf("MapFrame(1, Last) = %d, want 3", got)
	}
}

func TestMapFrameOnEmptyPath(t *testing.T) {
	var cp CompactedPath
	if got := cp.MapFrame(5, First); got != 0 {
		t.Fatalf("MapFrame on empty path = %d, want 0", got)
	}
}
