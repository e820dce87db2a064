// Package warp implements the DTW warp-path representation and the
// windowed DTW aligner.
package warp

// Point is one step of an AlignmentPath: source is the reference-axis
// index, dest is the source-audio-axis index.
type Point struct {
	Source, Dest int
}

// Path is a finite ordered sequence of Points, monotone nondecreasing in
// both coordinates, starting at (0,0) and ending at (Sref-1, Ssrc-1).
type Path []Point

// Range is one entry of a CompactedPath: the minimum and maximum
// source-axis indices visited by the warp path at one reference frame.
type Range struct {
	First, Last int
}

// CompactedPath is indexed by reference frame; entry i is the contiguous
// source-axis footprint of reference frame i.
type CompactedPath []Range

// Compact walks path in order and produces a CompactedPath of length
// (max source index + 1), exploiting the monotone property that each
// reference frame's source-frame footprint is a contiguous interval.
func Compact(path Path) CompactedPath {
	if len(path) == 0 {
		return nil
	}
	maxSource := 0
	for _, p := range path {
		if p.Source > maxSource {
			maxSource = p.Source
		}
	}
	cp := make(CompactedPath, maxSource+1)
	seen := make([]bool, maxSource+1)
	for _, p := range path {
		if !seen[p.Source] {
			cp[p.Source] = Range{First: p.Dest, Last: p.Dest}
			seen[p.Source] = true
		} else {
			cp[p.Source].Last = p.Dest
		}
	}
	return cp
}

// Kind selects which bound MapFrame returns.
type Kind int

const (
	First Kind = iota
	Last
)

// MapFrame returns entry[i].First or entry[i].Last, clamping i into
// [0, len(cp)-1]. An empty path maps everything to 0.
func (cp CompactedPath) MapFrame(i int, kind Kind) int {
	if len(cp) == 0 {
		return 0
	}
	if i < 0 {
		i = 0
	}
	if i >= len(cp) {
		i = len(cp) - 1
	}
	if kind == Last {
		return cp[i].Last
	}
	return cp[i].First
}
