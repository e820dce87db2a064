package warp

import (
	"errors"
	"fmt"
	"math"
)

// ErrEmptySequence is returned by Align when either input sequence has
// zero length, the one caller-branchable error condition in this package
// (mirroring the algo-fft sentinel-error style the rest of the module
// follows for conditions a caller may want to test with errors.Is).
var ErrEmptySequence = errors.New("warp: ref and src must be non-empty")

// CostFunc is a frame-to-frame distance between two MFCC vectors.
type CostFunc func(a, b []float64) float64

// EuclideanCost is the default frame-to-frame distance.
func EuclideanCost(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var sum float64
	for i := 0; i < n; i++ {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}

// Options configures one call to Align.
type Options struct {
	// Window is the half-width in frames of the DTW band. Must be >= 1.
	Window int
	// Centers optionally gives a per-reference-row band center on the
	// source axis. When nil, the band is the diagonal Sakoe-Chiba band.
	Centers []int
	// Cost defaults to EuclideanCost when nil.
	Cost CostFunc
}

const sizeOfCost = 8 // bytes, float64

// EstimateBandedMatrixBytes reports the memory a banded cost matrix of R
// rows and band half-width W would need, before allocation.
func EstimateBandedMatrixBytes(r, s, w int) int64 {
	if r <= 0 || w <= 0 {
		return 0
	}
	bandWidth := int64(2*w + 1)
	if int64(s) < bandWidth {
		bandWidth = int64(s)
	}
	return int64(r) * bandWidth * sizeOfCost
}

type bandRow struct {
	lo, hi int
	cost   []float64
}

func (row bandRow) at(j int) float64 {
	if row.cost == nil || j < row.lo || j > row.hi {
		return math.Inf(1)
	}
	return row.cost[j-row.lo]
}

// clampedAt is used for cross-row predecessor lookups: a predecessor
// outside the neighboring row's band is clamped to that row's nearest
// edge rather than treated as unreachable, so a narrow or badly centered
// band widens locally instead of failing.
func (row bandRow) clampedAt(j int) float64 {
	if row.cost == nil {
		return math.Inf(1)
	}
	if j < row.lo {
		j = row.lo
	}
	if j > row.hi {
		j = row.hi
	}
	return row.cost[j-row.lo]
}

// Align computes a minimum-cost monotone warp path between ref and src
// under a band constraint.
func Align(ref, src [][]float64, opts Options) (Path, error) {
	r, s := len(ref), len(src)
	if r == 0 || s == 0 {
		return nil, fmt.Errorf("%w (got %d, %d)", ErrEmptySequence, r, s)
	}
	w := opts.Window
	if w < 1 {
		return nil, fmt.Errorf("warp: window half-width must be >= 1, got %d", w)
	}
	if opts.Centers != nil && len(opts.Centers) != r {
		return nil, fmt.Errorf("warp: centers length %d does not match ref length %d", len(opts.Centers), r)
	}
	cost := opts.Cost
	if cost == nil {
		cost = EuclideanCost
	}

	bands := make([]struct{ lo, hi int }, r)
	for i := 0; i < r; i++ {
		var center int
		if opts.Centers != nil {
			center = opts.Centers[i]
		} else {
			center = int(math.Round(float64(i) * float64(s) / float64(r)))
		}
		lo := center - w
		hi := center + w
		if lo < 0 {
			lo = 0
		}
		if hi > s-1 {
			hi = s - 1
		}
		bands[i] = struct{ lo, hi int }{lo, hi}
	}
	// Widen locally so the path can always start at (0,0) and end at
	// (r-1, s-1), even if narrow custom centers would otherwise miss a
	// corner.
	if bands[0].lo > 0 {
		bands[0].lo = 0
	}
	if bands[r-1].hi < s-1 {
		bands[r-1].hi = s - 1
	}

	rows := make([]bandRow, r)
	var prevRow bandRow
	for i := 0; i < r; i++ {
		lo, hi := bands[i].lo, bands[i].hi
		row := bandRow{lo: lo, hi: hi, cost: make([]float64, hi-lo+1)}
		for j := lo; j <= hi; j++ {
			d := cost(ref[i], src[j])

			var diag, up float64 = math.Inf(1), math.Inf(1)
			if i == 0 && j == 0 {
				diag = 0 // virtual (-1,-1) seed
			} else if i > 0 {
				diag = prevRow.clampedAt(j - 1)
				up = prevRow.clampedAt(j)
				if j == 0 {
					diag = math.Inf(1)
				}
			}
			var left float64 = math.Inf(1)
			if j > lo {
				left = row.cost[j-lo-1]
			} else if j > 0 && i == 0 {
				left = math.Inf(1) // row 0 seeds only from (0,0)
			}

			best := diag
			if up < best {
				best = up
			}
			if left < best {
				best = left
			}
			if math.IsInf(best, 1) {
				best = 0 // isolated band cell reachable only from itself
			}
			row.cost[j-lo] = d + best
		}
		rows[i] = row
		prevRow = row
	}

	return backtrack(rows, ref, src, cost), nil
}

const tieEpsilon = 1e-9

func almostEqual(a, b float64) bool {
	if math.IsInf(a, 1) || math.IsInf(b, 1) {
		return false
	}
	return math.Abs(a-b) <= tieEpsilon
}

// backtrack walks from (r-1, s-1) to (0,0), choosing among diagonal, up,
// and left predecessors in that tie-break order.
func backtrack(rows []bandRow, ref, src [][]float64, cost CostFunc) Path {
	r := len(rows)
	s := 0
	if r > 0 {
		s = rows[r-1].hi + 1
	}
	i, j := r-1, s-1

	path := make(Path, 0, r+s)
	for i >= 0 && j >= 0 {
		path = append(path, Point{Source: i, Dest: j})
		if i == 0 && j == 0 {
			break
		}

		d := cost(ref[i], src[j])
		curr := rows[i].at(j) - d

		var diag, up, left float64 = math.Inf(1), math.Inf(1), math.Inf(1)
		if i > 0 && j > 0 {
			diag = rows[i-1].clampedAt(j - 1)
		}
		if i > 0 {
			up = rows[i-1].clampedAt(j)
		}
		if j > 0 {
			left = rows[i].at(j - 1)
		}

		switch {
		case i > 0 && j > 0 && almostEqual(curr, diag):
			i, j = i-1, j-1
		case i > 0 && almostEqual(curr, up):
			i--
		case j > 0 && almostEqual(curr, left):
			j--
		case i > 0:
			i--
		case j > 0:
			j--
		default:
			i, j = 0, 0
		}
	}

	for l, rr := 0, len(path)-1; l < rr; l, rr = l+1, rr-1 {
		path[l], path[rr] = path[rr], path[l]
	}
	return path
}
