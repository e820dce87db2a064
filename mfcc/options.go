package mfcc

// Options configures an MFCC extractor. Every granularity preset sets
// ZeroFirstCoefficient.
type Options struct {
	WindowDuration       float64 // seconds
	HopDuration          float64 // seconds
	FFTOrder             int     // power of two
	ZeroFirstCoefficient bool
	NumCoefficients      int // 0 selects the package default (13)
	NumFilters           int // 0 selects the package default (26)
}

// FramesPerSecond returns 1/hopDuration.
func (o Options) FramesPerSecond() float64 {
	if o.HopDuration <= 0 {
		return 0
	}
	return 1.0 / o.HopDuration
}

func (o Options) numCoefficients() int {
	if o.NumCoefficients > 0 {
		return o.NumCoefficients
	}
	return 13
}

func (o Options) numFilters() int {
	if o.NumFilters > 0 {
		return o.NumFilters
	}
	return 26
}

// Vector is a single frame's MFCC feature vector.
type Vector = []float64

// Sequence is an ordered sequence of equal-length MFCC vectors, indexed by
// frame.
type Sequence = []Vector

// Extractor is the MFCC feature-extraction contract the alignment core
// consumes: PCM in, feature sequence out.
type Extractor func(samples []float32, sampleRate int, opts Options) (Sequence, error)
