package mfcc

import (
	"errors"
	"fmt"
)

// ErrUnsupportedGranularity is returned by OptionsFor for an unknown
// granularity tag, the caller-branchable sentinel for this package
// (mirroring warp.ErrEmptySequence).
var ErrUnsupportedGranularity = errors.New("mfcc: unsupported granularity")

// Granularity selects an MFCC window/hop/FFT-order preset.
type Granularity string

const (
	XXLow  Granularity = "xx-low"
	XLow   Granularity = "x-low"
	Low    Granularity = "low"
	Medium Granularity = "medium"
	High   Granularity = "high"
	XHigh  Granularity = "x-high"
)

type granularityParams struct {
	window, hop float64
	fftOrder    int
}

var granularityTable = map[Granularity]granularityParams{
	XXLow:  {window: 0.400, hop: 0.160, fftOrder: 8192},
	XLow:   {window: 0.200, hop: 0.080, fftOrder: 4096},
	Low:    {window: 0.100, hop: 0.040, fftOrder: 2048},
	Medium: {window: 0.050, hop: 0.020, fftOrder: 1024},
	High:   {window: 0.025, hop: 0.010, fftOrder: 512},
	XHigh:  {window: 0.020, hop: 0.005, fftOrder: 512},
}

// OptionsFor returns the MFCC Options for a granularity tag, forcing
// ZeroFirstCoefficient as every pass requires. It returns
// ErrUnsupportedGranularity for an unknown tag.
func OptionsFor(g Granularity) (Options, error) {
	p, ok := granularityTable[g]
	if !ok {
		return Options{}, fmt.Errorf("%w: %q", ErrUnsupportedGranularity, g)
	}
	return Options{
		WindowDuration:       p.window,
		HopDuration:          p.hop,
		FFTOrder:             p.fftOrder,
		ZeroFirstCoefficient: true,
	}, nil
}
