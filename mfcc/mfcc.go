// Package mfcc extracts MFCC feature sequences for use by the alignment
// core: PCM in, a sequence of equal-length feature vectors out, one per
// analysis frame (pre-emphasis, windowing, FFT, mel filterbank, DCT).
package mfcc

import (
	"fmt"
	"math"

	"github.com/cwbudde/align-dtw/dsp"
)

const preEmphasisCoefficient = 0.97

// Compute extracts an MFCC sequence from one audio channel. windowDuration
// and hopDuration are in seconds; fftOrder must be a power of two and at
// least as large as the window in samples.
func Compute(samples []float32, sampleRate int, opts Options) (Sequence, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("mfcc: sample rate must be positive, got %d", sampleRate)
	}
	if opts.WindowDuration <= 0 || opts.HopDuration <= 0 {
		return nil, fmt.Errorf("mfcc: window and hop durations must be positive")
	}
	windowSamples := int(opts.WindowDuration * float64(sampleRate))
	hopSamples := int(opts.HopDuration * float64(sampleRate))
	if windowSamples < 2 || hopSamples < 1 {
		return nil, fmt.Errorf("mfcc: window/hop too short for sample rate %d", sampleRate)
	}
	fftN := opts.FFTOrder
	if fftN < windowSamples {
		return nil, fmt.Errorf("mfcc: fft order %d smaller than window %d samples", fftN, windowSamples)
	}

	plan, err := getFFTPlan(fftN)
	if err != nil {
		return nil, fmt.Errorf("mfcc: %w", err)
	}

	nFilters := opts.numFilters()
	dftBins := fftN/2 + 1
	fb := buildFilterbank(nFilters, dftBins, sampleRate, 120.0, math.Min(10000.0, float64(sampleRate)/2))
	hann := hannWindow(windowSamples)

	n := len(samples)
	numFrames := 0
	if n >= windowSamples {
		numFrames = 1 + (n-windowSamples)/hopSamples
	}

	out := make(Sequence, numFrames)
	frameBuf := make([]float64, fftN)
	power := make([]float64, dftBins)
	pre := dsp.NewPreEmphasis(preEmphasisCoefficient)

	for f := 0; f < numFrames; f++ {
		pre.Reset()
		start := f * hopSamples
		for i := 0; i < fftN; i++ {
			if i < windowSamples {
				s := pre.Process(samples[start+i])
				frameBuf[i] = float64(s) * hann[i]
			} else {
				frameBuf[i] = 0
			}
		}
		if err := plan.power(power, frameBuf); err != nil {
			return nil, fmt.Errorf("mfcc: %w", err)
		}

		logMel := fb.apply(power)
		coeffs := dct2(logMel, opts.numCoefficients())
		if opts.ZeroFirstCoefficient && len(coeffs) > 0 {
			coeffs[0] = 0
		}
		out[f] = coeffs
	}
	return out, nil
}

func hannWindow(n int) []float64 {
	w := make([]float64, n)
	if n == 1 {
		w[0] = 1
		return w
	}
	for i := 0; i < n; i++ {
		w[i] = 0.5 - 0.5*math.Cos(2*math.Pi*float64(i)/float64(n-1))
	}
	return w
}

// dct2 computes the first numOut coefficients of the DCT-II of in. Neither
// algo-fft nor any example in the retrieval pack exposes a DCT, so this
// small fixed-purpose transform (O(numOut*len(in)), never run on more than
// a few dozen mel filters) is implemented directly rather than through a
// dependency.
func dct2(in []float64, numOut int) []float64 {
	n := len(in)
	if numOut <= 0 || numOut > n {
		numOut = n
	}
	out := make([]float64, numOut)
	for k := 0; k < numOut; k++ {
		var sum float64
		for i := 0; i < n; i++ {
			sum += in[i] * math.Cos(math.Pi*float64(k)*(float64(i)+0.5)/float64(n))
		}
		out[k] = sum
	}
	return out
}
