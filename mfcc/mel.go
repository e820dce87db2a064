package mfcc

import "math"

// Mel scale conversions, ported from emer-auditory's audio/mel.go
// (FreqToMel/MelToFreq/FreqToBin), from float32/math32 onto plain float64.

func freqToMel(freq float64) float64 {
	return 1127.0 * math.Log(1.0+freq/700.0)
}

func melToFreq(mel float64) float64 {
	return 700.0 * (math.Exp(mel/1127.0) - 1.0)
}

func freqToBin(freq, nFFT, sampleRate float64) int {
	return int(math.Floor(((nFFT + 1) * freq) / sampleRate))
}

// filterbank is a triangular mel filterbank: filters[f] holds the
// (binStart, weights) pair needed to reduce a power spectrum to one mel
// energy for filter f.
type filterbank struct {
	binStart []int
	weights  [][]float64
}

// buildFilterbank constructs nFilters triangular filters spanning
// [loHz, hiHz] over a power spectrum of dftBins bins, following standard
// mel-frontend construction (grounded on emer-auditory's Mel.InitFilters).
func buildFilterbank(nFilters, dftBins int, sampleRate int, loHz, hiHz float64) filterbank {
	loMel := freqToMel(loHz)
	hiMel := freqToMel(hiHz)
	nEff := nFilters + 2
	melIncr := (hiMel - loMel) / float64(nFilters+1)

	bins := make([]int, nEff)
	for i := 0; i < nEff; i++ {
		ml := loMel + float64(i)*melIncr
		hz := melToFreq(ml)
		bins[i] = freqToBin(hz, float64(2*(dftBins-1)), float64(sampleRate))
	}

	fb := filterbank{
		binStart: make([]int, nFilters),
		weights:  make([][]float64, nFilters),
	}
	for f := 0; f < nFilters; f++ {
		minBin := bins[f]
		pkBin := bins[f+1]
		maxBin := bins[f+2]
		pkMin := pkBin - minBin
		pkMax := maxBin - pkBin
		if pkMin < 1 {
			pkMin = 1
		}
		if pkMax < 1 {
			pkMax = 1
		}

		fb.binStart[f] = minBin
		w := make([]float64, 0, maxBin-minBin+1)
		for bin := minBin; bin <= pkBin; bin++ {
			w = append(w, float64(bin-minBin)/float64(pkMin))
		}
		for bin := pkBin + 1; bin <= maxBin; bin++ {
			w = append(w, float64(maxBin-bin)/float64(pkMax))
		}
		fb.weights[f] = w
	}
	return fb
}

// apply reduces a power spectrum to nFilters log mel energies.
func (fb filterbank) apply(power []float64) []float64 {
	out := make([]float64, len(fb.weights))
	for f, w := range fb.weights {
		start := fb.binStart[f]
		var sum float64
		for i, wv := range w {
			bin := start + i
			if bin >= 0 && bin < len(power) {
				sum += wv * power[bin]
			}
		}
		if sum <= 0 {
			out[f] = -10.0 // log-energy floor for a silent filter, matches emer-auditory's MelFBank.LogMin default
		} else {
			out[f] = math.Log(sum)
		}
	}
	return out
}
