package mfcc

import (
	"errors"
	"math"
	"testing"
)

func sineBurst(sr int, freq, seconds float64, amp float32) []float32 {
	n := int(float64(sr) * seconds)
	out := make([]float32, n)
	for i := range out {
		out[i] = amp * float32(math.Sin(2*math.Pi*freq*float64(i)/float64(sr)))
	}
	return out
}

func TestOptionsForKnownGranularities(t *testing.T) {
	for _, g := range []Granularity{XXLow, XLow, Low, Medium, High, XHigh} {
		opts, err := OptionsFor(g)
		if err != nil {
			t.Fatalf("OptionsFor(%q) error: %v", g, err)
		}
		if !opts.ZeroFirstCoefficient {
			t.Fatalf("OptionsFor(%q) did not force ZeroFirstCoefficient", g)
		}
		if opts.FramesPerSecond() <= 0 {
			t.Fatalf("OptionsFor(%q) produced non-positive frame rate", g)
		}
	}
}

func TestOptionsForUnknownGranularity(t *testing.T) {
	_, err := OptionsFor("bogus")
	if !errors.Is(err, ErrUnsupportedGranularity) {
		t.Fatalf("OptionsFor(bogus) error = %v, want ErrUnsupportedGranularity", err)
	}
}

func TestComputeProducesEqualLengthVectors(t *testing.T) {
	sr := 16000
	samples := sineBurst(sr, 220, 1.0, 0.5)
	opts, _ := OptionsFor(Medium)

	seq, err := Compute(samples, sr, opts)
	if err != nil {
		t.Fatalf("Compute() error: %v", err)
	}
	if len(seq) == 0 {
		t.Fatalf("Compute() produced no frames")
	}
	want := len(seq[0])
	for i, v := range seq {
		if len(v) != want {
			t.Fatalf("frame %d has length %d, want %d", i, len(v), want)
		}
		if v[0] != 0 {
			t.Fatalf("frame %d coefficient 0 = %f, want 0 (ZeroFirstCoefficient)", i, v[0])
		}
	}
}

func TestComputeRejectsZeroHop(t *testing.T) {
	sr := 16000
	samples := sineBurst(sr, 220, 0.2, 0.5)
	_, err := Compute(samples, sr, Options{WindowDuration: 0.05, HopDuration: 0, FFTOrder: 1024})
	if err == nil {
		t.Fatalf("Compute() with zero hop = nil error, want error")
	}
}
