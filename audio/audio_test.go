package audio

import (
	"math"
	"testing"
)

func sineBurst(sr int, freq float64, seconds float64, amp float32) []float32 {
	n := int(float64(sr) * seconds)
	out := make([]float32, n)
	for i := range out {
		out[i] = amp * float32(math.Sin(2*math.Pi*freq*float64(i)/float64(sr)))
	}
	return out
}

func TestDurationAndNumSamples(t *testing.T) {
	a := RawAudio{Channels: [][]float32{make([]float32, 16000)}, SampleRate: 16000}
	if a.NumSamples() != 16000 {
		t.Fatalf("NumSamples() = %d, want 16000", a.NumSamples())
	}
	if math.Abs(a.Duration()-1.0) > 1e-9 {
		t.Fatalf("Duration() = %f, want 1.0", a.Duration())
	}
}

func TestValidateRejectsRaggedChannels(t *testing.T) {
	a := RawAudio{Channels: [][]float32{make([]float32, 10), make([]float32, 9)}, SampleRate: 16000}
	if err := a.Validate(); err == nil {
		t.Fatalf("Validate() = nil, want error on ragged channels")
	}
}

func TestGetStartingSilentSampleCount(t *testing.T) {
	sr := 16000
	silence := make([]float32, sr/2)
	tone := sineBurst(sr, 440, 0.5, 0.5)
	ch := append(append([]float32(nil), silence...), tone...)

	got := GetStartingSilentSampleCount(ch, SilenceThresholdDb)
	if got < sr/2-silenceFrameSamples || got > sr/2+silenceFrameSamples {
		t.Fatalf("GetStartingSilentSampleCount() = %d, want near %d", got, sr/2)
	}
}

func TestGetEndingSilentSampleCount(t *testing.T) {
	sr := 16000
	tone := sineBurst(sr, 440, 0.5, 0.5)
	silence := make([]float32, sr/2)
	ch := append(append([]float32(nil), tone...), silence...)

	got := GetEndingSilentSampleCount(ch, SilenceThresholdDb)
	if got < sr/2-silenceFrameSamples || got > sr/2+silenceFrameSamples {
		t.Fatalf("GetEndingSilentSampleCount() = %d, want near %d", got, sr/2)
	}
}

func TestTrimSilenceEnforcesNonNegativeSpan(t *testing.T) {
	sr := 16000
	silence := make([]float32, sr)
	a := RawAudio{Channels: [][]float32{silence}, SampleRate: sr}
	start, end := TrimSilence(a, 0, sr, SilenceThresholdDb)
	if end < start {
		t.Fatalf("TrimSilence() returned end %d < start %d", end, start)
	}
}

func TestDownmixToMonoAndNormalizePeaksAtOne(t *testing.T) {
	left := sineBurst(16000, 440, 0.1, 0.2)
	right := sineBurst(16000, 440, 0.1, 0.6)
	a := RawAudio{Channels: [][]float32{left, right}, SampleRate: 16000}
	mono := DownmixToMonoAndNormalize(a)

	var peak float32
	for _, v := range mono.Channels[0] {
		if v < 0 {
			v = -v
		}
		if v > peak {
			peak = v
		}
	}
	if math.Abs(float64(peak)-1.0) > 1e-3 {
		t.Fatalf("peak after normalize = %f, want ~1.0", peak)
	}
}
