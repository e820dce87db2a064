package audio

import (
	"fmt"

	dspresample "github.com/cwbudde/algo-dsp/dsp/resample"
)

// ResampleTo converts a to the given sample rate, resampling every channel
// independently. It is a no-op (returning a) when a is already at rate.
func ResampleTo(a RawAudio, rate int) (RawAudio, error) {
	if rate <= 0 {
		return RawAudio{}, fmt.Errorf("audio: target sample rate must be positive, got %d", rate)
	}
	if a.SampleRate == rate {
		return a, nil
	}
	out := RawAudio{SampleRate: rate, Channels: make([][]float32, len(a.Channels))}
	for i, ch := range a.Channels {
		in64 := toFloat64(ch)
		r, err := dspresample.NewForRates(
			float64(a.SampleRate),
			float64(rate),
			dspresample.WithQuality(dspresample.QualityBest),
		)
		if err != nil {
			return RawAudio{}, fmt.Errorf("audio: resample channel %d: %w", i, err)
		}
		out.Channels[i] = toFloat32(r.Process(in64))
	}
	return out, nil
}

// ResampleTo16k resamples a to 16kHz, the working rate for reference
// synthesis.
func ResampleTo16k(a RawAudio) (RawAudio, error) {
	return ResampleTo(a, 16000)
}

// DownmixToMonoAndNormalize averages all channels into one and scales the
// result so its peak absolute sample is 1.0 (a no-op on silence).
func DownmixToMonoAndNormalize(a RawAudio) RawAudio {
	n := a.NumSamples()
	mono := make([]float32, n)
	nc := len(a.Channels)
	if nc == 0 {
		return RawAudio{SampleRate: a.SampleRate, Channels: [][]float32{mono}}
	}
	for i := 0; i < n; i++ {
		var sum float32
		for _, ch := range a.Channels {
			sum += ch[i]
		}
		mono[i] = sum / float32(nc)
	}

	var peak float32
	for _, v := range mono {
		if v < 0 {
			v = -v
		}
		if v > peak {
			peak = v
		}
	}
	if peak > 1e-9 {
		gain := 1.0 / peak
		for i := range mono {
			mono[i] *= gain
		}
	}
	return RawAudio{SampleRate: a.SampleRate, Channels: [][]float32{mono}}
}

func toFloat64(in []float32) []float64 {
	out := make([]float64, len(in))
	for i, v := range in {
		out[i] = float64(v)
	}
	return out
}

func toFloat32(in []float64) []float32 {
	out := make([]float32, len(in))
	for i, v := range in {
		out[i] = float32(v)
	}
	return out
}
