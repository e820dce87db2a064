package align

import (
	"math"

	"github.com/cwbudde/align-dtw/audio"
)

func sineBurst(sr int, freq, seconds float64, amp float32) []float32 {
	n := int(float64(sr) * seconds)
	out := make([]float32, n)
	for i := range out {
		out[i] = amp * float32(math.Sin(2*math.Pi*freq*float64(i)/float64(sr)))
	}
	return out
}

func monoAudio(sr int, samples []float32) audio.RawAudio {
	return audio.RawAudio{SampleRate: sr, Channels: [][]float32{samples}}
}

// stretchByRepeat repeats every sample factor times, producing audio with
// the same content sample-for-sample but factor times the duration — with
// factor 2, a simple stand-in for "the same content, slowed 2x".
func stretchByRepeat(samples []float32, factor int) []float32 {
	out := make([]float32, 0, len(samples)*factor)
	for _, s := range samples {
		for i := 0; i < factor; i++ {
			out = append(out, s)
		}
	}
	return out
}

func appendSilence(samples []float32, sr int, seconds float64) []float32 {
	n := int(float64(sr) * seconds)
	return append(append([]float32(nil), samples...), make([]float32, n)...)
}
