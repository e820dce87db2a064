// Package audio holds the RawAudio value type and the small set of PCM
// utilities the alignment core treats as external collaborators: duration,
// silence-boundary detection, resampling, and downmix/normalize.
package audio

import "fmt"

// RawAudio is a multi-channel PCM-in-memory recording. Each channel is a
// finite sequence of samples in [-1, 1]. All channels share SampleRate and
// have equal length.
type RawAudio struct {
	Channels   [][]float32
	SampleRate int
}

// NumSamples returns the number of samples per channel, or 0 for an empty
// recording.
func (a RawAudio) NumSamples() int {
	if len(a.Channels) == 0 {
		return 0
	}
	return len(a.Channels[0])
}

// Duration returns samples/sampleRate in seconds.
func (a RawAudio) Duration() float64 {
	if a.SampleRate <= 0 {
		return 0
	}
	return float64(a.NumSamples()) / float64(a.SampleRate)
}

// Validate reports an invariant violation if the channels are ragged or the
// sample rate is non-positive.
func (a RawAudio) Validate() error {
	if a.SampleRate <= 0 {
		return fmt.Errorf("audio: sample rate must be positive, got %d", a.SampleRate)
	}
	if len(a.Channels) == 0 {
		return fmt.Errorf("audio: at least one channel is required")
	}
	n := len(a.Channels[0])
	for i, ch := range a.Channels {
		if len(ch) != n {
			return fmt.Errorf("audio: channel %d has %d samples, want %d", i, len(ch), n)
		}
	}
	return nil
}

// Slice returns a new RawAudio covering samples [start, end) on every
// channel. start and end are clamped to [0, NumSamples()].
func (a RawAudio) Slice(start, end int) RawAudio {
	n := a.NumSamples()
	if start < 0 {
		start = 0
	}
	if start > n {
		start = n
	}
	if end > n {
		end = n
	}
	if end < start {
		end = start
	}
	out := RawAudio{SampleRate: a.SampleRate, Channels: make([][]float32, len(a.Channels))}
	for i, ch := range a.Channels {
		out.Channels[i] = append([]float32(nil), ch[start:end]...)
	}
	return out
}
