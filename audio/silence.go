package audio

import "math"

// SilenceThresholdDb is the RMS-in-dBFS threshold used to classify an
// analysis frame as silent.
const SilenceThresholdDb = -40.0

const silenceFrameSamples = 256

// GetStartingSilentSampleCount returns how many leading samples of ch are
// silent, measured over consecutive silenceFrameSamples-wide RMS-in-dBFS
// frames against thresholdDb. It never returns more than len(ch).
func GetStartingSilentSampleCount(ch []float32, thresholdDb float64) int {
	n := len(ch)
	if n == 0 {
		return 0
	}
	count := 0
	for start := 0; start < n; start += silenceFrameSamples {
		end := start + silenceFrameSamples
		if end > n {
			end = n
		}
		if rmsDb(ch[start:end]) > thresholdDb {
			break
		}
		count = end
	}
	return count
}

// GetEndingSilentSampleCount returns how many trailing samples of ch are
// silent, the mirror of GetStartingSilentSampleCount.
func GetEndingSilentSampleCount(ch []float32, thresholdDb float64) int {
	n := len(ch)
	if n == 0 {
		return 0
	}
	count := 0
	for end := n; end > 0; end -= silenceFrameSamples {
		start := end - silenceFrameSamples
		if start < 0 {
			start = 0
		}
		if rmsDb(ch[start:end]) > thresholdDb {
			break
		}
		count += end - start
	}
	return count
}

func rmsDb(frame []float32) float64 {
	if len(frame) == 0 {
		return math.Inf(-1)
	}
	var sum float64
	for _, s := range frame {
		sum += float64(s) * float64(s)
	}
	rms := math.Sqrt(sum / float64(len(frame)))
	if rms < 1e-12 {
		return math.Inf(-1)
	}
	return 20.0 * math.Log10(rms)
}

// TrimSilence narrows [start, end) on channel 0 of a, advancing past a
// leading silent prefix and retracting before a trailing silent suffix. It
// enforces end >= start on the returned bounds.
func TrimSilence(a RawAudio, start, end int, thresholdDb float64) (int, int) {
	if len(a.Channels) == 0 {
		return start, end
	}
	n := a.NumSamples()
	if start < 0 {
		start = 0
	}
	if end > n {
		end = n
	}
	if end <= start {
		return start, start
	}
	seg := a.Channels[0][start:end]

	leading := GetStartingSilentSampleCount(seg, thresholdDb)
	trailing := GetEndingSilentSampleCount(seg, thresholdDb)

	newStart := start + leading
	newEnd := end - trailing
	if newEnd < newStart {
		newEnd = newStart
	}
	return newStart, newEnd
}
