package audio

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/cwbudde/wav"
	"github.com/go-audio/audio"
)

// LoadWAV reads a WAV file into a RawAudio, preserving its channel count.
func LoadWAV(path string) (RawAudio, error) {
	f, err := os.Open(path)
	if err != nil {
		return RawAudio{}, err
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return RawAudio{}, fmt.Errorf("audio: invalid wav file: %s", path)
	}
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return RawAudio{}, err
	}
	if buf == nil || buf.Format == nil || buf.Format.NumChannels < 1 {
		return RawAudio{}, fmt.Errorf("audio: invalid wav buffer: %s", path)
	}

	nc := buf.Format.NumChannels
	frames := len(buf.Data) / nc
	channels := make([][]float32, nc)
	for c := range channels {
		channels[c] = make([]float32, frames)
	}

	maxAbs := float64(int(1) << 15)
	if buf.SourceBitDepth > 16 {
		maxAbs = float64(int64(1) << (buf.SourceBitDepth - 1))
	}
	for i := 0; i < frames; i++ {
		for c := 0; c < nc; c++ {
			channels[c][i] = float32(float64(buf.Data[i*nc+c]) / maxAbs)
		}
	}
	return RawAudio{Channels: channels, SampleRate: buf.Format.SampleRate}, nil
}

// SaveWAV writes a RawAudio to a 16-bit PCM WAV file, creating parent
// directories as needed.
func SaveWAV(path string, a RawAudio) error {
	if err := a.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	nc := len(a.Channels)
	n := a.NumSamples()
	enc := wav.NewEncoder(f, a.SampleRate, 16, nc, 1)
	defer enc.Close()

	interleaved := make([]float32, n*nc)
	for i := 0; i < n; i++ {
		for c := 0; c < nc; c++ {
			interleaved[i*nc+c] = a.Channels[c][i]
		}
	}

	buf := &audio.Float32Buffer{
		Format: &audio.Format{
			SampleRate:  a.SampleRate,
			NumChannels: nc,
		},
		Data:           interleaved,
		SourceBitDepth: 16,
	}
	return enc.Write(buf)
}
