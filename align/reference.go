package align

import (
	"context"
	"fmt"
	"strings"

	"github.com/cwbudde/align-dtw/audio"
	"github.com/cwbudde/align-dtw/collaborators"
	"github.com/cwbudde/align-dtw/timeline"
)

// CreateAlignmentReference synthesizes a 16 kHz mono normalized reference
// recording and its word-level timeline from a transcript, via an external
// TTS collaborator.
func CreateAlignmentReference(
	ctx context.Context,
	transcript, language string,
	opts collaborators.TTSOptions,
	synth collaborators.Synthesizer,
) (referenceAudio audio.RawAudio, referenceTimeline timeline.Entry, voiceName string, err error) {
	if err := ctx.Err(); err != nil {
		return audio.RawAudio{}, timeline.Entry{}, "", err
	}
	fields := strings.Fields(transcript)
	if len(fields) == 0 {
		return audio.RawAudio{}, timeline.Entry{}, "", fmt.Errorf("align: invariant violation: transcript has no words")
	}
	words := make([]collaborators.Word, len(fields))
	for i, f := range fields {
		words[i] = collaborators.Word{Text: f}
	}
	opts.Language = language

	result, err := synth.SynthesizeFragments(ctx, words, opts)
	if err != nil {
		return audio.RawAudio{}, timeline.Entry{}, "", fmt.Errorf("align: external collaborator failure: synthesis: %w", err)
	}

	normalized, err := audio.ResampleTo16k(result.RawAudio)
	if err != nil {
		return audio.RawAudio{}, timeline.Entry{}, "", fmt.Errorf("align: %w", err)
	}
	normalized = audio.DownmixToMonoAndNormalize(normalized)

	wordLevel := timeline.Entry{
		Category: CategoryRoot,
		Children: collaborators.FlattenToWords(result.Timeline),
	}
	return normalized, wordLevel, opts.VoiceName, nil
}

// CategoryRoot tags the synthetic root entry CreateAlignmentReference
// returns to carry a word-level timeline; it is never itself a leaf a
// caller aligns against.
const CategoryRoot timeline.Category = "root"
