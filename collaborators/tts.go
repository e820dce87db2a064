// Package collaborators declares the external interfaces the alignment core
// depends on but does not implement itself: text-to-speech synthesis. The
// core is driven entirely through these interfaces so any concrete
// synthesizer can be substituted.
package collaborators

import (
	"context"

	"github.com/cwbudde/align-dtw/audio"
	"github.com/cwbudde/align-dtw/timeline"
)

// Word is one fragment to synthesize.
type Word struct {
	Text string
}

// TTSOptions carries synthesizer selection and voice parameters. The core
// treats this as an opaque pass-through to the external synthesizer.
type TTSOptions struct {
	Language  string
	VoiceName string
}

// SynthesisResult is what an external synthesizer returns: the rendered
// audio and its own word → phone timeline. The returned timeline is
// clause-grouped; callers flatten it to word-level with nested phone
// timings before using it.
type SynthesisResult struct {
	RawAudio audio.RawAudio
	Timeline timeline.Entry
}

// Synthesizer renders a sequence of words to audio with a matching
// timeline. Implementations are expected to produce word-level entries
// each carrying a nested phone-level timeline.
type Synthesizer interface {
	SynthesizeFragments(ctx context.Context, words []Word, opts TTSOptions) (SynthesisResult, error)
}

// FlattenToWords reduces a clause-grouped synthesis timeline to a flat
// word-level timeline. Any depth above word level is collapsed; phone
// children are preserved unchanged.
func FlattenToWords(root timeline.Entry) []timeline.Entry {
	var words []timeline.Entry
	var collect func(e timeline.Entry)
	collect = func(e timeline.Entry) {
		if e.Category == timeline.CategoryWord {
			words = append(words, e)
			return
		}
		for _, child := range e.Children {
			collect(child)
		}
	}
	collect(root)
	return words
}
