package align

import (
	"context"
	"fmt"

	"github.com/cwbudde/align-dtw/audio"
	"github.com/cwbudde/align-dtw/collaborators"
	"github.com/cwbudde/align-dtw/mfcc"
	"github.com/cwbudde/align-dtw/timeline"
	"github.com/cwbudde/align-dtw/warp"
)

// PhoneAlignmentMethod selects how indirect alignment attaches phone
// timings to the recognition timeline.
type PhoneAlignmentMethod string

const (
	PhoneAlignmentInterpolation PhoneAlignmentMethod = "interpolation"
	PhoneAlignmentDTW           PhoneAlignmentMethod = "dtw"
)

// indirectFixedWindow is the DTW window used for the per-word bounded
// alignment in the "dtw" phone-attachment variant: 60 seconds of frames
// is effectively unbounded for a single word.
const indirectFixedWindow = 60.0

type anchor struct {
	synthesized, recognized float64
}

// anchorCursor implements the single forward cursor over the
// synthesized→recognized anchor table. It must not be shared across more
// than one pre-order timeline traversal.
type anchorCursor struct {
	anchors []anchor
	idx     int
}

func newAnchorCursor(anchors []anchor) *anchorCursor {
	return &anchorCursor{anchors: anchors}
}

// project maps a synthesized-axis time to the recognized axis by
// nearest-anchor projection, preferring the left anchor on an exact tie.
func (c *anchorCursor) project(t float64) float64 {
	if len(c.anchors) == 0 {
		return t
	}
	for c.idx < len(c.anchors)-2 && c.anchors[c.idx+1].synthesized <= t {
		c.idx++
	}
	l := c.anchors[c.idx]
	r := l
	if c.idx+1 < len(c.anchors) {
		r = c.anchors[c.idx+1]
	}
	if t <= l.synthesized {
		return l.recognized
	}
	if t >= r.synthesized {
		return r.recognized
	}
	if r.synthesized-t < t-l.synthesized {
		return r.recognized
	}
	return l.recognized
}

// composeEntry rewrites e's timestamps (and every descendant's) through
// cursor. cursor only ever moves forward, so the queries down any subtree
// must themselves be nondecreasing: Start before children, End only after
// every child has been projected (an Euler-tour order), never Start/End
// of the same entry back to back with a smaller child timestamp in
// between.
func composeEntry(e timeline.Entry, cursor *anchorCursor) timeline.Entry {
	out := e
	out.Start = cursor.project(e.Start)
	if len(e.Children) > 0 {
		out.Children = make([]timeline.Entry, len(e.Children))
		for i, child := range e.Children {
			out.Children[i] = composeEntry(child, cursor)
		}
	}
	out.End = cursor.project(e.End)
	return out
}

// buildAnchorTable inserts anchors at each word's start/end and each
// phone's start/end, pairing synthesized time with recognized time.
func buildAnchorTable(synthWords, recognizedWords []timeline.Entry) []anchor {
	var anchors []anchor
	for i, synthWord := range synthWords {
		recWord := recognizedWords[i]
		anchors = append(anchors, anchor{synthesized: synthWord.Start, recognized: recWord.Start})
		n := len(synthWord.Children)
		if len(recWord.Children) < n {
			n = len(recWord.Children)
		}
		for k := 0; k < n; k++ {
			anchors = append(anchors,
				anchor{synthesized: synthWord.Children[k].Start, recognized: recWord.Children[k].Start},
				anchor{synthesized: synthWord.Children[k].End, recognized: recWord.Children[k].End},
			)
		}
		anchors = append(anchors, anchor{synthesized: synthWord.End, recognized: recWord.End})
	}
	return anchors
}

// AlignUsingDTWWithRecognition aligns source audio that does not match the
// reference transcript verbatim, using a recognizer's timeline of what was
// actually said to bridge between a synthesized reference and the
// recognized words.
func AlignUsingDTWWithRecognition(
	ctx context.Context,
	sourceAudio, referenceAudio audio.RawAudio,
	referenceTimeline, recognitionTimeline timeline.Entry,
	granularities []mfcc.Granularity,
	windowDurations []float64,
	ttsOptions collaborators.TTSOptions,
	phoneMethod PhoneAlignmentMethod,
	synth collaborators.Synthesizer,
	extractor mfcc.Extractor,
) (timeline.Entry, []Warning, error) {
	if err := ctx.Err(); err != nil {
		return timeline.Entry{}, nil, err
	}
	if extractor == nil {
		extractor = mfcc.Compute
	}

	if len(recognitionTimeline.Children) == 0 {
		refDuration := referenceAudio.Duration()
		if refDuration <= 0 {
			return timeline.Entry{}, nil, fmt.Errorf("align: invariant violation: reference audio has zero duration")
		}
		factor := sourceAudio.Duration() / refDuration
		return timeline.Rescale(referenceTimeline, factor), nil, nil
	}

	words := make([]collaborators.Word, len(recognitionTimeline.Children))
	for i, w := range recognitionTimeline.Children {
		words[i] = collaborators.Word{Text: w.Text}
	}
	synthResult, err := synth.SynthesizeFragments(ctx, words, ttsOptions)
	if err != nil {
		return timeline.Entry{}, nil, fmt.Errorf("align: external collaborator failure: synthesis: %w", err)
	}
	synthWords := collaborators.FlattenToWords(synthResult.Timeline)
	if len(synthWords) != len(recognitionTimeline.Children) {
		return timeline.Entry{}, nil, fmt.Errorf("align: invariant violation: synthesized %d words, recognition timeline has %d", len(synthWords), len(recognitionTimeline.Children))
	}

	var recognizedWithPhones []timeline.Entry
	switch phoneMethod {
	case PhoneAlignmentInterpolation:
		composed, err := InterpolatePhoneTimelines(
			timeline.Entry{Children: recognitionTimeline.Children},
			timeline.Entry{Children: synthWords},
		)
		if err != nil {
			return timeline.Entry{}, nil, err
		}
		recognizedWithPhones = composed.Children

	case PhoneAlignmentDTW:
		opts, err := mfcc.OptionsFor(phoneAlignmentGranularity)
		if err != nil {
			return timeline.Entry{}, nil, fmt.Errorf("align: unsupported selector: %w", err)
		}
		opts.ZeroFirstCoefficient = true
		synthMfccs, err := extractor(synthResult.RawAudio.Channels[0], synthResult.RawAudio.SampleRate, opts)
		if err != nil {
			return timeline.Entry{}, nil, fmt.Errorf("align: external collaborator failure: synthesized MFCC: %w", err)
		}
		srcMfccs, err := extractor(sourceAudio.Channels[0], sourceAudio.SampleRate, opts)
		if err != nil {
			return timeline.Entry{}, nil, fmt.Errorf("align: external collaborator failure: source MFCC: %w", err)
		}
		fps := opts.FramesPerSecond()

		recognizedWithPhones = make([]timeline.Entry, len(recognitionTimeline.Children))
		for i, recWord := range recognitionTimeline.Children {
			if err := ctx.Err(); err != nil {
				return timeline.Entry{}, nil, err
			}
			mappedWord, err := alignWordPhones(synthMfccs, srcMfccs, fps, indirectFixedWindow, synthWords[i], recWord, warp.EuclideanCost)
			if err != nil {
				return timeline.Entry{}, nil, err
			}
			recognizedWithPhones[i] = mappedWord
		}

	default:
		return timeline.Entry{}, nil, fmt.Errorf("align: unsupported selector: unknown phone alignment method %q", phoneMethod)
	}

	anchors := buildAnchorTable(synthWords, recognizedWithPhones)

	passes, err := buildPassConfigs(granularities, windowDurations)
	if err != nil {
		return timeline.Entry{}, nil, err
	}
	result, warnings, err := runMultiPass(ctx, synthResult.RawAudio, referenceAudio, passes, extractor)
	if err != nil {
		return timeline.Entry{}, warnings, err
	}

	synthRecMapped, err := mapDirect(ctx, referenceTimeline, result.compacted, result.fps, synthResult.RawAudio)
	if err != nil {
		return timeline.Entry{}, warnings, err
	}

	composed := composeEntry(synthRecMapped, newAnchorCursor(anchors))
	return composed, warnings, nil
}
