package align

import (
	"context"
	"fmt"
	"math"

	"github.com/cwbudde/align-dtw/audio"
	"github.com/cwbudde/align-dtw/mfcc"
	"github.com/cwbudde/align-dtw/timeline"
	"github.com/cwbudde/align-dtw/warp"
)

// phoneAlignmentGranularity is the MFCC resolution used for word-bounded
// phone sub-alignment: "high" is the finest granularity the table defines
// short of x-high, matched to the short word-length slices this operates
// on.
const phoneAlignmentGranularity = mfcc.High

// sliceFrames clamps [start,end) into [0,len(seq)), guaranteeing at least
// one frame.
func sliceFrames(seq mfcc.Sequence, start, end int) (mfcc.Sequence, int) {
	n := len(seq)
	if start < 0 {
		start = 0
	}
	if start >= n {
		start = n - 1
	}
	if end <= start {
		end = start + 1
	}
	if end > n {
		end = n
	}
	return seq[start:end], start
}

// alignWordPhones runs bounded DTW over one word's reference/source MFCC
// slices and attaches phone boundaries to the source word.
func alignWordPhones(refMfccs, srcMfccs mfcc.Sequence, fps, windowDurationSeconds float64, refWord, srcWord timeline.Entry, cost warp.CostFunc) (timeline.Entry, error) {
	refStart := int(math.Floor(refWord.Start * fps))
	refEnd := int(math.Floor(refWord.End * fps))
	srcStart := int(math.Floor(srcWord.Start * fps))
	srcEnd := int(math.Floor(srcWord.End * fps))

	refSlice, _ := sliceFrames(refMfccs, refStart, refEnd)
	srcSlice, _ := sliceFrames(srcMfccs, srcStart, srcEnd)

	w := int(math.Floor(windowDurationSeconds * fps))
	if w < 1 {
		w = 1
	}

	path, err := warp.Align(refSlice, srcSlice, warp.Options{Window: w, Cost: cost})
	if err != nil {
		return timeline.Entry{}, fmt.Errorf("align: phone sub-alignment: %w", err)
	}
	compacted := warp.Compact(path)

	mapped := srcWord
	mapped.Children = make([]timeline.Entry, len(refWord.Children))
	for i, phone := range refWord.Children {
		relStart := int(math.Floor((phone.Start - refWord.Start) * fps))
		relEnd := int(math.Floor((phone.End - refWord.Start) * fps))

		startFrame := compacted.MapFrame(relStart, warp.First)
		endFrame := compacted.MapFrame(relEnd, warp.Last)

		start := srcWord.Start + float64(startFrame)/fps
		end := srcWord.Start + float64(endFrame)/fps
		if end <= start {
			end = start + 1.0/fps
		}
		mapped.Children[i] = timeline.Entry{Category: phone.Category, Text: phone.Text, Start: start, End: end}
	}
	return mapped, nil
}

// AlignPhoneTimelines attaches phone boundaries to each word of an
// already word-aligned sourceWordTimeline via bounded per-word DTW against
// the word→phone referenceTimeline it was derived from.
func AlignPhoneTimelines(
	ctx context.Context,
	sourceAudio audio.RawAudio,
	sourceWordTimeline timeline.Entry,
	referenceAudio audio.RawAudio,
	referenceTimeline timeline.Entry,
	windowDurationSeconds float64,
	extractor mfcc.Extractor,
) (timeline.Entry, error) {
	if err := ctx.Err(); err != nil {
		return timeline.Entry{}, err
	}
	if len(sourceWordTimeline.Children) != len(referenceTimeline.Children) {
		return timeline.Entry{}, fmt.Errorf("align: invariant violation: source word timeline has %d words, reference has %d", len(sourceWordTimeline.Children), len(referenceTimeline.Children))
	}
	if extractor == nil {
		extractor = mfcc.Compute
	}

	opts, err := mfcc.OptionsFor(phoneAlignmentGranularity)
	if err != nil {
		return timeline.Entry{}, fmt.Errorf("align: unsupported selector: %w", err)
	}
	opts.ZeroFirstCoefficient = true

	refMfccs, err := extractor(referenceAudio.Channels[0], referenceAudio.SampleRate, opts)
	if err != nil {
		return timeline.Entry{}, fmt.Errorf("align: external collaborator failure: reference MFCC: %w", err)
	}
	srcMfccs, err := extractor(sourceAudio.Channels[0], sourceAudio.SampleRate, opts)
	if err != nil {
		return timeline.Entry{}, fmt.Errorf("align: external collaborator failure: source MFCC: %w", err)
	}
	fps := opts.FramesPerSecond()

	out := sourceWordTimeline
	out.Children = make([]timeline.Entry, len(sourceWordTimeline.Children))
	for i, srcWord := range sourceWordTimeline.Children {
		if err := ctx.Err(); err != nil {
			return timeline.Entry{}, err
		}
		refWord := referenceTimeline.Children[i]
		mappedWord, err := alignWordPhones(refMfccs, srcMfccs, fps, windowDurationSeconds, refWord, srcWord, warp.EuclideanCost)
		if err != nil {
			return timeline.Entry{}, err
		}
		out.Children[i] = mappedWord
	}
	return out, nil
}

// InterpolatePhoneTimelines linearly projects each reference word's phone
// intervals into the corresponding source word's interval, scaling by the
// ratio of the two word durations. Zero-duration reference words collapse
// every phone to the source word's start with no NaN output.
func InterpolatePhoneTimelines(sourceTimeline, referenceTimeline timeline.Entry) (timeline.Entry, error) {
	if len(sourceTimeline.Children) != len(referenceTimeline.Children) {
		return timeline.Entry{}, fmt.Errorf("align: invariant violation: source timeline has %d words, reference has %d", len(sourceTimeline.Children), len(referenceTimeline.Children))
	}
	out := sourceTimeline
	out.Children = make([]timeline.Entry, len(sourceTimeline.Children))
	for i, srcWord := range sourceTimeline.Children {
		out.Children[i] = interpolateWordPhones(srcWord, referenceTimeline.Children[i])
	}
	return out, nil
}

func interpolateWordPhones(srcWord, refWord timeline.Entry) timeline.Entry {
	refDuration := refWord.End - refWord.Start
	srcDuration := srcWord.End - srcWord.Start

	mapped := srcWord
	mapped.Children = make([]timeline.Entry, len(refWord.Children))
	for i, phone := range refWord.Children {
		var startFrac, endFrac float64
		if refDuration > 0 {
			startFrac = (phone.Start - refWord.Start) / refDuration
			endFrac = (phone.End - refWord.Start) / refDuration
		}
		mapped.Children[i] = timeline.Entry{
			Category: phone.Category,
			Text:     phone.Text,
			Start:    srcWord.Start + startFrac*srcDuration,
			End:      srcWord.Start + endFrac*srcDuration,
		}
	}
	return mapped
}
