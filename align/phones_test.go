package align

import (
	"context"
	"testing"

	"github.com/cwbudde/align-dtw/mfcc"
	"github.com/cwbudde/align-dtw/timeline"
)

// A recognized word "cat" with three phones aligned via the dtw method
// places phone boundaries monotone within the aligned word interval, with
// each phone duration > 0.
func TestAlignPhoneTimelinesMonotoneAndPositiveDurations(t *testing.T) {
	sr := 16000
	refSamples := sineBurst(sr, 300, 1.0, 0.6)
	ref := monoAudio(sr, refSamples)
	src := monoAudio(sr, refSamples)

	referenceTimeline := timeline.Entry{
		Category: CategoryRoot,
		Children: []timeline.Entry{
			{
				Category: timeline.CategoryWord, Text: "cat", Start: 0, End: 1,
				Children: []timeline.Entry{
					{Category: timeline.CategoryPhone, Text: "k", Start: 0.0, End: 0.3},
					{Category: timeline.CategoryPhone, Text: "ae", Start: 0.3, End: 0.7},
					{Category: timeline.CategoryPhone, Text: "t", Start: 0.7, End: 1.0},
				},
			},
		},
	}
	sourceWordTimeline := timeline.Entry{
		Category: CategoryRoot,
		Children: []timeline.Entry{
			{Category: timeline.CategoryWord, Text: "cat", Start: 0, End: 1},
		},
	}

	got, err := AlignPhoneTimelines(context.Background(), src, sourceWordTimeline, ref, referenceTimeline, 0.2, mfcc.Compute)
	if err != nil {
		t.Fatalf("AlignPhoneTimelines error: %v", err)
	}
	phones := got.Children[0].Children
	if len(phones) != 3 {
		t.Fatalf("got %d phones, want 3", len(phones))
	}
	for i, p := range phones {
		if p.End <= p.Start {
			t.Fatalf("phone %d (%q) has non-positive duration [%f,%f]", i, p.Text, p.Start, p.End)
		}
		if p.Start < got.Children[0].Start || p.End > got.Children[0].End+1e-9 {
			t.Fatalf("phone %d (%q) [%f,%f] escapes word interval [%f,%f]", i, p.Text, p.Start, p.End, got.Children[0].Start, got.Children[0].End)
		}
		if i > 0 && p.Start < phones[i-1].Start {
			t.Fatalf("phone %d starts before phone %d: %f < %f", i, i-1, p.Start, phones[i-1].Start)
		}
	}
}

func TestAlignPhoneTimelinesRejectsWordCountMismatch(t *testing.T) {
	sr := 16000
	a := monoAudio(sr, sineBurst(sr, 300, 1.0, 0.5))
	ref := timeline.Entry{Children: []timeline.Entry{{Start: 0, End: 1}}}
	src := timeline.Entry{Children: []timeline.Entry{{Start: 0, End: 1}, {Start: 1, End: 2}}}
	_, err := AlignPhoneTimelines(context.Background(), a, src, a, ref, 0.2, mfcc.Compute)
	if err == nil {
		t.Fatalf("AlignPhoneTimelines with mismatched word counts = nil error, want error")
	}
}

// A reference word with zero duration collapses every interpolated phone
// to the recognized word's start, with no NaN output.
func TestInterpolatePhoneTimelinesZeroDurationSafety(t *testing.T) {
	sourceRoot := timeline.Entry{
		Children: []timeline.Entry{
			{Category: timeline.CategoryWord, Text: "hi", Start: 1.0, End: 1.5},
		},
	}
	referenceRoot := timeline.Entry{
		Children: []timeline.Entry{
			{
				Category: timeline.CategoryWord, Text: "hi", Start: 2.0, End: 2.0,
				Children: []timeline.Entry{
					{Category: timeline.CategoryPhone, Text: "h", Start: 2.0, End: 2.0},
					{Category: timeline.CategoryPhone, Text: "i", Start: 2.0, End: 2.0},
				},
			},
		},
	}

	got, err := InterpolatePhoneTimelines(sourceRoot, referenceRoot)
	if err != nil {
		t.Fatalf("InterpolatePhoneTimelines error: %v", err)
	}
	for _, p := range got.Children[0].Children {
		if p.Start != 1.0 || p.End != 1.0 {
			t.Fatalf("phone %q = [%f,%f], want collapsed to word start 1.0", p.Text, p.Start, p.End)
		}
	}
}

func TestInterpolatePhoneTimelinesScalesProportionally(t *testing.T) {
	sourceRoot := timeline.Entry{
		Children: []timeline.Entry{
			{Text: "hi", Start: 10.0, End: 12.0},
		},
	}
	referenceRoot := timeline.Entry{
		Children: []timeline.Entry{
			{
				Text: "hi", Start: 0.0, End: 1.0,
				Children: []timeline.Entry{
					{Text: "h", Start: 0.0, End: 0.25},
					{Text: "i", Start: 0.25, End: 1.0},
				},
			},
		},
	}
	got, err := InterpolatePhoneTimelines(sourceRoot, referenceRoot)
	if err != nil {
		t.Fatalf("InterpolatePhoneTimelines error: %v", err)
	}
	phones := got.Children[0].Children
	if !closeEnough(phones[0].Start, 10.0) || !closeEnough(phones[0].End, 10.5) {
		t.Fatalf("phone 0 = [%f,%f], want [10.0,10.5]", phones[0].Start, phones[0].End)
	}
	if !closeEnough(phones[1].Start, 10.5) || !closeEnough(phones[1].End, 12.0) {
		t.Fatalf("phone 1 = [%f,%f], want [10.5,12.0]", phones[1].Start, phones[1].End)
	}
}

func closeEnough(a, b float64) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d < 1e-9
}
