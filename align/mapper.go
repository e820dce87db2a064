package align

import (
	"context"
	"fmt"
	"math"

	"github.com/cwbudde/align-dtw/audio"
	"github.com/cwbudde/align-dtw/timeline"
	"github.com/cwbudde/align-dtw/warp"
)

// mapDirect projects a reference timeline through a compacted path to
// source time, recursively, with silence trimming at each interval's
// boundary. ctx is checked once per entry, so a caller can cancel between
// timeline entries on a large tree.
//
// The First bound is deliberately used for both the start and end frame
// lookup (not Last for ends); the resulting asymmetry is compensated by
// the silence trim rather than avoided.
func mapDirect(ctx context.Context, entry timeline.Entry, compacted warp.CompactedPath, fps float64, sourceAudio audio.RawAudio) (timeline.Entry, error) {
	if err := ctx.Err(); err != nil {
		return timeline.Entry{}, err
	}
	if entry.Start < 0 || entry.End < 0 {
		return timeline.Entry{}, fmt.Errorf("align: invariant violation: negative timestamp in reference timeline entry %q", entry.Text)
	}

	rs := int(math.Floor(entry.Start * fps))
	re := int(math.Floor(entry.End * fps))

	js := compacted.MapFrame(rs, warp.First)
	je := compacted.MapFrame(re, warp.First)

	samplesPerFrame := int(math.Floor(float64(sourceAudio.SampleRate) / fps))
	if samplesPerFrame < 1 {
		samplesPerFrame = 1
	}
	sampleStart := js * samplesPerFrame
	sampleEnd := je * samplesPerFrame

	sampleStart, sampleEnd = audio.TrimSilence(sourceAudio, sampleStart, sampleEnd, audio.SilenceThresholdDb)
	if sampleEnd < sampleStart {
		sampleEnd = sampleStart
	}

	mapped := timeline.Entry{
		Category: entry.Category,
		Text:     entry.Text,
		Start:    float64(sampleStart) / float64(sourceAudio.SampleRate),
		End:      float64(sampleEnd) / float64(sourceAudio.SampleRate),
	}
	if len(entry.Children) > 0 {
		mapped.Children = make([]timeline.Entry, len(entry.Children))
		for i, child := range entry.Children {
			mappedChild, err := mapDirect(ctx, child, compacted, fps, sourceAudio)
			if err != nil {
				return timeline.Entry{}, err
			}
			mapped.Children[i] = mappedChild
		}
	}
	return mapped, nil
}
