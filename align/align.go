// Package align implements forced timeline alignment: multi-pass DTW
// driving direct and indirect timeline mapping, and phone-level
// sub-alignment.
package align

import (
	"context"
	"fmt"

	"github.com/cwbudde/align-dtw/audio"
	"github.com/cwbudde/align-dtw/mfcc"
	"github.com/cwbudde/align-dtw/timeline"
)

func buildPassConfigs(granularities []mfcc.Granularity, windows []float64) ([]PassConfig, error) {
	if len(granularities) == 0 || len(windows) == 0 {
		return nil, fmt.Errorf("align: invariant violation: granularities and windowDurations must be non-empty")
	}
	if len(granularities) != len(windows) {
		return nil, fmt.Errorf("align: invariant violation: granularities has %d entries, windowDurations has %d", len(granularities), len(windows))
	}
	passes := make([]PassConfig, len(granularities))
	for i := range granularities {
		passes[i] = PassConfig{Granularity: granularities[i], Window: windows[i]}
	}
	return passes, nil
}

// AlignUsingDTW runs the multi-pass DTW driver between sourceAudio and
// referenceAudio, then remaps referenceTimeline through the resulting
// path.
func AlignUsingDTW(
	ctx context.Context,
	sourceAudio, referenceAudio audio.RawAudio,
	referenceTimeline timeline.Entry,
	granularities []mfcc.Granularity,
	windowDurations []float64,
	extractor mfcc.Extractor,
) (timeline.Entry, []Warning, error) {
	if err := ctx.Err(); err != nil {
		return timeline.Entry{}, nil, err
	}
	if extractor == nil {
		extractor = mfcc.Compute
	}

	passes, err := buildPassConfigs(granularities, windowDurations)
	if err != nil {
		return timeline.Entry{}, nil, err
	}

	result, warnings, err := runMultiPass(ctx, sourceAudio, referenceAudio, passes, extractor)
	if err != nil {
		return timeline.Entry{}, warnings, err
	}

	mapped, err := mapDirect(ctx, referenceTimeline, result.compacted, result.fps, sourceAudio)
	if err != nil {
		return timeline.Entry{}, warnings, err
	}
	return mapped, warnings, nil
}
