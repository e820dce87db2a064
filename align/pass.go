package align

import (
	"context"
	"fmt"
	"math"

	"github.com/cwbudde/align-dtw/audio"
	"github.com/cwbudde/align-dtw/mfcc"
	"github.com/cwbudde/align-dtw/warp"
)

// PassConfig is one entry of the multi-pass schedule: an MFCC granularity
// paired with the DTW band's window duration, in seconds.
type PassConfig struct {
	Granularity mfcc.Granularity
	Window      float64
}

type passResult struct {
	compacted warp.CompactedPath
	fps       float64
}

// runMultiPass iterates MFCC extraction and windowed DTW across an
// increasing-granularity schedule, seeding each pass after the first from
// the previous pass's compacted path. ctx is checked between passes so a
// caller can cancel a long multi-pass schedule without waiting for it to
// run to completion.
func runMultiPass(ctx context.Context, sourceAudio, referenceAudio audio.RawAudio, passes []PassConfig, extractor mfcc.Extractor) (passResult, []Warning, error) {
	if len(passes) == 0 {
		return passResult{}, nil, fmt.Errorf("align: invariant violation: at least one pass (granularity, window) is required")
	}

	var warnings []Warning
	var prev warp.CompactedPath
	var prevSrcLen int
	var last passResult

	for idx, pass := range passes {
		if err := ctx.Err(); err != nil {
			return passResult{}, warnings, err
		}

		opts, err := mfcc.OptionsFor(pass.Granularity)
		if err != nil {
			return passResult{}, warnings, fmt.Errorf("align: unsupported selector: %w", err)
		}
		opts.ZeroFirstCoefficient = true

		referenceMfccs, err := extractor(referenceAudio.Channels[0], referenceAudio.SampleRate, opts)
		if err != nil {
			return passResult{}, warnings, fmt.Errorf("align: external collaborator failure: reference MFCC: %w", err)
		}
		sourceMfccs, err := extractor(sourceAudio.Channels[0], sourceAudio.SampleRate, opts)
		if err != nil {
			return passResult{}, warnings, fmt.Errorf("align: external collaborator failure: source MFCC: %w", err)
		}
		if len(referenceMfccs) == 0 || len(sourceMfccs) == 0 {
			return passResult{}, warnings, fmt.Errorf("align: invariant violation: MFCC extraction produced an empty sequence")
		}

		fps := opts.FramesPerSecond()
		w := int(math.Floor(pass.Window * fps))
		if w < 1 {
			w = 1
		}

		if idx == 0 {
			if pass.Window < 0.2*sourceAudio.Duration() {
				warnings = append(warnings, narrowWindowWarning(pass.Window, sourceAudio.Duration()))
			}
		}

		var centers []int
		if idx > 0 && len(prev) > 0 {
			centers = reprojectCenters(prev, prevSrcLen, len(referenceMfccs), len(sourceMfccs))
		}

		path, err := warp.Align(referenceMfccs, sourceMfccs, warp.Options{Window: w, Centers: centers, Cost: warp.EuclideanCost})
		if err != nil {
			return passResult{}, warnings, fmt.Errorf("align: %w", err)
		}

		compacted := warp.Compact(path)
		prev = compacted
		prevSrcLen = len(sourceMfccs)
		last = passResult{compacted: compacted, fps: fps}
	}

	return last, warnings, nil
}

// reprojectCenters re-samples a prior pass's compacted path into a center
// curve for the new pass's reference/source resolutions.
func reprojectCenters(prev warp.CompactedPath, prevSrcLen, refLen, srcLen int) []int {
	relCenters := make([]float64, len(prev))
	denom := float64(prevSrcLen)
	if denom <= 0 {
		denom = 1
	}
	for k, rg := range prev {
		relCenters[k] = (float64(rg.First) + float64(rg.Last)) / 2 / denom
	}

	centers := make([]int, refLen)
	for i := 0; i < refLen; i++ {
		k := i * len(relCenters) / refLen
		if k >= len(relCenters) {
			k = len(relCenters) - 1
		}
		c := int(math.Floor(relCenters[k] * float64(srcLen)))
		if c < 0 {
			c = 0
		}
		if c > srcLen-1 {
			c = srcLen - 1
		}
		centers[i] = c
	}
	return centers
}
