// Command inspect-path dumps the compacted DTW warp path between two WAV
// files at a single granularity, bypassing the multi-pass driver. Useful
// for inspecting what one pass's band and cost surface produce.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/cwbudde/align-dtw/audio"
	"github.com/cwbudde/align-dtw/mfcc"
	"github.com/cwbudde/align-dtw/warp"
)

func main() {
	refPath := flag.String("reference", "", "Reference WAV")
	srcPath := flag.String("source", "", "Source WAV")
	granularity := flag.String("granularity", "medium", "MFCC granularity")
	window := flag.Float64("window", 5.0, "DTW window duration in seconds")
	flag.Parse()

	if *refPath == "" || *srcPath == "" {
		fmt.Fprintln(os.Stderr, "inspect-path: -reference and -source are required")
		os.Exit(2)
	}

	ref, err := audio.LoadWAV(*refPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "inspect-path: reference: %v\n", err)
		os.Exit(1)
	}
	src, err := audio.LoadWAV(*srcPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "inspect-path: source: %v\n", err)
		os.Exit(1)
	}

	opts, err := mfcc.OptionsFor(mfcc.Granularity(*granularity))
	if err != nil {
		fmt.Fprintf(os.Stderr, "inspect-path: %v\n", err)
		os.Exit(1)
	}
	opts.ZeroFirstCoefficient = true

	refMfccs, err := mfcc.Compute(ref.Channels[0], ref.SampleRate, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "inspect-path: reference MFCC: %v\n", err)
		os.Exit(1)
	}
	srcMfccs, err := mfcc.Compute(src.Channels[0], src.SampleRate, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "inspect-path: source MFCC: %v\n", err)
		os.Exit(1)
	}

	fps := opts.FramesPerSecond()
	w := int(*window * fps)
	if w < 1 {
		w = 1
	}
	fmt.Printf("reference frames: %d, source frames: %d, band half-width: %d\n", len(refMfccs), len(srcMfccs), w)
	fmt.Printf("estimated banded matrix bytes: %d\n", warp.EstimateBandedMatrixBytes(len(refMfccs), len(srcMfccs), w))

	path, err := warp.Align(refMfccs, srcMfccs, warp.Options{Window: w})
	if err != nil {
		fmt.Fprintf(os.Stderr, "inspect-path: %v\n", err)
		os.Exit(1)
	}
	compacted := warp.Compact(path)
	for i, rg := range compacted {
		fmt.Printf("ref[%d] -> src[%d,%d]\n", i, rg.First, rg.Last)
	}
}
