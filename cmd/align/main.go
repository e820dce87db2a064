// Command align runs the forced-alignment core end to end: load a source
// and reference WAV plus a reference timeline, run the multi-pass DTW
// aligner, and write the mapped timeline as JSON.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/cwbudde/align-dtw/align"
	"github.com/cwbudde/align-dtw/audio"
	"github.com/cwbudde/align-dtw/mfcc"
	"github.com/cwbudde/align-dtw/timeline"
)

func main() {
	sourcePath := flag.String("source", "", "Source WAV to align onto")
	referencePath := flag.String("reference", "", "Reference WAV whose timeline is being warped")
	timelinePath := flag.String("timeline", "", "Reference timeline JSON")
	outputPath := flag.String("out", "", "Output timeline JSON (stdout if empty)")
	granularitiesFlag := flag.String("granularities", "low,high", "Comma-separated pass granularities")
	windowsFlag := flag.String("windows", "5.0,0.5", "Comma-separated pass window durations in seconds")
	flag.Parse()

	if *sourcePath == "" || *referencePath == "" || *timelinePath == "" {
		fmt.Fprintln(os.Stderr, "align: -source, -reference, and -timeline are required")
		flag.Usage()
		os.Exit(2)
	}

	granularities, err := parseGranularities(*granularitiesFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "align: %v\n", err)
		os.Exit(1)
	}
	windows, err := parseFloats(*windowsFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "align: %v\n", err)
		os.Exit(1)
	}

	source, err := audio.LoadWAV(*sourcePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "align: source: %v\n", err)
		os.Exit(1)
	}
	reference, err := audio.LoadWAV(*referencePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "align: reference: %v\n", err)
		os.Exit(1)
	}
	referenceTimeline, err := loadTimeline(*timelinePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "align: timeline: %v\n", err)
		os.Exit(1)
	}

	mapped, warnings, err := align.AlignUsingDTW(context.Background(), source, reference, referenceTimeline, granularities, windows, mfcc.Compute)
	if err != nil {
		fmt.Fprintf(os.Stderr, "align: %v\n", err)
		os.Exit(1)
	}
	for _, w := range warnings {
		fmt.Fprintf(os.Stderr, "align: warning (%s): %s\n", w.Kind, w.Message)
	}

	out, err := json.MarshalIndent(mapped, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "align: encoding output: %v\n", err)
		os.Exit(1)
	}
	if *outputPath == "" {
		fmt.Println(string(out))
		return
	}
	if err := os.WriteFile(*outputPath, out, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "align: writing output: %v\n", err)
		os.Exit(1)
	}
}

func parseGranularities(s string) ([]mfcc.Granularity, error) {
	parts := strings.Split(s, ",")
	out := make([]mfcc.Granularity, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		g := mfcc.Granularity(p)
		if _, err := mfcc.OptionsFor(g); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, nil
}

func parseFloats(s string) ([]float64, error) {
	parts := strings.Split(s, ",")
	out := make([]float64, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		v, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid window duration %q: %w", p, err)
		}
		out = append(out, v)
	}
	return out, nil
}

func loadTimeline(path string) (timeline.Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return timeline.Entry{}, err
	}
	var e timeline.Entry
	if err := json.Unmarshal(data, &e); err != nil {
		return timeline.Entry{}, err
	}
	return e, nil
}
