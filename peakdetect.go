package heartkit

import (
	"log/slog"
	"math"

	"gonum.org/v1/gonum/stat"
)

// thresholdCandidates is the canonical list of threshold offsets, expressed
// as a percentage of the mean baseline, that the detector searches over.
var thresholdCandidates = []float64{
	5, 10, 15, 20, 25, 30, 40, 50, 60, 70, 80, 90, 100, 110, 120, 150, 200, 300,
}

const (
	// defaultThresholdPercent is the fallback offset used when no candidate
	// yields a heart rate inside the accepted range.
	defaultThresholdPercent = 20.0

	// Widened BPM range for the retry pass of the threshold search.
	retryMinBPM = 30.0
	retryMaxBPM = 200.0
)

// PeakDetectorConfig configures adaptive-threshold beat detection.
type PeakDetectorConfig struct {
	// MinBPM is the lowest plausible heart rate for threshold selection.
	MinBPM float64 `yaml:"min_bpm"`

	// MaxBPM is the highest plausible heart rate for threshold selection.
	MaxBPM float64 `yaml:"max_bpm"`

	// WindowSeconds is the rolling-baseline window length in seconds.
	WindowSeconds float64 `yaml:"window_seconds"`
}

// DefaultPeakDetectorConfig returns default detection configuration.
func DefaultPeakDetectorConfig() PeakDetectorConfig {
	return PeakDetectorConfig{
		MinBPM:        40,
		MaxBPM:        180,
		WindowSeconds: 0.75,
	}
}

// PeakDetector locates heart beats with an adaptive amplitude threshold.
//
// The detector raises a rolling-baseline reference by each candidate offset
// percentage, keeps the candidates whose implied heart rate is plausible,
// and selects the one minimizing the standard deviation of the resulting
// RR-intervals: a correct threshold yields the most regular beat spacing.
type PeakDetector struct {
	config PeakDetectorConfig
}

// NewPeakDetector creates a new peak detector, clamping invalid fields to
// their defaults.
func NewPeakDetector(config PeakDetectorConfig) *PeakDetector {
	if config.MinBPM <= 0 {
		config.MinBPM = 40
	}
	if config.MaxBPM <= config.MinBPM {
		config.MaxBPM = 180
	}
	if config.WindowSeconds <= 0 {
		config.WindowSeconds = 0.75
	}
	return &PeakDetector{config: config}
}

// Detect returns beat positions as strictly increasing sample indices.
//
// Detection never fails for a non-empty signal: if no threshold candidate
// yields a plausible heart rate, the search retries with a widened BPM range
// and finally falls back to the default offset percentage.
func (d *PeakDetector) Detect(sig *Signal) []int {
	baseline := RollingBaseline(sig.Samples(), d.config.WindowSeconds, sig.SampleRate())
	return d.fitPeaks(sig.Samples(), baseline, sig.SampleRate())
}

// fitPeaks searches the candidate threshold offsets for the beat list with
// minimum RR-interval standard deviation inside the accepted BPM range.
func (d *PeakDetector) fitPeaks(samples, baseline []float64, sampleRate float64) []int {
	best := d.searchThresholds(samples, baseline, sampleRate, d.config.MinBPM, d.config.MaxBPM)

	if best == nil {
		// No candidate produced a plausible heart rate: retry once with a
		// widened range before falling back.
		best = d.searchThresholds(samples, baseline, sampleRate, retryMinBPM, retryMaxBPM)
	}

	if best == nil {
		slog.Warn("no threshold candidate in BPM range, using default offset",
			"percent", defaultThresholdPercent)
		best = detectWithThreshold(samples, baseline, defaultThresholdPercent)
	}
	return best
}

// searchThresholds returns the best candidate beat list for the given BPM
// range, or nil if no candidate qualifies.
func (d *PeakDetector) searchThresholds(samples, baseline []float64, sampleRate, minBPM, maxBPM float64) []int {
	duration := float64(len(samples)) / sampleRate
	bestRRSD := math.Inf(1)
	var bestPeaks []int

	for _, perc := range thresholdCandidates {
		peaks := detectWithThreshold(samples, baseline, perc)
		if len(peaks) < 2 {
			continue
		}

		bpm := float64(len(peaks)) / duration * 60
		if bpm < minBPM || bpm > maxBPM {
			continue
		}

		rr := RRIntervals(peaks, sampleRate)
		rrsd := stat.PopStdDev(rr, nil)
		if rrsd < bestRRSD {
			bestRRSD = rrsd
			bestPeaks = peaks
		}
	}
	return bestPeaks
}

// detectWithThreshold marks samples above baseline + mean(baseline)/100*perc,
// groups contiguous marked runs, and keeps the amplitude maximum of each run.
func detectWithThreshold(samples, baseline []float64, perc float64) []int {
	offset := stat.Mean(baseline, nil) / 100 * perc

	var peaks []int
	runStart := -1
	runPeak := -1

	flush := func() {
		if runPeak >= 0 {
			peaks = append(peaks, runPeak)
		}
		runStart = -1
		runPeak = -1
	}

	for i, v := range samples {
		if v > baseline[i]+offset {
			if runStart < 0 {
				runStart = i
				runPeak = i
			} else if v > samples[runPeak] {
				runPeak = i
			}
		} else if runStart >= 0 {
			flush()
		}
	}
	flush()
	return peaks
}
