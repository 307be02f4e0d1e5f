package heartkit

import (
	"log/slog"

	"gonum.org/v1/gonum/floats"
)

// breathingSampleRate is the rate the RR series is resampled to before
// breathing-rate estimation, in Hz.
const breathingSampleRate = 1000.0

// BreathingConfig configures breathing-rate estimation.
type BreathingConfig struct {
	// Method selects the PSD estimator.
	Method SpectralMethod `yaml:"method"`

	// FilterEnabled band-passes the resampled series to isolate
	// respiratory sinus arrhythmia.
	FilterEnabled bool `yaml:"filter_enabled"`

	// Band is the [low, high] pass band in Hz.
	Band [2]float64 `yaml:"band"`
}

// DefaultBreathingConfig returns default breathing configuration.
func DefaultBreathingConfig() BreathingConfig {
	return BreathingConfig{
		Method:        SpectralWelch,
		FilterEnabled: true,
		Band:          [2]float64{0.1, 0.4},
	}
}

// ComputeBreathing estimates the breathing rate from respiratory sinus
// arrhythmia in a corrected RR-interval series.
//
// The series is spline-resampled onto a 1000 Hz axis spanning its total
// duration, optionally band-passed with a zero-phase order-2 Butterworth
// filter, and the breathing rate is the frequency of the PSD maximum.
//
// This stage is best-effort: every internal failure degrades to a NaN rate
// instead of propagating, so it can never abort the pipeline. The returned
// slices are the resampled breathing signal and its spectrum, nil when
// estimation degraded.
func ComputeBreathing(rr []float64, config BreathingConfig) (m BreathingMeasures, breathing []float64, spec *Spectrum) {
	m = BreathingMeasures{Rate: undefined()}
	defer func() {
		if r := recover(); r != nil {
			slog.Warn("breathing estimation failed, reporting undefined rate", "panic", r)
			m.Rate = undefined()
			breathing = nil
			spec = nil
		}
	}()

	if len(rr) < 3 {
		return m, nil, nil
	}
	if !config.Method.valid() {
		slog.Warn("unknown spectral method for breathing estimation, reporting undefined rate",
			"method", config.Method)
		return m, nil, nil
	}

	// Resample onto a uniform 1000 Hz axis: one output sample per
	// millisecond of total RR span.
	datalen := int(floats.Sum(rr))
	if datalen < 2 {
		return m, nil, nil
	}
	x := linspace(0, float64(len(rr)), len(rr))
	grid := linspace(0, float64(len(rr)), datalen)

	resampled, err := cubicResample(x, rr, grid)
	if err != nil {
		return m, nil, nil
	}

	if config.FilterEnabled {
		low, high := config.Band[0], config.Band[1]
		filtered, err := FilterSignal(resampled, 2, breathingSampleRate, FilterBandpass, low, high)
		if err != nil {
			return m, nil, nil
		}
		resampled = filtered
	}

	s, err := estimatePSD(resampled, breathingSampleRate, config.Method, breathingWelchSegment(len(resampled)))
	if err != nil {
		return m, nil, nil
	}

	maxIdx := 0
	for i, p := range s.PSD {
		if p > s.PSD[maxIdx] {
			maxIdx = i
		}
	}

	m.Rate = s.Freq[maxIdx]
	return m, resampled, s
}

// breathingWelchSegment bounds the Welch segment length for long breathing
// signals so at least ten segments are averaged.
func breathingWelchSegment(n int) int {
	if n > 30000 {
		seg := n / 10
		if seg > 30000 {
			seg = 30000
		}
		return seg
	}
	return n
}
