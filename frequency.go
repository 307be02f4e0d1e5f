package heartkit

import (
	"log/slog"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Standard HRV frequency bands in Hz, [low, high).
const (
	vlfLow  = 0.0033
	vlfHigh = 0.04
	lfLow   = 0.04
	lfHigh  = 0.15
	hfLow   = 0.15
	hfHigh  = 0.4
)

// resampleFactor is the resampling rate multiple of the mean beat rate used
// before spectral estimation.
const resampleFactor = 4

// shortSignalSpanMS is the RR span below which frequency measures are
// flagged as potentially unreliable (5 minutes).
const shortSignalSpanMS = 300000.0

// FrequencyConfig configures spectral HRV estimation.
type FrequencyConfig struct {
	// Method selects the PSD estimator.
	Method SpectralMethod `yaml:"method"`

	// WelchWindowSeconds is the Welch segment length in seconds.
	WelchWindowSeconds float64 `yaml:"welch_window_seconds"`

	// SquareSpectrum squares the PSD before band integration. This changes
	// the physical units of the reported band powers; it exists to match
	// consumers that expect the squared convention and is off by default.
	SquareSpectrum bool `yaml:"square_spectrum"`
}

// DefaultFrequencyConfig returns default frequency-domain configuration.
func DefaultFrequencyConfig() FrequencyConfig {
	return FrequencyConfig{
		Method:             SpectralWelch,
		WelchWindowSeconds: 240,
	}
}

// ComputeFrequencyDomain calculates spectral HRV measures from a corrected
// RR-interval series in milliseconds.
//
// The series is resampled onto a uniform grid at four times the mean beat
// rate with a cubic spline, a PSD is estimated with the configured method,
// and band powers are integrated by the trapezoidal rule. The returned
// spectrum is the estimated PSD for diagnostics.
//
// Fewer than 4 intervals cannot support cubic interpolation; all measures
// are NaN and no error is returned. An unknown estimator is a configuration
// error and fails fast.
func ComputeFrequencyDomain(rr []float64, config FrequencyConfig) (FrequencyDomainMeasures, *Spectrum, error) {
	m := undefinedFrequencyDomain()

	if !config.Method.valid() {
		return m, nil, newConfigError(ConfigFieldSpectralMethod,
			"unknown spectral estimation method", config.Method)
	}
	if config.WelchWindowSeconds <= 0 {
		config.WelchWindowSeconds = 240
	}

	// Cubic interpolation needs more than 3 points.
	if len(rr) <= 3 {
		return m, nil, nil
	}

	span := floats.Sum(rr)
	if span < shortSignalSpanMS {
		slog.Warn("signal short for frequency analysis, results may be unreliable",
			"span_ms", span, "recommended_ms", shortSignalSpanMS)
	}

	// Cumulative beat times form the non-uniform axis of the RR series.
	rrX := make([]float64, len(rr))
	floats.CumSum(rrX, rr)

	datalen := (len(rrX) - 1) * resampleFactor
	grid := linspace(rrX[0], rrX[len(rrX)-1], datalen)

	resampled, err := cubicResample(rrX, rr, grid)
	if err != nil {
		// Degenerate axis (duplicate beat times): degrade, not an error.
		return m, nil, nil
	}

	meanRR := stat.Mean(rr, nil)
	fs := 1 / (meanRR / 1000) * resampleFactor

	welchSegment := int(config.WelchWindowSeconds * fs)
	if welchSegment > datalen {
		welchSegment = datalen
	}

	spec, err := estimatePSD(resampled, fs, config.Method, welchSegment)
	if err != nil {
		return m, nil, err
	}

	if config.SquareSpectrum {
		for i, p := range spec.PSD {
			spec.PSD[i] = p * p
		}
	}

	m.VLF = bandPower(spec, vlfLow, vlfHigh)
	m.LF = bandPower(spec, lfLow, lfHigh)
	m.HF = bandPower(spec, hfLow, hfHigh)
	m.TotalPower = m.VLF + m.LF + m.HF

	if m.HF > 0 {
		m.LFHF = m.LF / m.HF
	}
	if m.TotalPower > 0 {
		m.VLFPerc = m.VLF / m.TotalPower * 100
		m.LFPerc = m.LF / m.TotalPower * 100
		m.HFPerc = m.HF / m.TotalPower * 100
	}
	if lfhf := m.LF + m.HF; lfhf > 0 {
		m.LFnu = m.LF / lfhf * 100
		m.HFnu = m.HF / lfhf * 100
	}

	return m, spec, nil
}
