package heartkit

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Signal is an immutable container for heart-rate sample data.
//
// Samples are amplitude values (ECG or PPG) taken at a fixed, positive
// sample rate. Derived artifacts (beat positions, RR-intervals) are not
// stored on the signal; each pipeline stage produces a new value instead.
type Signal struct {
	samples    []float64
	sampleRate float64
	metadata   map[string]string
}

// NewSignal creates a signal from samples at the given sample rate in Hz.
// The sample slice is copied. Metadata may be nil.
func NewSignal(samples []float64, sampleRate float64, metadata map[string]string) (*Signal, error) {
	if len(samples) == 0 {
		return nil, ErrEmptySignal
	}
	if sampleRate <= 0 {
		return nil, newConfigError(ConfigFieldSampleRate, "sample rate must be positive", sampleRate)
	}

	data := make([]float64, len(samples))
	copy(data, samples)

	var meta map[string]string
	if metadata != nil {
		meta = make(map[string]string, len(metadata))
		for k, v := range metadata {
			meta[k] = v
		}
	}

	return &Signal{samples: data, sampleRate: sampleRate, metadata: meta}, nil
}

// Samples returns the raw sample values. The returned slice must not be
// modified.
func (s *Signal) Samples() []float64 {
	return s.samples
}

// SampleRate returns the sample rate in Hz.
func (s *Signal) SampleRate() float64 {
	return s.sampleRate
}

// Len returns the number of samples.
func (s *Signal) Len() int {
	return len(s.samples)
}

// Duration returns the signal duration in seconds.
func (s *Signal) Duration() float64 {
	return float64(len(s.samples)) / s.sampleRate
}

// Metadata returns the metadata value for key, if present.
func (s *Signal) Metadata(key string) (string, bool) {
	v, ok := s.metadata[key]
	return v, ok
}

// Slice returns a new independent signal covering [startSec, endSec).
// The underlying sample buffer is copied, never shared.
func (s *Signal) Slice(startSec, endSec float64) (*Signal, error) {
	if startSec < 0 || endSec > s.Duration() || startSec >= endSec {
		return nil, ErrInvalidSliceRange
	}
	startIdx := int(startSec * s.sampleRate)
	endIdx := int(endSec * s.sampleRate)
	if endIdx > len(s.samples) {
		endIdx = len(s.samples)
	}
	return NewSignal(s.samples[startIdx:endIdx], s.sampleRate, s.metadata)
}

// sliceSamples returns a new signal over the half-open sample index range.
// Used by segmented processing, which windows in sample space.
func (s *Signal) sliceSamples(startIdx, endIdx int) (*Signal, error) {
	if startIdx < 0 || endIdx > len(s.samples) || startIdx >= endIdx {
		return nil, ErrInvalidSliceRange
	}
	return NewSignal(s.samples[startIdx:endIdx], s.sampleRate, s.metadata)
}

// TimeAxis returns the time of each sample in seconds.
func (s *Signal) TimeAxis() []float64 {
	t := make([]float64, len(s.samples))
	for i := range t {
		t[i] = float64(i) / s.sampleRate
	}
	return t
}

// Scale returns a new signal with samples linearly rescaled to
// [lower, upper]. A constant signal maps every sample to lower.
func (s *Signal) Scale(lower, upper float64) *Signal {
	minV := floats.Min(s.samples)
	maxV := floats.Max(s.samples)
	rng := maxV - minV

	scaled := make([]float64, len(s.samples))
	if rng == 0 {
		for i := range scaled {
			scaled[i] = lower
		}
	} else {
		for i, v := range s.samples {
			scaled[i] = (upper-lower)*((v-minV)/rng) + lower
		}
	}
	return &Signal{samples: scaled, sampleRate: s.sampleRate, metadata: s.metadata}
}

// RRIntervals derives RR-intervals in milliseconds from beat positions.
// Returns len(beats)-1 intervals; fewer than 2 beats yields an empty slice.
func RRIntervals(beats []int, sampleRate float64) []float64 {
	if len(beats) < 2 {
		return nil
	}
	rr := make([]float64, len(beats)-1)
	for i := 1; i < len(beats); i++ {
		rr[i-1] = float64(beats[i]-beats[i-1]) / sampleRate * 1000.0
	}
	return rr
}

// beatAmplitudes returns the sample value at each beat position.
func beatAmplitudes(samples []float64, beats []int) []float64 {
	y := make([]float64, len(beats))
	for i, b := range beats {
		y[i] = samples[b]
	}
	return y
}

// undefined is the sentinel for measures that cannot be computed from the
// available data.
func undefined() float64 {
	return math.NaN()
}
