package heartkit

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/stat"
	"gopkg.in/yaml.v3"
)

// SpectralMethod selects the power-spectral-density estimator.
type SpectralMethod int

const (
	// SpectralWelch averages periodograms of overlapping segments.
	SpectralWelch SpectralMethod = iota
	// SpectralFFT uses the direct FFT magnitude squared.
	SpectralFFT
	// SpectralPeriodogram uses a single modified periodogram.
	SpectralPeriodogram
)

// String returns the method name.
func (m SpectralMethod) String() string {
	switch m {
	case SpectralWelch:
		return "welch"
	case SpectralFFT:
		return "fft"
	case SpectralPeriodogram:
		return "periodogram"
	}
	return "unknown"
}

// ParseSpectralMethod converts a method name to a SpectralMethod.
func ParseSpectralMethod(s string) (SpectralMethod, error) {
	switch s {
	case "welch":
		return SpectralWelch, nil
	case "fft":
		return SpectralFFT, nil
	case "periodogram":
		return SpectralPeriodogram, nil
	}
	return 0, newConfigError(ConfigFieldSpectralMethod, "unknown spectral estimation method", s)
}

// MarshalYAML encodes the method as its name.
func (m SpectralMethod) MarshalYAML() (any, error) {
	return m.String(), nil
}

// UnmarshalYAML decodes a method name.
func (m *SpectralMethod) UnmarshalYAML(value *yaml.Node) error {
	var name string
	if err := value.Decode(&name); err != nil {
		return err
	}
	parsed, err := ParseSpectralMethod(name)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// valid reports whether m is a known estimator.
func (m SpectralMethod) valid() bool {
	switch m {
	case SpectralWelch, SpectralFFT, SpectralPeriodogram:
		return true
	}
	return false
}

// estimatePSD computes the one-sided power spectral density of x sampled at
// fs Hz. welchSegment is the Welch segment length in samples, ignored by the
// other estimators.
func estimatePSD(x []float64, fs float64, method SpectralMethod, welchSegment int) (*Spectrum, error) {
	if len(x) < 2 {
		return nil, fmt.Errorf("psd estimation needs at least 2 samples, got %d", len(x))
	}

	switch method {
	case SpectralFFT:
		return fftPSD(x, fs), nil
	case SpectralPeriodogram:
		return periodogramPSD(x, fs, nil), nil
	case SpectralWelch:
		return welchPSD(x, fs, welchSegment), nil
	default:
		return nil, newConfigError(ConfigFieldSpectralMethod, "unknown spectral estimation method", method)
	}
}

// fftPSD is the direct estimator: |FFT(x)/N|^2 over the first N/2 bins.
func fftPSD(x []float64, fs float64) *Spectrum {
	n := len(x)
	fft := fourier.NewFFT(n)
	coeffs := fft.Coefficients(nil, x)

	half := n / 2
	freq := make([]float64, half)
	psd := make([]float64, half)
	for i := 0; i < half; i++ {
		freq[i] = float64(i) * fs / float64(n)
		c := coeffs[i] / complex(float64(n), 0)
		re, im := real(c), imag(c)
		psd[i] = re*re + im*im
	}
	return &Spectrum{Freq: freq, PSD: psd}
}

// periodogramPSD computes a one-sided density-scaled periodogram of x with
// the mean removed. A nil window means rectangular.
func periodogramPSD(x []float64, fs float64, window []float64) *Spectrum {
	n := len(x)
	mean := stat.Mean(x, nil)

	detrended := make([]float64, n)
	winSumSq := 0.0
	for i, v := range x {
		w := 1.0
		if window != nil {
			w = window[i]
		}
		detrended[i] = (v - mean) * w
		winSumSq += w * w
	}

	fft := fourier.NewFFT(n)
	coeffs := fft.Coefficients(nil, detrended)

	nbins := n/2 + 1
	freq := make([]float64, nbins)
	psd := make([]float64, nbins)
	scale := 1 / (fs * winSumSq)
	for i := 0; i < nbins; i++ {
		freq[i] = float64(i) * fs / float64(n)
		re, im := real(coeffs[i]), imag(coeffs[i])
		p := (re*re + im*im) * scale
		// One-sided spectrum: double everything except DC and Nyquist.
		if i != 0 && !(n%2 == 0 && i == nbins-1) {
			p *= 2
		}
		psd[i] = p
	}
	return &Spectrum{Freq: freq, PSD: psd}
}

// welchPSD averages Hann-windowed periodograms of 50%-overlapping segments.
func welchPSD(x []float64, fs float64, nperseg int) *Spectrum {
	if nperseg < 2 || nperseg > len(x) {
		nperseg = len(x)
	}

	window := hannWindow(nperseg)
	step := nperseg / 2
	if step < 1 {
		step = 1
	}

	var acc []float64
	var freq []float64
	segments := 0
	for start := 0; start+nperseg <= len(x); start += step {
		seg := periodogramPSD(x[start:start+nperseg], fs, window)
		if acc == nil {
			acc = make([]float64, len(seg.PSD))
			freq = seg.Freq
		}
		for i, p := range seg.PSD {
			acc[i] += p
		}
		segments++
	}
	if segments == 0 {
		return periodogramPSD(x, fs, hannWindow(len(x)))
	}

	for i := range acc {
		acc[i] /= float64(segments)
	}
	return &Spectrum{Freq: freq, PSD: acc}
}

// hannWindow returns an n-point Hann window.
func hannWindow(n int) []float64 {
	w := make([]float64, n)
	if n == 1 {
		w[0] = 1
		return w
	}
	for i := range w {
		w[i] = 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(n-1)))
	}
	return w
}

// bandPower integrates the PSD over [low, high) by the trapezoidal rule.
func bandPower(spec *Spectrum, low, high float64) float64 {
	if len(spec.Freq) < 2 {
		return 0
	}
	df := spec.Freq[1] - spec.Freq[0]

	var vals []float64
	for i, f := range spec.Freq {
		if f >= low && f < high {
			vals = append(vals, spec.PSD[i])
		}
	}
	if len(vals) < 2 {
		return 0
	}

	var sum float64
	for i := 1; i < len(vals); i++ {
		sum += (vals[i-1] + vals[i]) / 2 * df
	}
	return sum
}
