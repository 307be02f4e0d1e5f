package heartkit

import (
	"errors"
	"math"
	"testing"
)

func sinusoid(freq, fs float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.Sin(2 * math.Pi * freq * float64(i) / fs)
	}
	return out
}

func peakFrequency(spec *Spectrum) float64 {
	maxIdx := 0
	for i, p := range spec.PSD {
		if p > spec.PSD[maxIdx] {
			maxIdx = i
		}
	}
	return spec.Freq[maxIdx]
}

func TestParseSpectralMethod(t *testing.T) {
	for _, c := range []struct {
		name string
		want SpectralMethod
	}{
		{"welch", SpectralWelch},
		{"fft", SpectralFFT},
		{"periodogram", SpectralPeriodogram},
	} {
		got, err := ParseSpectralMethod(c.name)
		if err != nil {
			t.Fatalf("ParseSpectralMethod(%q): %v", c.name, err)
		}
		if got != c.want {
			t.Errorf("ParseSpectralMethod(%q) = %v, want %v", c.name, got, c.want)
		}
		if got.String() != c.name {
			t.Errorf("String() = %q, want %q", got.String(), c.name)
		}
	}

	if _, err := ParseSpectralMethod("lomb"); !errors.Is(err, ErrUnknownSpectralMethod) {
		t.Errorf("unknown name: err = %v, want ErrUnknownSpectralMethod", err)
	}
}

func TestEstimatePSD_LocatesSinusoid(t *testing.T) {
	const fs = 10.0
	x := sinusoid(1.0, fs, 1000)

	cases := []struct {
		method SpectralMethod
		tol    float64
	}{
		{SpectralFFT, 0.02},
		{SpectralPeriodogram, 0.02},
		{SpectralWelch, fs / 256}, // one Welch bin
	}
	for _, c := range cases {
		spec, err := estimatePSD(x, fs, c.method, 256)
		if err != nil {
			t.Fatalf("%v: %v", c.method, err)
		}
		if got := peakFrequency(spec); !almostEqual(got, 1.0, c.tol) {
			t.Errorf("%v: peak at %v Hz, want 1.0 +- %v", c.method, got, c.tol)
		}
		if len(spec.Freq) != len(spec.PSD) {
			t.Errorf("%v: freq/psd length mismatch %d/%d", c.method, len(spec.Freq), len(spec.PSD))
		}
	}
}

func TestEstimatePSD_UnknownMethod(t *testing.T) {
	_, err := estimatePSD([]float64{1, 2, 3, 4}, 10, SpectralMethod(42), 0)
	if !errors.Is(err, ErrUnknownSpectralMethod) {
		t.Errorf("err = %v, want ErrUnknownSpectralMethod", err)
	}
}

func TestEstimatePSD_TooFewSamples(t *testing.T) {
	if _, err := estimatePSD([]float64{1}, 10, SpectralFFT, 0); err == nil {
		t.Error("single sample: want error")
	}
}

func TestWelchPSD_OversizedSegmentFallsBack(t *testing.T) {
	x := sinusoid(1.0, 10, 100)
	spec := welchPSD(x, 10, 100000)
	if spec == nil || len(spec.PSD) == 0 {
		t.Fatal("oversized segment length returned no spectrum")
	}
	if got := peakFrequency(spec); !almostEqual(got, 1.0, 0.2) {
		t.Errorf("peak at %v Hz, want about 1.0", got)
	}
}

func TestPeriodogramPSD_NonNegative(t *testing.T) {
	spec := periodogramPSD([]float64{3, 1, 4, 1, 5, 9, 2, 6}, 4, nil)
	for i, p := range spec.PSD {
		if p < 0 {
			t.Errorf("psd[%d] = %v, want non-negative", i, p)
		}
	}
	if spec.Freq[0] != 0 {
		t.Errorf("first bin at %v Hz, want DC", spec.Freq[0])
	}
}

func TestBandPower_FlatSpectrum(t *testing.T) {
	n := 51
	freq := make([]float64, n)
	psd := make([]float64, n)
	for i := range freq {
		freq[i] = float64(i) * 0.01
		psd[i] = 1
	}
	spec := &Spectrum{Freq: freq, PSD: psd}

	// 11 unit bins between 0.04 and 0.15, trapezoid area 10 * 0.01.
	if got := bandPower(spec, 0.04, 0.15); !almostEqual(got, 0.1, 1e-9) {
		t.Errorf("bandPower = %v, want 0.1", got)
	}

	if got := bandPower(spec, 0.9, 1.0); got != 0 {
		t.Errorf("bandPower above spectrum = %v, want 0", got)
	}
	if got := bandPower(&Spectrum{Freq: []float64{0}, PSD: []float64{1}}, 0, 1); got != 0 {
		t.Errorf("bandPower of single bin = %v, want 0", got)
	}
}

func TestHannWindow(t *testing.T) {
	w := hannWindow(5)
	want := []float64{0, 0.5, 1, 0.5, 0}
	for i, v := range want {
		if !almostEqual(w[i], v, 1e-12) {
			t.Errorf("hann[%d] = %v, want %v", i, w[i], v)
		}
	}
	if w := hannWindow(1); w[0] != 1 {
		t.Errorf("hann(1) = %v, want [1]", w)
	}
}
