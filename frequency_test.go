package heartkit

import (
	"errors"
	"math"
	"testing"
)

// modulatedRR builds an RR series of roughly meanMS intervals whose length
// oscillates at modFreq Hz (beat times approximate wall-clock seconds when
// meanMS is 1000).
func modulatedRR(n int, meanMS, depthMS, modFreq float64) []float64 {
	rr := make([]float64, n)
	for i := range rr {
		rr[i] = meanMS + depthMS*math.Sin(2*math.Pi*modFreq*float64(i))
	}
	return rr
}

func TestComputeFrequencyDomain_LFModulation(t *testing.T) {
	// 0.1 Hz modulation sits in the LF band.
	rr := modulatedRR(300, 1000, 50, 0.1)

	for _, method := range []SpectralMethod{SpectralWelch, SpectralFFT, SpectralPeriodogram} {
		config := DefaultFrequencyConfig()
		config.Method = method

		m, spec, err := ComputeFrequencyDomain(rr, config)
		if err != nil {
			t.Fatalf("%v: %v", method, err)
		}
		if spec == nil || len(spec.PSD) == 0 {
			t.Fatalf("%v: no spectrum returned", method)
		}

		if !(m.LF > m.HF) || !(m.LF > m.VLF) {
			t.Errorf("%v: LF=%v should dominate VLF=%v and HF=%v", method, m.LF, m.VLF, m.HF)
		}
		if m.TotalPower <= 0 {
			t.Errorf("%v: total power = %v, want positive", method, m.TotalPower)
		}
		if !almostEqual(m.VLFPerc+m.LFPerc+m.HFPerc, 100, 1e-6) {
			t.Errorf("%v: band percentages sum to %v, want 100",
				method, m.VLFPerc+m.LFPerc+m.HFPerc)
		}
		if !almostEqual(m.LFnu+m.HFnu, 100, 1e-6) {
			t.Errorf("%v: normalized units sum to %v, want 100", method, m.LFnu+m.HFnu)
		}
		if m.HF > 0 && !almostEqual(m.LFHF, m.LF/m.HF, 1e-9) {
			t.Errorf("%v: LF/HF = %v, want %v", method, m.LFHF, m.LF/m.HF)
		}
	}
}

func TestComputeFrequencyDomain_HFModulation(t *testing.T) {
	// 0.3 Hz modulation sits in the HF band.
	rr := modulatedRR(400, 1000, 50, 0.3)

	m, _, err := ComputeFrequencyDomain(rr, DefaultFrequencyConfig())
	if err != nil {
		t.Fatal(err)
	}
	if !(m.HF > m.LF) || !(m.HF > m.VLF) {
		t.Errorf("HF=%v should dominate VLF=%v and LF=%v", m.HF, m.VLF, m.LF)
	}
}

func TestComputeFrequencyDomain_InsufficientData(t *testing.T) {
	for _, rr := range [][]float64{nil, {1000}, {1000, 900}, {1000, 900, 1100}} {
		m, spec, err := ComputeFrequencyDomain(rr, DefaultFrequencyConfig())
		if err != nil {
			t.Fatalf("len %d: unexpected error %v", len(rr), err)
		}
		if spec != nil {
			t.Errorf("len %d: spectrum = %v, want nil", len(rr), spec)
		}
		if !math.IsNaN(m.LF) || !math.IsNaN(m.TotalPower) || !math.IsNaN(m.LFHF) {
			t.Errorf("len %d: measures = %+v, want all NaN", len(rr), m)
		}
	}
}

func TestComputeFrequencyDomain_UnknownMethod(t *testing.T) {
	config := FrequencyConfig{Method: SpectralMethod(99), WelchWindowSeconds: 240}
	_, _, err := ComputeFrequencyDomain(modulatedRR(100, 1000, 50, 0.1), config)
	if !errors.Is(err, ErrUnknownSpectralMethod) {
		t.Errorf("err = %v, want ErrUnknownSpectralMethod", err)
	}
}

func TestComputeFrequencyDomain_DegenerateAxis(t *testing.T) {
	// A zero interval makes the cumulative beat-time axis non-increasing;
	// the stage must degrade rather than fail.
	rr := []float64{1000, 0, 1000, 1000, 1000}
	m, spec, err := ComputeFrequencyDomain(rr, DefaultFrequencyConfig())
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if spec != nil || !math.IsNaN(m.LF) {
		t.Errorf("degenerate axis: spec=%v LF=%v, want nil/NaN", spec, m.LF)
	}
}

func TestComputeFrequencyDomain_ZeroPower(t *testing.T) {
	// A perfectly regular rhythm has no spectral power anywhere: ratios and
	// percentages must degrade to NaN, never to Inf.
	rr := make([]float64, 300)
	for i := range rr {
		rr[i] = 1000
	}

	m, _, err := ComputeFrequencyDomain(rr, DefaultFrequencyConfig())
	if err != nil {
		t.Fatal(err)
	}
	if m.HF != 0 {
		t.Fatalf("HF = %v, want 0 for a constant series", m.HF)
	}
	if !math.IsNaN(m.LFHF) {
		t.Errorf("LF/HF = %v, want NaN when HF is 0", m.LFHF)
	}
	if !math.IsNaN(m.VLFPerc) || !math.IsNaN(m.LFnu) {
		t.Errorf("percentages = %v/%v, want NaN when total power is 0", m.VLFPerc, m.LFnu)
	}
	if math.IsInf(m.LFHF, 0) || math.IsInf(m.VLFPerc, 0) {
		t.Error("zero-power ratios produced Inf")
	}
}

func TestComputeFrequencyDomain_SquareSpectrum(t *testing.T) {
	rr := modulatedRR(300, 1000, 50, 0.1)

	plain, _, err := ComputeFrequencyDomain(rr, DefaultFrequencyConfig())
	if err != nil {
		t.Fatal(err)
	}

	config := DefaultFrequencyConfig()
	config.SquareSpectrum = true
	squared, _, err := ComputeFrequencyDomain(rr, config)
	if err != nil {
		t.Fatal(err)
	}

	if squared.TotalPower <= 0 {
		t.Fatalf("squared total power = %v, want positive", squared.TotalPower)
	}
	if almostEqual(plain.LF, squared.LF, 1e-12) {
		t.Error("squaring the spectrum should change the LF band power")
	}
}
