package heartkit

import (
	"math"
	"testing"
)

// almostEqual reports whether a and b differ by at most tol. NaN equals NaN.
func almostEqual(a, b, tol float64) bool {
	if math.IsNaN(a) && math.IsNaN(b) {
		return true
	}
	return math.Abs(a-b) <= tol
}

func TestComputeTimeDomain_KnownSeries(t *testing.T) {
	rr := []float64{1000, 900, 1100, 950, 1050, 1000, 950}

	m := ComputeTimeDomain(rr)

	cases := []struct {
		name string
		got  float64
		want float64
	}{
		{"bpm", m.BPM, 60.4317},
		{"ibi", m.IBI, 992.8571},
		{"sdnn", m.SDNN, 62.2699},
		{"sdsd", m.SDSD, 53.3594},
		{"rmssd", m.RMSSD, 120.7615},
		{"pnn20", m.PNN20, 1.0},
		{"pnn50", m.PNN50, 0.6667},
		{"hr_mad", m.MAD, 51.0204},
	}
	for _, c := range cases {
		if !almostEqual(c.got, c.want, 0.001) {
			t.Errorf("%s = %v, want %v", c.name, c.got, c.want)
		}
	}
}

func TestComputeTimeDomain_SingleInterval(t *testing.T) {
	m := ComputeTimeDomain([]float64{800})

	if !almostEqual(m.BPM, 75, 1e-9) {
		t.Errorf("BPM = %v, want 75", m.BPM)
	}
	if m.IBI != 800 {
		t.Errorf("IBI = %v, want 800", m.IBI)
	}
	if m.SDNN != 0 {
		t.Errorf("SDNN = %v, want 0", m.SDNN)
	}
	for name, v := range map[string]float64{
		"SDSD": m.SDSD, "RMSSD": m.RMSSD,
		"PNN20": m.PNN20, "PNN50": m.PNN50, "MAD": m.MAD,
	} {
		if !math.IsNaN(v) {
			t.Errorf("%s = %v, want NaN for a single interval", name, v)
		}
	}
}

func TestComputeTimeDomain_Empty(t *testing.T) {
	m := ComputeTimeDomain(nil)

	for name, v := range map[string]float64{
		"BPM": m.BPM, "IBI": m.IBI, "SDNN": m.SDNN, "SDSD": m.SDSD,
		"RMSSD": m.RMSSD, "PNN20": m.PNN20, "PNN50": m.PNN50, "MAD": m.MAD,
	} {
		if !math.IsNaN(v) {
			t.Errorf("%s = %v, want NaN for empty input", name, v)
		}
	}
}

func TestComputeTimeDomain_ConstantSeries(t *testing.T) {
	m := ComputeTimeDomain([]float64{1000, 1000, 1000, 1000})

	if m.BPM != 60 {
		t.Errorf("BPM = %v, want exactly 60", m.BPM)
	}
	if m.SDNN != 0 || m.RMSSD != 0 || m.MAD != 0 {
		t.Errorf("variability of a constant series = %v/%v/%v, want all 0",
			m.SDNN, m.RMSSD, m.MAD)
	}
	if m.PNN20 != 0 || m.PNN50 != 0 {
		t.Errorf("pNN of a constant series = %v/%v, want 0", m.PNN20, m.PNN50)
	}
}
