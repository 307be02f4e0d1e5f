package heartkit

import (
	"math"
	"testing"
)

func TestComputeBreathing_RecoverRate(t *testing.T) {
	// Respiratory sinus arrhythmia at 0.25 Hz on a 1000 ms base rhythm.
	rr := modulatedRR(120, 1000, 100, 0.25)

	config := BreathingConfig{Method: SpectralPeriodogram, FilterEnabled: false}
	m, breathing, spec := ComputeBreathing(rr, config)

	if math.IsNaN(m.Rate) {
		t.Fatal("rate is NaN, want an estimate")
	}
	if !almostEqual(m.Rate, 0.25, 0.02) {
		t.Errorf("rate = %v Hz, want about 0.25", m.Rate)
	}
	if len(breathing) == 0 || spec == nil {
		t.Error("breathing signal and spectrum should be returned on success")
	}
}

func TestComputeBreathing_DefaultConfig(t *testing.T) {
	rr := modulatedRR(120, 1000, 100, 0.25)

	m, _, _ := ComputeBreathing(rr, DefaultBreathingConfig())

	if math.IsNaN(m.Rate) {
		t.Fatal("rate is NaN, want an estimate")
	}
	// The default pass band is [0.1, 0.4] Hz; the estimate must land inside.
	if m.Rate < 0.05 || m.Rate > 0.45 {
		t.Errorf("rate = %v Hz, want inside the respiratory band", m.Rate)
	}
}

func TestComputeBreathing_InsufficientData(t *testing.T) {
	for _, rr := range [][]float64{nil, {1000}, {1000, 900}} {
		m, breathing, spec := ComputeBreathing(rr, DefaultBreathingConfig())
		if !math.IsNaN(m.Rate) {
			t.Errorf("len %d: rate = %v, want NaN", len(rr), m.Rate)
		}
		if breathing != nil || spec != nil {
			t.Errorf("len %d: working outputs should be nil on degrade", len(rr))
		}
	}
}

func TestComputeBreathing_NeverErrors(t *testing.T) {
	// Pathological inputs must degrade to NaN, never panic or abort.
	cases := [][]float64{
		{0, 0, 0},
		{1, 1, 1},
		{-5, -5, -5},
		{math.NaN(), math.NaN(), math.NaN()},
	}
	for _, rr := range cases {
		m, _, _ := ComputeBreathing(rr, DefaultBreathingConfig())
		_ = m.Rate // NaN or a number, but the call must return
	}
}

func TestComputeBreathing_UnknownMethodDegrades(t *testing.T) {
	rr := modulatedRR(60, 1000, 100, 0.25)
	m, breathing, spec := ComputeBreathing(rr, BreathingConfig{Method: SpectralMethod(9)})
	if !math.IsNaN(m.Rate) || breathing != nil || spec != nil {
		t.Errorf("unknown method: rate=%v, want NaN degrade without error", m.Rate)
	}
}

func TestBreathingWelchSegment(t *testing.T) {
	cases := []struct{ n, want int }{
		{100, 100},
		{30000, 30000},
		{120000, 12000},
		{600000, 30000},
	}
	for _, c := range cases {
		if got := breathingWelchSegment(c.n); got != c.want {
			t.Errorf("breathingWelchSegment(%d) = %d, want %d", c.n, got, c.want)
		}
	}
}
