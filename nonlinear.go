package heartkit

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// ComputeNonlinear calculates Poincaré plot measures from a corrected
// RR-interval series. At least two intervals are required; otherwise all
// measures are NaN.
//
// The plot of RR[n] against RR[n+1] is rotated 45 degrees so its axes align
// with the identity line: SD1 captures short-term variability perpendicular
// to it, SD2 long-term variability along it.
func ComputeNonlinear(rr []float64) NonlinearMeasures {
	m := undefinedNonlinear()
	if len(rr) < 2 {
		return m
	}

	n := len(rr) - 1
	u := make([]float64, n)
	v := make([]float64, n)
	for i := 0; i < n; i++ {
		u[i] = (rr[i] - rr[i+1]) / math.Sqrt2
		v[i] = (rr[i] + rr[i+1]) / math.Sqrt2
	}

	m.SD1 = math.Sqrt(stat.PopVariance(u, nil))
	m.SD2 = math.Sqrt(stat.PopVariance(v, nil))
	m.S = math.Pi * m.SD1 * m.SD2
	if m.SD2 > 0 {
		m.SD1SD2 = m.SD1 / m.SD2
	}
	return m
}
