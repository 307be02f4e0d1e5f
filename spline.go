package heartkit

import (
	"errors"

	"gonum.org/v1/gonum/interp"
)

var errSplineAxis = errors.New("spline axis must be strictly increasing with at least 2 points")

// cubicResample fits a natural cubic spline to (xs, ys) and evaluates it at
// each query point. xs must be strictly increasing.
func cubicResample(xs, ys, xq []float64) ([]float64, error) {
	if len(xs) < 2 || len(xs) != len(ys) {
		return nil, errSplineAxis
	}
	for i := 1; i < len(xs); i++ {
		if xs[i] <= xs[i-1] {
			return nil, errSplineAxis
		}
	}

	var spline interp.NaturalCubic
	if err := spline.Fit(xs, ys); err != nil {
		return nil, err
	}

	out := make([]float64, len(xq))
	for i, x := range xq {
		out[i] = spline.Predict(x)
	}
	return out, nil
}

// linspace returns n evenly spaced values over [start, end], inclusive.
func linspace(start, end float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	out := make([]float64, n)
	if n == 1 {
		out[0] = start
		return out
	}
	step := (end - start) / float64(n-1)
	for i := range out {
		out[i] = start + float64(i)*step
	}
	out[n-1] = end
	return out
}
