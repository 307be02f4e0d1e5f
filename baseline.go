package heartkit

import "math"

// RollingBaseline computes a centered moving-average baseline of samples.
//
// The window is round(windowSeconds * sampleRate) samples. Boundaries are
// handled by replicating the edge samples so the output always has the same
// length as the input. A degenerate window of fewer than one sample returns
// a copy of the input unchanged.
func RollingBaseline(samples []float64, windowSeconds, sampleRate float64) []float64 {
	out := make([]float64, len(samples))
	if len(samples) == 0 {
		return out
	}

	window := int(math.Round(windowSeconds * sampleRate))
	if window < 1 || len(samples) == 1 {
		copy(out, samples)
		return out
	}
	if window > len(samples) {
		window = len(samples)
	}

	// Edge-replicated padding, half a window on each side.
	half := window / 2
	padded := make([]float64, len(samples)+2*half)
	for i := 0; i < half; i++ {
		padded[i] = samples[0]
		padded[len(padded)-1-i] = samples[len(samples)-1]
	}
	copy(padded[half:], samples)

	// Prefix sums keep the sweep O(n).
	prefix := make([]float64, len(padded)+1)
	for i, v := range padded {
		prefix[i+1] = prefix[i] + v
	}

	for i := range out {
		end := i + window
		if end > len(padded) {
			end = len(padded)
		}
		out[i] = (prefix[end] - prefix[i]) / float64(end-i)
	}
	return out
}
