package heartkit

import (
	"math"
	"math/cmplx"
	"sort"
)

// FilterType selects the Butterworth filter response.
type FilterType int

const (
	// FilterLowpass passes frequencies below the cutoff.
	FilterLowpass FilterType = iota
	// FilterHighpass passes frequencies above the cutoff.
	FilterHighpass
	// FilterBandpass passes frequencies between two cutoffs.
	FilterBandpass
)

// FilterSignal applies a zero-phase Butterworth filter of the given order.
//
// cutoffHz holds one cutoff for low/high-pass and [low, high] for band-pass,
// all in Hz. Zero phase is achieved by filtering forward and backward, so
// the effective attenuation is twice the design order. Cutoffs must lie
// strictly inside (0, Nyquist).
func FilterSignal(x []float64, order int, sampleRate float64, filterType FilterType, cutoffHz ...float64) ([]float64, error) {
	if order < 1 {
		order = 2
	}
	nyq := sampleRate / 2

	var b, a []float64
	var err error
	switch filterType {
	case FilterLowpass, FilterHighpass:
		if len(cutoffHz) != 1 {
			return nil, newConfigError(ConfigFieldFilterBand, "low/high-pass filter needs exactly one cutoff", cutoffHz)
		}
		b, a, err = butterworth(order, filterType, cutoffHz[0]/nyq, 0)
	case FilterBandpass:
		if len(cutoffHz) != 2 {
			return nil, newConfigError(ConfigFieldFilterBand, "band-pass filter needs exactly two cutoffs", cutoffHz)
		}
		b, a, err = butterworth(order, filterType, cutoffHz[0]/nyq, cutoffHz[1]/nyq)
	default:
		return nil, newConfigError(ConfigFieldFilterBand, "unknown filter type", filterType)
	}
	if err != nil {
		return nil, err
	}
	return filtfilt(b, a, x), nil
}

// RemoveBaselineWander high-passes the signal at 0.05 Hz to strip slow
// baseline drift before beat detection.
func RemoveBaselineWander(sig *Signal) (*Signal, error) {
	filtered, err := FilterSignal(sig.Samples(), 2, sig.SampleRate(), FilterHighpass, 0.05)
	if err != nil {
		return nil, err
	}
	return &Signal{samples: filtered, sampleRate: sig.sampleRate, metadata: sig.metadata}, nil
}

// HampelFilter replaces samples deviating from the local median by more than
// threshold times the local median absolute deviation. windowSize is the
// full window length in samples.
func HampelFilter(x []float64, windowSize int, threshold float64) []float64 {
	out := make([]float64, len(x))
	copy(out, x)
	if windowSize < 2 || threshold <= 0 {
		return out
	}

	half := windowSize / 2
	buf := make([]float64, 0, windowSize+1)
	for i := range x {
		start := i - half
		if start < 0 {
			start = 0
		}
		end := i + half + 1
		if end > len(x) {
			end = len(x)
		}

		buf = append(buf[:0], x[start:end]...)
		med := median(buf)
		for j, v := range buf {
			buf[j] = math.Abs(v - med)
		}
		mad := median(buf)
		if mad == 0 {
			continue
		}
		if math.Abs(x[i]-med) > threshold*mad {
			out[i] = med
		}
	}
	return out
}

// median returns the median of vals. The slice is reordered.
func median(vals []float64) float64 {
	sort.Float64s(vals)
	n := len(vals)
	if n%2 == 1 {
		return vals[n/2]
	}
	return (vals[n/2-1] + vals[n/2]) / 2
}

// butterworth designs digital Butterworth coefficients via the analog
// prototype and the bilinear transform. Cutoffs are normalized to the
// Nyquist frequency and must lie in (0, 1).
func butterworth(order int, filterType FilterType, low, high float64) (b, a []float64, err error) {
	if low <= 0 || low >= 1 || (filterType == FilterBandpass && (high <= low || high >= 1)) {
		return nil, nil, newConfigError(ConfigFieldFilterBand,
			"cutoffs must lie strictly inside (0, Nyquist)", []float64{low, high})
	}

	// Analog low-pass prototype: poles evenly spaced on the left unit
	// semicircle, no zeros, unit gain.
	poles := make([]complex128, order)
	for k := 0; k < order; k++ {
		theta := math.Pi/2 + math.Pi*(2*float64(k)+1)/(2*float64(order))
		poles[k] = cmplx.Exp(complex(0, theta))
	}
	var zeros []complex128
	gain := 1.0

	// Pre-warp the cutoffs for the bilinear transform (fs = 2 convention).
	const fs2 = 4.0 // 2 * fs
	warpedLow := fs2 * math.Tan(math.Pi*low/2)
	warpedHigh := fs2 * math.Tan(math.Pi*high/2)

	switch filterType {
	case FilterLowpass:
		for i, p := range poles {
			poles[i] = p * complex(warpedLow, 0)
		}
		gain *= math.Pow(warpedLow, float64(order))

	case FilterHighpass:
		prod := complex(1, 0)
		for i, p := range poles {
			prod *= -p
			poles[i] = complex(warpedLow, 0) / p
		}
		// k_hp = k / prod(-p) for a zeroless prototype.
		gain *= 1 / real(prod)
		zeros = make([]complex128, order)

	case FilterBandpass:
		bw := warpedHigh - warpedLow
		w0 := math.Sqrt(warpedLow * warpedHigh)
		transformed := make([]complex128, 0, 2*order)
		for _, p := range poles {
			pb := p * complex(bw/2, 0)
			disc := cmplx.Sqrt(pb*pb - complex(w0*w0, 0))
			transformed = append(transformed, pb+disc, pb-disc)
		}
		poles = transformed
		zeros = make([]complex128, order)
		gain *= math.Pow(bw, float64(order))
	}

	// Bilinear transform s -> z.
	numDegree := len(zeros)
	zZeros := make([]complex128, 0, len(poles))
	zPoles := make([]complex128, len(poles))

	prodZ := complex(1, 0)
	for _, z := range zeros {
		zZeros = append(zZeros, (complex(fs2, 0)+z)/(complex(fs2, 0)-z))
		prodZ *= complex(fs2, 0) - z
	}
	prodP := complex(1, 0)
	for i, p := range poles {
		zPoles[i] = (complex(fs2, 0) + p) / (complex(fs2, 0) - p)
		prodP *= complex(fs2, 0) - p
	}
	// Degree deficit maps to zeros at z = -1.
	for i := numDegree; i < len(poles); i++ {
		zZeros = append(zZeros, complex(-1, 0))
	}
	gain *= real(prodZ / prodP)

	b = realPoly(zZeros)
	a = realPoly(zPoles)
	for i := range b {
		b[i] *= gain
	}
	return b, a, nil
}

// realPoly expands the monic polynomial with the given roots and returns its
// real coefficients in descending power order.
func realPoly(roots []complex128) []float64 {
	coeffs := []complex128{1}
	for _, r := range roots {
		next := make([]complex128, len(coeffs)+1)
		for i, c := range coeffs {
			next[i] += c
			next[i+1] -= c * r
		}
		coeffs = next
	}
	out := make([]float64, len(coeffs))
	for i, c := range coeffs {
		out[i] = real(c)
	}
	return out
}

// normalizeCoeffs pads b and a to a common length and divides by a[0].
func normalizeCoeffs(b, a []float64) (bn, an []float64) {
	order := len(b)
	if len(a) > order {
		order = len(a)
	}
	bn = make([]float64, order)
	an = make([]float64, order)
	for i := 0; i < order; i++ {
		if i < len(b) {
			bn[i] = b[i] / a[0]
		}
		if i < len(a) {
			an[i] = a[i] / a[0]
		}
	}
	return bn, an
}

// lfilter applies the IIR filter in direct form II transposed with the given
// initial state (nil for zero initial conditions).
func lfilter(b, a, x, zi []float64) []float64 {
	bn, an := normalizeCoeffs(b, a)
	order := len(bn)

	y := make([]float64, len(x))
	if order == 1 {
		for n, xn := range x {
			y[n] = bn[0] * xn
		}
		return y
	}

	z := make([]float64, order-1)
	copy(z, zi)
	for n, xn := range x {
		yn := bn[0]*xn + z[0]
		for i := 0; i < len(z)-1; i++ {
			z[i] = bn[i+1]*xn + z[i+1] - an[i+1]*yn
		}
		z[len(z)-1] = bn[order-1]*xn - an[order-1]*yn
		y[n] = yn
	}
	return y
}

// steadyStateInit computes the filter state that makes the step response
// start at its steady-state value, suppressing startup transients when
// scaled by the first input sample.
func steadyStateInit(b, a []float64) []float64 {
	bn, an := normalizeCoeffs(b, a)
	n := len(bn) - 1
	if n < 1 {
		return nil
	}

	// Solve (I - A) zi = B where A is the transposed companion matrix of
	// the denominator (first column -a[1:], ones on the superdiagonal) and
	// B[i] = b[i+1] - a[i+1]*b[0].
	m := make([][]float64, n)
	rhs := make([]float64, n)
	for i := 0; i < n; i++ {
		m[i] = make([]float64, n)
		m[i][0] += an[i+1]
		m[i][i]++
		if i+1 < n {
			m[i][i+1]--
		}
		rhs[i] = bn[i+1] - an[i+1]*bn[0]
	}

	return solveLinear(m, rhs)
}

// solveLinear solves m*x = rhs by Gaussian elimination with partial
// pivoting. The inputs are overwritten.
func solveLinear(m [][]float64, rhs []float64) []float64 {
	n := len(rhs)
	for col := 0; col < n; col++ {
		pivot := col
		for r := col + 1; r < n; r++ {
			if math.Abs(m[r][col]) > math.Abs(m[pivot][col]) {
				pivot = r
			}
		}
		m[col], m[pivot] = m[pivot], m[col]
		rhs[col], rhs[pivot] = rhs[pivot], rhs[col]
		if m[col][col] == 0 {
			continue
		}
		for r := col + 1; r < n; r++ {
			f := m[r][col] / m[col][col]
			for c := col; c < n; c++ {
				m[r][c] -= f * m[col][c]
			}
			rhs[r] -= f * rhs[col]
		}
	}

	x := make([]float64, n)
	for r := n - 1; r >= 0; r-- {
		sum := rhs[r]
		for c := r + 1; c < n; c++ {
			sum -= m[r][c] * x[c]
		}
		if m[r][r] != 0 {
			x[r] = sum / m[r][r]
		}
	}
	return x
}

// scaleState returns a copy of zi scaled by v.
func scaleState(zi []float64, v float64) []float64 {
	out := make([]float64, len(zi))
	for i, z := range zi {
		out[i] = z * v
	}
	return out
}

// filtfilt applies the filter forward and backward for zero phase. The input
// is extended at both ends by odd reflection to suppress edge transients.
func filtfilt(b, a, x []float64) []float64 {
	if len(x) == 0 {
		return nil
	}

	order := len(b)
	if len(a) > order {
		order = len(a)
	}
	pad := 3 * order
	if pad >= len(x) {
		pad = len(x) - 1
	}

	ext := make([]float64, 0, len(x)+2*pad)
	for i := pad; i >= 1; i-- {
		ext = append(ext, 2*x[0]-x[i])
	}
	ext = append(ext, x...)
	for i := len(x) - 2; i >= len(x)-1-pad && i >= 0; i-- {
		ext = append(ext, 2*x[len(x)-1]-x[i])
	}

	// Seed each pass with the steady-state response to its first sample so
	// the filter does not ring at the extension boundaries.
	zi := steadyStateInit(b, a)
	y := lfilter(b, a, ext, scaleState(zi, ext[0]))
	reverse(y)
	y = lfilter(b, a, y, scaleState(zi, y[0]))
	reverse(y)

	out := make([]float64, len(x))
	copy(out, y[pad:pad+len(x)])
	return out
}

func reverse(x []float64) {
	for i, j := 0, len(x)-1; i < j; i, j = i+1, j-1 {
		x[i], x[j] = x[j], x[i]
	}
}
