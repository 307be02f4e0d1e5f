package heartkit

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// ComputeTimeDomain calculates time-domain HRV measures from a corrected
// RR-interval series in milliseconds.
//
// Basic statistics (BPM, IBI, SDNN, MAD) need at least one interval;
// difference-based statistics (SDSD, RMSSD, pNN20, pNN50) need at least two
// and are NaN otherwise. Insufficient data is not an error.
func ComputeTimeDomain(rr []float64) TimeDomainMeasures {
	m := undefinedTimeDomain()
	if len(rr) == 0 {
		return m
	}

	meanRR := stat.Mean(rr, nil)
	m.BPM = 60000 / meanRR
	m.IBI = meanRR
	m.SDNN = stat.PopStdDev(rr, nil)

	if len(rr) < 2 {
		return m
	}

	diff := successiveAbsDiffs(rr)
	m.SDSD = stat.PopStdDev(diff, nil)

	var sumSq float64
	nn20, nn50 := 0, 0
	for _, d := range diff {
		sumSq += d * d
		if d > 20 {
			nn20++
		}
		if d > 50 {
			nn50++
		}
	}
	m.RMSSD = math.Sqrt(sumSq / float64(len(diff)))
	m.PNN20 = float64(nn20) / float64(len(diff))
	m.PNN50 = float64(nn50) / float64(len(diff))

	var sumAbs float64
	for _, v := range rr {
		sumAbs += math.Abs(v - meanRR)
	}
	m.MAD = sumAbs / float64(len(rr))

	return m
}

// successiveAbsDiffs returns |rr[i] - rr[i+1]| for each adjacent pair.
func successiveAbsDiffs(rr []float64) []float64 {
	diff := make([]float64, len(rr)-1)
	for i := 1; i < len(rr); i++ {
		diff[i-1] = math.Abs(rr[i] - rr[i-1])
	}
	return diff
}
