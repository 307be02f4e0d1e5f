package heartkit

import "gonum.org/v1/gonum/stat"

// artifactBandFloorMS is the minimum half-width of the RR acceptance band.
// It prevents over-aggressive rejection on very regular rhythms, where 30%
// of the mean would be a narrow band.
const artifactBandFloorMS = 300.0

// CorrectRR flags beats whose adjacent RR-intervals fall outside an adaptive
// acceptance band and derives the corrected RR-interval series.
//
// The band is mean ± max(300ms, 0.3·mean). An interval outside the band
// marks both of its bounding beats in the returned mask (true = rejected).
// The corrected series keeps only intervals whose bounding beats are both
// unmasked, so it is always a positional subsequence of rawRR.
//
// Fewer than 2 raw intervals yields an all-false mask and an empty corrected
// list; this is not an error.
func CorrectRR(beats []int, rawRR []float64) ([]bool, []float64) {
	mask := make([]bool, len(beats))
	if len(rawRR) < 2 || len(beats) != len(rawRR)+1 {
		return mask, nil
	}

	meanRR := stat.Mean(rawRR, nil)
	band := 0.3 * meanRR
	if band < artifactBandFloorMS {
		band = artifactBandFloorMS
	}
	lower := meanRR - band
	upper := meanRR + band

	for i, rr := range rawRR {
		if rr < lower || rr > upper {
			mask[i] = true
			if i+1 < len(mask) {
				mask[i+1] = true
			}
		}
	}

	corrected := make([]float64, 0, len(rawRR))
	for i, rr := range rawRR {
		if !mask[i] && !mask[i+1] {
			corrected = append(corrected, rr)
		}
	}
	return mask, corrected
}

// removedBeats returns the beat positions excluded by the rejection mask.
func removedBeats(beats []int, mask []bool) []int {
	var removed []int
	for i, rejected := range mask {
		if rejected {
			removed = append(removed, beats[i])
		}
	}
	return removed
}
