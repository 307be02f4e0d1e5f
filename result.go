package heartkit

// TimeDomainMeasures holds time-domain HRV statistics in milliseconds
// (except BPM and the pNN fractions). Measures that cannot be computed from
// the available data are NaN.
type TimeDomainMeasures struct {
	// BPM is the mean heart rate in beats per minute.
	BPM float64

	// IBI is the mean inter-beat interval in ms.
	IBI float64

	// SDNN is the population standard deviation of RR-intervals.
	SDNN float64

	// SDSD is the standard deviation of successive RR differences.
	SDSD float64

	// RMSSD is the root mean square of successive RR differences.
	RMSSD float64

	// PNN20 is the fraction of successive differences exceeding 20 ms.
	PNN20 float64

	// PNN50 is the fraction of successive differences exceeding 50 ms.
	PNN50 float64

	// MAD is the mean absolute deviation of RR-intervals from their mean.
	MAD float64
}

// FrequencyDomainMeasures holds spectral power distribution of the
// RR-interval series. Powers are integrated over the standard VLF
// [0.0033, 0.04), LF [0.04, 0.15) and HF [0.15, 0.4) Hz bands.
type FrequencyDomainMeasures struct {
	VLF        float64
	LF         float64
	HF         float64
	TotalPower float64

	// LFHF is the LF/HF ratio, NaN when HF power is zero.
	LFHF float64

	// Band shares as percentage of total power, NaN when total is zero.
	VLFPerc float64
	LFPerc  float64
	HFPerc  float64

	// Normalized units: band share of LF+HF, NaN when LF+HF is zero.
	LFnu float64
	HFnu float64
}

// NonlinearMeasures holds Poincaré plot geometry of the RR-interval series.
type NonlinearMeasures struct {
	// SD1 is the dispersion perpendicular to the identity line
	// (short-term variability).
	SD1 float64

	// SD2 is the dispersion along the identity line (long-term variability).
	SD2 float64

	// S is the fitted ellipse area, pi * SD1 * SD2.
	S float64

	// SD1SD2 is the SD1/SD2 ratio, NaN when SD2 is zero.
	SD1SD2 float64
}

// BreathingMeasures holds the estimated breathing rate derived from
// respiratory sinus arrhythmia in the RR-interval series.
type BreathingMeasures struct {
	// Rate is the breathing rate in Hz, NaN when it cannot be estimated.
	Rate float64
}

// Spectrum is a frequency/power pair produced by a PSD estimator.
type Spectrum struct {
	Freq []float64
	PSD  []float64
}

// WorkingData holds intermediate artifacts produced by the pipeline stages,
// kept for diagnostics and plotting by external consumers.
type WorkingData struct {
	// Peaks are detected beat positions as sample indices.
	Peaks []int

	// BeatAmplitudes are the sample values at each beat position.
	BeatAmplitudes []float64

	// RawRR are the uncorrected RR-intervals in ms.
	RawRR []float64

	// RejectionMask is aligned with Peaks; true marks an excluded beat.
	RejectionMask []bool

	// RemovedBeats are the positions of masked beats.
	RemovedBeats []int

	// CorrectedRR are the RR-intervals whose bounding beats are unmasked.
	CorrectedRR []float64

	// Spectrum is the RR power spectral density from the frequency stage.
	Spectrum *Spectrum

	// BreathingSignal is the filtered, resampled RR series used for
	// breathing estimation.
	BreathingSignal []float64

	// BreathingSpectrum is the PSD of the breathing signal.
	BreathingSpectrum *Spectrum

	// SegmentBounds is the [start, end) sample range this result covers
	// within the parent signal, set for segmented analysis.
	SegmentBounds [2]int

	// Extra is an open map for forward-compatible numeric artifacts.
	Extra map[string][]float64
}

// AnalysisResult accumulates all derived measures and working data for one
// pipeline run. Each stage writes its own record; records written by earlier
// stages are never dropped.
type AnalysisResult struct {
	TimeDomain TimeDomainMeasures
	Frequency  FrequencyDomainMeasures
	Nonlinear  NonlinearMeasures
	Breathing  BreathingMeasures

	Working WorkingData

	// Segments holds per-window child results for segmented analysis,
	// in window order.
	Segments []*AnalysisResult
}

// NewAnalysisResult returns an empty result with every measure undefined.
func NewAnalysisResult() *AnalysisResult {
	return &AnalysisResult{
		TimeDomain: undefinedTimeDomain(),
		Frequency:  undefinedFrequencyDomain(),
		Nonlinear:  undefinedNonlinear(),
		Breathing:  BreathingMeasures{Rate: undefined()},
	}
}

// AddSegment appends a child result for one analysis window.
func (r *AnalysisResult) AddSegment(segment *AnalysisResult) {
	r.Segments = append(r.Segments, segment)
}

// Measures flattens all measure records into a single string-keyed map,
// the shape external serializers consume.
func (r *AnalysisResult) Measures() map[string]float64 {
	return map[string]float64{
		"bpm":           r.TimeDomain.BPM,
		"ibi":           r.TimeDomain.IBI,
		"sdnn":          r.TimeDomain.SDNN,
		"sdsd":          r.TimeDomain.SDSD,
		"rmssd":         r.TimeDomain.RMSSD,
		"pnn20":         r.TimeDomain.PNN20,
		"pnn50":         r.TimeDomain.PNN50,
		"hr_mad":        r.TimeDomain.MAD,
		"vlf":           r.Frequency.VLF,
		"lf":            r.Frequency.LF,
		"hf":            r.Frequency.HF,
		"p_total":       r.Frequency.TotalPower,
		"lf/hf":         r.Frequency.LFHF,
		"vlf_perc":      r.Frequency.VLFPerc,
		"lf_perc":       r.Frequency.LFPerc,
		"hf_perc":       r.Frequency.HFPerc,
		"lf_nu":         r.Frequency.LFnu,
		"hf_nu":         r.Frequency.HFnu,
		"sd1":           r.Nonlinear.SD1,
		"sd2":           r.Nonlinear.SD2,
		"s":             r.Nonlinear.S,
		"sd1/sd2":       r.Nonlinear.SD1SD2,
		"breathingrate": r.Breathing.Rate,
	}
}

func undefinedTimeDomain() TimeDomainMeasures {
	nan := undefined()
	return TimeDomainMeasures{
		BPM: nan, IBI: nan, SDNN: nan, SDSD: nan,
		RMSSD: nan, PNN20: nan, PNN50: nan, MAD: nan,
	}
}

func undefinedFrequencyDomain() FrequencyDomainMeasures {
	nan := undefined()
	return FrequencyDomainMeasures{
		VLF: nan, LF: nan, HF: nan, TotalPower: nan, LFHF: nan,
		VLFPerc: nan, LFPerc: nan, HFPerc: nan, LFnu: nan, HFnu: nan,
	}
}

func undefinedNonlinear() NonlinearMeasures {
	nan := undefined()
	return NonlinearMeasures{SD1: nan, SD2: nan, S: nan, SD1SD2: nan}
}
