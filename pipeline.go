package heartkit

import "sync"

// Pipeline applies the analysis stages to a signal in fixed order:
// beat detection, artifact filtering, then the four measure calculators.
//
// The stages form a linear state progression (empty, peaks detected,
// RR corrected, measures computed); each stage consumes only values produced
// by its predecessor, so intermediate results are plain immutable slices
// rather than shared mutable state. The measure calculators are mutually
// independent and run concurrently, each writing its own record into the
// result after all have finished.
type Pipeline struct {
	config   Config
	detector *PeakDetector
}

// NewPipeline creates a pipeline, failing fast on caller misconfiguration.
func NewPipeline(config Config) (*Pipeline, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Pipeline{
		config:   config,
		detector: NewPeakDetector(config.PeakDetection),
	}, nil
}

// Run analyzes one signal and returns the accumulated result.
//
// Insufficient data degrades individual measures to NaN; Run itself fails
// only for a nil or empty signal. Re-running on an unchanged signal yields
// identical results.
func (p *Pipeline) Run(sig *Signal) (*AnalysisResult, error) {
	if sig == nil || sig.Len() == 0 {
		return nil, ErrEmptySignal
	}

	result := NewAnalysisResult()

	// Stage 1: beat detection.
	peaks := p.detector.Detect(sig)
	rawRR := RRIntervals(peaks, sig.SampleRate())
	result.Working.Peaks = peaks
	result.Working.BeatAmplitudes = beatAmplitudes(sig.Samples(), peaks)
	result.Working.RawRR = rawRR

	// Stage 2: artifact rejection.
	mask, corrected := CorrectRR(peaks, rawRR)
	result.Working.RejectionMask = mask
	result.Working.RemovedBeats = removedBeats(peaks, mask)
	result.Working.CorrectedRR = corrected

	// When correction leaves nothing (too few beats or everything
	// rejected), the measure stages fall back to the raw intervals rather
	// than failing outright.
	measureRR := corrected
	if len(measureRR) == 0 {
		measureRR = rawRR
	}

	// Stage 3: independent measure calculators over a shared read-only RR
	// view. Each goroutine writes its own private record; the records are
	// merged into the result only after every stage has finished.
	var (
		wg         sync.WaitGroup
		timeDomain TimeDomainMeasures
		frequency  FrequencyDomainMeasures
		spectrum   *Spectrum
		freqErr    error
		nonlinear  NonlinearMeasures
		breathing  BreathingMeasures
		brSignal   []float64
		brSpectrum *Spectrum
	)

	wg.Add(4)
	go func() {
		defer wg.Done()
		timeDomain = ComputeTimeDomain(measureRR)
	}()
	go func() {
		defer wg.Done()
		frequency, spectrum, freqErr = ComputeFrequencyDomain(measureRR, p.config.Frequency)
	}()
	go func() {
		defer wg.Done()
		nonlinear = ComputeNonlinear(measureRR)
	}()
	go func() {
		defer wg.Done()
		breathing, brSignal, brSpectrum = ComputeBreathing(measureRR, p.config.Breathing)
	}()
	wg.Wait()

	if freqErr != nil {
		return nil, freqErr
	}

	result.TimeDomain = timeDomain
	result.Frequency = frequency
	result.Working.Spectrum = spectrum
	result.Nonlinear = nonlinear
	result.Breathing = breathing
	result.Working.BreathingSignal = brSignal
	result.Working.BreathingSpectrum = brSpectrum

	return result, nil
}

// Process analyzes a signal with a one-shot pipeline.
func Process(sig *Signal, config Config) (*AnalysisResult, error) {
	pipeline, err := NewPipeline(config)
	if err != nil {
		return nil, err
	}
	return pipeline.Run(sig)
}

// ProcessRR computes the four measure stages directly from an RR-interval
// series in milliseconds, for callers that already have beat timings from
// external hardware.
func ProcessRR(rr []float64, config Config) (*AnalysisResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	result := NewAnalysisResult()
	result.Working.CorrectedRR = rr

	result.TimeDomain = ComputeTimeDomain(rr)

	frequency, spectrum, err := ComputeFrequencyDomain(rr, config.Frequency)
	if err != nil {
		return nil, err
	}
	result.Frequency = frequency
	result.Working.Spectrum = spectrum

	result.Nonlinear = ComputeNonlinear(rr)

	breathing, brSignal, brSpectrum := ComputeBreathing(rr, config.Breathing)
	result.Breathing = breathing
	result.Working.BreathingSignal = brSignal
	result.Working.BreathingSpectrum = brSpectrum

	return result, nil
}
