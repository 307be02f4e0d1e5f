// Package heartkit analyzes heart-rate signals (ECG or PPG amplitude samples
// at a known sampling rate) and derives heart-rate-variability measures:
// beat positions, RR-interval statistics, time-domain variability,
// frequency-domain power distribution, Poincaré geometry, and breathing rate.
//
// # Basic Usage
//
// Analyze a signal with default configuration:
//
//	sig, err := heartkit.NewSignal(samples, 100.0, nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := heartkit.Process(sig, heartkit.DefaultConfig())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.TimeDomain.BPM, result.TimeDomain.RMSSD)
//
// Run windowed analysis over a long recording:
//
//	result, err := heartkit.ProcessSegmentwise(sig, heartkit.DefaultConfig(),
//	    heartkit.DefaultSegmentConfig())
//
// # Pipeline
//
// Analysis proceeds through fixed stages, each producing a new immutable
// value: Signal -> beat positions -> raw RR-intervals -> (rejection mask,
// corrected RR-intervals) -> measures. The four measure calculators
// (time-domain, frequency-domain, nonlinear, breathing) are independent and
// run concurrently over a shared read-only corrected RR view.
//
// Insufficient data never produces an error: affected measures are reported
// as NaN and everything else is still computed. Only caller misconfiguration
// (non-positive sample rate, unknown spectral method, overlap outside [0,1))
// fails fast.
package heartkit
