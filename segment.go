package heartkit

import "sync"

// SegmentConfig configures windowed (segmented) analysis.
type SegmentConfig struct {
	// WidthSeconds is the window length in seconds.
	WidthSeconds float64 `yaml:"width_seconds"`

	// Overlap is the fraction of overlap between consecutive windows,
	// in [0, 1). Values outside that range are a configuration error.
	Overlap float64 `yaml:"overlap"`

	// MinSeconds is the smallest trailing remainder still analyzed as its
	// own window.
	MinSeconds float64 `yaml:"min_seconds"`
}

// DefaultSegmentConfig returns default segmentation configuration.
func DefaultSegmentConfig() SegmentConfig {
	return SegmentConfig{
		WidthSeconds: 120,
		Overlap:      0,
		MinSeconds:   20,
	}
}

// segmentWindow is one [start, end) sample range of the parent signal.
type segmentWindow struct {
	start, end int
}

// makeWindows slices the signal into analysis windows. The trailing
// remainder is kept only when it meets the minimum window size.
func makeWindows(sig *Signal, config SegmentConfig) []segmentWindow {
	window := int(config.WidthSeconds * sig.SampleRate())
	step := int((1 - config.Overlap) * float64(window))
	if step < 1 {
		step = 1
	}
	minSize := int(config.MinSeconds * sig.SampleRate())

	var windows []segmentWindow
	start, end := 0, window
	for end < sig.Len() {
		windows = append(windows, segmentWindow{start: start, end: end})
		start += step
		end += step
	}
	if sig.Len()-start >= minSize && start < sig.Len() {
		windows = append(windows, segmentWindow{start: start, end: sig.Len()})
	}
	return windows
}

// ProcessSegmentwise runs the full pipeline over fixed-width windows of the
// signal and collects the per-window results as segments of the returned
// parent result, in window order.
//
// Each window is analyzed as an independent copied slice, so windows run in
// parallel; aggregation happens only after every window has finished. Use
// AggregateSegments to collapse the per-segment measures.
func ProcessSegmentwise(sig *Signal, config Config, segConfig SegmentConfig) (*AnalysisResult, error) {
	if segConfig.Overlap < 0 || segConfig.Overlap >= 1 {
		return nil, newConfigError(ConfigFieldSegmentOverlap,
			"segment overlap must be in [0, 1)", segConfig.Overlap)
	}
	if segConfig.WidthSeconds <= 0 {
		segConfig.WidthSeconds = 120
	}
	if segConfig.MinSeconds <= 0 {
		segConfig.MinSeconds = 20
	}

	pipeline, err := NewPipeline(config)
	if err != nil {
		return nil, err
	}
	if sig == nil || sig.Len() == 0 {
		return nil, ErrEmptySignal
	}

	windows := makeWindows(sig, segConfig)
	results := make([]*AnalysisResult, len(windows))
	errs := make([]error, len(windows))

	var wg sync.WaitGroup
	for i, w := range windows {
		wg.Add(1)
		go func(i int, w segmentWindow) {
			defer wg.Done()
			segment, err := sig.sliceSamples(w.start, w.end)
			if err != nil {
				errs[i] = err
				return
			}
			res, err := pipeline.Run(segment)
			if err != nil {
				errs[i] = err
				return
			}
			res.Working.SegmentBounds = [2]int{w.start, w.end}
			results[i] = res
		}(i, w)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	parent := NewAnalysisResult()
	for _, res := range results {
		parent.AddSegment(res)
	}
	return parent, nil
}

// AggregateSegments collapses per-segment measures into one value list per
// measure key, in segment order. It is a pure function of its input.
func AggregateSegments(segments []*AnalysisResult) map[string][]float64 {
	agg := make(map[string][]float64)
	for _, segment := range segments {
		for key, value := range segment.Measures() {
			agg[key] = append(agg[key], value)
		}
	}
	return agg
}
