package heartkit

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"
)

// LoadColumn reads one numeric column from a delimited text file (CSV/TXT).
//
// When column is empty the file must contain a single value per record and
// no header. Otherwise the first record is treated as a header row and the
// named column is extracted. Non-numeric cells are an error.
func LoadColumn(path, column string, delim rune) ([]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	if delim != 0 {
		reader.Comma = delim
	}
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%s: empty file", path)
	}

	col := 0
	start := 0
	if column != "" {
		col = -1
		for i, name := range records[0] {
			if name == column {
				col = i
				break
			}
		}
		if col < 0 {
			return nil, fmt.Errorf("%s: %w: %q (available: %v)", path, ErrColumnNotFound, column, records[0])
		}
		start = 1
	}

	values := make([]float64, 0, len(records)-start)
	for i := start; i < len(records); i++ {
		if col >= len(records[i]) {
			return nil, fmt.Errorf("%s: record %d has no column %d", path, i, col)
		}
		v, err := strconv.ParseFloat(records[i][col], 64)
		if err != nil {
			return nil, fmt.Errorf("%s: record %d: %w", path, i, err)
		}
		values = append(values, v)
	}
	return values, nil
}

// SampleRateFromMSTimer infers the sample rate in Hz from a millisecond
// timer column recorded alongside the samples.
func SampleRateFromMSTimer(timer []float64) (float64, error) {
	if len(timer) < 2 {
		return 0, fmt.Errorf("timer needs at least 2 entries, got %d", len(timer))
	}
	elapsed := timer[len(timer)-1] - timer[0]
	if elapsed <= 0 {
		return 0, fmt.Errorf("timer is not increasing: elapsed %v ms", elapsed)
	}
	return float64(len(timer)) / elapsed * 1000, nil
}

// DefaultTimestampLayout parses timestamps like "2019-03-23 14:02:31.167534".
const DefaultTimestampLayout = "2006-01-02 15:04:05.999999"

// SampleRateFromTimestamps infers the sample rate in Hz from wall-clock
// timestamp strings recorded alongside the samples. An empty layout uses
// DefaultTimestampLayout.
func SampleRateFromTimestamps(stamps []string, layout string) (float64, error) {
	if len(stamps) < 2 {
		return 0, fmt.Errorf("timestamps need at least 2 entries, got %d", len(stamps))
	}
	if layout == "" {
		layout = DefaultTimestampLayout
	}

	first, err := time.Parse(layout, stamps[0])
	if err != nil {
		return 0, fmt.Errorf("parse first timestamp: %w", err)
	}
	last, err := time.Parse(layout, stamps[len(stamps)-1])
	if err != nil {
		return 0, fmt.Errorf("parse last timestamp: %w", err)
	}

	elapsed := last.Sub(first).Seconds()
	if elapsed <= 0 {
		return 0, fmt.Errorf("timestamps are not increasing: elapsed %vs", elapsed)
	}
	return float64(len(stamps)) / elapsed, nil
}

// LoadSignal loads a sample column and, when timerColumn is non-empty, a
// millisecond timer column used to infer the sample rate. With no timer
// column the provided fallback rate is used.
func LoadSignal(path, column, timerColumn string, fallbackRate float64) (*Signal, error) {
	samples, err := LoadColumn(path, column, ',')
	if err != nil {
		return nil, err
	}

	rate := fallbackRate
	if timerColumn != "" {
		timer, err := LoadColumn(path, timerColumn, ',')
		if err != nil {
			return nil, err
		}
		rate, err = SampleRateFromMSTimer(timer)
		if err != nil {
			return nil, err
		}
	}

	return NewSignal(samples, rate, map[string]string{"source": path})
}
