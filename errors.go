package heartkit

import (
	"errors"
	"fmt"
)

// Common sentinel errors for the heartkit package.
var (
	// ErrEmptySignal is returned when a signal with no samples is supplied.
	ErrEmptySignal = errors.New("signal has no samples")

	// ErrInvalidSampleRate is returned for non-positive sample rates.
	ErrInvalidSampleRate = errors.New("sample rate must be positive")

	// ErrInvalidSliceRange is returned for out-of-range signal slices.
	ErrInvalidSliceRange = errors.New("invalid slice time range")

	// ErrUnknownSpectralMethod is returned for unrecognized PSD estimators.
	ErrUnknownSpectralMethod = errors.New("unknown spectral estimation method")

	// ErrInvalidSegmentOverlap is returned when segment overlap is outside [0, 1).
	ErrInvalidSegmentOverlap = errors.New("segment overlap must be in [0, 1)")

	// ErrInvalidFilterBand is returned for malformed filter cutoff bands.
	ErrInvalidFilterBand = errors.New("invalid filter cutoff band")

	// ErrColumnNotFound is returned when a named CSV column does not exist.
	ErrColumnNotFound = errors.New("column not found")

	// ErrRunNotFound is returned when a stored analysis run does not exist.
	ErrRunNotFound = errors.New("analysis run not found")

	// ErrStoreClosed is returned when operations are attempted on a closed store.
	ErrStoreClosed = errors.New("result store is closed")
)

// ConfigErrorField identifies which configuration field was rejected.
type ConfigErrorField int

const (
	// ConfigFieldUnknown is an unclassified configuration error.
	ConfigFieldUnknown ConfigErrorField = iota
	// ConfigFieldSampleRate indicates an invalid sample rate.
	ConfigFieldSampleRate
	// ConfigFieldSpectralMethod indicates an unknown spectral method.
	ConfigFieldSpectralMethod
	// ConfigFieldSegmentOverlap indicates an out-of-range overlap fraction.
	ConfigFieldSegmentOverlap
	// ConfigFieldFilterBand indicates a malformed filter band.
	ConfigFieldFilterBand
)

// ConfigError reports caller misconfiguration. These errors fail fast:
// they indicate programmer error, not a property of the input signal.
type ConfigError struct {
	Field   ConfigErrorField
	Message string
	Value   any
	Cause   error
}

func (e *ConfigError) Error() string {
	if e.Value != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Value)
	}
	return e.Message
}

func (e *ConfigError) Unwrap() error {
	return e.Cause
}

// Is implements error matching for ConfigError.
func (e *ConfigError) Is(target error) bool {
	switch e.Field {
	case ConfigFieldSampleRate:
		return target == ErrInvalidSampleRate
	case ConfigFieldSpectralMethod:
		return target == ErrUnknownSpectralMethod
	case ConfigFieldSegmentOverlap:
		return target == ErrInvalidSegmentOverlap
	case ConfigFieldFilterBand:
		return target == ErrInvalidFilterBand
	}
	return false
}

// newConfigError creates a new ConfigError.
func newConfigError(field ConfigErrorField, message string, value any) *ConfigError {
	return &ConfigError{Field: field, Message: message, Value: value}
}
