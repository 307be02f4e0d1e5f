package heartkit

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config defines analysis configuration for a pipeline run.
type Config struct {
	// PeakDetection configures adaptive-threshold beat detection.
	PeakDetection PeakDetectorConfig `yaml:"peak_detection"`

	// Frequency configures spectral HRV estimation.
	Frequency FrequencyConfig `yaml:"frequency"`

	// Breathing configures breathing-rate estimation.
	Breathing BreathingConfig `yaml:"breathing"`
}

// DefaultConfig returns the default analysis configuration.
func DefaultConfig() Config {
	return Config{
		PeakDetection: DefaultPeakDetectorConfig(),
		Frequency:     DefaultFrequencyConfig(),
		Breathing:     DefaultBreathingConfig(),
	}
}

// Validate checks the configuration for caller misuse. Invalid values that
// have safe defaults are not errors; they are clamped where they are used.
func (c Config) Validate() error {
	if !c.Frequency.Method.valid() {
		return newConfigError(ConfigFieldSpectralMethod,
			"unknown spectral estimation method", c.Frequency.Method)
	}
	if !c.Breathing.Method.valid() {
		return newConfigError(ConfigFieldSpectralMethod,
			"unknown spectral estimation method", c.Breathing.Method)
	}
	if c.Breathing.FilterEnabled {
		low, high := c.Breathing.Band[0], c.Breathing.Band[1]
		if low <= 0 || high <= low {
			return newConfigError(ConfigFieldFilterBand,
				"breathing band must satisfy 0 < low < high", c.Breathing.Band)
		}
	}
	return nil
}

// LoadConfig reads a YAML configuration file, applying defaults for any
// omitted field.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return LoadConfigFromYAML(data)
}

// LoadConfigFromYAML parses YAML configuration, applying defaults for any
// omitted field.
func LoadConfigFromYAML(data []byte) (Config, error) {
	config := DefaultConfig()
	if err := yaml.Unmarshal(data, &config); err != nil {
		return Config{}, fmt.Errorf("invalid YAML: %w", err)
	}
	if err := config.Validate(); err != nil {
		return Config{}, err
	}
	return config, nil
}
