package ranking

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
)

// ProviderWeights defines the ranking weights for provider discovery.
type ProviderWeights struct {
	Rating       float64 `json:"rating"`       // Weight for star rating (default: 0.4)
	Distance     float64 `json:"distance"`     // Weight for the distance term (default: 0.3)
	Availability float64 `json:"availability"` // Weight for online availability (default: 0.3)
}

// Weights holds all ranking weight configurations.
type Weights struct {
	Provider ProviderWeights `json:"provider"` // Provider discovery weights
}

// CalibrationConfig represents the JSON structure of the calibration file.
type CalibrationConfig struct {
	Version string  `json:"version"` // Config version for future compatibility
	Weights Weights `json:"weights"` // Weight configurations
}

// DefaultWeights returns the default ranking weight configuration.
//
// Provider formula: composite_score = (rating * 0.4) + ((2 - distance_km) * 0.3) + (availability * 0.3)
// - Rating carries the most signal for quality
// - Distance rewards nearby providers and penalizes far ones without bound
// - Availability gives a flat boost to providers who can take the job now
func DefaultWeights() *Weights {
	return &Weights{
		Provider: ProviderWeights{
			Rating:       0.4,
			Distance:     0.3,
			Availability: 0.3,
		},
	}
}

// LoadCalibration loads ranking weights from a JSON calibration file.
// If the file doesn't exist or can't be read, returns default weights with
// an error. Partial configurations are merged with defaults for graceful
// degradation.
//
// Parameters:
//   - filePath: Path to the calibration JSON file
//
// Returns the loaded weights and any error encountered.
// On error, returns default weights to ensure graceful degradation.
func LoadCalibration(filePath string) (*Weights, error) {
	// Return defaults if no file path provided
	if filePath == "" {
		return DefaultWeights(), nil
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		slog.Warn("failed to read calibration file, using defaults",
			"path", filePath,
			"error", err)
		return DefaultWeights(), fmt.Errorf("failed to read calibration file: %w", err)
	}

	var config CalibrationConfig
	if err := json.Unmarshal(data, &config); err != nil {
		slog.Warn("failed to parse calibration file, using defaults",
			"path", filePath,
			"error", err)
		return DefaultWeights(), fmt.Errorf("failed to parse calibration file: %w", err)
	}

	// Merge loaded weights with defaults to handle partial configurations
	defaults := DefaultWeights()
	merged := MergeCalibration(defaults, &config.Weights)
	logCalibrationOverrides(defaults, merged)

	return merged, nil
}

// MergeCalibration merges override weights with default weights.
// Only non-zero values from the override are applied.
// This allows partial overrides in the calibration file.
//
// Parameters:
//   - base: The base weights to start from (typically defaults)
//   - override: The override weights to merge in
//
// Returns a new Weights struct with merged values.
func MergeCalibration(base *Weights, override *Weights) *Weights {
	// Guard against nil base to avoid panics; fall back to defaults.
	if base == nil {
		return DefaultWeights()
	}

	// If there is no override provided, return a copy of the base.
	if override == nil {
		result := *base
		return &result
	}

	result := *base // Copy base

	if override.Provider.Rating != 0 {
		result.Provider.Rating = override.Provider.Rating
	}
	if override.Provider.Distance != 0 {
		result.Provider.Distance = override.Provider.Distance
	}
	if override.Provider.Availability != 0 {
		result.Provider.Availability = override.Provider.Availability
	}

	return &result
}

// logCalibrationOverrides logs which weights were overridden from defaults.
func logCalibrationOverrides(defaults *Weights, loaded *Weights) {
	var overrides []string

	if loaded.Provider.Rating != defaults.Provider.Rating {
		overrides = append(overrides, fmt.Sprintf("provider.rating: %.2f -> %.2f",
			defaults.Provider.Rating, loaded.Provider.Rating))
	}
	if loaded.Provider.Distance != defaults.Provider.Distance {
		overrides = append(overrides, fmt.Sprintf("provider.distance: %.2f -> %.2f",
			defaults.Provider.Distance, loaded.Provider.Distance))
	}
	if loaded.Provider.Availability != defaults.Provider.Availability {
		overrides = append(overrides, fmt.Sprintf("provider.availability: %.2f -> %.2f",
			defaults.Provider.Availability, loaded.Provider.Availability))
	}

	if len(overrides) > 0 {
		slog.Info("loaded ranking calibration with overrides",
			"overrides", overrides)
	} else {
		slog.Info("loaded ranking calibration (using all defaults)")
	}
}
