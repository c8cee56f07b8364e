package bloodsugar

import (
	"errors"
	"fmt"
)

// ConfigurationError is returned when blood glucose preferences are unusable.
// Views must surface it rather than fall back to default thresholds.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	if e.Field == "" {
		return "invalid bg configuration: " + e.Reason
	}
	return fmt.Sprintf("invalid bg configuration: %s: %s", e.Field, e.Reason)
}

// IsConfigurationError checks if err is, or wraps, a ConfigurationError.
func IsConfigurationError(err error) bool {
	var target *ConfigurationError
	return errors.As(err, &target)
}

// DataError is returned when a datum cannot be classified.
type DataError struct {
	Value  float64
	Reason string
}

func (e *DataError) Error() string {
	return fmt.Sprintf("invalid bg datum (value %v): %s", e.Value, e.Reason)
}

// IsDataError checks if err is, or wraps, a DataError.
func IsDataError(err error) bool {
	var target *DataError
	return errors.As(err, &target)
}
