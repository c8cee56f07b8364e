// Package config loads bgviz settings from YAML with environment overrides.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/jwulff/bgviz-go/internal/bloodsugar"
	"gopkg.in/yaml.v3"
)

const (
	DefaultPath     = "bgviz.yaml"
	defaultDBPath   = "./bgviz.db"
	defaultPatient  = "default"
	defaultLogLevel = "info"
)

// Config is the application configuration.
type Config struct {
	DBPath    string   `yaml:"db_path"`
	PatientID string   `yaml:"patient_id"`
	LogLevel  string   `yaml:"log_level"`
	BG        BGConfig `yaml:"bg"`
}

// BGConfig holds the raw blood glucose preferences. Thresholds are pointers
// so a missing value can be told apart from zero.
type BGConfig struct {
	Units             string   `yaml:"units"`
	VeryLowThreshold  *float64 `yaml:"very_low_threshold"`
	TargetLowerBound  *float64 `yaml:"target_lower_bound"`
	TargetUpperBound  *float64 `yaml:"target_upper_bound"`
	VeryHighThreshold *float64 `yaml:"very_high_threshold"`
}

// Load reads the config file at path (or $BGVIZ_CONFIG, or bgviz.yaml) and
// applies BGVIZ_* environment overrides. A missing file is not an error.
func Load(path string) (Config, error) {
	var cfg Config

	if path == "" {
		path = DefaultPath
		if envPath := os.Getenv("BGVIZ_CONFIG"); envPath != "" {
			path = envPath
		}
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", path, err)
		}
	case !os.IsNotExist(err):
		return Config{}, fmt.Errorf("read %s: %w", path, err)
	}

	envOverride(&cfg.DBPath, "BGVIZ_DB_PATH")
	envOverride(&cfg.PatientID, "BGVIZ_PATIENT")
	envOverride(&cfg.LogLevel, "BGVIZ_LOG_LEVEL")
	envOverride(&cfg.BG.Units, "BGVIZ_UNITS")
	for _, o := range []struct {
		field **float64
		key   string
	}{
		{&cfg.BG.VeryLowThreshold, "BGVIZ_VERY_LOW_THRESHOLD"},
		{&cfg.BG.TargetLowerBound, "BGVIZ_TARGET_LOWER_BOUND"},
		{&cfg.BG.TargetUpperBound, "BGVIZ_TARGET_UPPER_BOUND"},
		{&cfg.BG.VeryHighThreshold, "BGVIZ_VERY_HIGH_THRESHOLD"},
	} {
		if err := envOverrideFloat(o.field, o.key); err != nil {
			return Config{}, err
		}
	}

	if cfg.DBPath == "" {
		cfg.DBPath = defaultDBPath
	}
	if cfg.PatientID == "" {
		cfg.PatientID = defaultPatient
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = defaultLogLevel
	}

	switch strings.ToLower(cfg.LogLevel) {
	case "debug", "info", "warn", "error":
		cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	default:
		return Config{}, fmt.Errorf("invalid log_level %q: must be debug, info, warn or error", cfg.LogLevel)
	}

	return cfg, nil
}

// Prefs validates the blood glucose section and returns it as Prefs.
// Missing values are reported as configuration errors, never defaulted.
func (c Config) Prefs() (bloodsugar.Prefs, error) {
	if c.BG.Units == "" {
		return bloodsugar.Prefs{}, &bloodsugar.ConfigurationError{Field: "bgUnits", Reason: "is missing"}
	}
	units, err := bloodsugar.ParseUnits(c.BG.Units)
	if err != nil {
		return bloodsugar.Prefs{}, &bloodsugar.ConfigurationError{Field: "bgUnits", Reason: err.Error()}
	}

	required := []struct {
		name  string
		value *float64
	}{
		{"veryLowThreshold", c.BG.VeryLowThreshold},
		{"targetLowerBound", c.BG.TargetLowerBound},
		{"targetUpperBound", c.BG.TargetUpperBound},
		{"veryHighThreshold", c.BG.VeryHighThreshold},
	}
	for _, r := range required {
		if r.value == nil {
			return bloodsugar.Prefs{}, &bloodsugar.ConfigurationError{Field: r.name, Reason: "is missing"}
		}
	}

	return bloodsugar.NewPrefs(units, bloodsugar.Bounds{
		VeryLowThreshold:  *c.BG.VeryLowThreshold,
		TargetLowerBound:  *c.BG.TargetLowerBound,
		TargetUpperBound:  *c.BG.TargetUpperBound,
		VeryHighThreshold: *c.BG.VeryHighThreshold,
	})
}

// Sample returns a complete config using the consensus thresholds for units.
func Sample(units bloodsugar.Units) Config {
	b := bloodsugar.DefaultBounds(units)
	return Config{
		DBPath:    defaultDBPath,
		PatientID: defaultPatient,
		LogLevel:  defaultLogLevel,
		BG: BGConfig{
			Units:             units.String(),
			VeryLowThreshold:  &b.VeryLowThreshold,
			TargetLowerBound:  &b.TargetLowerBound,
			TargetUpperBound:  &b.TargetUpperBound,
			VeryHighThreshold: &b.VeryHighThreshold,
		},
	}
}

// Write saves cfg as YAML at path.
func Write(path string, cfg Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func envOverride(field *string, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		*field = val
	}
}

func envOverrideFloat(field **float64, envKey string) error {
	val := os.Getenv(envKey)
	if val == "" {
		return nil
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", envKey, val, err)
	}
	*field = &f
	return nil
}
