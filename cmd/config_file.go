package cmd

import (
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/KurianUthuppu/adaptive-error-mitigation/mitigate"
)

// loadPolicyConfig returns the default policy config, overlaid with the YAML
// file at path when one is given. Exits on unreadable or invalid configs so
// a bad policy never silently falls back to defaults.
func loadPolicyConfig(path string) mitigate.Config {
	cfg := mitigate.DefaultConfig()
	if path == "" {
		return cfg
	}
	data, err := os.ReadFile(path)
	if err != nil {
		logrus.Fatalf("Unable to read policy config %q: %v", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		logrus.Fatalf("Unable to parse policy config %q: %v", path, err)
	}
	if err := cfg.Validate(); err != nil {
		logrus.Fatalf("Invalid policy config %q: %v", path, err)
	}
	logrus.Infof("Using policy config from %v", path)
	return cfg
}

// loadCircuit reads a transpiled circuit from a YAML file.
func loadCircuit(path string) (*mitigate.Circuit, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var circuit mitigate.Circuit
	if err := yaml.Unmarshal(data, &circuit); err != nil {
		return nil, err
	}
	return &circuit, nil
}

// loadCalibration reads a calibration snapshot from a YAML file.
func loadCalibration(path string) (mitigate.CalibrationData, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return mitigate.CalibrationData{}, err
	}
	var cal mitigate.CalibrationData
	if err := yaml.Unmarshal(data, &cal); err != nil {
		return mitigate.CalibrationData{}, err
	}
	return cal, nil
}
