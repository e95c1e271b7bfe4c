package mitigate

import (
	"fmt"
	"math"
	"time"
)

// Thresholds groups the decision-rule cut points. All comparisons in the
// selector are strict: a score exactly at a threshold does not trigger the
// rule that guards it.
type Thresholds struct {
	// MinActionable is the overall-score floor below which no mitigation is
	// selected at all, avoiding overhead on quiet circuits.
	MinActionable float64 `yaml:"min_actionable"`
	// DD triggers dynamical decoupling when the idle-window density (max
	// per-qubit idle fraction) exceeds it.
	DD float64 `yaml:"dd"`
	// Trex triggers readout twirling when any measured qubit's readout
	// error exceeds it.
	Trex float64 `yaml:"trex"`
	// ZNE triggers zero-noise extrapolation when the overall score exceeds
	// it. A higher bar than MinActionable: ZNE costs multiple noise-scaled
	// executions.
	ZNE float64 `yaml:"zne"`
	// Drift bounds how far a session's live profile may move from its
	// baseline before mid-session re-selection is allowed.
	Drift float64 `yaml:"drift"`
	// SessionRefreshCadence bounds how often a session re-reads backend
	// calibration. A baseline younger than this is reused as-is.
	SessionRefreshCadence time.Duration `yaml:"session_refresh_cadence"`
}

// AnalyzerConfig groups the sensitivity-scoring weights and region window.
// These are inputs, not constants, so policies are tunable per call.
type AnalyzerConfig struct {
	IdleWeight        float64 `yaml:"idle_weight"`        // weight of per-qubit idle fraction
	ReadoutWeight     float64 `yaml:"readout_weight"`     // weight of readout error rate
	GateWeight        float64 `yaml:"gate_weight"`        // weight of gate error contributions
	DecoherenceWeight float64 `yaml:"decoherence_weight"` // weight of 1-exp(-idle/T2)
	// HotspotSigma sets the statistical hotspot cut at mean + sigma*stddev
	// of per-qubit scores.
	HotspotSigma float64 `yaml:"hotspot_sigma"`
	// RegionWindow bounds the gate-depth distance within which two-qubit
	// links join qubits into one region. 0 means unbounded (whole circuit).
	RegionWindow int `yaml:"region_window"`
}

// TechniqueDefaults groups per-technique parameters the selector hands to
// the fragment builders.
type TechniqueDefaults struct {
	Shots             int       `yaml:"shots"`              // total shots per job
	NumRandomizations int       `yaml:"num_randomizations"` // twirling randomizations
	DDSequence        string    `yaml:"dd_sequence"`        // base decoupling sequence
	ZNENoiseFactors   []float64 `yaml:"zne_noise_factors"`
	ZNEExtrapolator   string    `yaml:"zne_extrapolator"`
	ZNEAmplifier      string    `yaml:"zne_amplifier"`
}

// Config is the full policy configuration passed into the analyzer, selector,
// and orchestrator at call time. No process-wide mutable state: distinct
// calls may carry distinct configs.
type Config struct {
	Thresholds Thresholds        `yaml:"thresholds"`
	Analyzer   AnalyzerConfig    `yaml:"analyzer"`
	Techniques TechniqueDefaults `yaml:"techniques"`
}

// DefaultConfig returns the stock policy. Threshold values follow the
// calibration study behind the heuristics: readout twirling from 1% readout
// error, decoupling above 25% idle density, extrapolation only for severe
// hotspots.
func DefaultConfig() Config {
	return Config{
		Thresholds: Thresholds{
			MinActionable:         0.05,
			DD:                    0.25,
			Trex:                  0.01,
			ZNE:                   0.80,
			Drift:                 0.20,
			SessionRefreshCadence: 10 * time.Minute,
		},
		Analyzer: AnalyzerConfig{
			IdleWeight:        1.0,
			ReadoutWeight:     1.0,
			GateWeight:        1.0,
			DecoherenceWeight: 1.0,
			HotspotSigma:      1.0,
		},
		Techniques: TechniqueDefaults{
			Shots:             4096,
			NumRandomizations: 32,
			DDSequence:        "XX",
			ZNENoiseFactors:   []float64{1, 3, 5},
			ZNEExtrapolator:   "exponential",
			ZNEAmplifier:      "gate_folding",
		},
	}
}

// Validate returns an error describing the first invalid field.
func (c Config) Validate() error {
	check := func(name string, v float64) error {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%s must be a finite non-negative number, got %v", name, v)
		}
		return nil
	}
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"thresholds.min_actionable", c.Thresholds.MinActionable},
		{"thresholds.dd", c.Thresholds.DD},
		{"thresholds.trex", c.Thresholds.Trex},
		{"thresholds.zne", c.Thresholds.ZNE},
		{"thresholds.drift", c.Thresholds.Drift},
		{"analyzer.idle_weight", c.Analyzer.IdleWeight},
		{"analyzer.readout_weight", c.Analyzer.ReadoutWeight},
		{"analyzer.gate_weight", c.Analyzer.GateWeight},
		{"analyzer.decoherence_weight", c.Analyzer.DecoherenceWeight},
		{"analyzer.hotspot_sigma", c.Analyzer.HotspotSigma},
	} {
		if err := check(f.name, f.v); err != nil {
			return err
		}
	}
	if c.Thresholds.ZNE < c.Thresholds.MinActionable {
		return fmt.Errorf("thresholds.zne (%v) must not be below thresholds.min_actionable (%v)", c.Thresholds.ZNE, c.Thresholds.MinActionable)
	}
	if c.Thresholds.SessionRefreshCadence < 0 {
		return fmt.Errorf("thresholds.session_refresh_cadence must be non-negative, got %v", c.Thresholds.SessionRefreshCadence)
	}
	if c.Analyzer.RegionWindow < 0 {
		return fmt.Errorf("analyzer.region_window must be non-negative, got %d", c.Analyzer.RegionWindow)
	}
	if c.Techniques.Shots <= 0 {
		return fmt.Errorf("techniques.shots must be positive, got %d", c.Techniques.Shots)
	}
	if c.Techniques.NumRandomizations <= 0 {
		return fmt.Errorf("techniques.num_randomizations must be positive, got %d", c.Techniques.NumRandomizations)
	}
	if _, ok := ddSequences[c.Techniques.DDSequence]; !ok {
		return fmt.Errorf("techniques.dd_sequence %q is not a supported sequence", c.Techniques.DDSequence)
	}
	if !zneExtrapolators[c.Techniques.ZNEExtrapolator] {
		return fmt.Errorf("techniques.zne_extrapolator %q is not a supported extrapolator", c.Techniques.ZNEExtrapolator)
	}
	if !zneAmplifiers[c.Techniques.ZNEAmplifier] {
		return fmt.Errorf("techniques.zne_amplifier %q is not a supported amplifier", c.Techniques.ZNEAmplifier)
	}
	for _, nf := range c.Techniques.ZNENoiseFactors {
		if nf < 1 || math.IsNaN(nf) || math.IsInf(nf, 0) {
			return fmt.Errorf("techniques.zne_noise_factors must all be >= 1, got %v", nf)
		}
	}
	return nil
}
