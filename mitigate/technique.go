package mitigate

import (
	"fmt"
	"sort"
)

// Technique identifies one supported mitigation or suppression technique.
// The set is closed: adding a technique means adding a variant and its
// fragment builder, not registering a plugin.
type Technique string

const (
	// TechniqueDD inserts decoupling pulse sequences into idle windows.
	TechniqueDD Technique = "dd"
	// TechniqueTREX mitigates readout error via randomized measurement
	// twirling.
	TechniqueTREX Technique = "trex"
	// TechniqueZNE runs at multiple noise-scaling factors and extrapolates
	// to the zero-noise limit.
	TechniqueZNE Technique = "zne"
)

// techniqueOrder fixes the application order (rule evaluation order).
var techniqueOrder = map[Technique]int{TechniqueDD: 0, TechniqueTREX: 1, TechniqueZNE: 2}

// IsValidTechnique reports whether t is a recognized technique.
func IsValidTechnique(t Technique) bool {
	_, ok := techniqueOrder[t]
	return ok
}

// DDParams configures the dynamical-decoupling fragment.
type DDParams struct {
	Sequence string `yaml:"sequence"` // base sequence, e.g. "XX"
	// NumPulses is the pulse count for the worst idle window; always an
	// even count so the sequence pairs cancel.
	NumPulses int `yaml:"num_pulses"`
	// LongestIdleDt is the longest idle window (dt) across affected
	// qubits, the value NumPulses was scaled to.
	LongestIdleDt int64 `yaml:"longest_idle_dt"`
}

// TREXParams configures the readout-twirling fragment.
type TREXParams struct {
	NumRandomizations     int `yaml:"num_randomizations"`
	ShotsPerRandomization int `yaml:"shots_per_randomization"`
}

// ZNEParams configures the zero-noise-extrapolation fragment.
type ZNEParams struct {
	NoiseFactors []float64 `yaml:"noise_factors"`
	Extrapolator string    `yaml:"extrapolator"`
	Amplifier    string    `yaml:"amplifier"`
	// ScalingFactor is proportional to the overall sensitivity score that
	// triggered ZNE (1 + overallScore).
	ScalingFactor float64 `yaml:"scaling_factor"`
}

// Parameters bundles the selector-chosen parameters per technique. A field
// is non-nil exactly when its technique is selected.
type Parameters struct {
	DD   *DDParams   `yaml:"dd,omitempty"`
	TREX *TREXParams `yaml:"trex,omitempty"`
	ZNE  *ZNEParams  `yaml:"zne,omitempty"`
}

// StrategyDecision is the selector's output for one (circuit, snapshot,
// mode) triple. Immutable once produced.
type StrategyDecision struct {
	Techniques []Technique   `yaml:"techniques"` // sorted in application order
	Parameters Parameters    `yaml:"parameters"`
	Rationale  []RuleOutcome `yaml:"rationale"` // every rule, in evaluation order
}

// Selected reports whether the decision includes technique t.
func (d *StrategyDecision) Selected(t Technique) bool {
	for _, have := range d.Techniques {
		if have == t {
			return true
		}
	}
	return false
}

// sortTechniques orders techniques in fixed application order.
func sortTechniques(ts []Technique) {
	sort.Slice(ts, func(i, j int) bool { return techniqueOrder[ts[i]] < techniqueOrder[ts[j]] })
}

// ApplyDecision builds the EstimatorOptions for a decision by running each
// selected technique's fragment builder and merging the fragments. Builders
// are pure and never see sibling techniques: fragments compose, they do not
// interact. Fails with ErrInvalidParameter when a parameter is outside its
// technique's domain.
func ApplyDecision(f *CircuitFeatures, p *NoiseProfile, d *StrategyDecision, defaults TechniqueDefaults) (EstimatorOptions, error) {
	options := baseOptions(defaults)
	for _, t := range d.Techniques {
		var fragment OptionsFragment
		var err error
		switch t {
		case TechniqueDD:
			if d.Parameters.DD == nil {
				return EstimatorOptions{}, fmt.Errorf("%w: dd selected without parameters", ErrInvalidParameter)
			}
			fragment, err = buildDDFragment(f, p, *d.Parameters.DD)
		case TechniqueTREX:
			if d.Parameters.TREX == nil {
				return EstimatorOptions{}, fmt.Errorf("%w: trex selected without parameters", ErrInvalidParameter)
			}
			fragment, err = buildTREXFragment(f, p, *d.Parameters.TREX)
		case TechniqueZNE:
			if d.Parameters.ZNE == nil {
				return EstimatorOptions{}, fmt.Errorf("%w: zne selected without parameters", ErrInvalidParameter)
			}
			fragment, err = buildZNEFragment(f, p, *d.Parameters.ZNE)
		default:
			return EstimatorOptions{}, fmt.Errorf("%w: unknown technique %q", ErrInvalidParameter, t)
		}
		if err != nil {
			return EstimatorOptions{}, err
		}
		options = options.Merge(fragment)
	}
	return options, nil
}
