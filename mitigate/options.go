package mitigate

// EstimatorOptions is the serialized configuration handed to the execution
// boundary. Built deterministically from a StrategyDecision; field layout
// mirrors the runtime estimator options schema.
type EstimatorOptions struct {
	DefaultShots        int               `yaml:"default_shots"`
	ResilienceLevel     int               `yaml:"resilience_level"`
	DynamicalDecoupling DDOptions         `yaml:"dynamical_decoupling"`
	Twirling            TwirlingOptions   `yaml:"twirling"`
	Resilience          ResilienceOptions `yaml:"resilience"`
}

// DDOptions is the dynamical-decoupling block.
type DDOptions struct {
	Enable           bool   `yaml:"enable"`
	SequenceType     string `yaml:"sequence_type,omitempty"`
	NumPulses        int    `yaml:"num_pulses,omitempty"`
	SchedulingMethod string `yaml:"scheduling_method,omitempty"`
}

// TwirlingOptions is the twirling block, shared by readout (measure) and
// gate twirling.
type TwirlingOptions struct {
	EnableGates           bool `yaml:"enable_gates"`
	EnableMeasure         bool `yaml:"enable_measure"`
	NumRandomizations     int  `yaml:"num_randomizations,omitempty"`
	ShotsPerRandomization int  `yaml:"shots_per_randomization,omitempty"`
}

// ResilienceOptions is the resilience block.
type ResilienceOptions struct {
	MeasureMitigation    bool                  `yaml:"measure_mitigation"`
	MeasureNoiseLearning *MeasureNoiseLearning `yaml:"measure_noise_learning,omitempty"`
	ZNEMitigation        bool                  `yaml:"zne_mitigation"`
	ZNE                  *ZNEResilienceOptions `yaml:"zne,omitempty"`
}

// MeasureNoiseLearning configures the measurement noise learning run that
// backs readout mitigation.
type MeasureNoiseLearning struct {
	NumRandomizations     int `yaml:"num_randomizations"`
	ShotsPerRandomization int `yaml:"shots_per_randomization"`
}

// ZNEResilienceOptions configures the extrapolation run.
type ZNEResilienceOptions struct {
	Amplifier     string    `yaml:"amplifier"`
	NoiseFactors  []float64 `yaml:"noise_factors"`
	Extrapolator  string    `yaml:"extrapolator"`
	ScalingFactor float64   `yaml:"scaling_factor"`
}

// OptionsFragment is one technique's partial contribution to the final
// options. Fragments never know about sibling techniques; the orchestrator
// merges them.
type OptionsFragment struct {
	ResilienceLevel     int
	DynamicalDecoupling *DDOptions
	Twirling            *TwirlingOptions
	Resilience          *ResilienceOptions
}

// baseOptions is the unmitigated starting point every decision builds on.
func baseOptions(defaults TechniqueDefaults) EstimatorOptions {
	return EstimatorOptions{
		DefaultShots:        defaults.Shots,
		ResilienceLevel:     0,
		DynamicalDecoupling: DDOptions{Enable: false},
		Twirling:            TwirlingOptions{},
		Resilience:          ResilienceOptions{},
	}
}

// Merge folds a fragment into the options. Sub-blocks are disjoint per
// technique except twirling, where enable flags OR together and counts fill
// in when unset; merging never drops or rewrites a fragment's own block.
func (o EstimatorOptions) Merge(fragment OptionsFragment) EstimatorOptions {
	if fragment.ResilienceLevel > o.ResilienceLevel {
		o.ResilienceLevel = fragment.ResilienceLevel
	}
	if fragment.DynamicalDecoupling != nil {
		o.DynamicalDecoupling = *fragment.DynamicalDecoupling
	}
	if tw := fragment.Twirling; tw != nil {
		o.Twirling.EnableGates = o.Twirling.EnableGates || tw.EnableGates
		o.Twirling.EnableMeasure = o.Twirling.EnableMeasure || tw.EnableMeasure
		if tw.NumRandomizations != 0 {
			o.Twirling.NumRandomizations = tw.NumRandomizations
		}
		if tw.ShotsPerRandomization != 0 {
			o.Twirling.ShotsPerRandomization = tw.ShotsPerRandomization
		}
	}
	if r := fragment.Resilience; r != nil {
		if r.MeasureMitigation {
			o.Resilience.MeasureMitigation = true
			o.Resilience.MeasureNoiseLearning = r.MeasureNoiseLearning
		}
		if r.ZNEMitigation {
			o.Resilience.ZNEMitigation = true
			o.Resilience.ZNE = r.ZNE
		}
	}
	return o
}
