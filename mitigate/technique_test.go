package mitigate

import (
	"errors"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func fullDecision() *StrategyDecision {
	return &StrategyDecision{
		Techniques: []Technique{TechniqueDD, TechniqueTREX, TechniqueZNE},
		Parameters: Parameters{
			DD:   &DDParams{Sequence: "XX", NumPulses: 2, LongestIdleDt: 500},
			TREX: &TREXParams{NumRandomizations: 32, ShotsPerRandomization: 128},
			ZNE: &ZNEParams{
				NoiseFactors:  []float64{1, 3, 5},
				Extrapolator:  "exponential",
				Amplifier:     "gate_folding",
				ScalingFactor: 1.9,
			},
		},
	}
}

func TestApplyDecision_NoTechniquesYieldsBaseOptions(t *testing.T) {
	defaults := DefaultConfig().Techniques
	options, err := ApplyDecision(fabricatedFeatures(0), fabricatedProfile(0.001), &StrategyDecision{}, defaults)
	require.NoError(t, err)

	assert.Equal(t, defaults.Shots, options.DefaultShots)
	assert.Zero(t, options.ResilienceLevel)
	assert.False(t, options.DynamicalDecoupling.Enable)
	assert.False(t, options.Twirling.EnableGates)
	assert.False(t, options.Twirling.EnableMeasure)
	assert.False(t, options.Resilience.MeasureMitigation)
	assert.False(t, options.Resilience.ZNEMitigation)
}

func TestApplyDecision_FragmentsCompose(t *testing.T) {
	defaults := DefaultConfig().Techniques
	options, err := ApplyDecision(fabricatedFeatures(0.5), fabricatedProfile(0.08), fullDecision(), defaults)
	require.NoError(t, err)

	// DD block survives ZNE and TREX merging untouched.
	assert.True(t, options.DynamicalDecoupling.Enable)
	assert.Equal(t, "XX", options.DynamicalDecoupling.SequenceType)
	assert.Equal(t, 2, options.DynamicalDecoupling.NumPulses)
	assert.Equal(t, "alap", options.DynamicalDecoupling.SchedulingMethod)

	// TREX enables measure twirling, ZNE enables gate twirling; both hold.
	assert.True(t, options.Twirling.EnableMeasure)
	assert.True(t, options.Twirling.EnableGates)
	assert.Equal(t, 32, options.Twirling.NumRandomizations)
	assert.Equal(t, 128, options.Twirling.ShotsPerRandomization)

	// Resilience: the highest requested level wins.
	assert.Equal(t, 2, options.ResilienceLevel)
	assert.True(t, options.Resilience.MeasureMitigation)
	require.NotNil(t, options.Resilience.MeasureNoiseLearning)
	assert.True(t, options.Resilience.ZNEMitigation)
	require.NotNil(t, options.Resilience.ZNE)
	assert.Equal(t, []float64{1, 3, 5}, options.Resilience.ZNE.NoiseFactors)
	assert.Equal(t, 1.9, options.Resilience.ZNE.ScalingFactor)
}

func TestApplyDecision_OrderIndependentForDisjointBlocks(t *testing.T) {
	defaults := DefaultConfig().Techniques
	forward := fullDecision()

	reversed := fullDecision()
	reversed.Techniques = []Technique{TechniqueZNE, TechniqueTREX, TechniqueDD}

	a, err := ApplyDecision(fabricatedFeatures(0.5), fabricatedProfile(0.08), forward, defaults)
	require.NoError(t, err)
	b, err := ApplyDecision(fabricatedFeatures(0.5), fabricatedProfile(0.08), reversed, defaults)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestApplyDecision_SelectedTechniqueWithoutParamsFails(t *testing.T) {
	defaults := DefaultConfig().Techniques
	d := &StrategyDecision{Techniques: []Technique{TechniqueDD}}
	_, err := ApplyDecision(fabricatedFeatures(0.5), fabricatedProfile(0.01), d, defaults)
	assert.ErrorIs(t, err, ErrInvalidParameter)
}

func TestBuildDDFragment_ParameterDomain(t *testing.T) {
	cases := []struct {
		name   string
		params DDParams
	}{
		{"unknown_sequence", DDParams{Sequence: "CPMG", NumPulses: 2}},
		{"below_pair_size", DDParams{Sequence: "XY4", NumPulses: 2}},
		{"odd_pulse_count", DDParams{Sequence: "XX", NumPulses: 3}},
		{"negative_idle", DDParams{Sequence: "XX", NumPulses: 2, LongestIdleDt: -1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := buildDDFragment(nil, nil, tc.params)
			if !errors.Is(err, ErrInvalidParameter) {
				t.Errorf("got err %v, want ErrInvalidParameter", err)
			}
		})
	}

	fragment, err := buildDDFragment(nil, nil, DDParams{Sequence: "XY4", NumPulses: 8, LongestIdleDt: 2000})
	require.NoError(t, err)
	require.NotNil(t, fragment.DynamicalDecoupling)
	assert.Equal(t, "XY4", fragment.DynamicalDecoupling.SequenceType)
}

func TestBuildZNEFragment_ParameterDomain(t *testing.T) {
	valid := ZNEParams{
		NoiseFactors:  []float64{1, 3, 5},
		Extrapolator:  "exponential",
		Amplifier:     "gate_folding",
		ScalingFactor: 1.5,
	}

	cases := []struct {
		name   string
		mutate func(*ZNEParams)
	}{
		{"too_few_factors", func(p *ZNEParams) { p.NoiseFactors = []float64{1} }},
		{"factor_below_one", func(p *ZNEParams) { p.NoiseFactors = []float64{0.5, 3} }},
		{"non_increasing_factors", func(p *ZNEParams) { p.NoiseFactors = []float64{1, 3, 3} }},
		{"unknown_extrapolator", func(p *ZNEParams) { p.Extrapolator = "cubic_spline" }},
		{"unknown_amplifier", func(p *ZNEParams) { p.Amplifier = "pulse_stretching" }},
		{"zero_scaling", func(p *ZNEParams) { p.ScalingFactor = 0 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			params := valid
			params.NoiseFactors = append([]float64(nil), valid.NoiseFactors...)
			tc.mutate(&params)
			_, err := buildZNEFragment(nil, nil, params)
			if !errors.Is(err, ErrInvalidParameter) {
				t.Errorf("got err %v, want ErrInvalidParameter", err)
			}
		})
	}

	fragment, err := buildZNEFragment(nil, nil, valid)
	require.NoError(t, err)
	assert.Equal(t, 2, fragment.ResilienceLevel)
	require.NotNil(t, fragment.Twirling)
	assert.True(t, fragment.Twirling.EnableGates)
}

func TestBuildTREXFragment_ParameterDomain(t *testing.T) {
	_, err := buildTREXFragment(nil, nil, TREXParams{NumRandomizations: 0, ShotsPerRandomization: 128})
	assert.ErrorIs(t, err, ErrInvalidParameter)

	_, err = buildTREXFragment(nil, nil, TREXParams{NumRandomizations: 32, ShotsPerRandomization: 0})
	assert.ErrorIs(t, err, ErrInvalidParameter)

	fragment, err := buildTREXFragment(nil, nil, TREXParams{NumRandomizations: 32, ShotsPerRandomization: 128})
	require.NoError(t, err)
	assert.Equal(t, 1, fragment.ResilienceLevel)
	require.NotNil(t, fragment.Resilience)
	assert.True(t, fragment.Resilience.MeasureMitigation)
	require.NotNil(t, fragment.Resilience.MeasureNoiseLearning)
	assert.Equal(t, 32, fragment.Resilience.MeasureNoiseLearning.NumRandomizations)
}

func TestDDPulseCount_ScalesWithIdleWindow(t *testing.T) {
	// One pair minimum, one extra pair per 1000dt of idle time.
	assert.Equal(t, 2, ddPulseCount("XX", 0))
	assert.Equal(t, 2, ddPulseCount("XX", 999))
	assert.Equal(t, 4, ddPulseCount("XX", 2000))
	assert.Equal(t, 8, ddPulseCount("XY8", 500))
}

func TestEstimatorOptions_SerializedForm(t *testing.T) {
	options, err := ApplyDecision(fabricatedFeatures(0.5), fabricatedProfile(0.08), fullDecision(), DefaultConfig().Techniques)
	require.NoError(t, err)

	data, err := yaml.Marshal(options)
	require.NoError(t, err)

	g := goldie.New(t)
	g.Assert(t, "estimator_options_full", data)
}
