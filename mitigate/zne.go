package mitigate

import (
	"fmt"
	"math"
)

// zneExtrapolators and zneAmplifiers close the accepted parameter domains.
var (
	zneExtrapolators = map[string]bool{
		"exponential":        true,
		"linear":             true,
		"polynomial_degree2": true,
	}
	zneAmplifiers = map[string]bool{
		"gate_folding":       true,
		"gate_folding_front": true,
		"gate_folding_back":  true,
		"pea":                true,
	}
)

// buildZNEFragment produces the options fragment for zero-noise
// extrapolation. ZNE also enables gate twirling: folding amplification only
// converts coherent errors to stochastic ones under twirled gates.
func buildZNEFragment(_ *CircuitFeatures, _ *NoiseProfile, params ZNEParams) (OptionsFragment, error) {
	if len(params.NoiseFactors) < 2 {
		return OptionsFragment{}, fmt.Errorf("%w: zne needs at least 2 noise factors, got %d", ErrInvalidParameter, len(params.NoiseFactors))
	}
	prev := 0.0
	for _, nf := range params.NoiseFactors {
		if nf < 1 || math.IsNaN(nf) || math.IsInf(nf, 0) {
			return OptionsFragment{}, fmt.Errorf("%w: zne noise factor %v below 1", ErrInvalidParameter, nf)
		}
		if nf <= prev {
			return OptionsFragment{}, fmt.Errorf("%w: zne noise factors must be strictly increasing", ErrInvalidParameter)
		}
		prev = nf
	}
	if params.ScalingFactor <= 0 || math.IsNaN(params.ScalingFactor) || math.IsInf(params.ScalingFactor, 0) {
		return OptionsFragment{}, fmt.Errorf("%w: zne scaling factor must be positive, got %v", ErrInvalidParameter, params.ScalingFactor)
	}
	if !zneExtrapolators[params.Extrapolator] {
		return OptionsFragment{}, fmt.Errorf("%w: unknown zne extrapolator %q", ErrInvalidParameter, params.Extrapolator)
	}
	if !zneAmplifiers[params.Amplifier] {
		return OptionsFragment{}, fmt.Errorf("%w: unknown zne amplifier %q", ErrInvalidParameter, params.Amplifier)
	}
	return OptionsFragment{
		ResilienceLevel: 2,
		Twirling: &TwirlingOptions{
			EnableGates: true,
		},
		Resilience: &ResilienceOptions{
			ZNEMitigation: true,
			ZNE: &ZNEResilienceOptions{
				Amplifier:     params.Amplifier,
				NoiseFactors:  append([]float64(nil), params.NoiseFactors...),
				Extrapolator:  params.Extrapolator,
				ScalingFactor: params.ScalingFactor,
			},
		},
	}, nil
}
