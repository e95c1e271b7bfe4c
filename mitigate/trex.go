package mitigate

import "fmt"

// buildTREXFragment produces the options fragment for twirled readout error
// extinction: measurement twirling plus measure-noise learning, sized by the
// selector's randomization budget.
func buildTREXFragment(_ *CircuitFeatures, _ *NoiseProfile, params TREXParams) (OptionsFragment, error) {
	if params.NumRandomizations < 1 {
		return OptionsFragment{}, fmt.Errorf("%w: trex num_randomizations must be >= 1, got %d", ErrInvalidParameter, params.NumRandomizations)
	}
	if params.ShotsPerRandomization < 1 {
		return OptionsFragment{}, fmt.Errorf("%w: trex shots_per_randomization must be >= 1, got %d", ErrInvalidParameter, params.ShotsPerRandomization)
	}
	return OptionsFragment{
		ResilienceLevel: 1,
		Twirling: &TwirlingOptions{
			EnableMeasure:         true,
			NumRandomizations:     params.NumRandomizations,
			ShotsPerRandomization: params.ShotsPerRandomization,
		},
		Resilience: &ResilienceOptions{
			MeasureMitigation: true,
			MeasureNoiseLearning: &MeasureNoiseLearning{
				NumRandomizations:     params.NumRandomizations,
				ShotsPerRandomization: params.ShotsPerRandomization,
			},
		},
	}, nil
}
