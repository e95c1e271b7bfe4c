package mitigate

import "fmt"

// ddSequences maps supported base decoupling sequences to their pulse pair
// size. Sequences must insert pulses in cancelling pairs.
var ddSequences = map[string]int{
	"XX":  2,
	"XY4": 4,
	"XY8": 8,
}

// buildDDFragment produces the options fragment for dynamical decoupling.
// The pulse count comes from the selector, scaled to the longest idle window
// on the affected qubits; it must be even and at least one sequence repetition.
func buildDDFragment(_ *CircuitFeatures, _ *NoiseProfile, params DDParams) (OptionsFragment, error) {
	pairSize, ok := ddSequences[params.Sequence]
	if !ok {
		return OptionsFragment{}, fmt.Errorf("%w: unknown dd sequence %q", ErrInvalidParameter, params.Sequence)
	}
	if params.NumPulses < pairSize {
		return OptionsFragment{}, fmt.Errorf("%w: dd num_pulses %d below sequence size %d", ErrInvalidParameter, params.NumPulses, pairSize)
	}
	if params.NumPulses%2 != 0 {
		return OptionsFragment{}, fmt.Errorf("%w: dd num_pulses must be even, got %d", ErrInvalidParameter, params.NumPulses)
	}
	if params.LongestIdleDt < 0 {
		return OptionsFragment{}, fmt.Errorf("%w: dd longest_idle_dt must be non-negative, got %d", ErrInvalidParameter, params.LongestIdleDt)
	}
	return OptionsFragment{
		DynamicalDecoupling: &DDOptions{
			Enable:           true,
			SequenceType:     params.Sequence,
			NumPulses:        params.NumPulses,
			SchedulingMethod: "alap",
		},
	}, nil
}

// ddPulseCount scales the duty cycle to the longest idle window: one XX pair
// per pulseWindowDt of idle time, always at least one full sequence.
func ddPulseCount(sequence string, longestIdleDt int64) int {
	pairSize := ddSequences[sequence]
	if pairSize == 0 {
		pairSize = 2
	}
	const pulseWindowDt = 1000
	pairs := int(longestIdleDt / pulseWindowDt)
	if pairs < 1 {
		pairs = 1
	}
	return pairs * pairSize
}
