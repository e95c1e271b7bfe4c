package mitigate

import (
	"fmt"
	"math"
)

// RuleID names one selector decision rule. Rules are evaluated in a fixed
// order so rationale trails are reproducible.
type RuleID string

const (
	// RuleMinActionable gates the whole decision: below the floor, no
	// mitigation is worth its overhead.
	RuleMinActionable RuleID = "min-actionable"
	// RuleDDIdleDensity enables decoupling on idle-heavy circuits.
	RuleDDIdleDensity RuleID = "dd-idle-density"
	// RuleTrexReadout enables readout twirling on noisy measured qubits.
	RuleTrexReadout RuleID = "trex-readout"
	// RuleZNEOverall enables extrapolation for severe hotspots.
	RuleZNEOverall RuleID = "zne-overall"
	// RuleActionableFallback keeps an actionable score from producing an
	// empty decision: readout twirling is the cheapest technique.
	RuleActionableFallback RuleID = "actionable-fallback"
	// RuleSessionStable records the session drift comparison. When a
	// session's profile has not drifted past the threshold, the
	// orchestrator reuses the prior decision instead of re-selecting.
	RuleSessionStable RuleID = "session-stable"
)

// RuleOutcome is one audit entry: the rule, whether it fired, and the value
// it compared against its threshold. Every rule appears in every rationale,
// triggered or not.
type RuleOutcome struct {
	Rule      RuleID  `yaml:"rule"`
	Triggered bool    `yaml:"triggered"`
	Value     float64 `yaml:"value"`
	Threshold float64 `yaml:"threshold"`
}

// SessionView is the slice of session state the selector sees: how far the
// live profile has drifted from the session baseline, and whether a prior
// decision exists to stay on.
type SessionView struct {
	HasBaseline bool
	Drift       float64
	Prior       *StrategyDecision
}

// Select maps a sensitivity score, execution-mode constraints, and the
// threshold configuration to a StrategyDecision. Deterministic: fixed inputs
// always produce the same techniques, parameters, and rationale order.
// Techniques compose; DD, TREX, and ZNE are not mutually exclusive.
func Select(f *CircuitFeatures, score *SensitivityScore, p *NoiseProfile, mode ExecutionMode, cfg Config, sess SessionView) (*StrategyDecision, error) {
	if f == nil || score == nil || p == nil {
		return nil, fmt.Errorf("selector requires features, score, and noise profile")
	}
	if !IsValidMode(mode) {
		return nil, fmt.Errorf("unknown execution mode %q", mode)
	}
	th := cfg.Thresholds
	d := &StrategyDecision{}

	// R1: strict comparison — a score exactly at the floor is not
	// actionable.
	actionable := score.OverallScore > th.MinActionable
	d.Rationale = append(d.Rationale, RuleOutcome{
		Rule:      RuleMinActionable,
		Triggered: !actionable,
		Value:     score.OverallScore,
		Threshold: th.MinActionable,
	})

	// R2: idle-window density.
	idleDensity := f.IdleDensity()
	ddFires := actionable && idleDensity > th.DD
	d.Rationale = append(d.Rationale, RuleOutcome{
		Rule:      RuleDDIdleDensity,
		Triggered: ddFires,
		Value:     idleDensity,
		Threshold: th.DD,
	})
	if ddFires {
		longest := longestIdleOnIdleQubits(f, th.DD)
		d.Techniques = append(d.Techniques, TechniqueDD)
		d.Parameters.DD = &DDParams{
			Sequence:      cfg.Techniques.DDSequence,
			NumPulses:     ddPulseCount(cfg.Techniques.DDSequence, longest),
			LongestIdleDt: longest,
		}
	}

	// R3: worst readout error on a measured qubit.
	_, maxReadout := p.MaxReadoutError(f.MeasuredQubits)
	trexFires := actionable && maxReadout > th.Trex
	d.Rationale = append(d.Rationale, RuleOutcome{
		Rule:      RuleTrexReadout,
		Triggered: trexFires,
		Value:     maxReadout,
		Threshold: th.Trex,
	})
	if trexFires {
		d.Techniques = append(d.Techniques, TechniqueTREX)
		d.Parameters.TREX = trexParams(cfg.Techniques)
	}

	// R4: overall score against the (higher) ZNE bar.
	zneFires := actionable && score.OverallScore > th.ZNE
	d.Rationale = append(d.Rationale, RuleOutcome{
		Rule:      RuleZNEOverall,
		Triggered: zneFires,
		Value:     score.OverallScore,
		Threshold: th.ZNE,
	})
	if zneFires {
		d.Techniques = append(d.Techniques, TechniqueZNE)
		d.Parameters.ZNE = &ZNEParams{
			NoiseFactors:  append([]float64(nil), cfg.Techniques.ZNENoiseFactors...),
			Extrapolator:  cfg.Techniques.ZNEExtrapolator,
			Amplifier:     cfg.Techniques.ZNEAmplifier,
			ScalingFactor: 1 + score.OverallScore,
		}
	}

	// Fallback: an actionable score must never yield an empty decision.
	fallbackFires := actionable && len(d.Techniques) == 0
	d.Rationale = append(d.Rationale, RuleOutcome{
		Rule:      RuleActionableFallback,
		Triggered: fallbackFires,
		Value:     score.OverallScore,
		Threshold: th.MinActionable,
	})
	if fallbackFires {
		d.Techniques = append(d.Techniques, TechniqueTREX)
		d.Parameters.TREX = trexParams(cfg.Techniques)
	}

	// R5: session stability. Recorded for auditability even outside
	// session mode; the short-circuit itself happens in the orchestrator,
	// which skips re-selection entirely while the backend is stable.
	sessionStable := mode == ModeSession && sess.HasBaseline && sess.Prior != nil && sess.Drift <= th.Drift
	d.Rationale = append(d.Rationale, RuleOutcome{
		Rule:      RuleSessionStable,
		Triggered: sessionStable,
		Value:     sess.Drift,
		Threshold: th.Drift,
	})

	sortTechniques(d.Techniques)
	return d, nil
}

func trexParams(defaults TechniqueDefaults) *TREXParams {
	return &TREXParams{
		NumRandomizations:     defaults.NumRandomizations,
		ShotsPerRandomization: int(math.Ceil(float64(defaults.Shots) / float64(defaults.NumRandomizations))),
	}
}

// longestIdleOnIdleQubits returns the longest idle window over the qubits
// whose idle fraction exceeds the DD threshold, falling back to the global
// longest window when the density came from aggregate idling.
func longestIdleOnIdleQubits(f *CircuitFeatures, ddThreshold float64) int64 {
	var longest int64
	for q := range f.PerQubitIdleWindows {
		if f.IdleFraction(q) > ddThreshold {
			if w := f.LongestIdleWindow(q); w > longest {
				longest = w
			}
		}
	}
	if longest == 0 {
		for q := range f.PerQubitIdleWindows {
			if w := f.LongestIdleWindow(q); w > longest {
				longest = w
			}
		}
	}
	return longest
}
