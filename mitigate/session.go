package mitigate

import (
	"context"
	"math"
	"sync"
	"time"
)

// Session holds the shared noise state and the last applied decision for a
// session-mode run. Two snapshots are tracked: the anchor, the profile the
// current decision was selected against, and the baseline, the freshest
// telemetry read bounding the refresh cadence. Drift is always measured from
// the anchor so creeping degradation accumulates instead of being reset by
// each refresh. Snapshots mutate only through refresh or re-selection,
// serialized by the write lock; every scoring pass reads them under the read
// lock so no decision is computed against a half-updated profile.
type Session struct {
	mu       sync.RWMutex
	anchor   *NoiseProfile
	baseline *NoiseProfile
	decision *StrategyDecision
	options  *EstimatorOptions
}

// NewSession returns an empty session; the first job establishes the
// baseline and the anchor.
func NewSession() *Session { return &Session{} }

// profileForScoring returns the profile to score against plus the drift of
// the freshest telemetry from the session anchor. When the baseline is
// younger than the refresh cadence it is reused without a telemetry read;
// otherwise a fresh snapshot is captured and becomes the new baseline. The
// anchor is left alone here: it moves only when a decision is actually
// re-selected, so the reported drift is cumulative since the last selection.
func (s *Session) profileForScoring(ctx context.Context, backend Backend, cadence time.Duration) (*NoiseProfile, float64, error) {
	s.mu.RLock()
	anchor, baseline := s.anchor, s.baseline
	s.mu.RUnlock()

	if baseline != nil && time.Since(baseline.CapturedAt) < cadence {
		return baseline, ProfileDrift(anchor, baseline), nil
	}

	fresh, err := CollectNoiseProfile(ctx, backend)
	if err != nil {
		return nil, 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	drift := 0.0
	if s.anchor != nil {
		drift = ProfileDrift(s.anchor, fresh)
	} else {
		s.anchor = fresh
	}
	s.baseline = fresh
	return fresh, drift, nil
}

// stableDecision returns the session's prior decision and options when one
// exists, for the short-circuit to the Applying stage.
func (s *Session) stableDecision() (*StrategyDecision, *EstimatorOptions) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.decision, s.options
}

// remember stores the decision applied to the session and re-anchors drift
// measurement at the snapshot it was selected against.
func (s *Session) remember(d *StrategyDecision, o EstimatorOptions) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.decision = d
	s.options = &o
	s.anchor = s.baseline
}

func (s *Session) view(drift float64) SessionView {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return SessionView{
		HasBaseline: s.baseline != nil,
		Drift:       drift,
		Prior:       s.decision,
	}
}

// ProfileDrift measures how far profile b has moved from baseline a: the
// maximum relative change over per-qubit readout and gate error rates.
// Qubits present in only one snapshot count as full drift.
func ProfileDrift(a, b *NoiseProfile) float64 {
	const eps = 1e-9
	drift := 0.0
	compare := func(old, new map[int]float64) {
		for q, ov := range old {
			nv, ok := new[q]
			if !ok {
				drift = math.Max(drift, 1)
				continue
			}
			drift = math.Max(drift, math.Abs(nv-ov)/math.Max(ov, eps))
		}
		for q := range new {
			if _, ok := old[q]; !ok {
				drift = math.Max(drift, 1)
			}
		}
	}
	compare(a.ReadoutErrorRate, b.ReadoutErrorRate)
	compare(a.PerQubitErrorRate, b.PerQubitErrorRate)
	return drift
}
