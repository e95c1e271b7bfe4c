package mitigate

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/KurianUthuppu/adaptive-error-mitigation/mitigate/trace"
)

// State names one stage of the orchestration pipeline.
type State string

const (
	StateIdle           State = "idle"
	StateExtracting     State = "extracting"
	StateProfilingNoise State = "profiling-noise"
	StateScoring        State = "scoring"
	StateSelecting      State = "selecting"
	StateApplying       State = "applying"
	StateSubmitted      State = "submitted"
	StateSuccess        State = "success"
	StateFailed         State = "failed"
)

// JobRecord ties a submitted job to the options and decision that produced
// it. Created after submission, never mutated; job status is queried at the
// boundary, not stored here.
type JobRecord struct {
	JobID    string
	Options  EstimatorOptions
	Decision *StrategyDecision
	Features *CircuitFeatures
	Profile  *NoiseProfile
}

// RunResult is the per-pub outcome of a run. One failing circuit never
// aborts its siblings: errors stay on their item.
type RunResult struct {
	Pub    Pub
	Record *JobRecord
	State  State // terminal state reached
	Err    error
}

// Orchestrator drives the pipeline extraction -> noise collection ->
// scoring -> selection -> application -> submission. Transitions are
// strictly sequential per request; batch mode restarts at Extracting per
// item and session mode restarts at ProfilingNoise, short-circuiting to
// Applying while the session-stability policy holds.
type Orchestrator struct {
	backend Backend
	cfg     Config
	trace   *trace.DecisionTrace
	log     *logrus.Entry
}

// NewOrchestrator validates the configuration and binds it to a backend.
func NewOrchestrator(backend Backend, cfg Config) (*Orchestrator, error) {
	if backend == nil {
		return nil, fmt.Errorf("%w: nil backend reference", ErrBackendUnavailable)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("orchestrator config: %w", err)
	}
	return &Orchestrator{
		backend: backend,
		cfg:     cfg,
		log:     logrus.WithField("backend", backend.Name()),
	}, nil
}

// WithTrace attaches a decision trace that records every decision made by
// this orchestrator.
func (o *Orchestrator) WithTrace(dt *trace.DecisionTrace) *Orchestrator {
	o.trace = dt
	return o
}

// Run drives the pipeline for each pub under the given execution mode and
// returns one result per pub, in input order. Single mode accepts exactly
// one pub. The context deadline bounds every noise fetch and submission;
// cancellation between stages fails the in-flight item before it submits.
func (o *Orchestrator) Run(ctx context.Context, pubs []Pub, mode ExecutionMode) ([]RunResult, error) {
	if !IsValidMode(mode) {
		return nil, fmt.Errorf("unknown execution mode %q", mode)
	}
	if mode == ModeSingle && len(pubs) != 1 {
		return nil, fmt.Errorf("single mode requires exactly one pub, got %d", len(pubs))
	}
	if len(pubs) == 0 {
		return nil, fmt.Errorf("no pubs to run")
	}

	var sess *Session
	if mode == ModeSession {
		sess = NewSession()
	}

	results := make([]RunResult, 0, len(pubs))
	for _, pub := range pubs {
		record, state, err := o.runOne(ctx, pub, mode, sess)
		results = append(results, RunResult{Pub: pub, Record: record, State: state, Err: err})
	}
	return results, nil
}

// runOne advances one pub through the state machine. Any stage error moves
// the machine to Failed for this item only; there are no internal retries
// and no made-up default decision when a stage cannot produce one.
func (o *Orchestrator) runOne(ctx context.Context, pub Pub, mode ExecutionMode, sess *Session) (*JobRecord, State, error) {
	state := StateIdle
	log := o.log.WithFields(logrus.Fields{"circuit": circuitName(pub.Circuit), "mode": mode})
	fail := func(err error) (*JobRecord, State, error) {
		log.WithField("state", state).WithError(err).Debug("pipeline stage failed")
		o.record(pub, mode, nil, nil, "", err)
		return nil, StateFailed, err
	}
	advance := func(next State) error {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("cancelled before %s: %w", next, err)
		}
		state = next
		log.WithField("state", state).Debug("pipeline stage")
		return nil
	}

	if err := advance(StateExtracting); err != nil {
		return fail(err)
	}
	features, err := ExtractFeatures(pub.Circuit)
	if err != nil {
		return fail(err)
	}

	if err := advance(StateProfilingNoise); err != nil {
		return fail(err)
	}
	var profile *NoiseProfile
	drift := 0.0
	if sess != nil {
		profile, drift, err = sess.profileForScoring(ctx, o.backend, o.cfg.Thresholds.SessionRefreshCadence)
	} else {
		profile, err = CollectNoiseProfile(ctx, o.backend)
	}
	if err != nil {
		return fail(err)
	}

	// Session stability: while the backend has not drifted past the
	// threshold, reuse the session's decision and skip straight to
	// Applying. Avoids thrashing the mitigation configuration across jobs
	// in one session.
	if sess != nil {
		if prior, priorOptions := sess.stableDecision(); prior != nil && drift <= o.cfg.Thresholds.Drift {
			if err := advance(StateApplying); err != nil {
				return fail(err)
			}
			record, err := o.submit(ctx, pub, *priorOptions, mode, prior, features, profile, log, &state)
			if err != nil {
				return fail(err)
			}
			o.recordReused(pub, mode, prior, record.JobID)
			state = StateSuccess
			return record, state, nil
		}
	}

	if err := advance(StateScoring); err != nil {
		return fail(err)
	}
	score, err := AnalyzeSensitivity(features, profile, o.cfg.Analyzer)
	if err != nil {
		return fail(err)
	}

	if err := advance(StateSelecting); err != nil {
		return fail(err)
	}
	var view SessionView
	if sess != nil {
		view = sess.view(drift)
	}
	decision, err := Select(features, score, profile, mode, o.cfg, view)
	if err != nil {
		return fail(err)
	}
	log.WithFields(logrus.Fields{
		"overall_score": score.OverallScore,
		"techniques":    decision.Techniques,
	}).Info("mitigation strategy selected")

	if err := advance(StateApplying); err != nil {
		return fail(err)
	}
	options, err := ApplyDecision(features, profile, decision, o.cfg.Techniques)
	if err != nil {
		return fail(err)
	}

	record, err := o.submit(ctx, pub, options, mode, decision, features, profile, log, &state)
	if err != nil {
		return fail(err)
	}
	if sess != nil {
		sess.remember(decision, options)
	}
	o.record(pub, mode, decision, score, record.JobID, nil)
	state = StateSuccess
	return record, state, nil
}

func (o *Orchestrator) submit(ctx context.Context, pub Pub, options EstimatorOptions, mode ExecutionMode, decision *StrategyDecision, features *CircuitFeatures, profile *NoiseProfile, log *logrus.Entry, state *State) (*JobRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("cancelled before %s: %w", StateSubmitted, err)
	}
	*state = StateSubmitted
	jobID, err := o.backend.Submit(ctx, pub, options, mode)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSubmission, err)
	}
	log.WithField("job_id", jobID).Info("job submitted")
	return &JobRecord{
		JobID:    jobID,
		Options:  options,
		Decision: decision,
		Features: features,
		Profile:  profile,
	}, nil
}

func (o *Orchestrator) record(pub Pub, mode ExecutionMode, decision *StrategyDecision, score *SensitivityScore, jobID string, err error) {
	if o.trace == nil {
		return
	}
	rec := trace.DecisionRecord{
		Circuit: circuitName(pub.Circuit),
		Backend: o.backend.Name(),
		Mode:    string(mode),
		JobID:   jobID,
	}
	if score != nil {
		rec.OverallScore = score.OverallScore
	}
	if decision != nil {
		for _, t := range decision.Techniques {
			rec.Techniques = append(rec.Techniques, string(t))
		}
		for _, ro := range decision.Rationale {
			rec.Rationale = append(rec.Rationale, trace.RuleRecord{
				Rule:      string(ro.Rule),
				Triggered: ro.Triggered,
				Value:     ro.Value,
				Threshold: ro.Threshold,
			})
		}
	}
	if err != nil {
		rec.Err = err.Error()
	}
	o.trace.Record(rec)
}

func (o *Orchestrator) recordReused(pub Pub, mode ExecutionMode, decision *StrategyDecision, jobID string) {
	if o.trace == nil {
		return
	}
	rec := trace.DecisionRecord{
		Circuit: circuitName(pub.Circuit),
		Backend: o.backend.Name(),
		Mode:    string(mode),
		JobID:   jobID,
		Reused:  true,
	}
	for _, t := range decision.Techniques {
		rec.Techniques = append(rec.Techniques, string(t))
	}
	o.trace.Record(rec)
}
