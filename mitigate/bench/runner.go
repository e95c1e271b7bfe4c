package bench

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/KurianUthuppu/adaptive-error-mitigation/mitigate"
)

// Result is the per-circuit outcome of a benchmark run: one adaptively
// mitigated job and one unmitigated baseline job for later comparison.
type Result struct {
	Circuit     string
	Mitigated   *mitigate.JobRecord
	BaselineJob string
	Err         error
}

// Runner drives benchmark circuits through the adaptive pipeline. It plays
// the external-scheduler role: items are independent, each captures its own
// noise snapshot, so they may run in parallel without sharing state.
type Runner struct {
	Backend  mitigate.Backend
	Config   mitigate.Config
	Parallel bool
}

// Run executes every pub with adaptive mitigation plus an unmitigated
// baseline submission. Item failures stay on their result; Run only errors
// when it cannot start at all.
func (r *Runner) Run(ctx context.Context, pubs []mitigate.Pub) ([]Result, error) {
	if r.Backend == nil {
		return nil, fmt.Errorf("bench runner: no backend")
	}
	if err := r.Config.Validate(); err != nil {
		return nil, fmt.Errorf("bench runner: %w", err)
	}

	results := make([]Result, len(pubs))
	runItem := func(i int) {
		results[i] = r.runOne(ctx, pubs[i])
	}

	if r.Parallel {
		// Items isolate their own errors; the group only fans out.
		var g errgroup.Group
		for i := range pubs {
			i := i
			g.Go(func() error {
				runItem(i)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	} else {
		for i := range pubs {
			runItem(i)
		}
	}
	return results, nil
}

func (r *Runner) runOne(ctx context.Context, pub mitigate.Pub) Result {
	res := Result{Circuit: pub.Circuit.Name}

	orch, err := mitigate.NewOrchestrator(r.Backend, r.Config)
	if err != nil {
		res.Err = err
		return res
	}
	runs, err := orch.Run(ctx, []mitigate.Pub{pub}, mitigate.ModeSingle)
	if err != nil {
		res.Err = err
		return res
	}
	if runs[0].Err != nil {
		res.Err = runs[0].Err
		return res
	}
	res.Mitigated = runs[0].Record

	// Unmitigated baseline: same shots, resilience level 0.
	baseline := mitigate.EstimatorOptions{DefaultShots: r.Config.Techniques.Shots}
	jobID, err := r.Backend.Submit(ctx, pub, baseline, mitigate.ModeSingle)
	if err != nil {
		res.Err = fmt.Errorf("baseline submission: %w", err)
		return res
	}
	res.BaselineJob = jobID

	logrus.WithFields(logrus.Fields{
		"circuit":    res.Circuit,
		"techniques": res.Mitigated.Decision.Techniques,
		"baseline":   jobID,
	}).Info("benchmark item submitted")
	return res
}
