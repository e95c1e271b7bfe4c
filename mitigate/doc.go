// Package mitigate implements the adaptive error-mitigation decision engine:
// per circuit and per backend state, it selects which combination of readout
// twirling (TREX), dynamical decoupling (DD), and zero-noise extrapolation
// (ZNE) a job should run with, replacing fixed resilience levels with a
// data-driven decision.
//
// # Reading Guide
//
// Start with these three files to understand the pipeline:
//   - features.go: structural circuit metrics (depth, idle windows, layout)
//   - sensitivity.go: fusing features with a noise snapshot into hotspot scores
//   - selector.go: the ordered decision rules that map scores to techniques
//
// # Architecture
//
// Data flows strictly forward per pub:
//
//	ExtractFeatures -> CollectNoiseProfile -> AnalyzeSensitivity -> Select ->
//	ApplyDecision -> Backend.Submit
//
// orchestrator.go sequences the stages as a state machine and handles the
// single/batch/session execution modes; session.go holds the shared noise
// baseline and drift policy for session mode. Technique option fragments
// live in trex.go, dd.go, and zne.go and compose without knowing about each
// other.
//
// Sub-packages:
//   - trace/: decision audit records across batch/session runs
//   - bench/: benchmark circuits (GHZ echo, layered ansatz) and a runner
//     comparing mitigated against unmitigated submissions
package mitigate
