package mitigate

import "errors"

// Error taxonomy for the decision pipeline. Stage failures wrap one of these
// sentinels so callers can classify with errors.Is; no error is swallowed and
// the orchestrator never substitutes a default decision on failure.
var (
	// ErrUnsupportedCircuit marks a circuit without layout metadata, i.e.
	// one that was not transpiled for a real backend. The caller must
	// re-transpile.
	ErrUnsupportedCircuit = errors.New("unsupported circuit: missing transpilation layout metadata")

	// ErrBackendUnavailable marks a backend that cannot report live
	// calibration data: simulated, unreachable, or timed out. Not
	// recoverable locally.
	ErrBackendUnavailable = errors.New("backend unavailable")

	// ErrInvalidParameter marks a technique parameter outside its valid
	// domain. Indicates a selector or configuration bug; never clamped.
	ErrInvalidParameter = errors.New("invalid technique parameter")

	// ErrSubmission marks a job rejected by the execution boundary.
	// Surfaced verbatim; retries belong to the boundary, not this core.
	ErrSubmission = errors.New("job submission rejected")
)
