package mitigate

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

// NoiseProfile is a point-in-time snapshot of a backend's calibration data.
// Never mutated after capture; a fresher read produces a new profile.
type NoiseProfile struct {
	Backend           string
	PerQubitErrorRate map[int]float64     // average 1q gate error per physical qubit, [0,1]
	PerGateErrorRate  map[GateKey]float64 // error per gate type x qubit tuple, [0,1]
	ReadoutErrorRate  map[int]float64     // readout assignment error per physical qubit, [0,1]
	T1                map[int]float64     // relaxation time per qubit, dt units
	T2                map[int]float64     // dephasing time per qubit, dt units
	CapturedAt        time.Time
}

// MaxReadoutError returns the worst readout error over the given qubits and
// the qubit it occurs on. Returns (-1, 0) when none of the qubits have data.
func (p *NoiseProfile) MaxReadoutError(qubits []int) (qubit int, rate float64) {
	qubit = -1
	for _, q := range qubits {
		if r, ok := p.ReadoutErrorRate[q]; ok && (qubit == -1 || r > rate) {
			qubit, rate = q, r
		}
	}
	return qubit, rate
}

// GateError returns the calibrated error rate for a gate key, falling back
// to the per-qubit average when the exact gate has no calibration entry.
func (p *NoiseProfile) GateError(key GateKey) float64 {
	if e, ok := p.PerGateErrorRate[key]; ok {
		return e
	}
	if key.Q1 < 0 {
		return p.PerQubitErrorRate[key.Q0]
	}
	// Two-qubit fallback: mean of the endpoint averages.
	return (p.PerQubitErrorRate[key.Q0] + p.PerQubitErrorRate[key.Q1]) / 2
}

// CollectNoiseProfile fetches current calibration data from the backend and
// builds a NoiseProfile. One telemetry read per invocation; no caching here —
// snapshot freshness is the caller's policy. Simulated backends are rejected
// rather than fabricating values, and a fetch timeout fails the request with
// ErrBackendUnavailable instead of proceeding with partial data.
func CollectNoiseProfile(ctx context.Context, backend Backend) (*NoiseProfile, error) {
	if backend == nil {
		return nil, fmt.Errorf("%w: no backend reference", ErrBackendUnavailable)
	}
	if backend.Simulated() {
		return nil, fmt.Errorf("%w: backend %q is simulated and reports no live properties", ErrBackendUnavailable, backend.Name())
	}

	cal, err := backend.CalibrationData(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%w: calibration fetch for %q: %v", ErrBackendUnavailable, backend.Name(), ctx.Err())
		}
		return nil, fmt.Errorf("%w: calibration fetch for %q: %v", ErrBackendUnavailable, backend.Name(), err)
	}

	profile, err := cal.Profile(backend.Name())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	logrus.WithFields(logrus.Fields{
		"backend":  backend.Name(),
		"qubits":   len(profile.ReadoutErrorRate),
		"captured": profile.CapturedAt,
	}).Debug("captured noise profile")
	return profile, nil
}

// CalibrationData is the raw telemetry the backend boundary reports. Rates
// are validated when converted to a NoiseProfile.
type CalibrationData struct {
	PerQubitErrorRate map[int]float64    `yaml:"per_qubit_error_rate"`
	GateErrorRate     map[string]float64 `yaml:"-"`
	GateErrors        []GateErrorEntry   `yaml:"gate_errors"`
	ReadoutErrorRate  map[int]float64    `yaml:"readout_error_rate"`
	T1                map[int]float64    `yaml:"t1"`
	T2                map[int]float64    `yaml:"t2"`
	CapturedAt        time.Time          `yaml:"captured_at"`
}

// GateErrorEntry is the wire form of one per-gate calibration point.
type GateErrorEntry struct {
	Gate   string  `yaml:"gate"`
	Qubits []int   `yaml:"qubits"`
	Error  float64 `yaml:"error"`
}

// Profile validates the raw calibration data and builds an immutable
// NoiseProfile snapshot. Out-of-range rates are a telemetry fault, reported
// rather than clamped.
func (c CalibrationData) Profile(backendName string) (*NoiseProfile, error) {
	p := &NoiseProfile{
		Backend:           backendName,
		PerQubitErrorRate: make(map[int]float64, len(c.PerQubitErrorRate)),
		PerGateErrorRate:  make(map[GateKey]float64, len(c.GateErrors)),
		ReadoutErrorRate:  make(map[int]float64, len(c.ReadoutErrorRate)),
		T1:                make(map[int]float64, len(c.T1)),
		T2:                make(map[int]float64, len(c.T2)),
		CapturedAt:        c.CapturedAt,
	}
	if p.CapturedAt.IsZero() {
		p.CapturedAt = time.Now()
	}
	for q, r := range c.PerQubitErrorRate {
		if r < 0 || r > 1 {
			return nil, fmt.Errorf("qubit %d gate error rate %v outside [0,1]", q, r)
		}
		p.PerQubitErrorRate[q] = r
	}
	for q, r := range c.ReadoutErrorRate {
		if r < 0 || r > 1 {
			return nil, fmt.Errorf("qubit %d readout error rate %v outside [0,1]", q, r)
		}
		p.ReadoutErrorRate[q] = r
	}
	for _, e := range c.GateErrors {
		if e.Error < 0 || e.Error > 1 {
			return nil, fmt.Errorf("gate %s%v error rate %v outside [0,1]", e.Gate, e.Qubits, e.Error)
		}
		switch len(e.Qubits) {
		case 1:
			p.PerGateErrorRate[OneQubitGate(e.Gate, e.Qubits[0])] = e.Error
		case 2:
			p.PerGateErrorRate[TwoQubitGate(e.Gate, e.Qubits[0], e.Qubits[1])] = e.Error
		default:
			return nil, fmt.Errorf("gate %s acts on %d qubits; expected 1 or 2", e.Gate, len(e.Qubits))
		}
	}
	for q, t := range c.T1 {
		p.T1[q] = t
	}
	for q, t := range c.T2 {
		p.T2[q] = t
	}
	return p, nil
}
