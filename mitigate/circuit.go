package mitigate

import (
	"fmt"
	"sort"
)

// Ops that mark structure or measurement rather than computation. They are
// excluded from gate activity counts and from gate error lookups.
var nonGateOps = map[string]bool{
	"barrier": true,
	"measure": true,
	"reset":   true,
	"delay":   true,
}

// Op is a single timed operation in a transpiled circuit. Qubit indices are
// physical device indices; Start and Duration are in backend dt units.
type Op struct {
	Name     string `yaml:"name"`
	Qubits   []int  `yaml:"qubits"`
	Start    int64  `yaml:"start"`
	Duration int64  `yaml:"duration"`
}

// End returns the dt tick at which the operation finishes.
func (op Op) End() int64 { return op.Start + op.Duration }

// IsGate reports whether the operation counts as a computational gate.
func (op Op) IsGate() bool { return !nonGateOps[op.Name] }

// Layout records the logical-to-physical qubit mapping produced by
// transpilation. A circuit without a Layout was not compiled for a real
// device and is rejected by feature extraction.
type Layout struct {
	// LogicalToPhysical maps logical qubit index to physical qubit index.
	// Bijective on its domain.
	LogicalToPhysical map[int]int `yaml:"logical_to_physical"`
}

// PhysicalQubits returns the sorted physical qubit indices in the layout.
func (l *Layout) PhysicalQubits() []int {
	qubits := make([]int, 0, len(l.LogicalToPhysical))
	for _, p := range l.LogicalToPhysical {
		qubits = append(qubits, p)
	}
	sort.Ints(qubits)
	return qubits
}

// Validate checks that the logical-to-physical map is bijective.
func (l *Layout) Validate() error {
	seen := make(map[int]int, len(l.LogicalToPhysical))
	for logical, physical := range l.LogicalToPhysical {
		if prev, ok := seen[physical]; ok {
			return fmt.Errorf("layout maps logical qubits %d and %d to the same physical qubit %d", prev, logical, physical)
		}
		seen[physical] = logical
	}
	return nil
}

// Circuit is a transpiled quantum circuit: a timed operation list over
// physical qubits plus the layout metadata the transpiler produced.
//
// Circuits whose ops carry no timing (all Start and Duration zero) get a
// synthetic ASAP schedule from NormalizeSchedule; the flag records that the
// timing was synthesized rather than backend-scheduled.
type Circuit struct {
	Name              string  `yaml:"name"`
	Ops               []Op    `yaml:"ops"`
	Layout            *Layout `yaml:"layout"`
	SyntheticSchedule bool    `yaml:"synthetic_schedule,omitempty"`
}

// Transpiled reports whether the circuit carries layout metadata.
func (c *Circuit) Transpiled() bool { return c.Layout != nil }

// Duration returns the end tick of the last operation.
func (c *Circuit) Duration() int64 {
	var end int64
	for _, op := range c.Ops {
		if op.End() > end {
			end = op.End()
		}
	}
	return end
}

// TouchedQubits returns the sorted physical qubits acted on by any op.
func (c *Circuit) TouchedQubits() []int {
	seen := map[int]bool{}
	for _, op := range c.Ops {
		for _, q := range op.Qubits {
			seen[q] = true
		}
	}
	qubits := make([]int, 0, len(seen))
	for q := range seen {
		qubits = append(qubits, q)
	}
	sort.Ints(qubits)
	return qubits
}

// MeasuredQubits returns the sorted physical qubits with a measure op.
func (c *Circuit) MeasuredQubits() []int {
	seen := map[int]bool{}
	for _, op := range c.Ops {
		if op.Name != "measure" {
			continue
		}
		for _, q := range op.Qubits {
			seen[q] = true
		}
	}
	qubits := make([]int, 0, len(seen))
	for q := range seen {
		qubits = append(qubits, q)
	}
	sort.Ints(qubits)
	return qubits
}

// NormalizeSchedule assigns ASAP start times to a circuit whose ops carry no
// timing, using unit duration for zero-duration ops. Returns a new circuit;
// the receiver is not modified. Circuits that already carry timing are
// returned unchanged.
func (c *Circuit) NormalizeSchedule() *Circuit {
	timed := false
	for _, op := range c.Ops {
		if op.Start != 0 || op.Duration != 0 {
			timed = true
			break
		}
	}
	if timed || len(c.Ops) == 0 {
		return c
	}

	out := &Circuit{
		Name:              c.Name,
		Ops:               make([]Op, len(c.Ops)),
		Layout:            c.Layout,
		SyntheticSchedule: true,
	}
	frontier := map[int]int64{} // next free tick per qubit
	for i, op := range c.Ops {
		start := int64(0)
		for _, q := range op.Qubits {
			if frontier[q] > start {
				start = frontier[q]
			}
		}
		dur := op.Duration
		if dur == 0 {
			dur = 1
		}
		out.Ops[i] = Op{Name: op.Name, Qubits: append([]int(nil), op.Qubits...), Start: start, Duration: dur}
		for _, q := range op.Qubits {
			frontier[q] = start + dur
		}
	}
	return out
}

// Link is a canonical (sorted) pair of physical qubits joined by a
// two-qubit gate.
type Link struct {
	A int `yaml:"a"`
	B int `yaml:"b"`
}

// NewLink returns the canonical link for two physical qubits.
func NewLink(q0, q1 int) Link {
	if q0 > q1 {
		q0, q1 = q1, q0
	}
	return Link{A: q0, B: q1}
}

// GateKey identifies a gate type acting on a specific qubit tuple, the key
// used for per-gate error rates. Q1 is -1 for single-qubit gates.
type GateKey struct {
	Name string
	Q0   int
	Q1   int
}

// OneQubitGate returns the gate key for a single-qubit gate.
func OneQubitGate(name string, q int) GateKey { return GateKey{Name: name, Q0: q, Q1: -1} }

// TwoQubitGate returns the gate key for a two-qubit gate in canonical
// qubit order.
func TwoQubitGate(name string, q0, q1 int) GateKey {
	if q0 > q1 {
		q0, q1 = q1, q0
	}
	return GateKey{Name: name, Q0: q0, Q1: q1}
}

func (k GateKey) String() string {
	if k.Q1 < 0 {
		return fmt.Sprintf("%s[%d]", k.Name, k.Q0)
	}
	return fmt.Sprintf("%s[%d,%d]", k.Name, k.Q0, k.Q1)
}
