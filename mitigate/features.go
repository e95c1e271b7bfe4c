package mitigate

import (
	"fmt"
	"sort"
)

// IdleWindow is a gap in a physical qubit's operation schedule, in dt units.
type IdleWindow struct {
	Start int64 `yaml:"start"`
	End   int64 `yaml:"end"`
}

// Length returns the window length in dt.
func (w IdleWindow) Length() int64 { return w.End - w.Start }

// CircuitFeatures holds the structural metrics derived from one transpiled
// circuit snapshot. Immutable once computed; recompute when the circuit
// changes.
type CircuitFeatures struct {
	Depth               int
	NumQubits           int
	OneQubitGateCount   int
	TwoQubitGateCount   int
	SwapCount           int
	MeasurementCount    int
	TotalDuration       int64
	LayoutMap           map[int]int          // logical -> physical
	PerQubitIdleWindows map[int][]IdleWindow // physical qubit -> ordered gaps
	PerQubitGateCount   map[int]int          // 1q gate activity per physical qubit
	PerQubitGates       map[int][]GateKey    // distinct gates acting on each qubit
	LinkActivity        map[Link]int         // 2q gate count per physical link
	MeasuredQubits      []int
}

// IdleFraction returns the fraction of the circuit duration qubit q spends
// idle. Zero when the circuit has no duration.
func (f *CircuitFeatures) IdleFraction(q int) float64 {
	if f.TotalDuration == 0 {
		return 0
	}
	var idle int64
	for _, w := range f.PerQubitIdleWindows[q] {
		idle += w.Length()
	}
	return float64(idle) / float64(f.TotalDuration)
}

// LongestIdleWindow returns the longest idle window on qubit q, in dt.
func (f *CircuitFeatures) LongestIdleWindow(q int) int64 {
	var longest int64
	for _, w := range f.PerQubitIdleWindows[q] {
		if w.Length() > longest {
			longest = w.Length()
		}
	}
	return longest
}

// IdleDensity returns the maximum per-qubit idle fraction across qubits the
// circuit touches. This is the metric rule R2 compares against DDThreshold:
// one badly idling qubit is enough to justify decoupling.
func (f *CircuitFeatures) IdleDensity() float64 {
	var density float64
	for q := range f.PerQubitIdleWindows {
		if frac := f.IdleFraction(q); frac > density {
			density = frac
		}
	}
	return density
}

// TouchedQubits returns the sorted physical qubits with any gate activity.
func (f *CircuitFeatures) TouchedQubits() []int {
	seen := map[int]bool{}
	for q := range f.PerQubitGateCount {
		seen[q] = true
	}
	for link := range f.LinkActivity {
		seen[link.A] = true
		seen[link.B] = true
	}
	qubits := make([]int, 0, len(seen))
	for q := range seen {
		qubits = append(qubits, q)
	}
	sort.Ints(qubits)
	return qubits
}

// ExtractFeatures derives CircuitFeatures from a transpiled circuit. Pure and
// side-effect free: identical circuits yield identical features. Fails with
// ErrUnsupportedCircuit when the circuit lacks layout metadata.
func ExtractFeatures(c *Circuit) (*CircuitFeatures, error) {
	if c == nil || !c.Transpiled() {
		return nil, fmt.Errorf("%w: circuit %q has no layout", ErrUnsupportedCircuit, circuitName(c))
	}
	if err := c.Layout.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedCircuit, err)
	}
	c = c.NormalizeSchedule()

	f := &CircuitFeatures{
		NumQubits:           len(c.Layout.LogicalToPhysical),
		TotalDuration:       c.Duration(),
		LayoutMap:           make(map[int]int, len(c.Layout.LogicalToPhysical)),
		PerQubitIdleWindows: map[int][]IdleWindow{},
		PerQubitGateCount:   map[int]int{},
		PerQubitGates:       map[int][]GateKey{},
		LinkActivity:        map[Link]int{},
		MeasuredQubits:      c.MeasuredQubits(),
	}
	for logical, physical := range c.Layout.LogicalToPhysical {
		f.LayoutMap[logical] = physical
	}

	// Structural counts and per-qubit gate usage over the final op list.
	depthAt := map[int]int{}
	gateSeen := map[int]map[GateKey]bool{}
	for _, op := range c.Ops {
		if op.Name == "measure" {
			f.MeasurementCount++
		}
		if !op.IsGate() {
			continue
		}
		d := 0
		for _, q := range op.Qubits {
			if depthAt[q] > d {
				d = depthAt[q]
			}
		}
		d++
		for _, q := range op.Qubits {
			depthAt[q] = d
		}
		if d > f.Depth {
			f.Depth = d
		}

		switch len(op.Qubits) {
		case 1:
			q := op.Qubits[0]
			f.OneQubitGateCount++
			f.PerQubitGateCount[q]++
			recordGate(gateSeen, f, q, OneQubitGate(op.Name, q))
		case 2:
			// Swaps are routing overhead, tracked separately from the
			// entangling gate count.
			if op.Name == "swap" {
				f.SwapCount++
			} else {
				f.TwoQubitGateCount++
			}
			link := NewLink(op.Qubits[0], op.Qubits[1])
			f.LinkActivity[link]++
			key := TwoQubitGate(op.Name, op.Qubits[0], op.Qubits[1])
			recordGate(gateSeen, f, link.A, key)
			recordGate(gateSeen, f, link.B, key)
		}
	}

	// Idle windows: walk each physical qubit's schedule and record gaps
	// between consecutive ops and against circuit start/end.
	byQubit := map[int][]Op{}
	for _, op := range c.Ops {
		for _, q := range op.Qubits {
			byQubit[q] = append(byQubit[q], op)
		}
	}
	for q, ops := range byQubit {
		sort.Slice(ops, func(i, j int) bool { return ops[i].Start < ops[j].Start })
		var windows []IdleWindow
		cursor := int64(0)
		for _, op := range ops {
			if op.Start > cursor {
				windows = append(windows, IdleWindow{Start: cursor, End: op.Start})
			}
			if op.End() > cursor {
				cursor = op.End()
			}
		}
		if cursor < f.TotalDuration {
			windows = append(windows, IdleWindow{Start: cursor, End: f.TotalDuration})
		}
		if len(windows) > 0 {
			f.PerQubitIdleWindows[q] = windows
		}
	}

	return f, nil
}

func recordGate(seen map[int]map[GateKey]bool, f *CircuitFeatures, q int, key GateKey) {
	if seen[q] == nil {
		seen[q] = map[GateKey]bool{}
	}
	if seen[q][key] {
		return
	}
	seen[q][key] = true
	f.PerQubitGates[q] = append(f.PerQubitGates[q], key)
}

func circuitName(c *Circuit) string {
	if c == nil {
		return "<nil>"
	}
	return c.Name
}
