// Package bench provides benchmark circuits and a runner for exercising the
// adaptive mitigation pipeline against a device: a GHZ-echo circuit whose
// echo delay stresses the decoupling heuristic, and a layered
// EfficientSU2-style ansatz whose entangling density stresses the
// sensitivity scoring.
package bench

import (
	"fmt"
	"time"

	"github.com/KurianUthuppu/adaptive-error-mitigation/mitigate"
)

// Gate durations in dt for the synthetic line device.
const (
	oneQubitGateDt = 40
	twoQubitGateDt = 300
	measureDt      = 800
)

// builder accumulates timed ops with a per-qubit frontier, producing
// ALAP-free ASAP schedules good enough for feature extraction.
type builder struct {
	ops      []mitigate.Op
	frontier map[int]int64
}

func newBuilder() *builder { return &builder{frontier: map[int]int64{}} }

func (b *builder) apply(name string, dur int64, qubits ...int) {
	start := int64(0)
	for _, q := range qubits {
		if b.frontier[q] > start {
			start = b.frontier[q]
		}
	}
	b.ops = append(b.ops, mitigate.Op{Name: name, Qubits: append([]int(nil), qubits...), Start: start, Duration: dur})
	for _, q := range qubits {
		b.frontier[q] = start + dur
	}
}

// wait advances a qubit's frontier, opening an idle window.
func (b *builder) wait(q int, dur int64) { b.frontier[q] += dur }

// barrier aligns all listed qubits to the latest frontier among them.
func (b *builder) barrier(qubits ...int) {
	latest := int64(0)
	for _, q := range qubits {
		if b.frontier[q] > latest {
			latest = b.frontier[q]
		}
	}
	for _, q := range qubits {
		b.frontier[q] = latest
	}
}

func identityLayout(n int) *mitigate.Layout {
	m := make(map[int]int, n)
	for i := 0; i < n; i++ {
		m[i] = i
	}
	return &mitigate.Layout{LogicalToPhysical: m}
}

// GHZEcho builds an n-qubit GHZ state, holds it through an echo delay, and
// uncomputes it. The echo delay opens one long idle window on every qubit,
// which is what the decoupling heuristic keys on.
func GHZEcho(n int, echoDelayDt int64) *mitigate.Circuit {
	b := newBuilder()
	b.apply("h", oneQubitGateDt, 0)
	for q := 0; q < n-1; q++ {
		b.apply("cx", twoQubitGateDt, q, q+1)
	}
	qubits := make([]int, n)
	for q := 0; q < n; q++ {
		qubits[q] = q
	}
	b.barrier(qubits...)
	for q := 0; q < n; q++ {
		b.wait(q, echoDelayDt)
	}
	b.apply("x", oneQubitGateDt, 0)
	for q := n - 2; q >= 0; q-- {
		b.apply("cx", twoQubitGateDt, q, q+1)
	}
	b.apply("h", oneQubitGateDt, 0)
	b.barrier(qubits...)
	for q := 0; q < n; q++ {
		b.apply("measure", measureDt, q)
	}
	return &mitigate.Circuit{
		Name:   fmt.Sprintf("ghz-echo-%dq", n),
		Ops:    b.ops,
		Layout: identityLayout(n),
	}
}

// EfficientSU2 builds a hardware-efficient layered ansatz: per repetition, a
// ry+rz rotation layer on every qubit followed by a linear cx entangling
// chain. The parameterization index only names the instance; all
// parameterizations share one structure, so batch runs over them exercise
// independent noise snapshots against identical features.
func EfficientSU2(n, reps, parameterization int) *mitigate.Circuit {
	b := newBuilder()
	for r := 0; r <= reps; r++ {
		for q := 0; q < n; q++ {
			b.apply("ry", oneQubitGateDt, q)
			b.apply("rz", oneQubitGateDt, q)
		}
		if r == reps {
			break
		}
		for q := 0; q < n-1; q++ {
			b.apply("cx", twoQubitGateDt, q, q+1)
		}
	}
	for q := 0; q < n; q++ {
		b.apply("measure", measureDt, q)
	}
	return &mitigate.Circuit{
		Name:   fmt.Sprintf("efficient-su2-%dq-p%d", n, parameterization),
		Ops:    b.ops,
		Layout: identityLayout(n),
	}
}

// LineDeviceCalibration produces calibration data for a synthetic n-qubit
// line device with uniform error rates: readoutErr per qubit, oneQErr on sx,
// twoQErr on each cx link, and T2 dephasing time t2Dt.
func LineDeviceCalibration(n int, readoutErr, oneQErr, twoQErr, t2Dt float64) mitigate.CalibrationData {
	cal := mitigate.CalibrationData{
		PerQubitErrorRate: map[int]float64{},
		ReadoutErrorRate:  map[int]float64{},
		T1:                map[int]float64{},
		T2:                map[int]float64{},
		CapturedAt:        time.Now(),
	}
	for q := 0; q < n; q++ {
		cal.PerQubitErrorRate[q] = oneQErr
		cal.ReadoutErrorRate[q] = readoutErr
		cal.T1[q] = 2 * t2Dt
		cal.T2[q] = t2Dt
	}
	for q := 0; q < n-1; q++ {
		cal.GateErrors = append(cal.GateErrors, mitigate.GateErrorEntry{
			Gate: "cx", Qubits: []int{q, q + 1}, Error: twoQErr,
		})
	}
	return cal
}
