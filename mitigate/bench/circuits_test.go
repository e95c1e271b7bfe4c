package bench

import (
	"testing"

	"github.com/KurianUthuppu/adaptive-error-mitigation/mitigate"
)

func TestGHZEcho_OpensEchoWindowOnEveryQubit(t *testing.T) {
	circuit := GHZEcho(4, 20000)
	if !circuit.Transpiled() {
		t.Fatal("benchmark circuits must carry a layout")
	}

	f, err := mitigate.ExtractFeatures(circuit)
	if err != nil {
		t.Fatalf("ExtractFeatures: %v", err)
	}
	if f.MeasurementCount != 4 {
		t.Errorf("MeasurementCount: got %d, want 4", f.MeasurementCount)
	}
	// GHZ chain forward and back: 2*(n-1) entangling gates.
	if f.TwoQubitGateCount != 6 {
		t.Errorf("TwoQubitGateCount: got %d, want 6", f.TwoQubitGateCount)
	}
	for q := 0; q < 4; q++ {
		if w := f.LongestIdleWindow(q); w < 20000 {
			t.Errorf("qubit %d longest idle window %d, want >= echo delay 20000", q, w)
		}
	}
	if f.IdleDensity() <= 0.5 {
		t.Errorf("IdleDensity: got %v, want > 0.5 for a long echo", f.IdleDensity())
	}
}

func TestGHZEcho_ZeroDelayIsDense(t *testing.T) {
	f, err := mitigate.ExtractFeatures(GHZEcho(3, 0))
	if err != nil {
		t.Fatalf("ExtractFeatures: %v", err)
	}
	for q := 0; q < 3; q++ {
		if w := f.LongestIdleWindow(q); w >= 1000 {
			t.Errorf("qubit %d idle window %d unexpectedly long without echo delay", q, w)
		}
	}
}

func TestEfficientSU2_Structure(t *testing.T) {
	n, reps := 5, 3
	f, err := mitigate.ExtractFeatures(EfficientSU2(n, reps, 0))
	if err != nil {
		t.Fatalf("ExtractFeatures: %v", err)
	}
	// reps+1 rotation layers of ry+rz per qubit.
	if want := n * (reps + 1) * 2; f.OneQubitGateCount != want {
		t.Errorf("OneQubitGateCount: got %d, want %d", f.OneQubitGateCount, want)
	}
	// reps entangling chains of n-1 cx each.
	if want := reps * (n - 1); f.TwoQubitGateCount != want {
		t.Errorf("TwoQubitGateCount: got %d, want %d", f.TwoQubitGateCount, want)
	}
	if f.MeasurementCount != n {
		t.Errorf("MeasurementCount: got %d, want %d", f.MeasurementCount, n)
	}
}

func TestEfficientSU2_ParameterizationsShareStructure(t *testing.T) {
	a, err := mitigate.ExtractFeatures(EfficientSU2(4, 2, 0))
	if err != nil {
		t.Fatalf("ExtractFeatures: %v", err)
	}
	b, err := mitigate.ExtractFeatures(EfficientSU2(4, 2, 3))
	if err != nil {
		t.Fatalf("ExtractFeatures: %v", err)
	}
	if a.Depth != b.Depth || a.TwoQubitGateCount != b.TwoQubitGateCount || a.TotalDuration != b.TotalDuration {
		t.Error("parameterizations must share one circuit structure")
	}

	if EfficientSU2(4, 2, 0).Name == EfficientSU2(4, 2, 3).Name {
		t.Error("parameterization index must name the instance")
	}
}

func TestLineDeviceCalibration(t *testing.T) {
	cal := LineDeviceCalibration(4, 0.02, 0.0005, 0.01, 100000)
	if len(cal.ReadoutErrorRate) != 4 || len(cal.PerQubitErrorRate) != 4 {
		t.Fatalf("expected 4 qubits of calibration, got %d/%d", len(cal.ReadoutErrorRate), len(cal.PerQubitErrorRate))
	}
	// Line connectivity: n-1 calibrated cx links.
	if len(cal.GateErrors) != 3 {
		t.Errorf("GateErrors: got %d entries, want 3", len(cal.GateErrors))
	}

	profile, err := cal.Profile("line-4")
	if err != nil {
		t.Fatalf("Profile: %v", err)
	}
	if got := profile.PerGateErrorRate[mitigate.TwoQubitGate("cx", 1, 2)]; got != 0.01 {
		t.Errorf("cx(1,2) error: got %v, want 0.01", got)
	}
	if profile.T2[0] != 100000 || profile.T1[0] != 200000 {
		t.Errorf("coherence times: T1=%v T2=%v", profile.T1[0], profile.T2[0])
	}
}
