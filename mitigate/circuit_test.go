package mitigate

import (
	"reflect"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestLayoutValidate(t *testing.T) {
	good := &Layout{LogicalToPhysical: map[int]int{0: 5, 1: 3, 2: 7}}
	if err := good.Validate(); err != nil {
		t.Errorf("bijective layout rejected: %v", err)
	}
	if got := good.PhysicalQubits(); !reflect.DeepEqual(got, []int{3, 5, 7}) {
		t.Errorf("PhysicalQubits: got %v, want [3 5 7]", got)
	}

	bad := &Layout{LogicalToPhysical: map[int]int{0: 5, 1: 5}}
	if err := bad.Validate(); err == nil {
		t.Error("duplicate physical qubit must be rejected")
	}
}

func TestNewLink_Canonical(t *testing.T) {
	if NewLink(3, 1) != NewLink(1, 3) {
		t.Error("links must be order independent")
	}
	if l := NewLink(3, 1); l.A != 1 || l.B != 3 {
		t.Errorf("NewLink(3,1) = %v, want {1 3}", l)
	}
}

func TestGateKey(t *testing.T) {
	if TwoQubitGate("cx", 2, 0) != TwoQubitGate("cx", 0, 2) {
		t.Error("two-qubit keys must be order independent")
	}
	one := OneQubitGate("sx", 4)
	if one.Q1 != -1 {
		t.Errorf("one-qubit key Q1: got %d, want -1", one.Q1)
	}
	if got := one.String(); got != "sx[4]" {
		t.Errorf("String: got %q", got)
	}
	if got := TwoQubitGate("cx", 2, 0).String(); got != "cx[0,2]" {
		t.Errorf("String: got %q", got)
	}
}

func TestOpIsGate(t *testing.T) {
	for _, name := range []string{"barrier", "measure", "reset", "delay"} {
		if (Op{Name: name}).IsGate() {
			t.Errorf("%s must not count as a gate", name)
		}
	}
	for _, name := range []string{"h", "cx", "rz", "swap"} {
		if !(Op{Name: name}).IsGate() {
			t.Errorf("%s must count as a gate", name)
		}
	}
}

func TestCircuitMeasuredQubits(t *testing.T) {
	c := twoQubitTimed()
	if got := c.MeasuredQubits(); !reflect.DeepEqual(got, []int{0, 1}) {
		t.Errorf("MeasuredQubits: got %v, want [0 1]", got)
	}
	if got := c.TouchedQubits(); !reflect.DeepEqual(got, []int{0, 1}) {
		t.Errorf("TouchedQubits: got %v, want [0 1]", got)
	}
	if got := c.Duration(); got != 1640 {
		t.Errorf("Duration: got %d, want 1640", got)
	}
}

func TestCircuit_YAMLRoundTrip(t *testing.T) {
	raw := []byte(`
name: loaded
ops:
    - name: h
      qubits: [0]
      start: 0
      duration: 40
    - name: cx
      qubits: [0, 1]
      start: 40
      duration: 300
layout:
    logical_to_physical:
        0: 0
        1: 1
`)
	var c Circuit
	if err := yaml.Unmarshal(raw, &c); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if c.Name != "loaded" || len(c.Ops) != 2 || !c.Transpiled() {
		t.Fatalf("unexpected circuit: %+v", c)
	}
	if c.Ops[1].Name != "cx" || c.Ops[1].Start != 40 {
		t.Errorf("cx op: %+v", c.Ops[1])
	}
	if c.Layout.LogicalToPhysical[1] != 1 {
		t.Errorf("layout: %+v", c.Layout)
	}
}
