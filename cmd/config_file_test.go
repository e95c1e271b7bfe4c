package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KurianUthuppu/adaptive-error-mitigation/mitigate"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadPolicyConfig_EmptyPathUsesDefaults(t *testing.T) {
	cfg := loadPolicyConfig("")
	assert.Equal(t, 0.25, cfg.Thresholds.DD)
	assert.Equal(t, 4096, cfg.Techniques.Shots)
}

func TestLoadPolicyConfig_OverlaysFile(t *testing.T) {
	path := writeTemp(t, "policy.yaml", `
thresholds:
    min_actionable: 0.1
techniques:
    shots: 1024
`)
	cfg := loadPolicyConfig(path)
	assert.Equal(t, 0.1, cfg.Thresholds.MinActionable)
	assert.Equal(t, 1024, cfg.Techniques.Shots)
	assert.Equal(t, 0.25, cfg.Thresholds.DD, "unset fields keep defaults")
}

func TestLoadCircuit(t *testing.T) {
	path := writeTemp(t, "circuit.yaml", `
name: loaded-circuit
ops:
    - name: h
      qubits: [0]
      start: 0
      duration: 40
    - name: measure
      qubits: [0]
      start: 40
      duration: 800
layout:
    logical_to_physical:
        0: 0
`)
	circuit, err := loadCircuit(path)
	require.NoError(t, err)
	assert.Equal(t, "loaded-circuit", circuit.Name)
	require.Len(t, circuit.Ops, 2)
	assert.True(t, circuit.Transpiled())

	_, err = loadCircuit(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = loadCircuit(writeTemp(t, "bad.yaml", "ops: {not: [a, list"))
	assert.Error(t, err)
}

func TestLoadCalibration(t *testing.T) {
	path := writeTemp(t, "calibration.yaml", `
per_qubit_error_rate:
    0: 0.001
    1: 0.002
readout_error_rate:
    0: 0.02
    1: 0.03
gate_errors:
    - gate: cx
      qubits: [0, 1]
      error: 0.01
t2:
    0: 100000
    1: 90000
`)
	cal, err := loadCalibration(path)
	require.NoError(t, err)
	assert.Equal(t, 0.03, cal.ReadoutErrorRate[1])
	require.Len(t, cal.GateErrors, 1)
	assert.Equal(t, "cx", cal.GateErrors[0].Gate)

	profile, err := cal.Profile("loaded")
	require.NoError(t, err)
	assert.Equal(t, 0.01, profile.PerGateErrorRate[mitigate.TwoQubitGate("cx", 0, 1)])

	_, err = loadCalibration(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
