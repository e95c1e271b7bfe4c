package mitigate

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stubCalibration() CalibrationData {
	return CalibrationData{
		PerQubitErrorRate: map[int]float64{0: 0.001, 1: 0.002},
		ReadoutErrorRate:  map[int]float64{0: 0.02, 1: 0.05},
		GateErrors: []GateErrorEntry{
			{Gate: "sx", Qubits: []int{0}, Error: 0.0005},
			{Gate: "cx", Qubits: []int{0, 1}, Error: 0.01},
		},
		T1:         map[int]float64{0: 200000, 1: 180000},
		T2:         map[int]float64{0: 100000, 1: 90000},
		CapturedAt: time.Now(),
	}
}

func TestCollectNoiseProfile(t *testing.T) {
	backend := NewDeviceStub("test-device", stubCalibration())

	profile, err := CollectNoiseProfile(context.Background(), backend)
	require.NoError(t, err)
	assert.Equal(t, "test-device", profile.Backend)
	assert.Equal(t, 0.05, profile.ReadoutErrorRate[1])
	assert.Equal(t, 100000.0, profile.T2[0])
	assert.Equal(t, 0.0005, profile.PerGateErrorRate[OneQubitGate("sx", 0)])
	assert.Equal(t, 0.01, profile.PerGateErrorRate[TwoQubitGate("cx", 0, 1)])
	assert.False(t, profile.CapturedAt.IsZero())
}

func TestCollectNoiseProfile_RejectsSimulatedBackend(t *testing.T) {
	backend := NewDeviceStub("sim", stubCalibration())
	backend.Sim = true

	_, err := CollectNoiseProfile(context.Background(), backend)
	assert.ErrorIs(t, err, ErrBackendUnavailable)

	_, err = CollectNoiseProfile(context.Background(), nil)
	assert.ErrorIs(t, err, ErrBackendUnavailable)
}

func TestCollectNoiseProfile_TimeoutMapsToUnavailable(t *testing.T) {
	backend := NewDeviceStub("slow-device", stubCalibration())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := CollectNoiseProfile(ctx, backend)
	assert.ErrorIs(t, err, ErrBackendUnavailable)
}

// failingCalBackend reports a transport fault on every calibration read.
type failingCalBackend struct{ DeviceStub }

func (f *failingCalBackend) CalibrationData(ctx context.Context) (CalibrationData, error) {
	return CalibrationData{}, fmt.Errorf("telemetry endpoint returned 503")
}

func TestCollectNoiseProfile_FetchFailureMapsToUnavailable(t *testing.T) {
	backend := &failingCalBackend{DeviceStub{DeviceName: "flaky"}}
	_, err := CollectNoiseProfile(context.Background(), backend)
	if !errors.Is(err, ErrBackendUnavailable) {
		t.Fatalf("got err %v, want ErrBackendUnavailable", err)
	}
}

func TestCalibrationData_ProfileValidatesRates(t *testing.T) {
	cal := stubCalibration()
	cal.ReadoutErrorRate[1] = 1.5
	_, err := cal.Profile("bad")
	assert.Error(t, err)

	cal = stubCalibration()
	cal.PerQubitErrorRate[0] = -0.1
	_, err = cal.Profile("bad")
	assert.Error(t, err)

	cal = stubCalibration()
	cal.GateErrors = append(cal.GateErrors, GateErrorEntry{Gate: "ccx", Qubits: []int{0, 1, 2}, Error: 0.1})
	_, err = cal.Profile("bad")
	assert.Error(t, err)
}

func TestMaxReadoutError(t *testing.T) {
	p := &NoiseProfile{ReadoutErrorRate: map[int]float64{0: 0.02, 1: 0.05, 2: 0.01}}

	q, rate := p.MaxReadoutError([]int{0, 1, 2})
	assert.Equal(t, 1, q)
	assert.Equal(t, 0.05, rate)

	// Only the queried qubits count.
	q, rate = p.MaxReadoutError([]int{0, 2})
	assert.Equal(t, 0, q)
	assert.Equal(t, 0.02, rate)

	q, rate = p.MaxReadoutError([]int{7})
	assert.Equal(t, -1, q)
	assert.Zero(t, rate)
}

func TestGateError_FallsBackToPerQubitAverage(t *testing.T) {
	p := &NoiseProfile{
		PerQubitErrorRate: map[int]float64{0: 0.002, 1: 0.004},
		PerGateErrorRate:  map[GateKey]float64{OneQubitGate("sx", 0): 0.0005},
	}

	assert.Equal(t, 0.0005, p.GateError(OneQubitGate("sx", 0)))
	// No calibration entry for x on q0: per-qubit average.
	assert.Equal(t, 0.002, p.GateError(OneQubitGate("x", 0)))
	// Uncalibrated two-qubit gate: mean of the endpoint averages.
	assert.Equal(t, 0.003, p.GateError(TwoQubitGate("cx", 0, 1)))
}
