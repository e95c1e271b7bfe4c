package mitigate

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// ExecutionMode selects how the orchestrator drives the pipeline.
type ExecutionMode string

const (
	// ModeSingle runs the full pipeline once for one pub.
	ModeSingle ExecutionMode = "single"
	// ModeBatch restarts the pipeline at feature extraction for each pub;
	// items are independent, each with its own noise snapshot.
	ModeBatch ExecutionMode = "batch"
	// ModeSession shares one noise baseline across jobs and may reuse the
	// previous decision while the backend has not drifted.
	ModeSession ExecutionMode = "session"
)

// IsValidMode reports whether mode is a recognized execution mode.
func IsValidMode(mode ExecutionMode) bool {
	switch mode {
	case ModeSingle, ModeBatch, ModeSession:
		return true
	}
	return false
}

// JobStatus is the opaque status the execution boundary reports for a job.
type JobStatus string

const (
	JobQueued    JobStatus = "queued"
	JobRunning   JobStatus = "running"
	JobCompleted JobStatus = "completed"
	JobFailed    JobStatus = "failed"
)

// Pub is one (circuit, observable) execution unit.
type Pub struct {
	Circuit    *Circuit
	Observable string // Pauli string, e.g. "ZZI"
}

// Backend is the execution boundary this core consumes: untyped telemetry
// plus job dispatch. Transport, retries, and authentication live behind it.
type Backend interface {
	Name() string
	// Simulated reports whether the backend is a simulator. Simulated
	// backends cannot be noise-characterized and are rejected.
	Simulated() bool
	CalibrationData(ctx context.Context) (CalibrationData, error)
	Submit(ctx context.Context, pub Pub, options EstimatorOptions, mode ExecutionMode) (jobID string, err error)
	Status(ctx context.Context, jobID string) (JobStatus, error)
}

// DeviceStub is an in-process Backend backed by fixed calibration data. It
// stands in for a real device in tests, benchmarks, and the CLI; it reports
// Simulated()==false because it replays real-shaped calibration snapshots
// rather than simulating circuit execution.
type DeviceStub struct {
	DeviceName  string
	Calibration CalibrationData
	// Sim marks the stub as a simulator so rejection paths can be tested.
	Sim bool
	// SubmitErr, when set, is returned by Submit to model boundary rejection.
	SubmitErr error

	mu   sync.Mutex
	jobs map[string]JobStatus
}

// NewDeviceStub builds a stub backend around one calibration snapshot.
func NewDeviceStub(name string, cal CalibrationData) *DeviceStub {
	return &DeviceStub{DeviceName: name, Calibration: cal, jobs: map[string]JobStatus{}}
}

func (d *DeviceStub) Name() string    { return d.DeviceName }
func (d *DeviceStub) Simulated() bool { return d.Sim }

func (d *DeviceStub) CalibrationData(ctx context.Context) (CalibrationData, error) {
	if err := ctx.Err(); err != nil {
		return CalibrationData{}, err
	}
	return d.Calibration, nil
}

func (d *DeviceStub) Submit(ctx context.Context, pub Pub, options EstimatorOptions, mode ExecutionMode) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if d.SubmitErr != nil {
		return "", d.SubmitErr
	}
	jobID := uuid.NewString()
	d.mu.Lock()
	d.jobs[jobID] = JobQueued
	d.mu.Unlock()
	return jobID, nil
}

func (d *DeviceStub) Status(ctx context.Context, jobID string) (JobStatus, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	status, ok := d.jobs[jobID]
	if !ok {
		return "", fmt.Errorf("unknown job %q on backend %q", jobID, d.DeviceName)
	}
	return status, nil
}
