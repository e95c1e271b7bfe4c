// Package testutil provides shared test infrastructure for the adaptive
// mitigation engine: the golden decision dataset and float assertion
// helpers used across the mitigate test packages.
package testutil

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// DecisionDataset represents the structure of testdata/decisions.json.
type DecisionDataset struct {
	Cases []DecisionCase `json:"cases"`
}

// DecisionCase is one selector scenario: fabricated pipeline inputs plus
// the techniques the selector must choose for them.
type DecisionCase struct {
	Name string `json:"name"`

	// Thresholds
	MinActionable float64 `json:"min_actionable"`
	DDThreshold   float64 `json:"dd_threshold"`
	TrexThreshold float64 `json:"trex_threshold"`
	ZNEThreshold  float64 `json:"zne_threshold"`

	// Fabricated inputs
	OverallScore float64 `json:"overall_score"`
	IdleDensity  float64 `json:"idle_density"`
	MaxReadout   float64 `json:"max_readout"`

	// Expectations
	ExpectTechniques []string `json:"expect_techniques"`
}

// LoadDecisionDataset loads the golden decision dataset from the testdata
// directory. The path is resolved relative to this source file:
// mitigate/internal/testutil/ -> testdata/.
func LoadDecisionDataset(t *testing.T) *DecisionDataset {
	t.Helper()

	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("Failed to get current file path")
	}
	path := filepath.Join(filepath.Dir(thisFile), "..", "..", "..", "testdata", "decisions.json")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read decision dataset: %v", err)
	}

	var dataset DecisionDataset
	if err := json.Unmarshal(data, &dataset); err != nil {
		t.Fatalf("Failed to parse decision dataset: %v", err)
	}
	return &dataset
}

// AssertFloat64Equal compares two float64 values with relative tolerance.
func AssertFloat64Equal(t *testing.T, name string, want, got, relTol float64) {
	t.Helper()
	if want == 0 && got == 0 {
		return
	}
	diff := math.Abs(want - got)
	maxVal := math.Max(math.Abs(want), math.Abs(got))
	if diff/maxVal > relTol {
		t.Errorf("%s: got %v, want %v (diff=%v, relDiff=%v)", name, got, want, diff, diff/maxVal)
	}
}
