// Package trace records mitigation decisions made across a run so batch and
// session executions leave a reviewable audit trail. Records hold plain
// values only; the core package converts its decision types into records.
package trace

// Level controls the verbosity of decision tracing.
type Level string

const (
	// LevelNone disables tracing (zero overhead).
	LevelNone Level = "none"
	// LevelDecisions captures every strategy decision with its rationale.
	LevelDecisions Level = "decisions"
)

// validLevels maps accepted trace level strings.
var validLevels = map[Level]bool{
	LevelNone:      true,
	LevelDecisions: true,
	"":             true, // empty defaults to none
}

// IsValidLevel returns true if the given level is recognized.
func IsValidLevel(level string) bool {
	return validLevels[Level(level)]
}

// Config controls trace collection behavior.
type Config struct {
	Level Level
}

// DecisionTrace collects decision records during a run.
type DecisionTrace struct {
	Config    Config
	Decisions []DecisionRecord
}

// New creates a DecisionTrace ready for recording.
func New(config Config) *DecisionTrace {
	return &DecisionTrace{
		Config:    config,
		Decisions: make([]DecisionRecord, 0),
	}
}

// Record appends a decision record when tracing is enabled.
func (dt *DecisionTrace) Record(record DecisionRecord) {
	if dt == nil || dt.Config.Level != LevelDecisions {
		return
	}
	dt.Decisions = append(dt.Decisions, record)
}
