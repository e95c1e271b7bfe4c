package trace

// RuleRecord is one rule evaluation in a decision's rationale.
type RuleRecord struct {
	Rule      string  `json:"rule"`
	Triggered bool    `json:"triggered"`
	Value     float64 `json:"value"`
	Threshold float64 `json:"threshold"`
}

// DecisionRecord captures one strategy decision for a pub.
type DecisionRecord struct {
	Circuit      string       `json:"circuit"`
	Backend      string       `json:"backend"`
	Mode         string       `json:"mode"`
	OverallScore float64      `json:"overall_score"`
	Techniques   []string     `json:"techniques"`
	Rationale    []RuleRecord `json:"rationale"`
	JobID        string       `json:"job_id,omitempty"`
	Reused       bool         `json:"reused,omitempty"` // session short-circuit
	Err          string       `json:"error,omitempty"`
}
