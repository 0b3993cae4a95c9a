package gates

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// GateStatus is the outcome of one gate.
type GateStatus string

const (
	// StatusPassed means the gate command exited cleanly.
	StatusPassed GateStatus = "passed"
	// StatusFailed means the gate command exited non-zero.
	StatusFailed GateStatus = "failed"
	// StatusSkipped means the gate was not run (disabled or tool missing).
	StatusSkipped GateStatus = "skipped"
)

// Gate records one executed quality gate.
type Gate struct {
	Name        string     `json:"name"`
	Status      GateStatus `json:"status"`
	Description string     `json:"description"`
	Output      string     `json:"output,omitempty"`
	Error       string     `json:"error,omitempty"`
}

// Summary aggregates gate outcomes.
type Summary struct {
	AllPassed           bool    `json:"all_passed"`
	CoveragePercentage  float64 `json:"coverage_percentage"`
	CoverageTarget      float64 `json:"coverage_target"`
	SecurityScanEnabled bool    `json:"security_scan_enabled"`
	TodoComments        int     `json:"todo_comments"`
	Gates               []Gate  `json:"gates"`
}

// Report is the JSON artifact written after a run.
type Report struct {
	Timestamp       time.Time `json:"timestamp"`
	Project         string    `json:"project"`
	Branch          string    `json:"branch"`
	Commit          string    `json:"commit"`
	QualityGates    Summary   `json:"quality_gates"`
	Recommendations []string  `json:"recommendations,omitempty"`
}

// Save writes the report as indented JSON.
func (r Report) Save(path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("gates: encode report: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("gates: write report: %w", err)
	}
	return nil
}

// Counts returns how many gates passed, failed, and were skipped.
func (s Summary) Counts() (passed, failed, skipped int) {
	for _, g := range s.Gates {
		switch g.Status {
		case StatusPassed:
			passed++
		case StatusFailed:
			failed++
		case StatusSkipped:
			skipped++
		}
	}
	return passed, failed, skipped
}
