package runner

import (
	"time"

	"github.com/google/uuid"
)

// TestSuite defines a complete integration test playthrough
type TestSuite struct {
	Name  string     `json:"name"`
	Story string     `json:"story"` // Story filename under the API's data dir
	Steps []TestStep `json:"steps"`
}

// TestStep defines a single verb and its expected outcome
type TestStep struct {
	Name         string       `json:"name,omitempty"`
	Verb         string       `json:"verb"`
	Expectations Expectations `json:"expect"`
}

// Expectations defines what to check after a step executes
type Expectations struct {
	Status          *int     `json:"status,omitempty"` // HTTP status, default 200
	Scene           *string  `json:"scene,omitempty"`
	Message         *string  `json:"message,omitempty"`
	MessageContains []string `json:"message_contains,omitempty"`
	Running         *bool    `json:"running,omitempty"`
	ErrorContains   string   `json:"error_contains,omitempty"`
}

// TestResult contains the outcome of running a test step
type TestResult struct {
	StepName string
	Success  bool
	Error    error
	Duration time.Duration
}

// TestRunResult contains the results of running an entire test suite
type TestRunResult struct {
	Suite     TestSuite
	Results   []TestResult
	Error     error
	Duration  time.Duration
	TellingID uuid.UUID
}

// Passed reports whether every step succeeded.
func (r TestRunResult) Passed() bool {
	if r.Error != nil {
		return false
	}
	for _, res := range r.Results {
		if !res.Success {
			return false
		}
	}
	return true
}
