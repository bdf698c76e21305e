package runner

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/jwebster45206/rok/internal/handlers"
)

type ErrorHandlingMode string

const ErrorHandlingExit ErrorHandlingMode = "exit"
const ErrorHandlingContinue ErrorHandlingMode = "continue"

// Runner executes integration tests against a running rok API
type Runner struct {
	BaseURL           string
	Client            *http.Client
	Logger            func(format string, args ...interface{})
	ErrorHandlingMode ErrorHandlingMode
}

// NewRunner creates a new test runner
func NewRunner(baseURL string) *Runner {
	return &Runner{
		BaseURL:           strings.TrimSuffix(baseURL, "/"),
		Client:            &http.Client{Timeout: 10 * time.Second},
		Logger:            func(string, ...interface{}) {},
		ErrorHandlingMode: ErrorHandlingContinue,
	}
}

// LoadTestSuite loads a test suite from a JSON file
func LoadTestSuite(filename string) (TestSuite, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return TestSuite{}, fmt.Errorf("failed to read test file %s: %w", filename, err)
	}

	var suite TestSuite
	if err := json.Unmarshal(content, &suite); err != nil {
		return TestSuite{}, fmt.Errorf("failed to parse JSON in %s: %w", filename, err)
	}

	return suite, nil
}

// RunSuite starts a telling of the suite's story and plays every step.
func (r *Runner) RunSuite(ctx context.Context, suite TestSuite) TestRunResult {
	start := time.Now()
	result := TestRunResult{
		Suite:   suite,
		Results: make([]TestResult, 0, len(suite.Steps)),
	}

	var created handlers.TellingResponse
	status, err := r.post(ctx, "/v1/tellings", handlers.CreateTellingRequest{Story: suite.Story}, &created)
	if err == nil && status != http.StatusCreated {
		err = fmt.Errorf("unexpected status %d", status)
	}
	if err != nil {
		result.Error = fmt.Errorf("failed to start telling: %w", err)
		result.Duration = time.Since(start)
		return result
	}
	result.TellingID = created.ID
	defer r.delete(ctx, "/v1/tellings/"+created.ID.String())

	path := "/v1/tellings/" + created.ID.String() + "/choices"
	for i, step := range suite.Steps {
		r.Logger("    [%d/%d] %s (verb %q)", i+1, len(suite.Steps), step.Name, step.Verb)
		res := r.runStep(ctx, path, step)
		result.Results = append(result.Results, res)
		if !res.Success && r.ErrorHandlingMode == ErrorHandlingExit {
			break
		}
	}

	result.Duration = time.Since(start)
	return result
}

func (r *Runner) runStep(ctx context.Context, path string, step TestStep) TestResult {
	start := time.Now()
	res := TestResult{StepName: step.Name}

	var raw json.RawMessage
	status, err := r.post(ctx, path, handlers.ChoiceRequest{Verb: step.Verb}, &raw)
	if err == nil {
		err = checkStep(step.Expectations, status, raw)
	}

	res.Error = err
	res.Success = err == nil
	res.Duration = time.Since(start)
	return res
}

func checkStep(exp Expectations, status int, raw json.RawMessage) error {
	wantStatus := http.StatusOK
	if exp.Status != nil {
		wantStatus = *exp.Status
	}
	if status != wantStatus {
		return fmt.Errorf("status: expected %d, got %d (%s)", wantStatus, status, string(raw))
	}

	if status != http.StatusOK {
		var errResp handlers.ErrorResponse
		if err := json.Unmarshal(raw, &errResp); err != nil {
			return fmt.Errorf("failed to parse error response: %w", err)
		}
		if exp.ErrorContains != "" && !strings.Contains(errResp.Error, exp.ErrorContains) {
			return fmt.Errorf("error: expected to contain %q, got %q", exp.ErrorContains, errResp.Error)
		}
		return nil
	}

	var resp handlers.TellingResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return fmt.Errorf("failed to parse telling response: %w", err)
	}

	var failures []string
	if exp.Scene != nil && resp.Scene != *exp.Scene {
		failures = append(failures, fmt.Sprintf("scene: expected %q, got %q", *exp.Scene, resp.Scene))
	}
	if exp.Message != nil && resp.Message != *exp.Message {
		failures = append(failures, fmt.Sprintf("message: expected %q, got %q", *exp.Message, resp.Message))
	}
	for _, s := range exp.MessageContains {
		if !strings.Contains(resp.Message, s) {
			failures = append(failures, fmt.Sprintf("message: expected to contain %q", s))
		}
	}
	if exp.Running != nil && resp.Running != *exp.Running {
		failures = append(failures, fmt.Sprintf("running: expected %v, got %v", *exp.Running, resp.Running))
	}

	if len(failures) > 0 {
		return fmt.Errorf("%s", strings.Join(failures, "; "))
	}
	return nil
}

func (r *Runner) post(ctx context.Context, path string, body interface{}, out interface{}) (int, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.BaseURL+path, bytes.NewReader(data))
	if err != nil {
		return 0, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.Client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, fmt.Errorf("failed to read response: %w", err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return resp.StatusCode, fmt.Errorf("failed to parse response: %w", err)
	}
	return resp.StatusCode, nil
}

func (r *Runner) delete(ctx context.Context, path string) {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, r.BaseURL+path, nil)
	if err != nil {
		return
	}
	if resp, err := r.Client.Do(req); err == nil {
		_ = resp.Body.Close()
	}
}
