// SPDX-FileCopyrightText: 2024 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package gherkin

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/reanahub/reana-commons/pkg/apis/reana"
	"github.com/reanahub/reana-commons/pkg/util"
)

// StepType is the bucket a step belongs to.
type StepType string

const (
	// StepTypeContext are Given steps.
	StepTypeContext StepType = "Context"
	// StepTypeAction are When steps.
	StepTypeAction StepType = "Action"
	// StepTypeOutcome are Then steps.
	StepTypeOutcome StepType = "Outcome"
)

// StepTypes returns all step types.
func StepTypes() []StepType {
	return []StepType{StepTypeContext, StepTypeAction, StepTypeOutcome}
}

// TestStatus is the result of a scenario.
type TestStatus int

const (
	TestStatusPassed TestStatus = iota
	TestStatusFailed
	TestStatusSkipped
)

func (s TestStatus) String() string {
	switch s {
	case TestStatusPassed:
		return "passed"
	case TestStatusFailed:
		return "failed"
	case TestStatusSkipped:
		return "skipped"
	}
	return fmt.Sprintf("TestStatus(%d)", int(s))
}

// MarshalJSON encodes the status by name.
func (s TestStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// TestResult is the result of a single scenario.
type TestResult struct {
	Scenario       string     `json:"scenario"`
	FailedTestcase string     `json:"failed_testcase,omitempty"`
	Result         TestStatus `json:"result"`
	ErrorLog       string     `json:"error_log,omitempty"`
	Feature        string     `json:"feature"`
	CheckedAt      time.Time  `json:"checked_at"`
}

// StepDefinitionNotFoundError is returned if no step definition matches a step.
type StepDefinitionNotFoundError struct {
	Step string
}

func (e *StepDefinitionNotFoundError) Error() string {
	return fmt.Sprintf("No step definition found for step: %s", e.Step)
}

// ErrStepSkipped marks a step that skips the rest of its scenario.
var ErrStepSkipped = errors.New("step skipped")

type skipError struct {
	msg string
}

func (e *skipError) Error() string        { return e.msg }
func (e *skipError) Is(target error) bool { return target == ErrStepSkipped }

// Skip returns an error that skips the scenario with the given message.
func Skip(format string, a ...interface{}) error {
	return &skipError{msg: fmt.Sprintf(format, a...)}
}

// FeatureFileError is returned if a feature file cannot be parsed.
type FeatureFileError struct {
	Path string
	Err  error
}

func (e *FeatureFileError) Error() string {
	return fmt.Sprintf("Unexpected error during parsing or compiling of the test file '%s' \n%s", e.Path, e.Err)
}

func (e *FeatureFileError) Unwrap() error {
	return e.Err
}

// WorkspaceFile is a file of the workflow workspace.
type WorkspaceFile struct {
	Name         string        `json:"name"`
	Size         util.FileSize `json:"size"`
	LastModified string        `json:"last-modified"`
}

// DiskUsageParameters customize a disk usage request.
type DiskUsageParameters struct {
	Summarize bool
	Search    *util.DiskUsageSearch
}

// DiskUsageResponse is the disk usage of a workflow workspace.
type DiskUsageResponse struct {
	WorkflowID    string           `json:"workflow_id"`
	WorkflowName  string           `json:"workflow_name"`
	User          string           `json:"user"`
	DiskUsageInfo []util.DiskUsage `json:"disk_usage_info"`
}

// WorkflowLogsResponse contains the json encoded logs of a workflow.
type WorkflowLogsResponse struct {
	Logs string `json:"logs"`
}

// JobLog are the logs of a single job.
type JobLog struct {
	JobName    string `json:"job_name,omitempty"`
	Logs       string `json:"logs"`
	StartedAt  string `json:"started_at,omitempty"`
	FinishedAt string `json:"finished_at,omitempty"`
}

// WorkflowLogs are the decoded logs of a workflow.
type WorkflowLogs struct {
	WorkflowLogs   *string           `json:"workflow_logs"`
	EngineSpecific *string           `json:"engine_specific"`
	JobLogs        map[string]JobLog `json:"job_logs"`

	// jobOrder holds the job ids in the order the server sent them.
	jobOrder []string
}

// Decode parses the logs of the response.
func (r *WorkflowLogsResponse) Decode() (*WorkflowLogs, error) {
	logs := &WorkflowLogs{}
	if err := json.Unmarshal([]byte(r.Logs), logs); err != nil {
		return nil, fmt.Errorf("unable to decode workflow logs: %w", err)
	}
	raw := struct {
		JobLogs json.RawMessage `json:"job_logs"`
	}{}
	if err := json.Unmarshal([]byte(r.Logs), &raw); err != nil {
		return nil, fmt.Errorf("unable to decode workflow logs: %w", err)
	}
	order, err := objectKeys(raw.JobLogs)
	if err != nil {
		return nil, fmt.Errorf("unable to decode job logs: %w", err)
	}
	logs.jobOrder = order
	return logs, nil
}

// objectKeys returns the top level keys of a json object in document order.
func objectKeys(data json.RawMessage) ([]string, error) {
	if len(data) == 0 || string(data) == "null" {
		return nil, nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	var keys []string
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected key %v", tok)
		}
		keys = append(keys, key)
		var skip json.RawMessage
		if err := dec.Decode(&skip); err != nil {
			return nil, err
		}
	}
	return keys, nil
}

// EngineLogs returns the workflow and engine specific logs.
func (l *WorkflowLogs) EngineLogs() string {
	var out string
	if l.WorkflowLogs != nil {
		out += *l.WorkflowLogs
	}
	if l.EngineSpecific != nil {
		out += *l.EngineSpecific
	}
	return out
}

// Jobs returns the job logs in the order the server sent them.
func (l *WorkflowLogs) Jobs() []JobLog {
	jobs := make([]JobLog, 0, len(l.JobLogs))
	seen := make(map[string]bool, len(l.JobLogs))
	for _, id := range l.jobOrder {
		if job, ok := l.JobLogs[id]; ok && !seen[id] {
			seen[id] = true
			jobs = append(jobs, job)
		}
	}
	// logs built without Decode carry no order
	rest := make([]string, 0)
	for id := range l.JobLogs {
		if !seen[id] {
			rest = append(rest, id)
		}
	}
	sort.Strings(rest)
	for _, id := range rest {
		jobs = append(jobs, l.JobLogs[id])
	}
	return jobs
}

// LastJobLog returns the job log the server listed last.
func (l *WorkflowLogs) LastJobLog() (JobLog, bool) {
	jobs := l.Jobs()
	if len(jobs) == 0 {
		return JobLog{}, false
	}
	return jobs[len(jobs)-1], true
}

// WorkflowProgress contains the timestamps of a workflow run.
type WorkflowProgress struct {
	RunStartedAt  *string `json:"run_started_at,omitempty"`
	RunFinishedAt *string `json:"run_finished_at,omitempty"`
}

// WorkflowStatusResponse is the status of a workflow.
type WorkflowStatusResponse struct {
	ID       string           `json:"id"`
	Name     string           `json:"name"`
	Status   string           `json:"status"`
	User     string           `json:"user"`
	Logs     string           `json:"logs,omitempty"`
	Progress WorkflowProgress `json:"progress"`
}

// WorkflowSpecificationResponse is the specification a workflow was submitted with.
type WorkflowSpecificationResponse struct {
	Parameters    map[string]interface{} `json:"parameters"`
	Specification reana.Specification    `json:"specification"`
}

// DownloadedFile is a file downloaded from the workspace.
type DownloadedFile struct {
	Content   []byte
	Name      string
	IsArchive bool
}

// DataFetcher provides the workflow data the steps check.
// Clients implement it with REST calls, servers with database access.
type DataFetcher interface {
	ListFiles(ctx context.Context, workflow, fileName string) ([]WorkspaceFile, error)
	GetWorkflowDiskUsage(ctx context.Context, workflow string, params DiskUsageParameters) (*DiskUsageResponse, error)
	GetWorkflowLogs(ctx context.Context, workflow string, steps []string) (*WorkflowLogsResponse, error)
	GetWorkflowStatus(ctx context.Context, workflow string) (*WorkflowStatusResponse, error)
	GetWorkflowSpecification(ctx context.Context, workflow string) (*WorkflowSpecificationResponse, error)
	DownloadFile(ctx context.Context, workflow, fileName string) (*DownloadedFile, error)
}
