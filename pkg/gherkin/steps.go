// SPDX-FileCopyrightText: 2024 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package gherkin

import (
	"context"
	"crypto/md5"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"errors"
	"fmt"
	"hash"
	"hash/adler32"
	"strconv"
	"strings"
	"time"

	"github.com/reanahub/reana-commons/pkg/apis/reana"
)

// WorkflowTimeFormat is the format of the timestamps of workflow runs and jobs.
const WorkflowTimeFormat = "2006-01-02T15:04:05"

// DefaultRegistry returns a registry with the built-in steps.
func DefaultRegistry() *Registry {
	r := NewRegistry()

	r.mustRegister(StepTypeAction, "check_workflow_finished", checkWorkflowFinished,
		"the workflow execution completes")
	r.mustRegister(StepTypeAction, "check_workflow_status", checkWorkflowStatus,
		"the workflow status is {status_workflow}",
		"the workflow is {status_workflow}")

	r.mustRegister(StepTypeOutcome, "test_workflow_status", testWorkflowStatus,
		"the workflow status should be {status_workflow}",
		"the workflow should be {status_workflow}")
	r.mustRegister(StepTypeOutcome, "workspace_include_all_outputs", workspaceIncludeAllOutputs,
		"all the outputs should be included in the workspace",
		"the outputs should be included in the workspace")
	r.mustRegister(StepTypeOutcome, "workspace_include_specific_file", workspaceIncludeSpecificFile,
		"{filename} should be in the workspace",
		`the workspace should contain "{filename}"`,
		`the workspace should include "{filename}"`)
	r.mustRegister(StepTypeOutcome, "workspace_do_not_include_specific_file", workspaceDoNotIncludeSpecificFile,
		"{filename} should not be in the workspace",
		"the workspace should not contain {filename}",
		"the workspace should not include {filename}")
	r.mustRegister(StepTypeOutcome, "logs_contain", logsContain,
		`the logs should contain "{content}"`)
	r.mustRegister(StepTypeOutcome, "logs_engine_contain", logsEngineContain,
		`the engine logs should contain "{content}"`)
	r.mustRegister(StepTypeOutcome, "logs_job_contain", logsJobContain,
		`the job logs should contain "{content}"`)
	r.mustRegister(StepTypeOutcome, "logs_step_contain", logsStepContain,
		`the job logs for the {step_name} step should contain "{content}"`,
		`the job logs for the step {step_name} should contain "{content}"`)
	r.mustRegister(StepTypeOutcome, "file_content_contain", fileContentContain,
		`the file {filename} should contain "{content}"`,
		`the file {filename} should include "{content}"`)
	r.mustRegister(StepTypeOutcome, "file_checksum", fileChecksum,
		"the {algorithm} checksum of the file {filename} should be {checksum}")
	r.mustRegister(StepTypeOutcome, "duration_minimum_workflow", durationMinimumWorkflow,
		"the workflow run duration should be less than {n_minutes} minutes")
	r.mustRegister(StepTypeOutcome, "duration_minimum_step", durationMinimumStep,
		"the duration of the step {step_name} should be less than {n_minutes} minutes")
	r.mustRegister(StepTypeOutcome, "exact_file_size", exactFileSize,
		"the size of the file {filename} should be exactly {dim}")
	r.mustRegister(StepTypeOutcome, "approximate_file_size", approximateFileSize,
		"the size of the file {filename} should be between {dim1} and {dim2}")
	r.mustRegister(StepTypeOutcome, "workspace_size_maximum", workspaceSizeMaximum,
		"the workspace size should be less than {dim}")
	r.mustRegister(StepTypeOutcome, "workspace_size_minimum", workspaceSizeMinimum,
		"the workspace size should be more than {dim}")
	return r
}

func stripQuotes(s string) string {
	return strings.Trim(s, `"`)
}

func removePrefixes(s string, prefixes ...string) string {
	for _, p := range prefixes {
		s = strings.TrimPrefix(s, p)
	}
	return s
}

func assertf(ok bool, format string, a ...interface{}) error {
	if ok {
		return nil
	}
	return fmt.Errorf(format, a...)
}

func singleFileSize(ctx context.Context, workflow, filename string, fetcher DataFetcher) (raw int64, human string, err error) {
	files, err := fetcher.ListFiles(ctx, workflow, filename)
	if err != nil {
		return 0, "", err
	}
	if len(files) != 1 {
		return 0, "", fmt.Errorf("The specified file name (%s) is not in the workspace!", filename)
	}
	return files[0].Size.Raw, files[0].Size.HumanReadable, nil
}

func totalWorkspaceSize(ctx context.Context, workflow string, fetcher DataFetcher) (int64, error) {
	usage, err := fetcher.GetWorkflowDiskUsage(ctx, workflow, DiskUsageParameters{Summarize: true})
	if err != nil {
		return 0, err
	}
	if len(usage.DiskUsageInfo) == 0 {
		return 0, errors.New("The disk usage of the workspace is not available!")
	}
	return usage.DiskUsageInfo[0].Size.Raw, nil
}

func isFileInWorkspace(ctx context.Context, workflow, filename string, fetcher DataFetcher) (bool, error) {
	usage, err := fetcher.GetWorkflowDiskUsage(ctx, workflow, DiskUsageParameters{Summarize: false})
	if err != nil {
		return false, err
	}
	for _, entry := range usage.DiskUsageInfo {
		if entry.Name == filename || entry.Name == "/"+filename {
			return true, nil
		}
	}
	return false, nil
}

func workflowLogs(ctx context.Context, workflow string, steps []string, fetcher DataFetcher) (*WorkflowLogs, error) {
	resp, err := fetcher.GetWorkflowLogs(ctx, workflow, steps)
	if err != nil {
		return nil, err
	}
	return resp.Decode()
}

func jobLogsContain(ctx context.Context, workflow, content string, fetcher DataFetcher) (bool, error) {
	logs, err := workflowLogs(ctx, workflow, nil, fetcher)
	if err != nil {
		return false, err
	}
	for _, job := range logs.Jobs() {
		if strings.Contains(job.Logs, content) {
			return true, nil
		}
	}
	return false, nil
}

func engineLogsContain(ctx context.Context, workflow, content string, fetcher DataFetcher) (bool, error) {
	logs, err := workflowLogs(ctx, workflow, nil, fetcher)
	if err != nil {
		return false, err
	}
	return strings.Contains(logs.EngineLogs(), content), nil
}

func stepLog(ctx context.Context, workflow, stepName string, fetcher DataFetcher) (JobLog, error) {
	logs, err := workflowLogs(ctx, workflow, []string{stepName}, fetcher)
	if err != nil {
		return JobLog{}, err
	}
	job, ok := logs.LastJobLog()
	if !ok {
		return JobLog{}, errors.New("The specified step name is invalid!")
	}
	return job, nil
}

func workflowStatus(ctx context.Context, workflow string, fetcher DataFetcher) (string, error) {
	status, err := fetcher.GetWorkflowStatus(ctx, workflow)
	if err != nil {
		return "", err
	}
	return status.Status, nil
}

func checkWorkflowFinished(ctx context.Context, workflow string, _ map[string]string, fetcher DataFetcher) error {
	status, err := workflowStatus(ctx, workflow, fetcher)
	if err != nil {
		return err
	}
	if status != "finished" && status != "failed" {
		return Skip(`The execution of the workflow "%s" has not completed yet. Its status is "%s"`, workflow, status)
	}
	return nil
}

func checkWorkflowStatus(ctx context.Context, workflow string, args map[string]string, fetcher DataFetcher) error {
	expected := stripQuotes(args["status_workflow"])
	status, err := workflowStatus(ctx, workflow, fetcher)
	if err != nil {
		return err
	}
	if status != expected {
		return Skip(`The workflow "%s" is not "%s" status. Its status is "%s".`, workflow, expected, status)
	}
	return nil
}

func testWorkflowStatus(ctx context.Context, workflow string, args map[string]string, fetcher DataFetcher) error {
	expected := stripQuotes(args["status_workflow"])
	status, err := workflowStatus(ctx, workflow, fetcher)
	if err != nil {
		return err
	}
	return assertf(status == expected, `The workflow "%s" is not "%s". Its status is "%s".`, workflow, expected, status)
}

func workspaceIncludeAllOutputs(ctx context.Context, workflow string, _ map[string]string, fetcher DataFetcher) error {
	spec, err := fetcher.GetWorkflowSpecification(ctx, workflow)
	if err != nil {
		return err
	}
	var outputs []string
	for _, key := range []string{"files", "directories"} {
		for _, v := range reana.GetSlice(spec.Specification, "outputs", key) {
			outputs = append(outputs, reana.ToString(v))
		}
	}
	for _, filename := range outputs {
		ok, err := isFileInWorkspace(ctx, workflow, filename, fetcher)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf(`The workspace does not contain "%s"!`, filename)
		}
	}
	return nil
}

func workspaceIncludeSpecificFile(ctx context.Context, workflow string, args map[string]string, fetcher DataFetcher) error {
	filename := stripQuotes(args["filename"])
	ok, err := isFileInWorkspace(ctx, workflow, filename, fetcher)
	if err != nil {
		return err
	}
	return assertf(ok, `The workspace does not contain "%s"!`, filename)
}

func workspaceDoNotIncludeSpecificFile(ctx context.Context, workflow string, args map[string]string, fetcher DataFetcher) error {
	filename := stripQuotes(args["filename"])
	ok, err := isFileInWorkspace(ctx, workflow, filename, fetcher)
	if err != nil {
		return err
	}
	return assertf(!ok, `The workspace contains "%s"!`, filename)
}

func logsContain(ctx context.Context, workflow string, args map[string]string, fetcher DataFetcher) error {
	content := args["content"]
	ok, err := engineLogsContain(ctx, workflow, content, fetcher)
	if err != nil {
		return err
	}
	if !ok {
		if ok, err = jobLogsContain(ctx, workflow, content, fetcher); err != nil {
			return err
		}
	}
	return assertf(ok, `The logs do not contain "%s"!`, content)
}

func logsEngineContain(ctx context.Context, workflow string, args map[string]string, fetcher DataFetcher) error {
	ok, err := engineLogsContain(ctx, workflow, args["content"], fetcher)
	if err != nil {
		return err
	}
	return assertf(ok, `The engine logs do not contain "%s"!`, args["content"])
}

func logsJobContain(ctx context.Context, workflow string, args map[string]string, fetcher DataFetcher) error {
	ok, err := jobLogsContain(ctx, workflow, args["content"], fetcher)
	if err != nil {
		return err
	}
	return assertf(ok, `The job logs do not contain "%s"!`, args["content"])
}

func logsStepContain(ctx context.Context, workflow string, args map[string]string, fetcher DataFetcher) error {
	stepName := stripQuotes(args["step_name"])
	content := args["content"]
	if err := logsContain(ctx, workflow, args, fetcher); err != nil {
		return err
	}
	job, err := stepLog(ctx, workflow, stepName, fetcher)
	if err != nil {
		return err
	}
	return assertf(strings.Contains(job.Logs, content),
		`The logs for the step "%s" do not contain the specified content "%s". Logs: "%s"`, stepName, content, job.Logs)
}

func fileContentContain(ctx context.Context, workflow string, args map[string]string, fetcher DataFetcher) error {
	filename := stripQuotes(args["filename"])
	if !strings.HasPrefix(filename, "/") {
		filename = "/" + filename
	}
	file, err := fetcher.DownloadFile(ctx, workflow, filename)
	if err != nil {
		return err
	}
	if file.IsArchive {
		return Skip("This test is not supported for archive files.")
	}
	return assertf(strings.Contains(string(file.Content), args["content"]), `The file does not contain "%s"!`, args["content"])
}

var checksumAlgorithms = map[string]func() hash.Hash{
	"md5":     md5.New,
	"sha256":  sha256.New,
	"sha512":  sha512.New,
	"adler32": func() hash.Hash { return adler32.New() },
}

func fileChecksum(ctx context.Context, workflow string, args map[string]string, fetcher DataFetcher) error {
	filename := stripQuotes(args["filename"])
	checksum := stripQuotes(args["checksum"])
	algorithm := strings.ToLower(stripQuotes(args["algorithm"]))
	newHash, ok := checksumAlgorithms[algorithm]
	if !ok {
		return errors.New("The specified checksum algorithm is not supported! Supported algorithms: {'sha256', 'sha512', 'md5', 'adler32'}")
	}
	file, err := fetcher.DownloadFile(ctx, workflow, filename)
	if err != nil {
		return err
	}

	var computed string
	if algorithm == "adler32" {
		computed = strconv.FormatUint(uint64(adler32.Checksum(file.Content)), 16)
		checksum = strings.TrimPrefix(strings.ToLower(checksum), "0x")
	} else {
		h := newHash()
		h.Write(file.Content)
		computed = hex.EncodeToString(h.Sum(nil))
	}
	return assertf(computed == checksum,
		`The checksum of the file "%s" is not "%s"! Actual checksum: "%s"`, filename, checksum, computed)
}

func parseMinutes(s string) (float64, error) {
	minutes, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("could not convert string to float: '%s'", s)
	}
	return minutes, nil
}

func duration(started, finished string) (time.Duration, error) {
	start, err := time.Parse(WorkflowTimeFormat, started)
	if err != nil {
		return 0, err
	}
	end, err := time.Parse(WorkflowTimeFormat, finished)
	if err != nil {
		return 0, err
	}
	return end.Sub(start), nil
}

func durationMinimumWorkflow(ctx context.Context, workflow string, args map[string]string, fetcher DataFetcher) error {
	nMinutes := stripQuotes(args["n_minutes"])
	maximum, err := parseMinutes(nMinutes)
	if err != nil {
		return err
	}
	status, err := fetcher.GetWorkflowStatus(ctx, workflow)
	if err != nil {
		return err
	}
	if status.Progress.RunStartedAt == nil || status.Progress.RunFinishedAt == nil {
		return fmt.Errorf(`The workflow "%s" has no run duration!`, workflow)
	}
	d, err := duration(*status.Progress.RunStartedAt, *status.Progress.RunFinishedAt)
	if err != nil {
		return err
	}
	return assertf(d.Minutes() < maximum,
		"The workflow took more than %s minutes to complete! Run duration: %s minutes", nMinutes, formatFloat(d.Minutes()))
}

func durationMinimumStep(ctx context.Context, workflow string, args map[string]string, fetcher DataFetcher) error {
	stepName := stripQuotes(args["step_name"])
	nMinutes := stripQuotes(args["n_minutes"])
	maximum, err := parseMinutes(nMinutes)
	if err != nil {
		return err
	}
	job, err := stepLog(ctx, workflow, stepName, fetcher)
	if err != nil {
		return err
	}
	d, err := duration(job.StartedAt, job.FinishedAt)
	if err != nil {
		return err
	}
	return assertf(d.Minutes() < maximum,
		"The step took more than %s minutes to complete! Run duration: %s minutes", nMinutes, formatFloat(d.Minutes()))
}

func exactFileSize(ctx context.Context, workflow string, args map[string]string, fetcher DataFetcher) error {
	dim, err := HumanReadableToRaw(stripQuotes(args["dim"]))
	if err != nil {
		return err
	}
	filename := removePrefixes(stripQuotes(args["filename"]), "./", "/")
	raw, human, err := singleFileSize(ctx, workflow, filename, fetcher)
	if err != nil {
		return err
	}
	return assertf(raw == dim,
		`The size of the file "%s" is not %d! Actual size: %d bytes (%s)`, filename, dim, raw, human)
}

func approximateFileSize(ctx context.Context, workflow string, args map[string]string, fetcher DataFetcher) error {
	dim1, err := HumanReadableToRaw(stripQuotes(args["dim1"]))
	if err != nil {
		return err
	}
	dim2, err := HumanReadableToRaw(stripQuotes(args["dim2"]))
	if err != nil {
		return err
	}
	if dim1 > dim2 {
		dim1, dim2 = dim2, dim1
	}
	filename := removePrefixes(stripQuotes(args["filename"]), "./", "/")
	raw, human, err := singleFileSize(ctx, workflow, filename, fetcher)
	if err != nil {
		return err
	}
	return assertf(dim1 <= raw && raw <= dim2,
		`The size of the file "%s" is not between %s and %s bytes! Actual size: %d bytes (%s).`, filename, args["dim1"], args["dim2"], raw, human)
}

func workspaceSizeMaximum(ctx context.Context, workflow string, args map[string]string, fetcher DataFetcher) error {
	dim, err := HumanReadableToRaw(stripQuotes(args["dim"]))
	if err != nil {
		return err
	}
	size, err := totalWorkspaceSize(ctx, workflow, fetcher)
	if err != nil {
		return err
	}
	return assertf(size <= dim, "The workspace size is more than %s! Workspace size: %d bytes", args["dim"], size)
}

func workspaceSizeMinimum(ctx context.Context, workflow string, args map[string]string, fetcher DataFetcher) error {
	dim, err := HumanReadableToRaw(stripQuotes(args["dim"]))
	if err != nil {
		return err
	}
	size, err := totalWorkspaceSize(ctx, workflow, fetcher)
	if err != nil {
		return err
	}
	return assertf(size >= dim, "The workspace size is less than %s! Workspace size: %d bytes", args["dim"], size)
}
