// SPDX-FileCopyrightText: 2024 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package apiclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/go-logr/logr"
	"github.com/pkg/errors"

	reanaerrors "github.com/reanahub/reana-commons/pkg/common/error"
	"github.com/reanahub/reana-commons/pkg/util"
)

// JobSpec describes a job submitted by a workflow engine.
type JobSpec struct {
	WorkflowUUID      string
	Image             string
	Cmd               string
	PrettifiedCmd     string
	WorkflowWorkspace string
	JobName           string
	// CVMFSMounts is the comma separated list of repositories or "false".
	CVMFSMounts string

	ComputeBackend          string
	Kerberos                bool
	VOMSProxy               bool
	KubernetesUID           int64
	KubernetesMemoryLimit   string
	UnpackedImage           bool
	HTCondorMaxRuntime      string
	HTCondorAccountingGroup string
}

// body renders the request of the job controller.
// Optional fields are only set when they differ from their zero value.
func (s JobSpec) body() map[string]interface{} {
	cvmfs := s.CVMFSMounts
	if cvmfs == "" {
		cvmfs = "false"
	}
	body := map[string]interface{}{
		"docker_img":         s.Image,
		"cmd":                util.SerialiseJobCommand(s.Cmd),
		"prettified_cmd":     s.PrettifiedCmd,
		"env_vars":           map[string]string{},
		"workflow_workspace": s.WorkflowWorkspace,
		"job_name":           s.JobName,
		"cvmfs_mounts":       cvmfs,
		"workflow_uuid":      s.WorkflowUUID,
	}
	if s.ComputeBackend != "" {
		body["compute_backend"] = s.ComputeBackend
	}
	if s.Kerberos {
		body["kerberos"] = true
	}
	if s.VOMSProxy {
		body["voms_proxy"] = true
	}
	if s.KubernetesUID != 0 {
		body["kubernetes_uid"] = s.KubernetesUID
	}
	if s.KubernetesMemoryLimit != "" {
		body["kubernetes_memory_limit"] = s.KubernetesMemoryLimit
	}
	if s.UnpackedImage {
		body["unpacked_img"] = true
	}
	if s.HTCondorMaxRuntime != "" {
		body["htcondor_max_runtime"] = s.HTCondorMaxRuntime
	}
	if s.HTCondorAccountingGroup != "" {
		body["htcondor_accounting_group"] = s.HTCondorAccountingGroup
	}
	return body
}

// JobCreated is the response of a job submission.
type JobCreated struct {
	JobID string `json:"job_id"`
}

// Job is the state of a job known to the job controller.
type Job struct {
	JobID           string `json:"job_id"`
	Status          string `json:"status"`
	Cmd             string `json:"cmd,omitempty"`
	DockerImage     string `json:"docker_img,omitempty"`
	CVMFSMounts     string `json:"cvmfs_mounts,omitempty"`
	RestartCount    int    `json:"restart_count,omitempty"`
	MaxRestartCount int    `json:"max_restart_count,omitempty"`
}

// CacheResult tells whether a job result can be reused.
type CacheResult struct {
	Cached     bool   `json:"cached"`
	ResultPath string `json:"result_path,omitempty"`
	JobID      string `json:"job_id,omitempty"`
}

// JobControllerClient talks to the REANA job controller.
type JobControllerClient struct {
	*client
}

// NewJobControllerClient creates a client for the job controller at the given url.
func NewJobControllerClient(log logr.Logger, endpoint string, opts Options) (*JobControllerClient, error) {
	c, err := newClient(log.WithName("job-controller-client"), endpoint, opts)
	if err != nil {
		return nil, err
	}
	return &JobControllerClient{client: c}, nil
}

// Submit submits a job and returns its id.
func (c *JobControllerClient) Submit(ctx context.Context, spec JobSpec) (*JobCreated, error) {
	created := &JobCreated{}
	err := c.requestJSON(ctx, http.MethodPost, "/jobs", nil, spec.body(), created)
	if err != nil {
		var httpErr *HTTPError
		if errors.As(err, &httpErr) {
			return nil, reanaerrors.NewJobSubmissionError(httpErr.Message())
		}
		c.log.Error(err, "unable to submit job", "job", spec.JobName)
		return nil, err
	}
	c.log.V(3).Info("job submitted", "job", spec.JobName, "id", created.JobID)
	return created, nil
}

// CheckStatus returns the current state of a job.
func (c *JobControllerClient) CheckStatus(ctx context.Context, jobID string) (*Job, error) {
	job := &Job{}
	if err := c.requestJSON(ctx, http.MethodGet, "/jobs/"+jobID, nil, nil, job); err != nil {
		return nil, notFound(err)
	}
	return job, nil
}

// GetLogs returns the logs of a job.
func (c *JobControllerClient) GetLogs(ctx context.Context, jobID string) (string, error) {
	data, _, err := c.request(ctx, http.MethodGet, "/jobs/"+jobID+"/logs", nil, nil)
	if err != nil {
		return "", notFound(err)
	}
	return string(data), nil
}

// CheckIfCached asks the job cache whether the step was already run with the same inputs.
func (c *JobControllerClient) CheckIfCached(ctx context.Context, jobSpec, step map[string]interface{}, workflowWorkspace string) (*CacheResult, error) {
	specJSON, err := json.Marshal(jobSpec)
	if err != nil {
		return nil, errors.Wrap(err, "unable to marshal job spec")
	}
	stepJSON, err := json.Marshal(step)
	if err != nil {
		return nil, errors.Wrap(err, "unable to marshal workflow step")
	}
	query := url.Values{}
	query.Set("job_spec", string(specJSON))
	query.Set("workflow_json", string(stepJSON))
	query.Set("workflow_workspace", workflowWorkspace)

	result := &CacheResult{}
	if err := c.requestJSON(ctx, http.MethodGet, "/job_cache", query, nil, result); err != nil {
		switch StatusCode(err) {
		case http.StatusBadRequest:
			return nil, errors.Wrap(err, "Bad request to check cache")
		case http.StatusInternalServerError:
			return nil, errors.Wrap(err, "Internal Server Error")
		}
		return nil, err
	}
	return result, nil
}

func notFound(err error) error {
	if StatusCode(err) == http.StatusNotFound {
		return errors.Wrap(err, "The given job ID was not found")
	}
	return err
}

// ConnectionCheckOptions configures CheckConnectionToJobController.
type ConnectionCheckOptions struct {
	Attempts uint
	Delay    time.Duration
}

// DefaultConnectionCheckOptions waits up to 50 seconds for the job controller.
var DefaultConnectionCheckOptions = ConnectionCheckOptions{
	Attempts: 5,
	Delay:    10 * time.Second,
}

// CheckConnectionToJobController waits until the job controller answers on /jobs.
// An unreachable job controller is logged and reported but callers usually continue.
func CheckConnectionToJobController(ctx context.Context, log logr.Logger, endpoint string, opts ConnectionCheckOptions) error {
	c, err := newClient(log, endpoint, Options{RetryMax: 0, Timeout: 10 * time.Second})
	if err != nil {
		return err
	}
	err = retry.Do(func() error {
		_, _, err := c.request(ctx, http.MethodGet, "/jobs", nil, nil)
		return err
	},
		retry.Context(ctx),
		retry.Attempts(opts.Attempts),
		retry.Delay(opts.Delay),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			log.V(3).Info("job controller not reachable yet", "attempt", n+1, "error", err.Error())
		}),
	)
	if err != nil {
		log.Error(err, "Job controller is not reachable.")
		return fmt.Errorf("job controller at %s is not reachable: %w", endpoint, err)
	}
	return nil
}
