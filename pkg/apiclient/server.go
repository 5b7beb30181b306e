// SPDX-FileCopyrightText: 2024 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package apiclient

import (
	"context"
	"encoding/json"
	"mime"
	"net/http"
	"net/url"
	"path"
	"strings"

	"github.com/go-logr/logr"
	"github.com/pkg/errors"

	"github.com/reanahub/reana-commons/pkg/gherkin"
)

// ServerClient reads workflow data from the REST API of the REANA server.
type ServerClient struct {
	*client
	accessToken string
}

var _ gherkin.DataFetcher = &ServerClient{}

// NewServerClient creates a client for the REANA server at the given url.
func NewServerClient(log logr.Logger, endpoint, accessToken string, opts Options) (*ServerClient, error) {
	c, err := newClient(log.WithName("server-client"), endpoint, opts)
	if err != nil {
		return nil, err
	}
	return &ServerClient{client: c, accessToken: accessToken}, nil
}

func (c *ServerClient) query() url.Values {
	q := url.Values{}
	if c.accessToken != "" {
		q.Set("access_token", c.accessToken)
	}
	return q
}

func workflowPath(workflow string, elems ...string) string {
	return path.Join(append([]string{"/api/workflows", workflow}, elems...)...)
}

type listFilesResponse struct {
	Items []gherkin.WorkspaceFile `json:"items"`
	Total int                     `json:"total"`
}

// ListFiles lists the files of the workspace.
// A non empty file name restricts the listing to files with that name.
func (c *ServerClient) ListFiles(ctx context.Context, workflow, fileName string) ([]gherkin.WorkspaceFile, error) {
	q := c.query()
	if fileName != "" {
		q.Set("file_name", fileName)
	}
	res := &listFilesResponse{}
	if err := c.requestJSON(ctx, http.MethodGet, workflowPath(workflow, "workspace"), q, nil, res); err != nil {
		return nil, errors.Wrapf(err, "unable to list the files of workflow %s", workflow)
	}
	return res.Items, nil
}

// GetWorkflowDiskUsage returns the disk usage of the workspace.
func (c *ServerClient) GetWorkflowDiskUsage(ctx context.Context, workflow string, params gherkin.DiskUsageParameters) (*gherkin.DiskUsageResponse, error) {
	q := c.query()
	if params.Summarize {
		q.Set("summarize", "true")
	}
	if params.Search != nil {
		search, err := json.Marshal(params.Search)
		if err != nil {
			return nil, errors.Wrap(err, "unable to marshal disk usage search")
		}
		q.Set("search", string(search))
	}
	res := &gherkin.DiskUsageResponse{}
	if err := c.requestJSON(ctx, http.MethodGet, workflowPath(workflow, "disk_usage"), q, nil, res); err != nil {
		return nil, errors.Wrapf(err, "unable to get the disk usage of workflow %s", workflow)
	}
	return res, nil
}

// GetWorkflowLogs returns the logs of the workflow, optionally restricted to some steps.
func (c *ServerClient) GetWorkflowLogs(ctx context.Context, workflow string, steps []string) (*gherkin.WorkflowLogsResponse, error) {
	q := c.query()
	for _, step := range steps {
		q.Add("steps", step)
	}
	res := &gherkin.WorkflowLogsResponse{}
	if err := c.requestJSON(ctx, http.MethodGet, workflowPath(workflow, "logs"), q, nil, res); err != nil {
		return nil, errors.Wrapf(err, "unable to get the logs of workflow %s", workflow)
	}
	return res, nil
}

// GetWorkflowStatus returns the status of the workflow.
func (c *ServerClient) GetWorkflowStatus(ctx context.Context, workflow string) (*gherkin.WorkflowStatusResponse, error) {
	res := &gherkin.WorkflowStatusResponse{}
	if err := c.requestJSON(ctx, http.MethodGet, workflowPath(workflow, "status"), c.query(), nil, res); err != nil {
		return nil, errors.Wrapf(err, "unable to get the status of workflow %s", workflow)
	}
	return res, nil
}

// GetWorkflowSpecification returns the reana.yaml and the input parameters of the workflow.
func (c *ServerClient) GetWorkflowSpecification(ctx context.Context, workflow string) (*gherkin.WorkflowSpecificationResponse, error) {
	res := &gherkin.WorkflowSpecificationResponse{}
	if err := c.requestJSON(ctx, http.MethodGet, workflowPath(workflow, "specification"), c.query(), nil, res); err != nil {
		return nil, errors.Wrapf(err, "unable to get the specification of workflow %s", workflow)
	}
	return res, nil
}

// DownloadFile downloads a file of the workspace.
// Directories and globs are returned by the server as zip archives.
func (c *ServerClient) DownloadFile(ctx context.Context, workflow, fileName string) (*gherkin.DownloadedFile, error) {
	fileName = strings.TrimPrefix(fileName, "/")
	data, header, err := c.request(ctx, http.MethodGet, workflowPath(workflow, "workspace", fileName), c.query(), nil)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to download %s of workflow %s", fileName, workflow)
	}
	file := &gherkin.DownloadedFile{
		Content: data,
		Name:    path.Base(fileName),
	}
	if _, params, err := mime.ParseMediaType(header.Get("Content-Disposition")); err == nil && params["filename"] != "" {
		file.Name = params["filename"]
	}
	if mediaType, _, err := mime.ParseMediaType(header.Get("Content-Type")); err == nil && mediaType == "application/zip" {
		file.IsArchive = true
	}
	return file, nil
}
