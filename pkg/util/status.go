// SPDX-FileCopyrightText: 2024 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package util

import (
	"fmt"
	"strings"
)

// GetWorkflowStatusChangeVerb returns the verb matching the tense of a status, e.g. "is" for "running".
func GetWorkflowStatusChangeVerb(status string) (string, error) {
	switch {
	case strings.HasSuffix(status, "ing"):
		return "is", nil
	case strings.HasSuffix(status, "ed"):
		return "has been", nil
	}
	return "", fmt.Errorf("Unrecognised status %s", status)
}

// JobProgress counts the jobs of a workflow run in a state.
type JobProgress struct {
	Total    map[string]interface{}
	Running  map[string]interface{}
	Finished map[string]interface{}
	Failed   map[string]interface{}
	Cached   map[string]interface{}
}

// BuildProgressMessage builds the progress part of a workflow status message.
// Empty states are omitted.
func BuildProgressMessage(progress JobProgress) map[string]interface{} {
	message := map[string]interface{}{}
	add := func(key string, value map[string]interface{}) {
		if len(value) != 0 {
			message[key] = value
		}
	}
	add("total", progress.Total)
	add("running", progress.Running)
	add("finished", progress.Finished)
	add("failed", progress.Failed)
	add("cached", progress.Cached)
	return message
}

// BuildCachingInfoMessage builds the message that records the result of a cached job.
func BuildCachingInfoMessage(jobSpec map[string]interface{}, jobID, workflowWorkspace string, workflowJSON interface{}, resultPath string) map[string]interface{} {
	return map[string]interface{}{
		"job_spec":           jobSpec,
		"job_id":             jobID,
		"workflow_workspace": workflowWorkspace,
		"workflow_json":      workflowJSON,
		"result_path":        resultPath,
	}
}
