// SPDX-FileCopyrightText: 2024 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package mq

// WorkflowStatusMessage is published to the jobs-status queue.
// The status doubles as the priority of the message.
type WorkflowStatusMessage struct {
	WorkflowUUID string                 `json:"workflow_uuid"`
	Logs         string                 `json:"logs"`
	Status       int                    `json:"status"`
	Priority     int                    `json:"priority"`
	Message      map[string]interface{} `json:"message"`
}

// WorkflowSubmissionMessage is published to the workflow-submission queue.
type WorkflowSubmissionMessage struct {
	User             string                 `json:"user"`
	WorkflowIDOrName string                 `json:"workflow_id_or_name"`
	Parameters       map[string]interface{} `json:"parameters"`
	Priority         int                    `json:"priority"`
	MinJobMemory     float64                `json:"min_job_memory"`
}
