// SPDX-FileCopyrightText: 2024 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package reana

import (
	"fmt"

	reanaerrors "github.com/reanahub/reana-commons/pkg/common/error"
)

// WorkflowType is the engine a workflow specification is written for.
type WorkflowType string

const (
	WorkflowTypeSerial    WorkflowType = "serial"
	WorkflowTypeCWL       WorkflowType = "cwl"
	WorkflowTypeYadage    WorkflowType = "yadage"
	WorkflowTypeSnakemake WorkflowType = "snakemake"
)

// WorkflowTypes returns all supported workflow types.
func WorkflowTypes() []WorkflowType {
	return []WorkflowType{WorkflowTypeSerial, WorkflowTypeCWL, WorkflowTypeYadage, WorkflowTypeSnakemake}
}

// ParseWorkflowType returns the workflow type with the given name.
func ParseWorkflowType(name string) (WorkflowType, error) {
	for _, t := range WorkflowTypes() {
		if string(t) == name {
			return t, nil
		}
	}
	return "", reanaerrors.NewUnsupportedWorkflowTypeError(name)
}

func (t WorkflowType) String() string {
	return string(t)
}

// WorkflowStatus is the state of a workflow run.
type WorkflowStatus int

const (
	WorkflowStatusCreated WorkflowStatus = iota
	WorkflowStatusRunning
	WorkflowStatusFinished
	WorkflowStatusFailed
	WorkflowStatusDeleted
	WorkflowStatusStopped
	WorkflowStatusQueued
	WorkflowStatusPending
)

var workflowStatusNames = map[WorkflowStatus]string{
	WorkflowStatusCreated:  "created",
	WorkflowStatusRunning:  "running",
	WorkflowStatusFinished: "finished",
	WorkflowStatusFailed:   "failed",
	WorkflowStatusDeleted:  "deleted",
	WorkflowStatusStopped:  "stopped",
	WorkflowStatusQueued:   "queued",
	WorkflowStatusPending:  "pending",
}

func (s WorkflowStatus) String() string {
	if name, ok := workflowStatusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("WorkflowStatus(%d)", int(s))
}

// ParseWorkflowStatus returns the status with the given name.
func ParseWorkflowStatus(name string) (WorkflowStatus, error) {
	for status, n := range workflowStatusNames {
		if n == name {
			return status, nil
		}
	}
	return 0, fmt.Errorf("unknown workflow status %q", name)
}

// WarningType is the type of all advisory validation messages.
const WarningType = "warning"

// Warning is an advisory validation message. It never blocks a workflow submission.
type Warning struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// NewWarning creates a warning with the given message.
func NewWarning(format string, a ...interface{}) Warning {
	return Warning{
		Type:    WarningType,
		Message: fmt.Sprintf(format, a...),
	}
}

// AdditionalPropertyWarning reports a key that is not part of the reana.yaml schema.
type AdditionalPropertyWarning struct {
	Property string `json:"property"`
	Path     string `json:"path"`
}
