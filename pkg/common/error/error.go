// SPDX-FileCopyrightText: 2024 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package errors

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// error reasons
type CommonReason string

const (
	// error is not clear
	ReasonUnknown CommonReason = ""

	// the specification or one of its values is invalid
	ReasonValidation CommonReason = "Validation"

	// referenced user secrets do not exist
	ReasonSecretDoesNotExist CommonReason = "SecretDoesNotExist"

	// a user secret with the same name already exists
	ReasonSecretAlreadyExists CommonReason = "SecretAlreadyExists"

	// the address of a REANA service is not configured
	ReasonMissingAPIClientConfiguration CommonReason = "MissingAPIClientConfiguration"

	// a referenced configuration does not exist
	ReasonConfigDoesNotExist CommonReason = "ConfigDoesNotExist"

	// an email notification could not be sent
	ReasonEmailNotification CommonReason = "EmailNotification"

	// the workspace of a workflow does not exist
	ReasonMissingWorkspace CommonReason = "MissingWorkspace"

	// a user quota is exceeded
	ReasonQuotaExceeded CommonReason = "QuotaExceeded"

	// a kubernetes memory value is malformed
	ReasonWrongMemoryFormat CommonReason = "WrongMemoryFormat"

	// a kubernetes memory value exceeds the configured maximum
	ReasonMemoryLimitExceeded CommonReason = "MemoryLimitExceeded"

	// the job controller rejected a job
	ReasonJobSubmission CommonReason = "JobSubmission"

	// the workflow type is not known
	ReasonUnsupportedWorkflowType CommonReason = "UnsupportedWorkflowType"

	// an external tool like cwltool failed
	ReasonExternalTool CommonReason = "ExternalTool"
)

type commonError struct {
	message string
	reason  CommonReason
}

var _ error = &commonError{}

// Error implements the error interface
func (e *commonError) Error() string {
	return e.message
}

// Reason returns the reason of the error.
func (e *commonError) Reason() CommonReason {
	return e.reason
}

type secretsError struct {
	commonError
	secrets []string
}

// newError returns a new common error with a reason
func newError(reason CommonReason, message string) error {
	return &commonError{
		message: message,
		reason:  reason,
	}
}

// NewValidationError returns an error indicating that a specification is invalid.
func NewValidationError(message string) error {
	return newError(ReasonValidation, message)
}

// NewValidationErrorf formats the message of a validation error.
func NewValidationErrorf(format string, a ...interface{}) error {
	return newError(ReasonValidation, fmt.Sprintf(format, a...))
}

// NewSecretDoesNotExistError returns an error listing the missing secrets.
func NewSecretDoesNotExistError(missing []string) error {
	return &secretsError{
		commonError: commonError{
			message: fmt.Sprintf("Operation cancelled. Secrets %s do not exist.", pyList(missing)),
			reason:  ReasonSecretDoesNotExist,
		},
		secrets: missing,
	}
}

// NewSecretAlreadyExistsError returns an error for a secret that would be overwritten.
func NewSecretAlreadyExistsError(name string) error {
	return &secretsError{
		commonError: commonError{
			message: fmt.Sprintf("Operation cancelled. Secret %s already exists. If you want change it use overwrite", name),
			reason:  ReasonSecretAlreadyExists,
		},
		secrets: []string{name},
	}
}

// NewMissingAPIClientConfigurationError returns an error for an unset service address.
func NewMissingAPIClientConfigurationError(message string) error {
	return newError(ReasonMissingAPIClientConfiguration, message)
}

// NewConfigDoesNotExistError returns an error for a configuration that cannot be found.
func NewConfigDoesNotExistError(message string) error {
	return newError(ReasonConfigDoesNotExist, message)
}

// NewEmailNotificationError returns an error indicating that a notification was not delivered.
func NewEmailNotificationError(message string) error {
	return newError(ReasonEmailNotification, message)
}

// NewMissingWorkspaceError returns an error for a workspace that does not exist.
func NewMissingWorkspaceError(message string) error {
	return newError(ReasonMissingWorkspace, message)
}

// NewQuotaExceededError returns an error indicating an exceeded user quota.
// An empty message defaults to "User quota exceeded.".
func NewQuotaExceededError(message string) error {
	if message == "" {
		message = "User quota exceeded."
	}
	return newError(ReasonQuotaExceeded, message)
}

// NewWrongMemoryFormatError returns an error for a malformed kubernetes memory value.
func NewWrongMemoryFormatError(message string) error {
	return newError(ReasonWrongMemoryFormat, message)
}

// NewMemoryLimitExceededError returns an error for a memory value above the configured maximum.
func NewMemoryLimitExceededError(message string) error {
	return newError(ReasonMemoryLimitExceeded, message)
}

// NewJobSubmissionError returns an error for a job that was rejected by the job controller.
func NewJobSubmissionError(message string) error {
	return newError(ReasonJobSubmission, fmt.Sprintf("Job submission error: %s", message))
}

// NewUnsupportedWorkflowTypeError returns an error for an unknown workflow type.
func NewUnsupportedWorkflowTypeError(workflowType string) error {
	return newError(ReasonUnsupportedWorkflowType, fmt.Sprintf("Unsupported workflow type: %s", workflowType))
}

// NewExternalToolError wraps the failure of an external tool.
func NewExternalToolError(tool string, err error) error {
	return newError(ReasonExternalTool, fmt.Sprintf("%s failed: %s", tool, err.Error()))
}

// IsValidation determines if the error indicates an invalid specification
func IsValidation(err error) bool {
	return reasonForError(err) == ReasonValidation
}

// IsSecretDoesNotExist determines if the error indicates missing secrets
func IsSecretDoesNotExist(err error) bool {
	return reasonForError(err) == ReasonSecretDoesNotExist
}

// IsSecretAlreadyExists determines if the error indicates an already existing secret
func IsSecretAlreadyExists(err error) bool {
	return reasonForError(err) == ReasonSecretAlreadyExists
}

// IsMissingAPIClientConfiguration determines if a service address is not configured
func IsMissingAPIClientConfiguration(err error) bool {
	return reasonForError(err) == ReasonMissingAPIClientConfiguration
}

// IsConfigDoesNotExist determines if the error indicates a missing configuration
func IsConfigDoesNotExist(err error) bool {
	return reasonForError(err) == ReasonConfigDoesNotExist
}

// IsEmailNotification determines if the error indicates a failed notification
func IsEmailNotification(err error) bool {
	return reasonForError(err) == ReasonEmailNotification
}

// IsMissingWorkspace determines if the error indicates a missing workspace
func IsMissingWorkspace(err error) bool {
	return reasonForError(err) == ReasonMissingWorkspace
}

// IsQuotaExceeded determines if the error indicates an exceeded quota
func IsQuotaExceeded(err error) bool {
	return reasonForError(err) == ReasonQuotaExceeded
}

// IsWrongMemoryFormat determines if the error indicates a malformed memory value
func IsWrongMemoryFormat(err error) bool {
	return reasonForError(err) == ReasonWrongMemoryFormat
}

// IsMemoryLimitExceeded determines if the error indicates a memory value above the maximum
func IsMemoryLimitExceeded(err error) bool {
	return reasonForError(err) == ReasonMemoryLimitExceeded
}

// IsJobSubmission determines if the error indicates a rejected job
func IsJobSubmission(err error) bool {
	return reasonForError(err) == ReasonJobSubmission
}

// IsUnsupportedWorkflowType determines if the error indicates an unknown workflow type
func IsUnsupportedWorkflowType(err error) bool {
	return reasonForError(err) == ReasonUnsupportedWorkflowType
}

// IsExternalTool determines if the error was caused by an external tool
func IsExternalTool(err error) bool {
	return reasonForError(err) == ReasonExternalTool
}

// Secrets returns the secret names attached to a secret error.
func Secrets(err error) []string {
	if t, ok := errors.Cause(err).(*secretsError); ok {
		return t.secrets
	}
	return nil
}

// reasonForError returns the CommonReason for a particular error.
func reasonForError(err error) CommonReason {
	switch t := errors.Cause(err).(type) {
	case *commonError:
		return t.reason
	case *secretsError:
		return t.reason
	}
	return ReasonUnknown
}

func pyList(items []string) string {
	quoted := make([]string, len(items))
	for i, item := range items {
		quoted[i] = fmt.Sprintf("'%s'", item)
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}
