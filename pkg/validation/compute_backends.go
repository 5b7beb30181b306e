// SPDX-FileCopyrightText: 2024 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package validation

import (
	"strconv"
	"strings"

	"k8s.io/utils/strings/slices"

	"github.com/reanahub/reana-commons/pkg/apis/reana"
	reanaerrors "github.com/reanahub/reana-commons/pkg/common/error"
)

// ValidateComputeBackends checks that every step only uses supported compute backends.
func ValidateComputeBackends(spec reana.Specification, supported []string) error {
	workflowType, err := spec.Type()
	if err != nil {
		return err
	}
	workflowSpec := reana.AsMap(spec.WorkflowSpecification())

	check := func(backend, step string) error {
		if backend == "" || slices.Contains(supported, backend) {
			return nil
		}
		return reanaerrors.NewValidationErrorf(`Compute backend "%s" found in step "%s" is not supported. List of supported compute backends: "%s"`,
			backend, step, strings.Join(supported, ", "))
	}

	switch workflowType {
	case reana.WorkflowTypeSerial, reana.WorkflowTypeSnakemake:
		for idx, step := range reana.GetSlice(workflowSpec, "steps") {
			if err := check(reana.GetString(step, "compute_backend"), stepName(step, idx)); err != nil {
				return err
			}
		}
	case reana.WorkflowTypeYadage:
		return validateYadageComputeBackends(reana.GetSlice(workflowSpec, "stages"), check)
	case reana.WorkflowTypeCWL:
		for _, process := range cwlProcesses(workflowSpec) {
			for idx, step := range reana.GetSlice(process, "steps") {
				name := reana.GetString(step, "id")
				if name == "" {
					name = strconv.Itoa(idx)
				}
				if err := check(reana.GetString(cwlReanaHint(step), "compute_backend"), name); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func validateYadageComputeBackends(stages []interface{}, check func(backend, step string) error) error {
	for _, stage := range stages {
		if nested, ok := reana.Get(stage, "scheduler", "workflow"); ok {
			if err := validateYadageComputeBackends(reana.GetSlice(nested, "stages"), check); err != nil {
				return err
			}
			continue
		}
		for _, resource := range reana.GetSlice(stage, "scheduler", "step", "environment", "resources") {
			if backend, ok := reana.Get(resource, "compute_backend"); ok {
				if err := check(reana.ToString(backend), reana.GetString(stage, "name")); err != nil {
					return err
				}
				break
			}
		}
	}
	return nil
}

// cwlReanaHint returns the hint of class "reana" of a cwl step.
func cwlReanaHint(step interface{}) map[string]interface{} {
	for _, hint := range reana.GetSlice(step, "hints") {
		if reana.GetString(hint, "class") == "reana" {
			return reana.AsMap(hint)
		}
	}
	return nil
}
