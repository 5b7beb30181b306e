// SPDX-FileCopyrightText: 2024 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package validation

import (
	"strings"

	"k8s.io/utils/strings/slices"

	"github.com/reanahub/reana-commons/pkg/apis/reana"
	reanaerrors "github.com/reanahub/reana-commons/pkg/common/error"
)

// ValidateKubernetesQueues checks the kubernetes queues of all steps.
// If Kueue is enabled, steps without queue require a default queue.
func ValidateKubernetesQueues(spec reana.Specification, kueueEnabled bool, supported []string, defaultQueue string) error {
	workflowType, err := spec.Type()
	if err != nil {
		return reanaerrors.NewValidationErrorf("Unsupported workflow type: %s", reana.GetString(spec, "workflow", "type"))
	}
	workflowSpec := reana.AsMap(spec.WorkflowSpecification())

	var steps []interface{}
	switch workflowType {
	case reana.WorkflowTypeSerial, reana.WorkflowTypeSnakemake:
		steps = reana.GetSlice(workflowSpec, "steps")
	case reana.WorkflowTypeYadage:
		steps = reana.GetSlice(workflowSpec, "stages")
	case reana.WorkflowTypeCWL:
		for _, p := range cwlProcesses(workflowSpec) {
			steps = append(steps, p)
		}
	}

	for _, step := range steps {
		name := reana.GetString(step, "name")
		queue := reana.GetString(step, "kubernetes_queue")
		switch {
		case queue != "" && !kueueEnabled:
			return reanaerrors.NewValidationErrorf(`Kubernetes queue "%s" found in step "%s" but Kueue is not enabled.`, queue, name)
		case queue != "" && !slices.Contains(supported, queue):
			return reanaerrors.NewValidationErrorf(`Kubernetes queue "%s" in step "%s" is not in list of supported queues: %s`,
				queue, name, strings.Join(supported, ", "))
		case queue == "" && kueueEnabled && defaultQueue == "":
			return reanaerrors.NewValidationErrorf(`Kubernetes queue expected in step "%s" since Kueue is enabled and no default queue is set.`, name)
		}
	}
	return nil
}
