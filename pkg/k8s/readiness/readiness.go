// SPDX-FileCopyrightText: 2024 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package readiness

import (
	"context"

	"github.com/go-logr/logr"
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	batchv1 "k8s.io/api/batch/v1"
	corev1 "k8s.io/api/core/v1"
	"sigs.k8s.io/controller-runtime/pkg/client"

	"github.com/reanahub/reana-commons/pkg/util"
)

// Condition reports whether REANA can start new workflows.
type Condition func(ctx context.Context, c client.Client) (bool, error)

// pressureConditions must not be true on any node.
var pressureConditions = []corev1.NodeConditionType{
	corev1.NodeMemoryPressure,
	corev1.NodeDiskPressure,
	corev1.NodePIDPressure,
}

// CheckPredefinedConditions checks that all nodes are ready and not under pressure.
func CheckPredefinedConditions(ctx context.Context, c client.Client) (bool, error) {
	nodes := &corev1.NodeList{}
	if err := c.List(ctx, nodes); err != nil {
		return false, errors.Wrap(err, "unable to get node information")
	}
	for _, node := range nodes.Items {
		for _, cond := range node.Status.Conditions {
			if cond.Type == corev1.NodeReady && cond.Status != corev1.ConditionTrue {
				return false, nil
			}
			for _, pressure := range pressureConditions {
				if cond.Type == pressure && cond.Status == corev1.ConditionTrue {
					return false, nil
				}
			}
		}
	}
	return true, nil
}

// CheckRunningJobCount returns a condition that fails if more than max jobs exist in the cluster.
func CheckRunningJobCount(max int) Condition {
	return func(ctx context.Context, c client.Client) (bool, error) {
		jobs := &batchv1.JobList{}
		if err := c.List(ctx, jobs); err != nil {
			return false, errors.Wrap(err, "unable to get running job list")
		}
		return len(jobs.Items) <= max, nil
	}
}

// ReanaReady checks whether REANA can start new workflows.
// Failing lookups are logged and count as not ready.
func ReanaReady(ctx context.Context, log logr.Logger, c client.Client, maxConcurrentJobs int) bool {
	return Check(ctx, log, c, CheckPredefinedConditions, CheckRunningJobCount(maxConcurrentJobs))
}

// Check evaluates all conditions and returns false if one of them is not met.
func Check(ctx context.Context, log logr.Logger, c client.Client, conditions ...Condition) bool {
	var (
		result error
		ready  = true
	)
	for _, cond := range conditions {
		ok, err := cond(ctx, c)
		if err != nil {
			result = multierror.Append(result, err)
		}
		if !ok {
			ready = false
		}
	}
	if err := util.ReturnMultiError(result); err != nil {
		log.Error(err, "unable to check readiness of the cluster")
	}
	return ready
}
