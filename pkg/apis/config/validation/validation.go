// SPDX-FileCopyrightText: 2024 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package validation

import (
	"k8s.io/apimachinery/pkg/util/sets"
	"k8s.io/apimachinery/pkg/util/validation/field"

	"github.com/reanahub/reana-commons/pkg/apis/config"
)

var (
	supportedStorageBackends = sets.New("local", "network")
	knownComputeBackends     = sets.New("kubernetes", "htcondorcern", "slurmcern")
)

// ValidateConfiguration validates the passed configuration instance
func ValidateConfiguration(config *config.Configuration) field.ErrorList {
	allErrs := field.ErrorList{}

	if config.Component.MaximumConcurrentJobs < 1 {
		allErrs = append(allErrs, field.Invalid(field.NewPath("component", "maximumConcurrentJobs"), config.Component.MaximumConcurrentJobs, "at least one concurrent job has to be allowed"))
	}

	allErrs = append(allErrs, validateMQConfig(config.MQ, field.NewPath("mq"))...)
	allErrs = append(allErrs, validateStorageConfig(config.Storage, field.NewPath("storage"))...)
	allErrs = append(allErrs, validateKueueConfig(config.Kueue, field.NewPath("kueue"))...)
	allErrs = append(allErrs, validateWorkflowsConfig(config.Workflows, field.NewPath("workflows"))...)

	return allErrs
}

func validateMQConfig(mq config.MQConfiguration, fldPath *field.Path) field.ErrorList {
	allErrs := field.ErrorList{}

	if len(mq.ConnectionString) != 0 {
		return allErrs
	}
	if len(mq.Host) == 0 {
		allErrs = append(allErrs, field.Required(fldPath.Child("host"), "message broker host has to be defined"))
	}
	if mq.Port < 1 || mq.Port > 65535 {
		allErrs = append(allErrs, field.Invalid(fldPath.Child("port"), mq.Port, "port has to be between 1 and 65535"))
	}

	return allErrs
}

func validateStorageConfig(storage config.StorageConfiguration, fldPath *field.Path) field.ErrorList {
	allErrs := field.ErrorList{}

	if !supportedStorageBackends.Has(storage.Backend) {
		allErrs = append(allErrs, field.NotSupported(fldPath.Child("backend"), storage.Backend, sets.List(supportedStorageBackends)))
	}
	if storage.Backend == "network" && len(storage.SharedPVCName) == 0 {
		allErrs = append(allErrs, field.Required(fldPath.Child("sharedPVCName"), "a persistent volume claim is required for the network storage backend"))
	}

	return allErrs
}

func validateKueueConfig(kueue config.KueueConfiguration, fldPath *field.Path) field.ErrorList {
	allErrs := field.ErrorList{}

	if !kueue.Enabled {
		return allErrs
	}
	if len(kueue.DefaultQueue) != 0 && len(kueue.AvailableQueues) != 0 && !sets.New(kueue.AvailableQueues...).Has(kueue.DefaultQueue) {
		allErrs = append(allErrs, field.NotSupported(fldPath.Child("defaultQueue"), kueue.DefaultQueue, kueue.AvailableQueues))
	}

	return allErrs
}

func validateWorkflowsConfig(workflows config.WorkflowsConfiguration, fldPath *field.Path) field.ErrorList {
	allErrs := field.ErrorList{}

	for i, backend := range workflows.ComputeBackends {
		if !knownComputeBackends.Has(backend) {
			allErrs = append(allErrs, field.NotSupported(fldPath.Child("computeBackends").Index(i), backend, sets.List(knownComputeBackends)))
		}
	}
	if len(workflows.WorkspacePaths) == 0 {
		allErrs = append(allErrs, field.Required(fldPath.Child("workspacePaths"), "at least one workspace path has to be defined"))
	}

	return allErrs
}
