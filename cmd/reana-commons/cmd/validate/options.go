// SPDX-FileCopyrightText: 2024 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package validate

import (
	"errors"
	"fmt"

	"github.com/spf13/pflag"

	"github.com/reanahub/reana-commons/pkg/validation"
)

const (
	outputTable = "table"
	outputJSON  = "json"
	outputYAML  = "yaml"
)

type options struct {
	specPath  string
	workspace string
	output    string

	computeBackends     []string
	dangerousOperations []string
	skipCWLValidation   bool

	kueueEnabled         bool
	kueueSupportedQueues []string
	kueueDefaultQueue    string
}

// NewOptions creates a new options struct.
func NewOptions() *options {
	return &options{}
}

// Complete reads the positional arguments.
func (o *options) Complete(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("expected exactly one reana.yaml path but got %d", len(args))
	}
	o.specPath = args[0]
	return nil
}

// Validate validates the options
func (o *options) Validate() error {
	if len(o.specPath) == 0 {
		return errors.New("a reana.yaml path is required")
	}
	switch o.output {
	case outputTable, outputJSON, outputYAML:
	default:
		return fmt.Errorf("unknown output format %q", o.output)
	}
	return nil
}

func (o *options) AddFlags(fs *pflag.FlagSet) {
	if fs == nil {
		fs = pflag.CommandLine
	}
	fs.StringVar(&o.workspace, "workspace", "", "Workspace the relative workflow files are resolved against")
	fs.StringVarP(&o.output, "output", "o", outputTable, "Output format: table, json or yaml")

	fs.StringSliceVar(&o.computeBackends, "supported-backends", []string{"kubernetes"}, "Compute backends supported by the cluster")
	fs.StringSliceVar(&o.dangerousOperations, "dangerous-operations", validation.DefaultDangerousOperations, "Command fragments that are reported as dangerous")
	fs.BoolVar(&o.skipCWLValidation, "skip-cwltool", false, "Skip the validation of cwl workflows with cwltool")

	fs.BoolVar(&o.kueueEnabled, "kueue-enabled", false, "Validate the kubernetes queues of the workflow steps")
	fs.StringSliceVar(&o.kueueSupportedQueues, "kueue-supported-queues", nil, "Kubernetes queues available for jobs")
	fs.StringVar(&o.kueueDefaultQueue, "kueue-default-queue", "", "Kubernetes queue used for steps without an explicit queue")
}
