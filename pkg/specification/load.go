// SPDX-FileCopyrightText: 2024 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package specification

import (
	"context"

	"github.com/pkg/errors"

	"github.com/reanahub/reana-commons/pkg/apis/reana"
	"github.com/reanahub/reana-commons/pkg/logger"
	"github.com/reanahub/reana-commons/pkg/util"
)

// LoadWorkflowSpec validates and returns the machine readable specification of a workflow file.
// Unknown workflow types result in an empty specification.
func LoadWorkflowSpec(ctx context.Context, workflowType reana.WorkflowType, workflowFile string, opts LoadOptions) (map[string]interface{}, error) {
	switch workflowType {
	case reana.WorkflowTypeSerial:
		return SerialLoad(workflowFile, opts)
	case reana.WorkflowTypeCWL:
		return CWLLoad(ctx, workflowFile, opts)
	case reana.WorkflowTypeYadage:
		return YadageLoad(workflowFile, opts.Toplevel)
	case reana.WorkflowTypeSnakemake:
		return SnakemakeLoad(ctx, workflowFile, opts)
	}
	return map[string]interface{}{}, nil
}

// LoadReanaSpec reads a reana.yaml file and loads the workflow specification it references.
// Relative files are resolved against the workspace if one is given.
// For cwl and snakemake workflows the input parameters are replaced by the content of the input file.
func LoadReanaSpec(ctx context.Context, path, workspacePath string, base LoadOptions) (reana.Specification, error) {
	doc, err := ReadYAMLMap(path)
	if err != nil {
		logger.Log.Info("unable to read specification file", "path", path, "error", err.Error())
		return nil, err
	}
	spec := reana.Specification(doc)
	workflowType, err := spec.Type()
	if err != nil {
		return nil, err
	}

	opts := prepareLoadOptions(spec, workflowType, workspacePath, base)
	workflowFile := spec.WorkflowFile()
	if workflowType == reana.WorkflowTypeSerial && workflowFile != "" {
		workflowFile = util.JoinWorkspace(workspacePath, workflowFile)
	}

	workflowSpec, err := LoadWorkflowSpec(ctx, workflowType, workflowFile, opts)
	if err != nil {
		return nil, err
	}
	workflow := spec.Workflow()
	if workflow == nil {
		workflow = map[string]interface{}{}
		spec["workflow"] = workflow
	}
	workflow["specification"] = workflowSpec

	if (workflowType == reana.WorkflowTypeCWL || workflowType == reana.WorkflowTypeSnakemake) && spec.HasInputs() {
		inputFile := reana.GetString(spec, "inputs", "parameters", "input")
		if inputFile == "" {
			return spec, nil
		}
		inputFile = util.JoinWorkspace(workspacePath, inputFile)
		parameters, err := ReadYAMLMap(inputFile)
		if err != nil {
			return nil, errors.Wrapf(err, "unable to load input parameters from %s", inputFile)
		}
		reana.AsMap(spec["inputs"])["parameters"] = parameters
	}
	return spec, nil
}

func prepareLoadOptions(spec reana.Specification, workflowType reana.WorkflowType, workspacePath string, opts LoadOptions) LoadOptions {
	opts.OperationalOptions = spec.InputOptions()
	switch workflowType {
	case reana.WorkflowTypeSerial:
		opts.Specification = spec.WorkflowSpecification()
		opts.Parameters = spec.InputParameters()
		opts.Original = true
	case reana.WorkflowTypeCWL:
		opts.BaseDir = workspacePath
	case reana.WorkflowTypeSnakemake:
		input := reana.GetString(spec, "inputs", "parameters", "input")
		if input != "" {
			input = util.JoinWorkspace(workspacePath, input)
		}
		opts.Input = input
		opts.Workdir = workspacePath
	case reana.WorkflowTypeYadage:
		opts.Toplevel = workspacePath
		if opts.Toplevel == "" {
			opts.Toplevel = "."
		}
	}
	return opts
}
