// SPDX-FileCopyrightText: 2024 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package specification

import (
	"context"
	"encoding/json"
	"os/exec"
	"strings"

	"github.com/pkg/errors"

	"github.com/reanahub/reana-commons/pkg/apis/reana"
	reanaerrors "github.com/reanahub/reana-commons/pkg/common/error"
	"github.com/reanahub/reana-commons/pkg/logger"
	"github.com/reanahub/reana-commons/pkg/util"
)

// SnakemakeTool is the snakemake executable used to validate Snakefiles.
const SnakemakeTool = "snakemake"

// SnakemakeValidate dry-runs the workflow to check that it is valid.
func SnakemakeValidate(ctx context.Context, workflowFile string, configFiles []string, workdir string, runner Runner) error {
	args := []string{"--snakefile", workflowFile, "--dry-run", "--quiet"}
	for _, c := range configFiles {
		args = append(args, "--configfile", c)
	}
	if workdir != "" {
		args = append(args, "--directory", workdir)
	}
	if _, err := runner.Run(ctx, SnakemakeTool, args...); err != nil {
		if isNotFound(err) {
			return reanaerrors.NewExternalToolError(SnakemakeTool, err)
		}
		logger.Log.V(3).Info("snakemake dry run failed", "error", err.Error())
		return reanaerrors.NewValidationError("Snakemake specification is invalid.")
	}
	return nil
}

// SnakemakeLoad validates the Snakefile and exports its job dependencies and steps.
func SnakemakeLoad(ctx context.Context, workflowFile string, opts LoadOptions) (map[string]interface{}, error) {
	workflowFile = util.JoinWorkspace(opts.Workdir, workflowFile)
	var configFiles []string
	if opts.Input != "" {
		configFiles = append(configFiles, opts.Input)
	}
	runner := opts.runner()
	if err := SnakemakeValidate(ctx, workflowFile, configFiles, opts.Workdir, runner); err != nil {
		return nil, err
	}

	exporter := opts.SnakemakeExporter
	if len(exporter) == 0 {
		exporter = DefaultSnakemakeExporter
	}
	args := append(append([]string{}, exporter[1:]...), "--snakefile", workflowFile)
	for _, c := range configFiles {
		args = append(args, "--configfile", c)
	}
	if opts.Workdir != "" {
		args = append(args, "--directory", opts.Workdir)
	}
	out, err := runner.Run(ctx, exporter[0], args...)
	if err != nil {
		return nil, reanaerrors.NewExternalToolError(exporter[0], err)
	}

	spec := map[string]interface{}{}
	if err := json.Unmarshal(out, &spec); err != nil {
		return nil, errors.Wrapf(err, "unable to parse exported snakemake workflow %s", workflowFile)
	}
	if _, ok := spec["job_dependencies"]; !ok {
		spec["job_dependencies"] = map[string]interface{}{}
	}
	steps := reana.GetSlice(spec, "steps")
	for _, step := range steps {
		s := reana.AsMap(step)
		if s == nil {
			continue
		}
		s["environment"] = strings.ReplaceAll(reana.ToString(s["environment"]), "docker://", "")
	}
	if steps == nil {
		spec["steps"] = []interface{}{}
	}
	return spec, nil
}

func isNotFound(err error) bool {
	return errors.Is(err, exec.ErrNotFound)
}
