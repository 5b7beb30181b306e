// SPDX-FileCopyrightText: 2024 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package specification

import (
	"bytes"
	"context"
	"os/exec"
	"strings"

	"github.com/pkg/errors"

	"github.com/reanahub/reana-commons/pkg/logger"
)

// Runner executes the external tools used to load and validate workflows.
type Runner interface {
	// Run executes the command and returns its standard output.
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// ExecRunner runs commands as local processes.
type ExecRunner struct{}

var _ Runner = ExecRunner{}

// Run implements the Runner interface.
func (ExecRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	logger.Log.V(3).Info("run external tool", "command", name, "args", args)
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...) // #nosec G204 -- tools are fixed by the caller
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			return nil, errors.Wrapf(err, "%s failed", name)
		}
		return nil, errors.Wrapf(err, "%s failed: %s", name, msg)
	}
	return stdout.Bytes(), nil
}
