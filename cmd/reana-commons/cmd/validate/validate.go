// SPDX-FileCopyrightText: 2024 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package validate

import (
	"context"
	"encoding/json"
	"io"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/reanahub/reana-commons/pkg/apis/reana"
	"github.com/reanahub/reana-commons/pkg/logger"
	"github.com/reanahub/reana-commons/pkg/specification"
	"github.com/reanahub/reana-commons/pkg/util"
	"github.com/reanahub/reana-commons/pkg/validation"
)

// AddCommand adds validate to a command.
func AddCommand(cmd *cobra.Command) {
	cmd.AddCommand(NewValidateCommand())
}

// NewValidateCommand creates the command that validates a reana.yaml file.
func NewValidateCommand() *cobra.Command {
	opts := NewOptions()
	cmd := &cobra.Command{
		Use:   "validate <reana.yaml>",
		Short: "Validate a reana.yaml file and the workflow it references",
		Args:  cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.Complete(args); err != nil {
				return err
			}
			return opts.Validate()
		},
		Run: func(cmd *cobra.Command, args []string) {
			res, err := opts.run(cmd.Context())
			if err != nil {
				log.Fatalf("%s is not valid: %s", opts.specPath, err.Error())
			}
			if err := res.Print(cmd.OutOrStdout(), opts.output); err != nil {
				log.Fatal(err.Error())
			}
			if res.HasWarnings() {
				os.Exit(2)
			}
		},
	}
	opts.AddFlags(cmd.Flags())
	return cmd
}

// Result is the outcome of a successful validation.
type Result struct {
	Specification      string                            `json:"specification" yaml:"specification"`
	WorkflowType       string                            `json:"workflow_type" yaml:"workflow_type"`
	OperationalOptions map[string]interface{}            `json:"operational_options,omitempty" yaml:"operational_options,omitempty"`
	SchemaWarnings     []reana.AdditionalPropertyWarning `json:"schema_warnings,omitempty" yaml:"schema_warnings,omitempty"`
	Warnings           []reana.Warning                   `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// HasWarnings returns true if the validation produced any advisory message.
func (r *Result) HasWarnings() bool {
	return len(r.SchemaWarnings) != 0 || len(r.Warnings) != 0
}

// Print writes the result in the given format.
func (r *Result) Print(w io.Writer, format string) error {
	switch format {
	case outputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	case outputYAML:
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		return enc.Encode(r)
	}

	rows := make([][]string, 0, len(r.SchemaWarnings)+len(r.Warnings))
	for _, w := range r.SchemaWarnings {
		rows = append(rows, []string{"schema", w.Path, "Unexpected property " + w.Property})
	}
	for _, w := range r.Warnings {
		rows = append(rows, []string{"parameters", "", w.Message})
	}
	if len(rows) == 0 {
		rows = append(rows, []string{"-", "", r.Specification + " is a valid " + r.WorkflowType + " workflow"})
	}
	return util.PrintTable(w, []string{"check", "path", "message"}, nil, rows)
}

func (o *options) run(ctx context.Context) (*Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	logger.Log.V(3).Info("validate specification", "path", o.specPath)

	spec, err := specification.LoadReanaSpec(ctx, o.specPath, o.workspace, specification.LoadOptions{})
	if err != nil {
		return nil, err
	}
	workflowType, err := spec.Type()
	if err != nil {
		return nil, err
	}

	schemaWarnings, err := validation.ValidateReanaYAML(spec)
	if err != nil {
		return nil, err
	}

	res := &Result{
		Specification: o.specPath,
		WorkflowType:  workflowType.String(),
	}
	if !schemaWarnings.IsEmpty() {
		res.SchemaWarnings = schemaWarnings.AdditionalProperties
	}

	if inputOptions := spec.InputOptions(); inputOptions != nil {
		res.OperationalOptions, err = validation.ValidateOperationalOptions(workflowType, inputOptions)
		if err != nil {
			return nil, err
		}
	}

	validatorOpts := []validation.Option{
		validation.WithDangerousOperations(o.dangerousOperations),
		validation.WithWorkspace(o.workspace),
	}
	if o.skipCWLValidation {
		validatorOpts = append(validatorOpts, validation.WithoutCWLValidation())
	}
	validator, err := validation.BuildParametersValidator(spec, validatorOpts...)
	if err != nil {
		return nil, err
	}
	if err := validator.ValidateParameters(ctx); err != nil {
		return nil, err
	}
	res.Warnings = validator.Warnings().All()

	if err := validation.ValidateComputeBackends(spec, o.computeBackends); err != nil {
		return nil, err
	}
	if err := validation.ValidateKubernetesQueues(spec, o.kueueEnabled, o.kueueSupportedQueues, o.kueueDefaultQueue); err != nil {
		return nil, err
	}
	return res, nil
}
