// SPDX-FileCopyrightText: 2024 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package testcmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/reanahub/reana-commons/pkg/apiclient"
	"github.com/reanahub/reana-commons/pkg/gherkin"
	"github.com/reanahub/reana-commons/pkg/logger"
	"github.com/reanahub/reana-commons/pkg/util"
)

type options struct {
	featurePath string
	workflow    string
	serverURL   string
	accessToken string
	output      string

	clientOptions apiclient.Options
}

// NewOptions creates a new options struct.
func NewOptions() *options {
	return &options{}
}

// Validate validates the options
func (o *options) Validate() error {
	if len(o.featurePath) == 0 {
		return errors.New("a feature file is required")
	}
	if len(o.workflow) == 0 {
		return errors.New("workflow is required")
	}
	if len(o.serverURL) == 0 {
		return errors.New("server-url is required")
	}
	if len(o.accessToken) == 0 {
		return errors.New("access-token is required")
	}
	if o.output != "table" && o.output != "json" {
		return fmt.Errorf("unknown output format %q", o.output)
	}
	return nil
}

func (o *options) AddFlags(fs *pflag.FlagSet) {
	if fs == nil {
		fs = pflag.CommandLine
	}
	fs.StringVarP(&o.workflow, "workflow", "w", os.Getenv("REANA_WORKON"), "Name or id of the tested workflow")
	fs.StringVar(&o.serverURL, "server-url", os.Getenv("REANA_SERVER_URL"), "URL of the REANA server")
	fs.StringVar(&o.accessToken, "access-token", os.Getenv("REANA_ACCESS_TOKEN"), "Access token of the REANA user")
	fs.StringVarP(&o.output, "output", "o", "table", "Output format: table or json")

	fs.IntVar(&o.clientOptions.RetryMax, "retries", 3, "Number of retries of failed server requests")
	fs.DurationVar(&o.clientOptions.Timeout, "timeout", time.Minute, "Timeout of a single server request")
}

// AddCommand adds test to a command.
func AddCommand(cmd *cobra.Command) {
	cmd.AddCommand(NewTestCommand())
}

// NewTestCommand creates the command that runs the scenarios of a feature file against a workflow.
func NewTestCommand() *cobra.Command {
	opts := NewOptions()
	cmd := &cobra.Command{
		Use:   "test <feature file>",
		Short: "Test the outputs of a workflow with a Gherkin feature file",
		Args:  cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			opts.featurePath = args[0]
			return opts.Validate()
		},
		Run: func(cmd *cobra.Command, args []string) {
			client, err := apiclient.NewServerClient(logger.Log, opts.serverURL, opts.accessToken, opts.clientOptions)
			if err != nil {
				log.Fatal(err.Error())
			}
			results, err := opts.run(cmd.Context(), client)
			if err != nil {
				log.Fatal(err.Error())
			}
			if err := printResults(cmd.OutOrStdout(), opts.output, results); err != nil {
				log.Fatal(err.Error())
			}
			if failed(results) {
				os.Exit(1)
			}
		},
	}
	opts.AddFlags(cmd.Flags())
	return cmd
}

func (o *options) run(ctx context.Context, fetcher gherkin.DataFetcher) ([]gherkin.TestResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	feature, results, err := gherkin.ParseAndRunTests(ctx, logger.Log, o.featurePath, o.workflow, gherkin.DefaultRegistry(), fetcher)
	if err != nil {
		return nil, err
	}
	logger.Log.V(3).Info("tested workflow", "feature", feature, "workflow", o.workflow, "scenarios", len(results))
	return results, nil
}

func failed(results []gherkin.TestResult) bool {
	for _, r := range results {
		if r.Result == gherkin.TestStatusFailed {
			return true
		}
	}
	return false
}

func printResults(w io.Writer, format string, results []gherkin.TestResult) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}
	rows := make([][]string, len(results))
	for i, r := range results {
		rows[i] = []string{r.Feature, r.Scenario, r.Result.String(), r.FailedTestcase, r.ErrorLog}
	}
	return util.PrintTable(w, []string{"feature", "scenario", "result", "failed testcase", "error"}, nil, rows)
}
