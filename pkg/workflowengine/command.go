// SPDX-FileCopyrightText: 2024 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package workflowengine

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-logr/logr"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/reanahub/reana-commons/pkg/apiclient"
	"github.com/reanahub/reana-commons/pkg/apis/config"
	"github.com/reanahub/reana-commons/pkg/apis/reana"
	"github.com/reanahub/reana-commons/pkg/publisher"
)

// ExitedUnexpectedly is the log published when a workflow engine stops without finishing.
const ExitedUnexpectedly = "Workflow exited unexpectedly."

// StatusPublisher publishes workflow status changes.
type StatusPublisher interface {
	PublishWorkflowStatus(ctx context.Context, workflowUUID string, status int, logs string, message map[string]interface{}) error
	Close()
}

// JobController submits and inspects the jobs of a workflow.
type JobController interface {
	Submit(ctx context.Context, spec apiclient.JobSpec) (*apiclient.JobCreated, error)
	CheckStatus(ctx context.Context, jobID string) (*apiclient.Job, error)
	GetLogs(ctx context.Context, jobID string) (string, error)
	CheckIfCached(ctx context.Context, jobSpec, step map[string]interface{}, workflowWorkspace string) (*apiclient.CacheResult, error)
}

// Params are the arguments of a workflow engine run.
type Params struct {
	WorkflowUUID       string
	WorkflowWorkspace  string
	WorkflowJSON       interface{}
	WorkflowFile       string
	WorkflowParameters interface{}
	// OperationalOptions is []string for cwl and map[string]interface{} for the other engines.
	OperationalOptions interface{}
}

// RunAdapter runs a workflow with a concrete workflow engine.
type RunAdapter func(ctx context.Context, publisher StatusPublisher, jobs JobController, params Params) error

// ExitHandler is invoked when the engine receives a termination signal.
type ExitHandler func(ctx context.Context, sig os.Signal, publisher StatusPublisher, params Params)

// Options contains the dependencies of the workflow engine command.
type Options struct {
	Log              logr.Logger
	NewPublisher     func() (StatusPublisher, error)
	NewJobController func() (JobController, error)
	// CheckConnection checks the job controller. Failures are logged only.
	CheckConnection func(ctx context.Context) error
	// Signals delivers termination signals. It defaults to SIGTERM notifications.
	Signals <-chan os.Signal
}

// DefaultOptions wires the message broker and job controller of the configuration.
func DefaultOptions(log logr.Logger, cfg *config.Configuration) Options {
	jobControllerURL := cfg.Services.JobControllerURL()
	return Options{
		Log: log,
		NewPublisher: func() (StatusPublisher, error) {
			return publisher.NewWorkflowStatusPublisher(log.WithName("publisher"), publisher.Options{
				URL:        cfg.MQ.MQConnectionString(),
				MaxRetries: cfg.MQ.ProducerMaxRetries,
			}), nil
		},
		NewJobController: func() (JobController, error) {
			return apiclient.NewJobControllerClient(log, jobControllerURL, apiclient.Options{})
		},
		CheckConnection: func(ctx context.Context) error {
			return apiclient.CheckConnectionToJobController(ctx, log, jobControllerURL, apiclient.DefaultConnectionCheckOptions)
		},
	}
}

// DefaultExitHandler reports the workflow as failed.
func DefaultExitHandler(log logr.Logger) ExitHandler {
	return func(ctx context.Context, sig os.Signal, p StatusPublisher, params Params) {
		log.Info(fmt.Sprintf("Termination signal %s received. Workflow interrupted ...", sig))
		if err := p.PublishWorkflowStatus(ctx, params.WorkflowUUID, int(reana.WorkflowStatusFailed), ExitedUnexpectedly, nil); err != nil {
			log.Error(err, fmt.Sprintf("Workflow %s could not be stopped gracefully", params.WorkflowUUID))
		}
	}
}

type runOptions struct {
	Options
	engineType  reana.WorkflowType
	adapter     RunAdapter
	exitHandler ExitHandler
	loader      OptionsLoader

	workflowUUID       string
	workflowWorkspace  string
	workflowJSON       string
	workflowFile       string
	workflowParameters string
	operationalOptions string
}

func (o *runOptions) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.workflowUUID, "workflow-uuid", "", "UUID of workflow to be run.")
	fs.StringVar(&o.workflowWorkspace, "workflow-workspace", "", "Name of workspace in which workflow should run.")
	fs.StringVar(&o.workflowJSON, "workflow-json", "", "JSON representation of workflow object to be run.")
	fs.StringVar(&o.workflowFile, "workflow-file", "", "Path to the workflow file. This field is used when no workflow JSON has been passed.")
	fs.StringVar(&o.workflowParameters, "workflow-parameters", "", "JSON representation of parameters received by the workflow.")
	fs.StringVar(&o.operationalOptions, "operational-options", "", "Options to be passed to the workflow engine (i.e. caching).")
}

func (o *runOptions) params() (Params, error) {
	params := Params{
		WorkflowUUID:      o.workflowUUID,
		WorkflowWorkspace: o.workflowWorkspace,
		WorkflowFile:      o.workflowFile,
	}
	var err error
	if params.WorkflowJSON, err = LoadJSON(o.workflowJSON); err != nil {
		return params, errors.Wrap(err, "invalid workflow json")
	}
	if params.WorkflowParameters, err = LoadJSON(o.workflowParameters); err != nil {
		return params, errors.Wrap(err, "invalid workflow parameters")
	}
	if params.OperationalOptions, err = o.loader(o.operationalOptions, o.workflowWorkspace); err != nil {
		return params, errors.Wrap(err, "invalid operational options")
	}
	return params, nil
}

// NewWorkflowEngineCommand creates the command that runs a workflow engine.
// A nil exit handler publishes the failed status on SIGTERM.
func NewWorkflowEngineCommand(adapter RunAdapter, engineType string, exitHandler ExitHandler, opts Options) (*cobra.Command, error) {
	wt, err := reana.ParseWorkflowType(engineType)
	if err != nil {
		return nil, fmt.Errorf("Unknown workflow engine type %s. Must be one of %v", engineType, reana.WorkflowTypes())
	}
	if opts.NewPublisher == nil || opts.NewJobController == nil {
		return nil, errors.New("a publisher and a job controller factory are required")
	}
	o := &runOptions{
		Options:     opts,
		engineType:  wt,
		adapter:     adapter,
		exitHandler: exitHandler,
		loader:      optionsLoaders[wt],
	}
	if o.exitHandler == nil {
		o.exitHandler = DefaultExitHandler(opts.Log)
	}

	cmd := &cobra.Command{
		Use:          fmt.Sprintf("run-%s-workflow", wt),
		Short:        fmt.Sprintf("Run a %s workflow", wt),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := o.params()
			if err != nil {
				return err
			}
			o.run(cmd.Context(), params)
			return nil
		},
	}
	o.AddFlags(cmd.Flags())
	if err := cmd.MarkFlagRequired("workflow-uuid"); err != nil {
		return nil, err
	}
	if err := cmd.MarkFlagRequired("workflow-workspace"); err != nil {
		return nil, err
	}
	return cmd, nil
}

// run executes the adapter. Failures are published as failed workflow status and never returned.
func (o *runOptions) run(ctx context.Context, params Params) {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	log := o.Log.WithValues("workflow", params.WorkflowUUID)

	pub, err := o.NewPublisher()
	if err != nil {
		log.Error(err, fmt.Sprintf("Workflow %s failed but status could not be published causing the workflow to be stuck in running status.", params.WorkflowUUID))
		return
	}
	defer pub.Close()

	signals := o.Signals
	if signals == nil {
		ch := make(chan os.Signal, 1)
		signal.Notify(ch, syscall.SIGTERM)
		defer signal.Stop(ch)
		signals = ch
	}
	go func() {
		select {
		case sig := <-signals:
			o.exitHandler(context.Background(), sig, pub, params)
			cancel()
		case <-ctx.Done():
		}
	}()

	failed := func(err error) {
		log.V(3).Info(err.Error())
		logs := fmt.Sprintf("%s\n%s", ExitedUnexpectedly, err.Error())
		if perr := pub.PublishWorkflowStatus(context.Background(), params.WorkflowUUID, int(reana.WorkflowStatusFailed), logs, nil); perr != nil {
			log.Error(perr, fmt.Sprintf("Workflow %s failed but status could not be published causing the workflow to be stuck in running status.", params.WorkflowUUID))
		}
	}

	jobs, err := o.NewJobController()
	if err != nil {
		failed(err)
		return
	}
	if o.CheckConnection != nil {
		if err := o.CheckConnection(ctx); err != nil {
			log.Error(err, "Job controller is not reachable.")
		}
	}
	if err := o.adapter(ctx, pub, jobs, params); err != nil {
		failed(err)
		return
	}
	log.Info(fmt.Sprintf("Workflow %s finished. Files available at %s.", params.WorkflowUUID, params.WorkflowWorkspace))
}
