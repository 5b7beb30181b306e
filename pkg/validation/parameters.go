// SPDX-FileCopyrightText: 2024 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package validation

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"k8s.io/apimachinery/pkg/util/sets"

	"github.com/reanahub/reana-commons/pkg/apis/reana"
	reanaerrors "github.com/reanahub/reana-commons/pkg/common/error"
	"github.com/reanahub/reana-commons/pkg/specification"
)

// DefaultDangerousOperations are the command fragments that are reported by default.
var DefaultDangerousOperations = []string{"sudo ", "cd /"}

var (
	serialParamRegexp    = regexp.MustCompile(`.*?\$\{(.*?)\}.*?`)
	yadageParamRegexp    = regexp.MustCompile(`.*?\{+(.*?)\}+.*?`)
	snakemakeParamRegexp = regexp.MustCompile(`.*?\{(?:params|input|output)\.(.*?)\}.*?`)
)

// Step is the parameter usage of a single workflow step.
type Step struct {
	Name     string
	Commands []string
	// InputParams are the parameters the step declares.
	InputParams sets.Set[string]
	// CommandParams are the parameters the step commands reference.
	CommandParams sets.Set[string]
}

// ParameterWarnings are the advisory findings of a parameter validation.
type ParameterWarnings struct {
	OperationsWarnings     []reana.Warning `json:"operations_warnings,omitempty"`
	ReanaParamsWarnings    []reana.Warning `json:"reana_params_warnings,omitempty"`
	WorkflowParamsWarnings []reana.Warning `json:"workflow_params_warnings,omitempty"`
}

// All returns all warnings.
func (w ParameterWarnings) All() []reana.Warning {
	all := make([]reana.Warning, 0, len(w.OperationsWarnings)+len(w.ReanaParamsWarnings)+len(w.WorkflowParamsWarnings))
	all = append(all, w.ReanaParamsWarnings...)
	all = append(all, w.WorkflowParamsWarnings...)
	return append(all, w.OperationsWarnings...)
}

// ParametersValidator cross checks the declared input parameters of a specification
// with the parameters its workflow steps use.
type ParametersValidator interface {
	// ParseSpecification extracts the parameter usage of every step.
	ParseSpecification() []Step
	// ValidateParameters collects the warnings. Only failing external validation returns an error.
	ValidateParameters(ctx context.Context) error
	// Warnings returns the warnings of the last validation.
	Warnings() ParameterWarnings
}

// Option configures the parameter validation.
type Option func(*options)

type options struct {
	dangerousOperations []string
	runner              specification.Runner
	workspace           string
	skipCWLValidation   bool
}

// WithDangerousOperations overwrites the reported command fragments.
func WithDangerousOperations(operations []string) Option {
	return func(o *options) {
		o.dangerousOperations = operations
	}
}

// WithRunner sets the runner for external validation tools.
func WithRunner(runner specification.Runner) Option {
	return func(o *options) {
		o.runner = runner
	}
}

// WithWorkspace resolves relative workflow files against the workspace.
func WithWorkspace(workspace string) Option {
	return func(o *options) {
		o.workspace = workspace
	}
}

// WithoutCWLValidation skips the validation with cwltool.
func WithoutCWLValidation() Option {
	return func(o *options) {
		o.skipCWLValidation = true
	}
}

// BuildParametersValidator returns the parameter validator for the workflow type of the specification.
func BuildParametersValidator(spec reana.Specification, opts ...Option) (ParametersValidator, error) {
	workflowType, err := spec.Type()
	if err != nil {
		return nil, err
	}
	o := options{
		dangerousOperations: DefaultDangerousOperations,
		runner:              specification.ExecRunner{},
	}
	for _, opt := range opts {
		opt(&o)
	}
	base := newParametersValidatorBase(spec, o)

	var v ParametersValidator
	switch workflowType {
	case reana.WorkflowTypeSerial:
		v = &serialParametersValidator{parametersValidatorBase: base}
	case reana.WorkflowTypeYadage:
		v = &yadageParametersValidator{parametersValidatorBase: base}
	case reana.WorkflowTypeCWL:
		v = &cwlParametersValidator{parametersValidatorBase: base}
	case reana.WorkflowTypeSnakemake:
		v = &snakemakeParametersValidator{parametersValidatorBase: base}
	default:
		return nil, reanaerrors.NewUnsupportedWorkflowTypeError(workflowType.String())
	}
	return v, nil
}

type parametersValidatorBase struct {
	spec            reana.Specification
	specification   map[string]interface{}
	inputParameters sets.Set[string]
	options         options
	warnings        ParameterWarnings
}

func newParametersValidatorBase(spec reana.Specification, o options) *parametersValidatorBase {
	b := &parametersValidatorBase{
		spec:            spec,
		specification:   reana.AsMap(spec.WorkflowSpecification()),
		inputParameters: sets.KeySet(spec.InputParameters()),
		options:         o,
	}
	b.reset()
	return b
}

func (b *parametersValidatorBase) Warnings() ParameterWarnings {
	return b.warnings
}

// reset restores the warnings that do not depend on the workflow steps.
func (b *parametersValidatorBase) reset() {
	b.warnings = ParameterWarnings{}
	if !b.spec.HasInputs() {
		b.warnings.ReanaParamsWarnings = append(b.warnings.ReanaParamsWarnings,
			reana.NewWarning(`Workflow "inputs" are missing in the REANA specification.`))
	}
}

func (b *parametersValidatorBase) validateDangerousOperations(commands []string, step string) {
	for _, command := range commands {
		for _, operation := range b.options.dangerousOperations {
			if !strings.Contains(command, operation) {
				continue
			}
			op := strings.TrimSpace(operation)
			if step == "" {
				b.warnings.OperationsWarnings = append(b.warnings.OperationsWarnings,
					reana.NewWarning(`Operation "%s" might be dangerous.`, op))
				continue
			}
			b.warnings.OperationsWarnings = append(b.warnings.OperationsWarnings,
				reana.NewWarning(`Operation "%s" found in step "%s" might be dangerous.`, op, step))
		}
	}
}

func (b *parametersValidatorBase) validateNotUsedParameters(workflowParameters, commandParameters sets.Set[string], typ string) {
	for _, parameter := range sets.List(workflowParameters.Difference(commandParameters)) {
		b.warnings.ReanaParamsWarnings = append(b.warnings.ReanaParamsWarnings,
			reana.NewWarning(`%s input parameter "%s" does not seem to be used.`, typ, parameter))
	}
}

func (b *parametersValidatorBase) validateNotDefinedParameters(cmdParamSteps paramSteps, workflowParameters sets.Set[string], workflowType string) {
	for _, parameter := range sets.List(cmdParamSteps.parameters().Difference(workflowParameters)) {
		b.warnings.WorkflowParamsWarnings = append(b.warnings.WorkflowParamsWarnings,
			notDefinedWarning(workflowType, parameter, cmdParamSteps[parameter]))
	}
}

func (b *parametersValidatorBase) validateMisusedParametersInSteps(params, cmdParams paramSteps, workflowType string) {
	for _, parameter := range sets.List(cmdParams.parameters()) {
		if diff := cmdParams[parameter].Difference(params[parameter]); diff.Len() > 0 {
			b.warnings.WorkflowParamsWarnings = append(b.warnings.WorkflowParamsWarnings,
				notDefinedWarning(workflowType, parameter, diff))
		}
	}
	for _, parameter := range sets.List(params.parameters()) {
		if diff := params[parameter].Difference(cmdParams[parameter]); diff.Len() > 0 {
			b.warnings.WorkflowParamsWarnings = append(b.warnings.WorkflowParamsWarnings,
				reana.NewWarning(`%s input parameter "%s" found on step%s "%s" does not seem to be used.`,
					capitalize(workflowType), parameter, plural(diff), strings.Join(sets.List(diff), ", ")))
		}
	}
}

func notDefinedWarning(workflowType, parameter string, steps sets.Set[string]) reana.Warning {
	return reana.NewWarning(`%s parameter "%s" found on step%s "%s" is not defined in input parameters.`,
		capitalize(workflowType), parameter, plural(steps), strings.Join(sets.List(steps), ", "))
}

// paramSteps maps a parameter to the steps that use or declare it.
type paramSteps map[string]sets.Set[string]

func (p paramSteps) add(parameter, step string) {
	if _, ok := p[parameter]; !ok {
		p[parameter] = sets.New[string]()
	}
	p[parameter].Insert(step)
}

func (p paramSteps) parameters() sets.Set[string] {
	return sets.KeySet(p)
}

func plural(s sets.Set[string]) string {
	if s.Len() > 1 {
		return "s"
	}
	return ""
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}

// findParams returns the first submatch of all matches.
func findParams(re *regexp.Regexp, text string) []string {
	var params []string
	for _, m := range re.FindAllStringSubmatch(text, -1) {
		params = append(params, m[1])
	}
	return params
}

func stepName(step interface{}, idx int) string {
	if name, ok := reana.Get(step, "name"); ok {
		return reana.ToString(name)
	}
	return strconv.Itoa(idx)
}

func stringList(v interface{}) []string {
	switch t := v.(type) {
	case []interface{}:
		out := make([]string, 0, len(t))
		for _, e := range t {
			out = append(out, reprString(e))
		}
		return out
	case []string:
		return t
	case nil:
		return nil
	}
	return []string{reprString(v)}
}

type serialParametersValidator struct {
	*parametersValidatorBase
}

func (v *serialParametersValidator) ParseSpecification() []Step {
	var steps []Step
	for idx, step := range reana.GetSlice(v.specification, "steps") {
		commands := stringList(reana.GetSlice(step, "commands"))
		params := sets.New[string]()
		for _, command := range commands {
			params.Insert(findParams(serialParamRegexp, command)...)
		}
		steps = append(steps, Step{
			Name:          stepName(step, idx),
			Commands:      commands,
			InputParams:   sets.New[string](),
			CommandParams: params,
		})
	}
	return steps
}

func (v *serialParametersValidator) ValidateParameters(_ context.Context) error {
	v.reset()
	cmdParamSteps := paramSteps{}
	for _, step := range v.ParseSpecification() {
		v.validateDangerousOperations(step.Commands, step.Name)
		for p := range step.CommandParams {
			cmdParamSteps.add(p, step.Name)
		}
	}
	v.validateNotUsedParameters(v.inputParameters, cmdParamSteps.parameters(), "REANA")
	v.validateNotDefinedParameters(cmdParamSteps, v.inputParameters, string(reana.WorkflowTypeSerial))
	return nil
}

type yadageParametersValidator struct {
	*parametersValidatorBase
}

func (v *yadageParametersValidator) ParseSpecification() []Step {
	return v.parseStages(reana.GetSlice(v.specification, "stages"))
}

// parseStages flattens nested workflows depth first. A stage follows its nested stages.
func (v *yadageParametersValidator) parseStages(stages []interface{}) []Step {
	var steps []Step
	for _, stage := range stages {
		if nested, ok := reana.Get(stage, "scheduler", "workflow"); ok {
			steps = append(steps, v.parseStages(reana.GetSlice(nested, "stages"))...)
		}
		steps = append(steps, v.parseStage(stage))
	}
	return steps
}

func (v *yadageParametersValidator) parseStage(stage interface{}) Step {
	s := Step{
		Name:          reana.GetString(stage, "name"),
		InputParams:   sets.New[string](),
		CommandParams: sets.New[string](),
	}
	scheduler := reana.GetMap(stage, "scheduler")
	if _, ok := scheduler["step"]; ok {
		for _, param := range reana.GetSlice(scheduler, "parameters") {
			if key, ok := reana.Get(param, "key"); ok {
				s.InputParams.Insert(reana.ToString(key))
			}
		}
	}

	step := reana.GetMap(scheduler, "step")
	for _, stepKey := range sortedKeys(step) {
		substeps := reana.AsMap(step[stepKey])
		for _, substepKey := range sortedKeys(substeps) {
			substepVal := substeps[substepKey]
			if stepKey == "publisher" {
				s.CommandParams.Insert(publisherParams(substepKey, substepVal)...)
			}
			if substepKey == "script" || substepKey == "cmd" {
				s.Commands = append(s.Commands, reprString(substepVal))
			}
			s.CommandParams.Insert(findParams(yadageParamRegexp, yadageParamText(substepVal))...)
		}
	}
	return s
}

// publisherParams returns the published keys and output keys which count as used parameters.
func publisherParams(key string, value interface{}) []string {
	switch key {
	case "publish":
		return sortedKeys(reana.AsMap(value))
	case "outputkey":
		return []string{reprString(value)}
	}
	return nil
}

// yadageParamText renders a step value the way its placeholders are searched in:
// mappings are reduced to their values and nested mappings to their value views.
func yadageParamText(value interface{}) string {
	if m := reana.AsMap(value); m != nil {
		values := make([]interface{}, 0, len(m))
		for _, k := range sortedKeys(m) {
			values = append(values, m[k])
		}
		value = values
	}
	if list, ok := value.([]interface{}); ok {
		rendered := make([]interface{}, len(list))
		for i, e := range list {
			if m := reana.AsMap(e); m != nil {
				values := make(dictValues, 0, len(m))
				for _, k := range sortedKeys(m) {
					values = append(values, m[k])
				}
				rendered[i] = values
				continue
			}
			rendered[i] = e
		}
		value = rendered
	}
	return reprString(value)
}

func (v *yadageParametersValidator) ValidateParameters(_ context.Context) error {
	v.reset()
	params := paramSteps{}
	cmdParams := paramSteps{}
	for _, step := range v.ParseSpecification() {
		v.validateDangerousOperations(step.Commands, step.Name)
		for p := range step.InputParams {
			params.add(p, step.Name)
		}
		for p := range step.CommandParams {
			cmdParams.add(p, step.Name)
		}
	}
	v.validateNotUsedParameters(v.inputParameters, params.parameters(), "REANA")
	v.validateMisusedParametersInSteps(params, cmdParams, string(reana.WorkflowTypeYadage))
	return nil
}

type cwlParametersValidator struct {
	*parametersValidatorBase
}

// ParseSpecification is not used for cwl workflows, their steps are validated by cwltool.
func (v *cwlParametersValidator) ParseSpecification() []Step {
	return nil
}

func (v *cwlParametersValidator) ValidateParameters(ctx context.Context) error {
	v.reset()
	if !v.options.skipCWLValidation {
		workflowFile := v.spec.WorkflowFile()
		path := workflowFile
		if v.options.workspace != "" && !filepath.IsAbs(path) {
			path = filepath.Join(v.options.workspace, path)
		}
		if _, err := os.Stat(path); workflowFile == "" || err != nil {
			return reanaerrors.NewValidationErrorf("Workflow path %s is not valid.", workflowFile)
		}
		if _, err := v.options.runner.Run(ctx, specification.CWLTool, "--validate", "--strict", path); err != nil {
			return reanaerrors.NewExternalToolError(specification.CWLTool, err)
		}
	}

	for _, process := range cwlProcesses(v.specification) {
		for _, key := range []string{"baseCommand", "arguments"} {
			if cmd, ok := process[key]; ok {
				v.validateDangerousOperations(stringList(cmd), reana.GetString(process, "id"))
			}
		}
	}
	return nil
}

// cwlProcesses returns the process definitions of a packed cwl document.
func cwlProcesses(spec map[string]interface{}) []map[string]interface{} {
	graph, ok := spec["$graph"]
	if !ok {
		if spec == nil {
			return nil
		}
		return []map[string]interface{}{spec}
	}
	if m := reana.AsMap(graph); m != nil {
		return []map[string]interface{}{m}
	}
	list, _ := graph.([]interface{})
	var processes []map[string]interface{}
	for _, p := range list {
		if m := reana.AsMap(p); m != nil {
			processes = append(processes, m)
		}
	}
	return processes
}

type snakemakeParametersValidator struct {
	*parametersValidatorBase
}

func (v *snakemakeParametersValidator) ParseSpecification() []Step {
	var steps []Step
	for idx, step := range reana.GetSlice(v.specification, "steps") {
		commands := stringList(reana.GetSlice(step, "commands"))
		params := sets.New[string]()
		for _, command := range commands {
			params.Insert(findParams(snakemakeParamRegexp, command)...)
		}
		inputs := sets.New[string]()
		for _, key := range []string{"params", "inputs", "outputs"} {
			inputs.Insert(sets.List(sets.KeySet(reana.GetMap(step, key)))...)
		}
		steps = append(steps, Step{
			Name:          stepName(step, idx),
			Commands:      commands,
			InputParams:   inputs,
			CommandParams: params,
		})
	}
	return steps
}

// ValidateParameters does not check the REANA input parameters, they are passed
// to snakemake as config file and may be referenced under different names.
func (v *snakemakeParametersValidator) ValidateParameters(_ context.Context) error {
	v.reset()
	params := paramSteps{}
	cmdParams := paramSteps{}
	for _, step := range v.ParseSpecification() {
		v.validateDangerousOperations(step.Commands, step.Name)
		for p := range step.InputParams {
			params.add(p, step.Name)
		}
		for p := range step.CommandParams {
			cmdParams.add(p, step.Name)
		}
	}
	v.validateMisusedParametersInSteps(params, cmdParams, string(reana.WorkflowTypeSnakemake))
	return nil
}

// String renders the steps for debugging.
func (s Step) String() string {
	return fmt.Sprintf("%s: inputs=%v commands=%v", s.Name, sets.List(s.InputParams), sets.List(s.CommandParams))
}
