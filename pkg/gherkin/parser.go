// SPDX-FileCopyrightText: 2024 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package gherkin

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	gherkin "github.com/cucumber/gherkin/go/v26"
	messages "github.com/cucumber/messages/go/v21"
	"github.com/go-logr/logr"
)

// Step is a step of a compiled scenario.
type Step struct {
	Type StepType
	Text string
}

// Scenario is a compiled scenario of a feature file.
type Scenario struct {
	Name  string
	Steps []Step
}

// Feature is a parsed feature file.
type Feature struct {
	Name      string
	Scenarios []Scenario
}

// MappedStep is a step resolved to its definition.
type MappedStep struct {
	Definition *StepDefinition
	Arguments  map[string]string
}

// StepMapping contains the resolved steps by type and text.
type StepMapping map[StepType]map[string]MappedStep

func stepText(step *messages.PickleStep) string {
	if step.Argument != nil && step.Argument.DocString != nil {
		return fmt.Sprintf("%s \"%s\"", step.Text, step.Argument.DocString.Content)
	}
	return step.Text
}

// ParseFeatureFile parses and compiles a feature file.
func ParseFeatureFile(path string) (*Feature, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("The file '%s' was not found: %w", path, err)
		}
		return nil, fmt.Errorf("Error reading the file '%s': %w", path, err)
	}
	return ParseFeature(path, content)
}

// ParseFeature parses and compiles the content of a feature file.
func ParseFeature(uri string, content []byte) (*Feature, error) {
	ids := &messages.Incrementing{}
	doc, err := gherkin.ParseGherkinDocument(bytes.NewReader(content), ids.NewId)
	if err != nil {
		return nil, &FeatureFileError{Path: uri, Err: err}
	}
	if doc.Feature == nil {
		return nil, &FeatureFileError{Path: uri, Err: errors.New("the file does not contain a feature")}
	}
	doc.Uri = uri

	feature := &Feature{Name: doc.Feature.Name}
	for _, pickle := range gherkin.Pickles(*doc, uri, ids.NewId) {
		scenario := Scenario{Name: pickle.Name}
		for _, step := range pickle.Steps {
			scenario.Steps = append(scenario.Steps, Step{
				Type: StepType(strings.TrimSpace(string(step.Type))),
				Text: stepText(step),
			})
		}
		feature.Scenarios = append(feature.Scenarios, scenario)
	}
	return feature, nil
}

// GetStepsList returns the steps of all scenarios.
func GetStepsList(feature *Feature) []Step {
	var steps []Step
	for _, scenario := range feature.Scenarios {
		steps = append(steps, scenario.Steps...)
	}
	return steps
}

// MapStepsToFunctions resolves every step before any scenario runs.
// A single unknown step fails the whole mapping.
func MapStepsToFunctions(log logr.Logger, steps []Step, registry *Registry) (StepMapping, error) {
	mapping := StepMapping{}
	for _, t := range StepTypes() {
		mapping[t] = map[string]MappedStep{}
	}
	for _, step := range steps {
		def, args, ok := registry.Resolve(step.Type, step.Text)
		if !ok {
			err := &StepDefinitionNotFoundError{Step: step.Text}
			log.Error(err, "unknown step", "type", step.Type)
			return nil, err
		}
		if _, ok := mapping[step.Type]; !ok {
			mapping[step.Type] = map[string]MappedStep{}
		}
		mapping[step.Type][step.Text] = MappedStep{Definition: def, Arguments: args}
	}
	return mapping, nil
}

// ValidateFeatureFile parses the feature file and resolves all of its steps.
func ValidateFeatureFile(log logr.Logger, path string, registry *Registry) (*Feature, StepMapping, error) {
	feature, err := ParseFeatureFile(path)
	if err != nil {
		return nil, nil, err
	}
	mapping, err := MapStepsToFunctions(log, GetStepsList(feature), registry)
	if err != nil {
		return nil, nil, err
	}
	return feature, mapping, nil
}

// RunTests runs all scenarios of the feature against the workflow.
// A scenario stops at the first skipped or failed step.
func RunTests(ctx context.Context, log logr.Logger, workflow string, feature *Feature, mapping StepMapping, fetcher DataFetcher) []TestResult {
	results := make([]TestResult, 0, len(feature.Scenarios))
	for _, scenario := range feature.Scenarios {
		log.Info("running scenario", "scenario", scenario.Name)
		result := TestResult{
			Scenario: scenario.Name,
			Result:   TestStatusPassed,
			Feature:  feature.Name,
		}
		for _, step := range scenario.Steps {
			log.V(5).Info("running step", "step", step.Text, "type", step.Type)
			mapped, ok := mapping[step.Type][step.Text]
			if !ok || mapped.Definition == nil || mapped.Definition.Func == nil {
				continue
			}
			err := mapped.Definition.Func(ctx, workflow, mapped.Arguments, fetcher)
			if err == nil {
				continue
			}
			if errors.Is(err, ErrStepSkipped) {
				log.Info("scenario skipped", "scenario", scenario.Name, "testcase", step.Text)
				result.Result = TestStatusSkipped
				break
			}
			result.Result = TestStatusFailed
			result.FailedTestcase = step.Text
			result.ErrorLog = err.Error()
			log.Error(err, "scenario failed", "scenario", scenario.Name, "testcase", step.Text)
			break
		}
		result.CheckedAt = time.Now().UTC()
		if result.Result == TestStatusPassed {
			log.Info("scenario passed", "scenario", scenario.Name)
		}
		results = append(results, result)
	}
	return results
}

// ParseAndRunTests validates the feature file and runs its scenarios.
// It returns the name of the feature and the result of every scenario.
func ParseAndRunTests(ctx context.Context, log logr.Logger, path, workflow string, registry *Registry, fetcher DataFetcher) (string, []TestResult, error) {
	feature, mapping, err := ValidateFeatureFile(log, path, registry)
	if err != nil {
		return "", nil, err
	}
	return feature.Name, RunTests(ctx, log, workflow, feature, mapping, fetcher), nil
}
