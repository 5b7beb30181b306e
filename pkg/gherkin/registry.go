// SPDX-FileCopyrightText: 2024 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package gherkin

import (
	"context"
	"fmt"
	"regexp"
	"strings"
)

// StepFunc implements a step. Arguments are the named placeholders of the matched pattern.
type StepFunc func(ctx context.Context, workflow string, args map[string]string, fetcher DataFetcher) error

// StepDefinition maps step texts to a function.
type StepDefinition struct {
	Name     string
	Type     StepType
	Patterns []string
	Func     StepFunc

	compiled []*regexp.Regexp
}

var placeholderRegexp = regexp.MustCompile(`\{([A-Za-z_][A-Za-z0-9_]*)?\}`)

// compilePattern converts a pattern like `the workflow is {status}` into a regular expression
// that matches the whole text case insensitively. Placeholders match lazily.
func compilePattern(pattern string) (*regexp.Regexp, error) {
	var (
		expr strings.Builder
		last int
		seen = map[string]bool{}
	)
	expr.WriteString(`(?is)^`)
	for _, loc := range placeholderRegexp.FindAllStringSubmatchIndex(pattern, -1) {
		expr.WriteString(regexp.QuoteMeta(pattern[last:loc[0]]))
		if loc[2] < 0 {
			expr.WriteString(`(.+?)`)
		} else {
			name := pattern[loc[2]:loc[3]]
			if seen[name] {
				return nil, fmt.Errorf("duplicate placeholder %q in pattern %q", name, pattern)
			}
			seen[name] = true
			fmt.Fprintf(&expr, `(?P<%s>.+?)`, name)
		}
		last = loc[1]
	}
	expr.WriteString(regexp.QuoteMeta(pattern[last:]))
	expr.WriteString(`$`)
	return regexp.Compile(expr.String())
}

// Match returns the named arguments if the text matches one of the patterns.
// Patterns are tried in order.
func (d *StepDefinition) Match(text string) (map[string]string, bool) {
	for _, re := range d.compiled {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		args := map[string]string{}
		for i, name := range re.SubexpNames() {
			if i == 0 || name == "" {
				continue
			}
			args[name] = m[i]
		}
		return args, true
	}
	return nil, false
}

// Registry contains the step definitions by step type in registration order.
type Registry struct {
	definitions map[StepType][]*StepDefinition
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{definitions: map[StepType][]*StepDefinition{}}
}

// Register adds a step definition.
func (r *Registry) Register(stepType StepType, name string, fn StepFunc, patterns ...string) error {
	if len(patterns) == 0 {
		return fmt.Errorf("step definition %s has no patterns", name)
	}
	def := &StepDefinition{
		Name:     name,
		Type:     stepType,
		Patterns: patterns,
		Func:     fn,
	}
	for _, p := range patterns {
		re, err := compilePattern(p)
		if err != nil {
			return err
		}
		def.compiled = append(def.compiled, re)
	}
	r.definitions[stepType] = append(r.definitions[stepType], def)
	return nil
}

func (r *Registry) mustRegister(stepType StepType, name string, fn StepFunc, patterns ...string) {
	if err := r.Register(stepType, name, fn, patterns...); err != nil {
		panic(err)
	}
}

// Given registers a context step.
func (r *Registry) Given(name string, fn StepFunc, patterns ...string) error {
	return r.Register(StepTypeContext, name, fn, patterns...)
}

// When registers an action step.
func (r *Registry) When(name string, fn StepFunc, patterns ...string) error {
	return r.Register(StepTypeAction, name, fn, patterns...)
}

// Then registers an outcome step.
func (r *Registry) Then(name string, fn StepFunc, patterns ...string) error {
	return r.Register(StepTypeOutcome, name, fn, patterns...)
}

// Definitions returns the step definitions of a type.
func (r *Registry) Definitions(stepType StepType) []*StepDefinition {
	return r.definitions[stepType]
}

// Resolve returns the first step definition of the type matching the text.
func (r *Registry) Resolve(stepType StepType, text string) (*StepDefinition, map[string]string, bool) {
	for _, def := range r.definitions[stepType] {
		if args, ok := def.Match(text); ok {
			return def, args, true
		}
	}
	return nil, nil, false
}
