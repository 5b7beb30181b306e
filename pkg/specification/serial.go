// SPDX-FileCopyrightText: 2024 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package specification

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/pkg/errors"

	"github.com/reanahub/reana-commons/pkg/apis/reana"
	reanaerrors "github.com/reanahub/reana-commons/pkg/common/error"
)

// placeholderRegexp matches "$$", "$name", "${name}" and a bare "$" that starts none of them.
var placeholderRegexp = regexp.MustCompile(`\$(?:(\$)|([_a-zA-Z][_a-zA-Z0-9]*)|\{([_a-zA-Z][_a-zA-Z0-9]*)\}|())`)

// SerialLoad validates and returns a serial workflow specification.
// Unless opts.Original is set, the parameters are expanded in all step commands.
func SerialLoad(workflowFile string, opts LoadOptions) (map[string]interface{}, error) {
	spec := reana.AsMap(opts.Specification)
	if len(spec) == 0 {
		data, err := os.ReadFile(workflowFile)
		if err != nil {
			return nil, errors.Wrapf(err, "unable to read serial workflow file %s", workflowFile)
		}
		if err := json.Unmarshal(data, &spec); err != nil {
			return nil, errors.Wrapf(err, "unable to parse serial workflow file %s", workflowFile)
		}
	}

	expanded, err := normalizeDocument(spec)
	if err != nil {
		return nil, err
	}
	if err := validateSchema("serial.json", expanded); err != nil {
		return nil, err
	}
	if opts.Original {
		return expanded, nil
	}
	for _, step := range reana.GetSlice(expanded, "steps") {
		commands := reana.GetSlice(step, "commands")
		for i, command := range commands {
			res, err := ExpandParameters(reana.ToString(command), opts.Parameters)
			if err != nil {
				return nil, err
			}
			commands[i] = res
		}
	}
	return expanded, nil
}

// ExpandParameters substitutes "$name" and "${name}" with the given parameters.
// "$$" is an escaped dollar sign.
func ExpandParameters(template string, parameters map[string]interface{}) (string, error) {
	var (
		out  strings.Builder
		last int
	)
	for _, m := range placeholderRegexp.FindAllStringSubmatchIndex(template, -1) {
		out.WriteString(template[last:m[0]])
		last = m[1]
		switch {
		case m[2] != -1:
			out.WriteString("$")
		case m[4] != -1 || m[6] != -1:
			name := template[m[4]:m[5]]
			if m[6] != -1 {
				name = template[m[6]:m[7]]
			}
			value, ok := parameters[name]
			if !ok {
				return "", reanaerrors.NewValidationErrorf("Workflow parameter(s) could not be expanded. Please take a look to '%s'", name)
			}
			out.WriteString(reana.ToString(value))
		default:
			return "", reanaerrors.NewValidationError(fmt.Sprintf("Invalid placeholder in command %q at position %d", template, m[0]))
		}
	}
	out.WriteString(template[last:])
	return out.String(), nil
}
