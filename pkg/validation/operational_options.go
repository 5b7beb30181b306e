// SPDX-FileCopyrightText: 2024 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package validation

import (
	"github.com/reanahub/reana-commons/pkg/apis/reana"
	reanaerrors "github.com/reanahub/reana-commons/pkg/common/error"
)

// AvailableOperationalOptions maps every operational option to its name per workflow engine.
var AvailableOperationalOptions = map[string]map[reana.WorkflowType]string{
	"CACHE":          {reana.WorkflowTypeSerial: "CACHE"},
	"FROM":           {reana.WorkflowTypeSerial: "FROM"},
	"TARGET":         {reana.WorkflowTypeSerial: "TARGET", reana.WorkflowTypeCWL: "--target"},
	"toplevel":       {reana.WorkflowTypeYadage: "toplevel"},
	"initdir":        {reana.WorkflowTypeYadage: "initdir"},
	"initfiles":      {reana.WorkflowTypeYadage: "initfiles"},
	"accept_metadir": {reana.WorkflowTypeYadage: "accept_metadir"},
	"report":         {reana.WorkflowTypeSnakemake: "report"},
}

// ValidateOperationalOptions validates the options for the workflow type and
// translates them to the engine specific names.
func ValidateOperationalOptions(workflowType reana.WorkflowType, parsedOptions interface{}) (map[string]interface{}, error) {
	opts := reana.AsMap(parsedOptions)
	if opts == nil {
		if m, ok := parsedOptions.(map[string]string); ok {
			opts = make(map[string]interface{}, len(m))
			for k, v := range m {
				opts[k] = v
			}
		} else {
			return nil, reanaerrors.NewValidationError("==> ERROR: Operational options must be a dictionary.")
		}
	}
	if len(opts) == 0 {
		return opts, nil
	}

	validated := make(map[string]interface{}, len(opts))
	for k, v := range opts {
		validated[k] = reana.DeepCopy(v)
	}
	for _, option := range sortedKeys(opts) {
		translations, ok := AvailableOperationalOptions[option]
		if !ok {
			return nil, reanaerrors.NewValidationErrorf(`==> ERROR: Operational option "%s" not supported.`, option)
		}
		translation, ok := translations[workflowType]
		if !ok || translation == "" {
			return nil, reanaerrors.NewValidationErrorf(`==> ERROR: Operational option "%s" not supported for %s workflows.`, option, workflowType)
		}
		if _, known := AvailableOperationalOptions[translation]; !known {
			validated[translation] = validated[option]
			delete(validated, option)
		}
	}
	return validated, nil
}
