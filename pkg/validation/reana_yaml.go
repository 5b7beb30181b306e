// SPDX-FileCopyrightText: 2024 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package validation

import (
	_ "embed"
	"sort"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/xeipuuv/gojsonschema"

	"github.com/reanahub/reana-commons/pkg/apis/reana"
	reanaerrors "github.com/reanahub/reana-commons/pkg/common/error"
	"github.com/reanahub/reana-commons/pkg/logger"
)

//go:embed schemas/reana.json
var reanaSchemaJSON []byte

var (
	reanaSchemaOnce sync.Once
	reanaSchema     *gojsonschema.Schema
	reanaSchemaErr  error
)

const additionalPropertyErrorType = "additional_property_not_allowed"

// combinator errors only summarize the errors of their branches.
var weakErrorTypes = map[string]bool{
	"number_any_of": true,
	"number_one_of": true,
}

// SchemaWarnings are the non critical findings of the reana.yaml schema validation.
type SchemaWarnings struct {
	AdditionalProperties []reana.AdditionalPropertyWarning `json:"additional_properties,omitempty"`
}

// IsEmpty returns true if there is nothing to report.
func (w *SchemaWarnings) IsEmpty() bool {
	return w == nil || len(w.AdditionalProperties) == 0
}

// ValidateReanaYAML validates a reana.yaml document against the REANA specification schema.
// Unknown properties are returned as warnings, every other violation is critical and
// the most relevant one is returned as validation error.
func ValidateReanaYAML(spec reana.Specification) (*SchemaWarnings, error) {
	reanaSchemaOnce.Do(func() {
		reanaSchema, reanaSchemaErr = gojsonschema.NewSchema(gojsonschema.NewBytesLoader(reanaSchemaJSON))
	})
	if reanaSchemaErr != nil {
		return nil, errors.Wrap(reanaSchemaErr, "unable to compile the REANA specification schema")
	}

	result, err := reanaSchema.Validate(gojsonschema.NewGoLoader(map[string]interface{}(spec)))
	if err != nil {
		return nil, errors.Wrap(err, "unable to validate the REANA specification")
	}

	warnings := &SchemaWarnings{}
	var critical []gojsonschema.ResultError
	for _, e := range result.Errors() {
		if e.Type() == additionalPropertyErrorType {
			property, _ := e.Details()["property"].(string)
			warnings.AdditionalProperties = append(warnings.AdditionalProperties, reana.AdditionalPropertyWarning{
				Property: property,
				Path:     contextPath(e.Context()),
			})
			continue
		}
		critical = append(critical, e)
	}

	if best := bestMatch(critical); best != nil {
		logger.Log.Info("invalid REANA specification", "error", best.String())
		return warnings, reanaerrors.NewValidationErrorf("Invalid REANA specification: %s", best.String())
	}
	return warnings, nil
}

// contextPath returns the dot joined path of the validated node without the root marker.
func contextPath(ctx *gojsonschema.JsonContext) string {
	if ctx == nil {
		return ""
	}
	return strings.TrimPrefix(strings.TrimPrefix(ctx.String(), gojsonschema.STRING_CONTEXT_ROOT), ".")
}

func pathDepth(e gojsonschema.ResultError) int {
	p := contextPath(e.Context())
	if p == "" {
		return 0
	}
	return strings.Count(p, ".") + 1
}

// bestMatch picks the shallowest error and prefers concrete errors over combinator summaries.
func bestMatch(errs []gojsonschema.ResultError) gojsonschema.ResultError {
	if len(errs) == 0 {
		return nil
	}
	sorted := append([]gojsonschema.ResultError{}, errs...)
	sort.SliceStable(sorted, func(i, j int) bool {
		di, dj := pathDepth(sorted[i]), pathDepth(sorted[j])
		if di != dj {
			return di < dj
		}
		return !weakErrorTypes[sorted[i].Type()] && weakErrorTypes[sorted[j].Type()]
	})
	return sorted[0]
}
