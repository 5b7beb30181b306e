// SPDX-FileCopyrightText: 2024 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package specification

import (
	"embed"
	"fmt"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/xeipuuv/gojsonschema"

	reanaerrors "github.com/reanahub/reana-commons/pkg/common/error"
)

//go:embed schemas/*.json
var schemaFS embed.FS

var (
	schemasMux sync.Mutex
	schemas    = map[string]*gojsonschema.Schema{}
)

// loadSchema compiles and caches an embedded schema.
func loadSchema(name string) (*gojsonschema.Schema, error) {
	schemasMux.Lock()
	defer schemasMux.Unlock()
	if s, ok := schemas[name]; ok {
		return s, nil
	}
	data, err := schemaFS.ReadFile("schemas/" + name)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to read schema %s", name)
	}
	s, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return nil, errors.Wrapf(err, "unable to compile schema %s", name)
	}
	schemas[name] = s
	return s, nil
}

// validateSchema validates the document and returns a validation error naming all violations.
func validateSchema(name string, document interface{}) error {
	s, err := loadSchema(name)
	if err != nil {
		return err
	}
	result, err := s.Validate(gojsonschema.NewGoLoader(document))
	if err != nil {
		return errors.Wrap(err, "unable to validate document")
	}
	if result.Valid() {
		return nil
	}
	msgs := make([]string, len(result.Errors()))
	for i, e := range result.Errors() {
		msgs[i] = e.String()
	}
	return reanaerrors.NewValidationError(fmt.Sprintf("Invalid %s specification: %s", strings.TrimSuffix(name, ".json"), strings.Join(msgs, "; ")))
}
