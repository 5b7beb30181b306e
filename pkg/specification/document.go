// SPDX-FileCopyrightText: 2024 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package specification

import (
	"encoding/json"
	"os"

	"github.com/pkg/errors"
	"sigs.k8s.io/yaml"
)

// normalizeDocument returns a deep copy of the document that only consists of
// JSON types: maps with string keys, []interface{}, float64, strings and bools.
func normalizeDocument(doc interface{}) (map[string]interface{}, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, errors.Wrap(err, "unable to encode document")
	}
	out := map[string]interface{}{}
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, errors.Wrap(err, "unable to decode document")
	}
	return out, nil
}

// readYAMLFile reads a yaml or json file into a JSON compatible tree.
func readYAMLFile(path string) (interface{}, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var out interface{}
	if err := yaml.Unmarshal(data, &out); err != nil {
		return nil, errors.Wrapf(err, "unable to parse %s", path)
	}
	return out, nil
}

// ReadYAMLMap reads a yaml file whose top level node is a mapping.
func ReadYAMLMap(path string) (map[string]interface{}, error) {
	doc, err := readYAMLFile(path)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return map[string]interface{}{}, nil
	}
	m, ok := doc.(map[string]interface{})
	if !ok {
		return nil, errors.Errorf("%s does not contain a mapping", path)
	}
	return m, nil
}
