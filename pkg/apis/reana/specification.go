// SPDX-FileCopyrightText: 2024 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package reana

import (
	"fmt"
	"strconv"
)

// Specification is a parsed reana.yaml document.
// All values are JSON compatible: maps, slices, strings, float64, bool and nil.
type Specification map[string]interface{}

// Workflow returns the "workflow" section.
func (s Specification) Workflow() map[string]interface{} {
	return GetMap(s, "workflow")
}

// Type returns the workflow type of the specification.
func (s Specification) Type() (WorkflowType, error) {
	return ParseWorkflowType(GetString(s, "workflow", "type"))
}

// WorkflowFile returns workflow.file.
func (s Specification) WorkflowFile() string {
	return GetString(s, "workflow", "file")
}

// WorkflowSpecification returns workflow.specification.
func (s Specification) WorkflowSpecification() interface{} {
	v, _ := Get(s, "workflow", "specification")
	return v
}

// HasInputs returns true if the specification declares an inputs section.
func (s Specification) HasInputs() bool {
	_, ok := s["inputs"]
	return ok
}

// InputParameters returns inputs.parameters.
func (s Specification) InputParameters() map[string]interface{} {
	return GetMap(s, "inputs", "parameters")
}

// InputOptions returns inputs.options.
func (s Specification) InputOptions() map[string]interface{} {
	return GetMap(s, "inputs", "options")
}

// Get walks the tree along the given keys.
// Map keys are looked up by name, slice elements by their decimal index.
func Get(obj interface{}, keys ...string) (interface{}, bool) {
	current := obj
	for _, key := range keys {
		switch t := current.(type) {
		case Specification:
			v, ok := t[key]
			if !ok {
				return nil, false
			}
			current = v
		case map[string]interface{}:
			v, ok := t[key]
			if !ok {
				return nil, false
			}
			current = v
		case []interface{}:
			idx, err := strconv.Atoi(key)
			if err != nil || idx < 0 || idx >= len(t) {
				return nil, false
			}
			current = t[idx]
		default:
			return nil, false
		}
	}
	return current, true
}

// GetMap returns the map at the given keys or nil.
func GetMap(obj interface{}, keys ...string) map[string]interface{} {
	v, _ := Get(obj, keys...)
	return AsMap(v)
}

// GetSlice returns the slice at the given keys or nil.
func GetSlice(obj interface{}, keys ...string) []interface{} {
	v, _ := Get(obj, keys...)
	s, _ := v.([]interface{})
	return s
}

// GetString returns the string at the given keys or an empty string.
func GetString(obj interface{}, keys ...string) string {
	v, _ := Get(obj, keys...)
	s, _ := v.(string)
	return s
}

// AsMap converts both map representations of a tree node.
func AsMap(v interface{}) map[string]interface{} {
	switch t := v.(type) {
	case map[string]interface{}:
		return t
	case Specification:
		return t
	}
	return nil
}

// ToString renders scalar values the way they appear in a document.
func ToString(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case bool:
		return strconv.FormatBool(t)
	}
	return fmt.Sprintf("%v", v)
}

// IsTruthy mirrors the emptiness semantics of document values:
// nil, false, zero, empty strings and empty collections are falsy.
func IsTruthy(v interface{}) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case float64:
		return t != 0
	case int:
		return t != 0
	case int64:
		return t != 0
	case []interface{}:
		return len(t) != 0
	case []string:
		return len(t) != 0
	case map[string]interface{}:
		return len(t) != 0
	case Specification:
		return len(t) != 0
	}
	return true
}

// DeepCopy copies a JSON compatible tree.
func DeepCopy(v interface{}) interface{} {
	switch t := v.(type) {
	case Specification:
		return Specification(DeepCopy(map[string]interface{}(t)).(map[string]interface{}))
	case map[string]interface{}:
		out := make(map[string]interface{}, len(t))
		for k, val := range t {
			out[k] = DeepCopy(val)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, val := range t {
			out[i] = DeepCopy(val)
		}
		return out
	case []string:
		out := make([]string, len(t))
		copy(out, t)
		return out
	}
	return v
}
