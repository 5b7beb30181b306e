// SPDX-FileCopyrightText: 2024 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package util

import (
	"encoding/base64"
	"fmt"

	"github.com/google/uuid"
	"github.com/kballard/go-shellquote"
	"github.com/pkg/errors"
)

// ComponentTypes are the kinds of REANA owned kubernetes resources.
var ComponentTypes = []string{"run-batch", "run-session", "run-job", "secretsstore", "cache"}

// SerialiseJobCommand encodes a job command for the job controller REST API.
func SerialiseJobCommand(command string) string {
	return base64.StdEncoding.EncodeToString([]byte(command))
}

// DeserialiseJobCommand decodes a job command received through the job controller REST API.
func DeserialiseJobCommand(command string) (string, error) {
	data, err := base64.StdEncoding.DecodeString(command)
	if err != nil {
		return "", errors.Wrap(err, "unable to decode job command")
	}
	return string(data), nil
}

// FormatCmd returns a command as list of arguments.
// Strings result in a single element list.
func FormatCmd(cmd interface{}) ([]string, error) {
	switch t := cmd.(type) {
	case string:
		return []string{t}, nil
	case []string:
		return t, nil
	case []interface{}:
		out := make([]string, len(t))
		for i, v := range t {
			s, ok := v.(string)
			if !ok {
				return nil, fmt.Errorf("Command should be a list or a string and not %T", cmd)
			}
			out[i] = s
		}
		return out, nil
	}
	return nil, fmt.Errorf("Command should be a list or a string and not %T", cmd)
}

// PrettifyCmd joins a command list into a copy-pasteable shell command.
func PrettifyCmd(cmd []string) string {
	return shellquote.Join(cmd...)
}

// BuildUniqueComponentName builds a human readable name of a REANA component like "reana-run-job-<id>".
// A random id is generated if none is given.
func BuildUniqueComponentName(prefix, componentType, id string) (string, error) {
	valid := false
	for _, t := range ComponentTypes {
		if t == componentType {
			valid = true
			break
		}
	}
	if !valid {
		return "", fmt.Errorf("%s not valid component type.\nChoose one of: %v", componentType, ComponentTypes)
	}
	if id == "" {
		id = uuid.New().String()
	}
	return fmt.Sprintf("%s-%s-%s", prefix, componentType, id), nil
}
