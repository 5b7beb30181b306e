// SPDX-FileCopyrightText: 2024 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package workflowengine

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"strings"

	"github.com/pkg/errors"

	"github.com/reanahub/reana-commons/pkg/apis/reana"
	"github.com/reanahub/reana-commons/pkg/util"
)

// OptionsLoader converts the raw --operational-options value for an engine.
type OptionsLoader func(value, workflowWorkspace string) (interface{}, error)

var optionsLoaders = map[reana.WorkflowType]OptionsLoader{
	reana.WorkflowTypeCWL:       LoadCWLOperationalOptions,
	reana.WorkflowTypeSerial:    loadJSONOptions,
	reana.WorkflowTypeYadage:    LoadYadageOperationalOptions,
	reana.WorkflowTypeSnakemake: loadJSONOptions,
}

func decodeArgument(value string) ([]byte, error) {
	if value == "" {
		return nil, nil
	}
	// the first character is a marker added by the workflow controller
	data, err := base64.StdEncoding.DecodeString(value[1:])
	if err != nil {
		return nil, errors.Wrap(err, "unable to decode base64 argument")
	}
	return data, nil
}

// LoadJSON decodes a base64 encoded JSON argument whose first character is ignored.
// An empty value results in nil.
func LoadJSON(value string) (interface{}, error) {
	data, err := decodeArgument(value)
	if err != nil || data == nil {
		return nil, err
	}
	var out interface{}
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, errors.Wrap(err, "unable to parse json argument")
	}
	return out, nil
}

func loadJSONOptions(value, _ string) (interface{}, error) {
	return LoadJSON(value)
}

func loadOptionsMap(value string) (map[string]interface{}, error) {
	v, err := LoadJSON(value)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return map[string]interface{}{}, nil
	}
	m, ok := v.(map[string]interface{})
	if !ok {
		return nil, errors.New("operational options must be a json object")
	}
	return m, nil
}

// LoadYadageOperationalOptions makes toplevel, initdir and initfiles relative to the workspace.
// Remote toplevels starting with "github:" are kept as is.
func LoadYadageOperationalOptions(value, workflowWorkspace string) (interface{}, error) {
	opts, err := loadOptionsMap(value)
	if err != nil {
		return nil, err
	}
	toplevel := reana.ToString(opts["toplevel"])
	if !strings.HasPrefix(toplevel, "github:") {
		toplevel = util.JoinWorkspace(workflowWorkspace, toplevel)
	}
	opts["toplevel"] = toplevel
	opts["initdir"] = util.JoinWorkspace(workflowWorkspace, reana.ToString(opts["initdir"]))

	initfiles := []interface{}{}
	for _, f := range reana.GetSlice(opts, "initfiles") {
		initfiles = append(initfiles, util.JoinWorkspace(workflowWorkspace, reana.ToString(f)))
	}
	opts["initfiles"] = initfiles
	return opts, nil
}

// LoadCWLOperationalOptions flattens the options object into a cwltool argument list.
// The order of the options is kept.
func LoadCWLOperationalOptions(value, _ string) (interface{}, error) {
	data, err := decodeArgument(value)
	if err != nil {
		return nil, err
	}
	args := []string{}
	if data == nil {
		return args, nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, errors.Wrap(err, "unable to parse json argument")
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, errors.New("operational options must be a json object")
	}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, errors.Wrap(err, "unable to parse json argument")
		}
		var val interface{}
		if err := dec.Decode(&val); err != nil {
			return nil, errors.Wrap(err, "unable to parse json argument")
		}
		args = append(args, keyTok.(string), reana.ToString(val))
	}
	return args, nil
}
