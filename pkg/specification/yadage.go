// SPDX-FileCopyrightText: 2024 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package specification

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/reanahub/reana-commons/pkg/apis/reana"
	reanaerrors "github.com/reanahub/reana-commons/pkg/common/error"
)

const (
	// GithubToplevelPrefix marks workflow locations that are hosted on github.
	GithubToplevelPrefix = "github:"

	refKey      = "$ref"
	maxRefDepth = 64
)

// YadageLoad loads a yadage workflow, inlines all references and validates the result.
// References are resolved relative to the toplevel directory.
func YadageLoad(workflowFile, toplevel string) (map[string]interface{}, error) {
	if toplevel == "" {
		toplevel = "."
	}
	if strings.HasPrefix(toplevel, GithubToplevelPrefix) {
		return nil, reanaerrors.NewValidationErrorf("Loading yadage workflows from %q is not supported, only local toplevel directories can be used", toplevel)
	}

	r := &refResolver{toplevel: toplevel, documents: map[string]interface{}{}}
	doc, err := r.document(workflowFile)
	if err != nil {
		return nil, err
	}
	resolved, err := r.resolve(doc, doc, 0)
	if err != nil {
		return nil, err
	}
	spec, ok := resolved.(map[string]interface{})
	if !ok {
		return nil, reanaerrors.NewValidationErrorf("Yadage workflow %s is not a mapping", workflowFile)
	}
	if err := validateSchema("yadage.json", spec); err != nil {
		return nil, err
	}
	return spec, nil
}

// YadageLoadFromWorkspace loads the yadage workflow referenced by the reana specification
// from the workspace and returns a copy of the specification that contains it.
func YadageLoadFromWorkspace(workspacePath string, spec reana.Specification, toplevel string) (reana.Specification, error) {
	workflowFile := spec.WorkflowFile()
	if _, err := os.Stat(filepath.Join(workspacePath, workflowFile)); err != nil {
		return nil, errors.Errorf("Workflow file %s does not exist", workflowFile)
	}
	if !strings.HasPrefix(toplevel, GithubToplevelPrefix) {
		toplevel = filepath.Join(workspacePath, toplevel)
	}
	workflowSpec, err := YadageLoad(workflowFile, toplevel)
	if err != nil {
		return nil, err
	}
	out := reana.DeepCopy(spec).(reana.Specification)
	workflow := reana.AsMap(out["workflow"])
	if workflow == nil {
		workflow = map[string]interface{}{}
		out["workflow"] = workflow
	}
	workflow["specification"] = workflowSpec
	return out, nil
}

type refResolver struct {
	toplevel  string
	documents map[string]interface{}
}

func (r *refResolver) document(name string) (interface{}, error) {
	if doc, ok := r.documents[name]; ok {
		return doc, nil
	}
	doc, err := readYAMLFile(filepath.Join(r.toplevel, name))
	if err != nil {
		return nil, errors.Wrapf(err, "unable to load yadage document %s", name)
	}
	r.documents[name] = doc
	return doc, nil
}

// resolve replaces all {"$ref": "file#/pointer"} nodes below node.
// root is the document that same-document references point into.
func (r *refResolver) resolve(node, root interface{}, depth int) (interface{}, error) {
	if depth > maxRefDepth {
		return nil, reanaerrors.NewValidationError("Yadage workflow references are nested too deep or cyclic")
	}
	switch t := node.(type) {
	case map[string]interface{}:
		if ref, ok := t[refKey].(string); ok && len(t) == 1 {
			target, targetRoot, err := r.lookup(ref, root)
			if err != nil {
				return nil, err
			}
			return r.resolve(target, targetRoot, depth+1)
		}
		out := make(map[string]interface{}, len(t))
		for k, v := range t {
			res, err := r.resolve(v, root, depth)
			if err != nil {
				return nil, err
			}
			out[k] = res
		}
		return out, nil
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, v := range t {
			res, err := r.resolve(v, root, depth)
			if err != nil {
				return nil, err
			}
			out[i] = res
		}
		return out, nil
	}
	return node, nil
}

func (r *refResolver) lookup(ref string, root interface{}) (interface{}, interface{}, error) {
	file, pointer, _ := strings.Cut(ref, "#")
	doc := root
	if file != "" {
		var err error
		if doc, err = r.document(file); err != nil {
			return nil, nil, err
		}
	}
	target, err := jsonPointer(doc, pointer)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "unable to resolve reference %q", ref)
	}
	return target, doc, nil
}

// jsonPointer evaluates a RFC 6901 pointer.
func jsonPointer(doc interface{}, pointer string) (interface{}, error) {
	if pointer == "" || pointer == "/" {
		return doc, nil
	}
	if !strings.HasPrefix(pointer, "/") {
		return nil, errors.Errorf("invalid json pointer %q", pointer)
	}
	current := doc
	for _, token := range strings.Split(pointer[1:], "/") {
		token = strings.ReplaceAll(strings.ReplaceAll(token, "~1", "/"), "~0", "~")
		switch t := current.(type) {
		case map[string]interface{}:
			v, ok := t[token]
			if !ok {
				return nil, errors.Errorf("key %q not found", token)
			}
			current = v
		case []interface{}:
			i, err := strconv.Atoi(token)
			if err != nil || i < 0 || i >= len(t) {
				return nil, errors.Errorf("index %q out of range", token)
			}
			current = t[i]
		default:
			return nil, errors.Errorf("cannot descend into %q", token)
		}
	}
	return current, nil
}
