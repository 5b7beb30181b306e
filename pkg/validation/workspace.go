// SPDX-FileCopyrightText: 2024 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package validation

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/reanahub/reana-commons/pkg/apis/reana"
	reanaerrors "github.com/reanahub/reana-commons/pkg/common/error"
)

// DefaultWorkflowNameIllegalCharacters are not allowed in workflow names.
var DefaultWorkflowNameIllegalCharacters = []string{"."}

// ValidateWorkflowName returns an error if the name contains one of the illegal characters.
// Empty names are valid.
func ValidateWorkflowName(name string, illegalCharacters []string) error {
	if illegalCharacters == nil {
		illegalCharacters = DefaultWorkflowNameIllegalCharacters
	}
	for _, c := range illegalCharacters {
		if c != "" && strings.Contains(name, c) {
			return reanaerrors.NewValidationErrorf(`Workflow name %s contains illegal character "%s"`, name, c)
		}
	}
	return nil
}

// ValidateWorkspace checks that the workspace is located below one of the available paths.
// Empty workspaces are valid.
func ValidateWorkspace(workspace string, available []string) error {
	if workspace == "" {
		return nil
	}
	ws, err := filepath.Abs(workspace)
	if err != nil {
		return reanaerrors.NewValidationErrorf("Desired workspace %q is not valid: %s", workspace, err)
	}
	ws = withTrailingSeparator(ws)
	for _, p := range available {
		abs, err := filepath.Abs(p)
		if err != nil {
			continue
		}
		if strings.HasPrefix(ws, withTrailingSeparator(abs)) {
			return nil
		}
	}
	return reanaerrors.NewValidationErrorf("Desired workspace \"%s\" is not valid.\nAvailable workspace prefix values are: %s",
		workspace, strings.Join(available, ", "))
}

func withTrailingSeparator(p string) string {
	if strings.HasSuffix(p, string(filepath.Separator)) {
		return p
	}
	return p + string(filepath.Separator)
}

// HTCondorJobFlavours are the named maximum runtimes of HTCondor jobs in seconds.
var HTCondorJobFlavours = map[string]int{
	"espresso":     1200,
	"microcentury": 3600,
	"longlunch":    7200,
	"workday":      28800,
	"tomorrow":     86400,
	"testmatch":    259200,
	"nextweek":     604800,
}

// htcondorJobFlavourNames are sorted by runtime.
var htcondorJobFlavourNames = []string{"espresso", "microcentury", "longlunch", "workday", "tomorrow", "testmatch", "nextweek"}

// CheckHTCondorMaxRuntime checks the htcondor_max_runtime of all serial steps.
// It returns false and a message per invalid step if a value is neither a number nor a job flavour.
func CheckHTCondorMaxRuntime(workflowSpec map[string]interface{}) (bool, []string) {
	var (
		ok       = true
		messages []string
		i        int
	)
	for _, step := range reana.GetSlice(workflowSpec, "steps") {
		raw, _ := reana.Get(step, "htcondor_max_runtime")
		if !reana.IsTruthy(raw) {
			continue
		}
		value := reana.ToString(raw)
		if _, flavour := HTCondorJobFlavours[value]; !isDigits(value) && !flavour {
			ok = false
			name := fmt.Sprint(i)
			if n, found := reana.Get(step, "name"); found {
				name = reana.ToString(n)
			}
			messages = append(messages, fmt.Sprintf("In step %s:\n'%s' is not a valid input for htcondor_max_runtime. Inputs must be a digit in the form of a string, or one of the following job flavours: '%s'.",
				name, value, strings.Join(htcondorJobFlavourNames, "' '")))
		}
		i++
	}
	return ok, messages
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
