// SPDX-FileCopyrightText: 2024 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package specification

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"

	reanaerrors "github.com/reanahub/reana-commons/pkg/common/error"
	"github.com/reanahub/reana-commons/pkg/util"
)

// CWLTool is the command that packs cwl workflows.
const CWLTool = "cwltool"

// CWLLoad packs the cwl workflow with all its referenced documents and returns the result.
func CWLLoad(ctx context.Context, workflowFile string, opts LoadOptions) (map[string]interface{}, error) {
	workflowFile = util.JoinWorkspace(opts.BaseDir, workflowFile)
	out, err := opts.runner().Run(ctx, CWLTool, "--pack", "--quiet", workflowFile)
	if err != nil {
		return nil, reanaerrors.NewExternalToolError(CWLTool, err)
	}
	spec := map[string]interface{}{}
	if err := json.Unmarshal(out, &spec); err != nil {
		return nil, errors.Wrapf(err, "unable to parse packed cwl workflow %s", workflowFile)
	}
	return spec, nil
}
