// SPDX-FileCopyrightText: 2024 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package specification

// DefaultSnakemakeExporter prints the job dependencies and steps of a Snakefile as JSON.
var DefaultSnakemakeExporter = []string{"reana-snakemake-export"}

// LoadOptions configures the workflow loaders.
// Every loader only reads the fields relevant to its workflow type.
type LoadOptions struct {
	// Specification is an already parsed serial specification.
	Specification interface{}
	// Parameters are expanded in the serial commands.
	Parameters map[string]interface{}
	// Original returns serial specifications without expanding the parameters.
	Original bool

	// BaseDir is the directory the cwl workflow file is relative to.
	BaseDir string

	// Toplevel is the directory the yadage workflow file and its references are relative to.
	Toplevel string

	// Input is the snakemake config file.
	Input string
	// Workdir is the snakemake working directory.
	Workdir string
	// SnakemakeExporter is the command that exports the snakemake DAG.
	// It defaults to DefaultSnakemakeExporter.
	SnakemakeExporter []string

	// OperationalOptions are the engine options of the workflow run.
	OperationalOptions map[string]interface{}

	// Runner executes external tools. It defaults to ExecRunner.
	Runner Runner
}

func (o LoadOptions) runner() Runner {
	if o.Runner == nil {
		return ExecRunner{}
	}
	return o.Runner
}
