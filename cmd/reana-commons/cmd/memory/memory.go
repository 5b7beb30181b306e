// SPDX-FileCopyrightText: 2024 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package memory

import (
	"io"
	"strconv"

	"github.com/dustin/go-humanize"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/reanahub/reana-commons/pkg/util"
)

// AddCommand adds memory to a command.
func AddCommand(cmd *cobra.Command) {
	cmd.AddCommand(NewMemoryCommand())
}

// NewMemoryCommand creates the command that converts kubernetes memory values.
func NewMemoryCommand() *cobra.Command {
	var limit string
	cmd := &cobra.Command{
		Use:   "memory <value>...",
		Short: "Convert kubernetes memory values to bytes and check them against a limit",
		Args:  cobra.MinimumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			if err := printMemory(cmd.OutOrStdout(), args, limit); err != nil {
				log.Fatal(err.Error())
			}
		},
	}
	cmd.Flags().StringVar(&limit, "limit", "", "Maximum memory a job may request, e.g. 16Gi")
	return cmd
}

func printMemory(w io.Writer, values []string, limit string) error {
	rows := make([][]string, 0, len(values))
	for _, value := range values {
		if err := util.ValidateKubernetesMemoryLimit(value, limit); err != nil {
			return err
		}
		bytes, err := util.KubernetesMemoryToBytes(value)
		if err != nil {
			return err
		}
		rows = append(rows, []string{value, strconv.FormatInt(bytes, 10), humanize.IBytes(uint64(bytes))})
	}
	return util.PrintTable(w, []string{"memory", "bytes", "human readable"}, nil, rows)
}
