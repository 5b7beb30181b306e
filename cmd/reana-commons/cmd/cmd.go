// SPDX-FileCopyrightText: 2024 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/reanahub/reana-commons/cmd/reana-commons/cmd/memory"
	testcmd "github.com/reanahub/reana-commons/cmd/reana-commons/cmd/test"
	"github.com/reanahub/reana-commons/cmd/reana-commons/cmd/validate"
	versioncmd "github.com/reanahub/reana-commons/cmd/reana-commons/cmd/version"
	"github.com/reanahub/reana-commons/pkg/logger"
	"github.com/reanahub/reana-commons/pkg/util/cmdutil"
)

var configHelper = cmdutil.NewViperHelper(nil, "reana-commons", "$HOME/.reana", ".")

var rootCmd = &cobra.Command{
	Use:   "reana-commons",
	Short: "Validate and test REANA workflows",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if _, err := logger.NewCliLogger(); err != nil {
			return err
		}
		configHelper.BindPFlags(cmd.Flags(), cmd.Name())
		return configHelper.ReadInConfig()
	},
	SilenceUsage: true,
}

// Execute executes the reana-commons cli commands
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Printf("%v\n", err)
		os.Exit(1)
	}
}

func init() {
	logger.InitFlags(rootCmd.PersistentFlags())
	configHelper.InitFlags(rootCmd.PersistentFlags())

	validate.AddCommand(rootCmd)
	testcmd.AddCommand(rootCmd)
	memory.AddCommand(rootCmd)
	versioncmd.AddCommand(rootCmd)
}
