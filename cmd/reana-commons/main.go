// SPDX-FileCopyrightText: 2024 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"github.com/reanahub/reana-commons/cmd/reana-commons/cmd"
)

func main() {
	cmd.Execute()
}
