// SPDX-FileCopyrightText: 2024 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package util

import (
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/pkg/errors"
)

// PrintTable renders rows as a table with upper case headers.
// If filter is not empty only the columns whose header matches a filter entry (case insensitive) are printed.
func PrintTable(output io.Writer, headers []string, filter []string, rows [][]string) error {
	indexes := make([]int, 0, len(headers))
	for i, h := range headers {
		if len(filter) == 0 || containsFold(filter, h) {
			indexes = append(indexes, i)
		}
	}

	header := make([]any, len(indexes))
	for i, idx := range indexes {
		header[i] = strings.ToUpper(headers[idx])
	}

	content := make([][]string, len(rows))
	for r, row := range rows {
		content[r] = make([]string, len(indexes))
		for i, idx := range indexes {
			if idx < len(row) {
				content[r][i] = row[idx]
			}
		}
	}

	table := tablewriter.NewWriter(output)
	table.Header(header...)
	if err := table.Bulk(content); err != nil {
		return errors.Wrap(err, "unable to add table rows")
	}
	return table.Render()
}

func containsFold(list []string, value string) bool {
	for _, item := range list {
		if strings.EqualFold(item, value) {
			return true
		}
	}
	return false
}
