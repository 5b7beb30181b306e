// SPDX-FileCopyrightText: 2024 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package gherkin

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
)

var sizeRegexp = regexp.MustCompile(`^(\d+(\.\d+)?)\s*([A-Za-z]*)`)

// sizeUnits are binary multiples only.
var sizeUnits = map[string]uint64{
	"":      humanize.Byte,
	"bytes": humanize.Byte,
	"B":     humanize.Byte,
	"KiB":   humanize.KiByte,
	"MiB":   humanize.MiByte,
	"GiB":   humanize.GiByte,
	"TiB":   humanize.TiByte,
	"PiB":   humanize.PiByte,
}

// HumanReadableToRaw converts a size like "1024", "1234 bytes" or "1.5 GiB" to bytes.
func HumanReadableToRaw(dim string) (int64, error) {
	m := sizeRegexp.FindStringSubmatch(dim)
	if m == nil {
		return 0, fmt.Errorf("Unable to parse \"%s\"", dim)
	}
	size, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, fmt.Errorf("Unable to parse \"%s\"", dim)
	}
	factor, ok := sizeUnits[m[3]]
	if !ok {
		return 0, fmt.Errorf("Unknown unit \"%s\"", m[3])
	}
	return int64(size * float64(factor)), nil
}

// formatFloat renders floats with at least one decimal.
func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}
