// SPDX-FileCopyrightText: 2024 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

//go:build !linux

package util

import (
	"io/fs"
	"time"
)

// accessTime falls back to the modification time where the access time is not portable.
func accessTime(info fs.FileInfo) time.Time {
	return info.ModTime()
}
