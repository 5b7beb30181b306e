// SPDX-FileCopyrightText: 2024 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package util

import (
	"io/fs"
	"path/filepath"
	"time"
)

// CalculateFileAccessTime returns the last access time of every file in a workspace.
func CalculateFileAccessTime(workspace string) (map[string]time.Time, error) {
	accessTimes := map[string]time.Time{}
	err := filepath.WalkDir(workspace, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		accessTimes[path] = accessTime(info)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return accessTimes, nil
}
