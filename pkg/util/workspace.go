// SPDX-FileCopyrightText: 2024 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package util

import (
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"

	reanaerrors "github.com/reanahub/reana-commons/pkg/common/error"
)

// RemoveUpperLevelReferences collapses separators and up-level references
// so that the path cannot point outside of the working directory.
func RemoveUpperLevelReferences(p string) string {
	return strings.TrimLeft(path.Clean("/"+p), "/")
}

// JoinWorkspace resolves p against the workspace.
// Absolute paths are kept, an empty p resolves to the workspace with a trailing separator.
func JoinWorkspace(workspace, p string) string {
	if workspace == "" || filepath.IsAbs(p) {
		return p
	}
	if p == "" {
		return strings.TrimSuffix(workspace, "/") + "/"
	}
	return filepath.Join(workspace, p)
}

// IsDirectory returns the full path of p in directory if it is a directory.
func IsDirectory(directory, p string) (string, bool) {
	full := filepath.Join(directory, RemoveUpperLevelReferences(p))
	info, err := os.Stat(full)
	if err != nil || !info.IsDir() {
		return "", false
	}
	return full, true
}

// GetFilesRecursiveWildcard returns the paths in directory matching the glob pattern.
// A directory matches all of its direct children. The result is sorted by descending length.
func GetFilesRecursiveWildcard(directory, pattern string) ([]string, error) {
	secure := RemoveUpperLevelReferences(pattern)
	if _, ok := IsDirectory(directory, secure); ok {
		secure = strings.TrimRight(secure, "/") + "/*"
	}
	paths, err := filepath.Glob(filepath.Join(directory, secure))
	if err != nil {
		return nil, errors.Wrapf(err, "invalid pattern %q", pattern)
	}
	sort.SliceStable(paths, func(i, j int) bool {
		return len(paths[i]) > len(paths[j])
	})
	return paths, nil
}

// FileSize is the size of a workspace entry.
type FileSize struct {
	Raw           int64  `json:"raw"`
	HumanReadable string `json:"human_readable,omitempty"`
}

// DiskUsage is the disk usage of a workspace entry.
// Names are relative to the workspace and start with a slash; the workspace itself has an empty name.
type DiskUsage struct {
	Name string   `json:"name"`
	Size FileSize `json:"size"`
}

// DiskUsageSearch filters the disk usage entries.
type DiskUsageSearch struct {
	// Name are glob patterns relative to the workspace.
	Name []string `json:"name,omitempty"`
	// Size are exact sizes in bytes.
	Size []string `json:"size,omitempty"`
}

// GetDiskUsage returns the apparent disk usage of a directory.
// If summarize is true only the total of the directory is returned,
// otherwise every file and directory is listed with directories after their content.
func GetDiskUsage(directory string, summarize bool, search *DiskUsageSearch, humanReadable bool) ([]DiskUsage, error) {
	if _, err := os.Stat(directory); err != nil {
		return nil, reanaerrors.NewMissingWorkspaceError("Directory does not exist.")
	}
	directory = filepath.Clean(directory)

	roots := []string{directory}
	if search != nil && len(search.Name) != 0 {
		roots = nil
		for _, pattern := range search.Name {
			paths, err := GetFilesRecursiveWildcard(directory, pattern)
			if err != nil {
				return nil, err
			}
			roots = append(roots, paths...)
		}
		if len(roots) == 0 {
			return []DiskUsage{}, nil
		}
	}

	var entries []DiskUsage
	for _, root := range roots {
		usage, err := diskUsage(root, summarize)
		if err != nil {
			return nil, err
		}
		entries = append(entries, usage...)
	}

	result := make([]DiskUsage, 0, len(entries))
	for _, entry := range entries {
		entry.Name = strings.TrimPrefix(entry.Name, directory)
		if humanReadable {
			entry.Size.HumanReadable = humanize.IBytes(uint64(entry.Size.Raw))
		}
		if search != nil && len(search.Size) != 0 && !containsString(search.Size, strconv.FormatInt(entry.Size.Raw, 10)) {
			continue
		}
		result = append(result, entry)
	}
	return result, nil
}

// diskUsage walks root and sums up the apparent sizes.
func diskUsage(root string, summarize bool) ([]DiskUsage, error) {
	var entries []DiskUsage
	var walk func(p string, d fs.DirEntry) (int64, error)
	walk = func(p string, d fs.DirEntry) (int64, error) {
		info, err := d.Info()
		if err != nil {
			return 0, err
		}
		size := info.Size()
		if d.IsDir() {
			children, err := os.ReadDir(p)
			if err != nil {
				return 0, err
			}
			for _, child := range children {
				childSize, err := walk(filepath.Join(p, child.Name()), child)
				if err != nil {
					return 0, err
				}
				size += childSize
			}
		}
		if !summarize || p == root {
			entries = append(entries, DiskUsage{Name: p, Size: FileSize{Raw: size}})
		}
		return size, nil
	}

	info, err := os.Lstat(root)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to read %s", root)
	}
	if _, err := walk(root, fs.FileInfoToDirEntry(info)); err != nil {
		return nil, errors.Wrapf(err, "unable to calculate disk usage of %s", root)
	}
	return entries, nil
}

func containsString(list []string, value string) bool {
	for _, item := range list {
		if item == value {
			return true
		}
	}
	return false
}
