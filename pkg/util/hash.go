// SPDX-FileCopyrightText: 2024 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package util

import (
	"crypto/md5" // #nosec G501 -- used as cache key only
	"encoding/hex"
	"encoding/json"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// UnavailableHash is returned if the content of a directory cannot be hashed.
const UnavailableHash = "-1"

// CalculateHashOfDir calculates a md5 hash over the content of all files in a directory.
// If fileList is not nil only the listed file paths are considered.
// UnavailableHash is returned if the directory does not exist or a file cannot be read.
func CalculateHashOfDir(directory string, fileList []string) string {
	if _, err := os.Stat(directory); err != nil {
		return UnavailableHash
	}
	var allowed map[string]bool
	if fileList != nil {
		allowed = make(map[string]bool, len(fileList))
		for _, f := range fileList {
			allowed[f] = true
		}
	}

	hash := md5.New() // #nosec G401
	err := filepath.WalkDir(directory, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if allowed != nil && !allowed[path] {
			return nil
		}
		return hashFileChunks(hash, path)
	})
	if err != nil {
		return UnavailableHash
	}
	return hex.EncodeToString(hash.Sum(nil))
}

// hashFileChunks feeds the hex digest of every 4KiB chunk of the file into the hash.
func hashFileChunks(hash io.Writer, path string) error {
	file, err := os.Open(filepath.Clean(path))
	if err != nil {
		return err
	}
	defer file.Close()

	buf := make([]byte, 4096)
	for {
		n, err := file.Read(buf)
		if n > 0 {
			sum := md5.Sum(buf[:n]) // #nosec G401
			if _, err := hash.Write([]byte(hex.EncodeToString(sum[:]))); err != nil {
				return err
			}
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

// CalculateJobInputHash calculates the md5 hash of a job specification and the workflow it belongs to.
// The workspace of the job is not part of the hash.
func CalculateJobInputHash(jobSpec map[string]interface{}, workflowJSON interface{}) (string, error) {
	spec := make(map[string]interface{}, len(jobSpec))
	for k, v := range jobSpec {
		if k == "workflow_workspace" {
			continue
		}
		spec[k] = v
	}

	hash := md5.New() // #nosec G401
	for _, obj := range []interface{}{spec, workflowJSON} {
		data, err := json.Marshal(obj)
		if err != nil {
			return "", errors.Wrap(err, "unable to marshal job input")
		}
		hash.Write(data)
	}
	return hex.EncodeToString(hash.Sum(nil)), nil
}
