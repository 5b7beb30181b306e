// SPDX-FileCopyrightText: 2024 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package util

import (
	"fmt"
	"regexp"

	"k8s.io/apimachinery/pkg/api/resource"

	reanaerrors "github.com/reanahub/reana-commons/pkg/common/error"
)

// kubernetesMemoryFormat is stricter than the quantity syntax of kubernetes:
// no exponents, no milli values and only byte suffixes.
var kubernetesMemoryFormat = regexp.MustCompile(`^[0-9]+(\.[0-9]+)?(E|P|T|G|M|K|Ei|Pi|Ti|Gi|Mi|Ki)?$`)

// ValidateKubernetesMemory checks if a memory value like "8Gi" or "1.5G" is well formed.
func ValidateKubernetesMemory(memory string) bool {
	return kubernetesMemoryFormat.MatchString(memory)
}

// KubernetesMemoryToBytes converts a kubernetes memory value to bytes.
// Decimal suffixes are powers of 1000, binary suffixes powers of 1024.
// Fractional byte counts are rounded up.
func KubernetesMemoryToBytes(memory string) (int64, error) {
	if !ValidateKubernetesMemory(memory) {
		return 0, reanaerrors.NewWrongMemoryFormatError(fmt.Sprintf("Kubernetes memory format is invalid: %q", memory))
	}
	q, err := resource.ParseQuantity(memory)
	if err != nil {
		return 0, reanaerrors.NewWrongMemoryFormatError(fmt.Sprintf("Kubernetes memory format is invalid: %q", memory))
	}
	return q.Value(), nil
}

// ValidateKubernetesMemoryLimit checks the format of a memory value and that it does not exceed the maximum.
// An empty maximum disables the limit.
func ValidateKubernetesMemoryLimit(memory, maximum string) error {
	value, err := KubernetesMemoryToBytes(memory)
	if err != nil {
		return err
	}
	if maximum == "" {
		return nil
	}
	max, err := KubernetesMemoryToBytes(maximum)
	if err != nil {
		return err
	}
	if value > max {
		return reanaerrors.NewMemoryLimitExceededError(
			fmt.Sprintf("The \"kubernetes_memory_limit\" provided %s exceeds the limit (%s).", memory, maximum))
	}
	return nil
}
