// SPDX-FileCopyrightText: 2024 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package memory

import (
	"bytes"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	reanaerrors "github.com/reanahub/reana-commons/pkg/common/error"
)

var _ = Describe("memory command", func() {
	It("should print the byte values", func() {
		var out bytes.Buffer
		Expect(printMemory(&out, []string{"1Gi", "1.5G"}, "")).To(Succeed())
		Expect(out.String()).To(ContainSubstring("1073741824"))
		Expect(out.String()).To(ContainSubstring("1.0 GiB"))
		Expect(out.String()).To(ContainSubstring("1500000000"))
	})

	It("should fail for malformed values", func() {
		err := printMemory(&bytes.Buffer{}, []string{"8 gigs"}, "")
		Expect(reanaerrors.IsWrongMemoryFormat(err)).To(BeTrue())
	})

	It("should fail for values above the limit", func() {
		err := printMemory(&bytes.Buffer{}, []string{"1Gi", "32Gi"}, "16Gi")
		Expect(reanaerrors.IsMemoryLimitExceeded(err)).To(BeTrue())
	})
})
