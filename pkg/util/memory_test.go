// SPDX-FileCopyrightText: 2024 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package util_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	reanaerrors "github.com/reanahub/reana-commons/pkg/common/error"
	"github.com/reanahub/reana-commons/pkg/util"
)

var _ = Describe("kubernetes memory", func() {

	DescribeTable("ValidateKubernetesMemory",
		func(memory string, expected bool) {
			Expect(util.ValidateKubernetesMemory(memory)).To(Equal(expected))
		},
		Entry("plain bytes", "2048", true),
		Entry("kilo", "100K", true),
		Entry("mebi", "8Mi", true),
		Entry("fractional gibi", "1.5Gi", true),
		Entry("gibi", "7Gi", true),
		Entry("fractional tera", "1.9T", true),
		Entry("tera", "3T", true),
		Entry("pebi", "50Pi", true),
		Entry("exbi", "2Ei", true),
		Entry("exa", "1E", true),
		Entry("fractional exa", "1.33E", true),
		Entry("upper case binary suffix", "2KI", false),
		Entry("byte suffix", "4096KiB", false),
		Entry("lower case bit suffix", "8Kib", false),
		Entry("megabit", "8Mb", false),
		Entry("gigabyte", "2GB", false),
		Entry("terabit", "50Tb", false),
		Entry("spelled out", "24Exabyte", false),
		Entry("binary without prefix", "10i", false),
	)

	DescribeTable("KubernetesMemoryToBytes",
		func(memory string, expected int64) {
			b, err := util.KubernetesMemoryToBytes(memory)
			Expect(err).ToNot(HaveOccurred())
			Expect(b).To(Equal(expected))
		},
		Entry("plain bytes", "2048", int64(2048)),
		Entry("kilo", "100K", int64(100000)),
		Entry("mebi", "8Mi", int64(8*1024*1024)),
		Entry("fractional gibi", "3.5Gi", int64(3758096384)),
		Entry("gibi", "7Gi", int64(7*1024*1024*1024)),
		Entry("tera", "3T", int64(3000000000000)),
		Entry("fractional tera", "3.1416T", int64(3141600000000)),
		Entry("pebi", "50Pi", int64(50)*1024*1024*1024*1024*1024),
		Entry("exbi", "2Ei", int64(2)*1024*1024*1024*1024*1024*1024),
		Entry("exa", "1E", int64(1000000000000000000)),
	)

	It("should reject malformed memory values", func() {
		_, err := util.KubernetesMemoryToBytes("bogus")
		Expect(err).To(HaveOccurred())
		Expect(reanaerrors.IsWrongMemoryFormat(err)).To(BeTrue())
	})

	It("should enforce the maximum memory limit", func() {
		Expect(util.ValidateKubernetesMemoryLimit("8Gi", "")).To(Succeed())
		Expect(util.ValidateKubernetesMemoryLimit("8Gi", "16Gi")).To(Succeed())
		err := util.ValidateKubernetesMemoryLimit("32Gi", "16Gi")
		Expect(reanaerrors.IsMemoryLimitExceeded(err)).To(BeTrue())
	})
})
