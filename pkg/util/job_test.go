// SPDX-FileCopyrightText: 2024 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package util_test

import (
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/reanahub/reana-commons/pkg/util"
)

var _ = Describe("job util", func() {

	DescribeTable("job command serialisation",
		func(command string) {
			serialised := util.SerialiseJobCommand(command)
			Expect(serialised).ToNot(ContainSubstring("\n"))
			deserialised, err := util.DeserialiseJobCommand(serialised)
			Expect(err).ToNot(HaveOccurred())
			Expect(deserialised).To(Equal(command))
		},
		Entry("simple one line", "echo 'Hello world'"),
		Entry("complex one line", "cat -e <(printf 'Line 1\nLine 2\n') && echo 'The end.'"),
		Entry("script", "word=Hello\n\necho \"Saying hello many times.\"\n\nfor i in {1..3}; do\n    echo \"$word $i\";\ndone;\n"),
	)

	It("should fail to deserialise invalid commands", func() {
		_, err := util.DeserialiseJobCommand("not base64!")
		Expect(err).To(HaveOccurred())
	})

	Context("FormatCmd", func() {
		It("should wrap strings", func() {
			Expect(util.FormatCmd("ls -l")).To(Equal([]string{"ls -l"}))
		})
		It("should pass lists", func() {
			Expect(util.FormatCmd([]interface{}{"ls", "-l"})).To(Equal([]string{"ls", "-l"}))
		})
		It("should reject other types", func() {
			_, err := util.FormatCmd(42)
			Expect(err).To(MatchError("Command should be a list or a string and not int"))
		})
	})

	It("should prettify commands", func() {
		Expect(util.PrettifyCmd([]string{"bash", "-c", "echo hello world"})).To(Equal("bash -c 'echo hello world'"))
	})

	Context("BuildUniqueComponentName", func() {
		It("should use the given id", func() {
			Expect(util.BuildUniqueComponentName("reana", "run-job", "123456")).To(Equal("reana-run-job-123456"))
		})
		It("should generate an id", func() {
			name, err := util.BuildUniqueComponentName("reana", "run-batch", "")
			Expect(err).ToNot(HaveOccurred())
			Expect(strings.HasPrefix(name, "reana-run-batch-")).To(BeTrue())
			Expect(name).To(HaveLen(len("reana-run-batch-") + 36))
		})
		It("should reject unknown component types", func() {
			_, err := util.BuildUniqueComponentName("reana", "database", "1")
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(HavePrefix("database not valid component type.\nChoose one of:"))
		})
	})
})
