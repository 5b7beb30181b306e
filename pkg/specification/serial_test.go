// SPDX-FileCopyrightText: 2024 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package specification_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/reanahub/reana-commons/pkg/apis/reana"
	reanaerrors "github.com/reanahub/reana-commons/pkg/common/error"
	"github.com/reanahub/reana-commons/pkg/specification"
)

var _ = Describe("serial workflows", func() {
	var spec map[string]interface{}

	BeforeEach(func() {
		spec = map[string]interface{}{
			"steps": []interface{}{
				map[string]interface{}{
					"name":     "fit",
					"commands": []interface{}{"python fit.py --events ${events} --out $out/plot.png"},
				},
			},
		}
	})

	It("should expand the parameters in all commands", func() {
		res, err := specification.SerialLoad("", specification.LoadOptions{
			Specification: spec,
			Parameters:    map[string]interface{}{"events": float64(20000), "out": "results"},
		})
		Expect(err).ToNot(HaveOccurred())
		Expect(reana.GetString(res, "steps", "0", "commands", "0")).To(Equal("python fit.py --events 20000 --out results/plot.png"))
		Expect(reana.GetString(spec, "steps", "0", "commands", "0")).To(ContainSubstring("${events}"), "the input must not be modified")
	})

	It("should return the original specification", func() {
		res, err := specification.SerialLoad("", specification.LoadOptions{Specification: spec, Original: true})
		Expect(err).ToNot(HaveOccurred())
		Expect(reana.GetString(res, "steps", "0", "commands", "0")).To(ContainSubstring("${events}"))
	})

	It("should fail if a parameter is missing", func() {
		_, err := specification.SerialLoad("", specification.LoadOptions{
			Specification: spec,
			Parameters:    map[string]interface{}{"events": 1},
		})
		Expect(err).To(HaveOccurred())
		Expect(reanaerrors.IsValidation(err)).To(BeTrue())
		Expect(err.Error()).To(Equal("Workflow parameter(s) could not be expanded. Please take a look to 'out'"))
	})

	It("should load the specification from the workflow file", func() {
		res, err := specification.SerialLoad("testdata/serial/workflow.json", specification.LoadOptions{
			Parameters: map[string]interface{}{"message": "hello"},
		})
		Expect(err).ToNot(HaveOccurred())
		Expect(reana.GetSlice(res, "steps", "0", "commands")).To(ConsistOf("echo hello > out.txt", "cost=$5 && echo ${cost}"))
	})

	DescribeTable("schema violations",
		func(spec map[string]interface{}) {
			_, err := specification.SerialLoad("", specification.LoadOptions{Specification: spec, Original: true})
			Expect(err).To(HaveOccurred())
			Expect(reanaerrors.IsValidation(err)).To(BeTrue())
		},
		Entry("no steps", map[string]interface{}{"steps": []interface{}{}}),
		Entry("step without commands", map[string]interface{}{"steps": []interface{}{map[string]interface{}{"name": "a"}}}),
		Entry("unknown compute backend", map[string]interface{}{"steps": []interface{}{map[string]interface{}{
			"commands":        []interface{}{"ls"},
			"compute_backend": "lsf",
		}}}),
		Entry("kerberos is not a boolean", map[string]interface{}{"steps": []interface{}{map[string]interface{}{
			"commands": []interface{}{"ls"},
			"kerberos": "yes",
		}}}),
	)

	DescribeTable("ExpandParameters",
		func(template string, expected string) {
			res, err := specification.ExpandParameters(template, map[string]interface{}{"a": "x", "b_1": true})
			Expect(err).ToNot(HaveOccurred())
			Expect(res).To(Equal(expected))
		},
		Entry("named", "$a/$b_1", "x/true"),
		Entry("braced", "${a}b", "xb"),
		Entry("escaped", "$$a", "$a"),
		Entry("no placeholder", "echo hello", "echo hello"),
	)

	It("should reject invalid placeholders", func() {
		_, err := specification.ExpandParameters("echo $ 1", nil)
		Expect(err).To(HaveOccurred())
		Expect(reanaerrors.IsValidation(err)).To(BeTrue())
	})
})
