// SPDX-FileCopyrightText: 2024 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package reana_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/reanahub/reana-commons/pkg/apis/reana"
	reanaerrors "github.com/reanahub/reana-commons/pkg/common/error"
)

var _ = Describe("specification", func() {
	var spec reana.Specification

	BeforeEach(func() {
		spec = reana.Specification{
			"inputs": map[string]interface{}{
				"parameters": map[string]interface{}{"events": float64(20000)},
				"options":    map[string]interface{}{"CACHE": "off"},
			},
			"workflow": map[string]interface{}{
				"type": "serial",
				"specification": map[string]interface{}{
					"steps": []interface{}{
						map[string]interface{}{"name": "gendata", "commands": []interface{}{"root -b"}},
					},
				},
			},
		}
	})

	It("should access the well known sections", func() {
		t, err := spec.Type()
		Expect(err).ToNot(HaveOccurred())
		Expect(t).To(Equal(reana.WorkflowTypeSerial))
		Expect(spec.HasInputs()).To(BeTrue())
		Expect(spec.InputParameters()).To(HaveKey("events"))
		Expect(spec.InputOptions()).To(HaveKeyWithValue("CACHE", "off"))
		Expect(reana.GetString(spec, "workflow", "specification", "steps", "0", "name")).To(Equal("gendata"))
	})

	It("should return zero values for missing paths", func() {
		Expect(reana.GetMap(spec, "workflow", "missing")).To(BeNil())
		Expect(reana.GetSlice(spec, "workflow", "specification", "steps", "3")).To(BeNil())
		Expect(reana.GetString(spec, "inputs", "parameters", "events")).To(BeEmpty())
	})

	It("should reject unknown workflow types", func() {
		spec.Workflow()["type"] = "nextflow"
		_, err := spec.Type()
		Expect(reanaerrors.IsUnsupportedWorkflowType(err)).To(BeTrue())
		Expect(err.Error()).To(Equal("Unsupported workflow type: nextflow"))
	})

	It("should deep copy the tree", func() {
		c := reana.DeepCopy(spec).(reana.Specification)
		c.InputParameters()["events"] = float64(1)
		Expect(spec.InputParameters()["events"]).To(Equal(float64(20000)))
	})

	DescribeTable("ToString",
		func(v interface{}, expected string) {
			Expect(reana.ToString(v)).To(Equal(expected))
		},
		Entry("integral float", float64(20000), "20000"),
		Entry("float", 0.5, "0.5"),
		Entry("bool", true, "true"),
		Entry("nil", nil, ""),
	)

	It("should stringify the workflow status", func() {
		Expect(reana.WorkflowStatusFailed.String()).To(Equal("failed"))
		s, err := reana.ParseWorkflowStatus("running")
		Expect(err).ToNot(HaveOccurred())
		Expect(s).To(Equal(reana.WorkflowStatusRunning))
	})
})
