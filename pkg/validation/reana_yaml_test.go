// SPDX-FileCopyrightText: 2024 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package validation_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/reanahub/reana-commons/pkg/apis/reana"
	reanaerrors "github.com/reanahub/reana-commons/pkg/common/error"
	"github.com/reanahub/reana-commons/pkg/validation"
)

var _ = Describe("ValidateReanaYAML", func() {
	var spec reana.Specification

	BeforeEach(func() {
		spec = reana.Specification{
			"version": "0.9.0",
			"inputs": map[string]interface{}{
				"files":      []interface{}{"code/fit.py"},
				"parameters": map[string]interface{}{"events": float64(100)},
			},
			"workflow": map[string]interface{}{
				"type": "serial",
				"specification": map[string]interface{}{
					"steps": []interface{}{map[string]interface{}{"commands": []interface{}{"python code/fit.py"}}},
				},
			},
			"workspace": map[string]interface{}{
				"retention_days": map[string]interface{}{"**/*.root": float64(10)},
			},
		}
	})

	It("should accept a valid specification", func() {
		warnings, err := validation.ValidateReanaYAML(spec)
		Expect(err).ToNot(HaveOccurred())
		Expect(warnings.IsEmpty()).To(BeTrue())
	})

	It("should report additional properties as warnings", func() {
		spec["unknown"] = "x"
		reana.GetMap(spec, "inputs")["parameter"] = map[string]interface{}{}
		warnings, err := validation.ValidateReanaYAML(spec)
		Expect(err).ToNot(HaveOccurred())
		Expect(warnings.AdditionalProperties).To(ConsistOf(
			reana.AdditionalPropertyWarning{Property: "unknown", Path: ""},
			reana.AdditionalPropertyWarning{Property: "parameter", Path: "inputs"},
		))
	})

	It("should fail for critical errors", func() {
		spec["extra"] = true
		reana.GetMap(spec, "workflow")["type"] = "nextflow"
		warnings, err := validation.ValidateReanaYAML(spec)
		Expect(reanaerrors.IsValidation(err)).To(BeTrue())
		Expect(err.Error()).To(ContainSubstring("workflow.type"))
		Expect(warnings.AdditionalProperties).To(HaveLen(1))
	})

	It("should fail for negative retention days", func() {
		reana.GetMap(spec, "workspace")["retention_days"] = map[string]interface{}{"*.csv": float64(-1)}
		_, err := validation.ValidateReanaYAML(spec)
		Expect(reanaerrors.IsValidation(err)).To(BeTrue())
	})

	It("should require the workflow", func() {
		delete(spec, "workflow")
		_, err := validation.ValidateReanaYAML(spec)
		Expect(reanaerrors.IsValidation(err)).To(BeTrue())
		Expect(err.Error()).To(ContainSubstring("workflow is required"))
	})
})
