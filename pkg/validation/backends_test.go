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

func workflow(workflowType string, spec map[string]interface{}) reana.Specification {
	return reana.Specification{
		"workflow": map[string]interface{}{
			"type":          workflowType,
			"specification": spec,
		},
	}
}

var _ = Describe("compute backends", func() {
	supported := []string{"kubernetes"}

	It("should reject unsupported backends of serial steps", func() {
		spec := workflow("serial", map[string]interface{}{
			"steps": []interface{}{
				map[string]interface{}{"name": "ok", "compute_backend": "kubernetes", "commands": []interface{}{"ls"}},
				map[string]interface{}{"name": "fit", "compute_backend": "bogus", "commands": []interface{}{"ls"}},
			},
		})
		err := validation.ValidateComputeBackends(spec, supported)
		Expect(reanaerrors.IsValidation(err)).To(BeTrue())
		Expect(err).To(MatchError(`Compute backend "bogus" found in step "fit" is not supported. List of supported compute backends: "kubernetes"`))
	})

	It("should accept steps without backend", func() {
		spec := workflow("snakemake", map[string]interface{}{
			"steps": []interface{}{map[string]interface{}{"name": "all"}},
		})
		Expect(validation.ValidateComputeBackends(spec, supported)).To(Succeed())
	})

	It("should use the step index for unnamed snakemake steps", func() {
		spec := workflow("snakemake", map[string]interface{}{
			"steps": []interface{}{map[string]interface{}{"compute_backend": "htcondorcern"}},
		})
		Expect(validation.ValidateComputeBackends(spec, supported)).To(MatchError(ContainSubstring(`found in step "0"`)))
	})

	It("should check nested yadage stages", func() {
		spec := workflow("yadage", map[string]interface{}{
			"stages": []interface{}{
				map[string]interface{}{
					"name": "outer",
					"scheduler": map[string]interface{}{
						"workflow": map[string]interface{}{
							"stages": []interface{}{
								map[string]interface{}{
									"name": "inner",
									"scheduler": map[string]interface{}{
										"step": map[string]interface{}{
											"environment": map[string]interface{}{
												"resources": []interface{}{
													map[string]interface{}{"kerberos": true},
													map[string]interface{}{"compute_backend": "slurmcern"},
												},
											},
										},
									},
								},
							},
						},
					},
				},
			},
		})
		Expect(validation.ValidateComputeBackends(spec, supported)).To(MatchError(ContainSubstring(`"slurmcern" found in step "inner"`)))
		Expect(validation.ValidateComputeBackends(spec, []string{"kubernetes", "slurmcern"})).To(Succeed())
	})

	It("should read the reana hints of cwl steps", func() {
		spec := workflow("cwl", map[string]interface{}{
			"$graph": []interface{}{
				map[string]interface{}{
					"class": "Workflow",
					"steps": []interface{}{
						map[string]interface{}{
							"id":    "#main/fit",
							"hints": []interface{}{map[string]interface{}{"class": "reana", "compute_backend": "htcondorcern"}},
						},
					},
				},
			},
		})
		Expect(validation.ValidateComputeBackends(spec, supported)).To(MatchError(ContainSubstring(`found in step "#main/fit"`)))
	})
})

var _ = Describe("kubernetes queues", func() {
	var spec reana.Specification

	BeforeEach(func() {
		spec = workflow("serial", map[string]interface{}{
			"steps": []interface{}{
				map[string]interface{}{"name": "gpu", "kubernetes_queue": "gpu", "commands": []interface{}{"ls"}},
				map[string]interface{}{"name": "cpu", "commands": []interface{}{"ls"}},
			},
		})
	})

	It("should accept supported queues and fall back to the default queue", func() {
		Expect(validation.ValidateKubernetesQueues(spec, true, []string{"gpu", "batch"}, "batch")).To(Succeed())
	})

	It("should fail if Kueue is disabled", func() {
		Expect(validation.ValidateKubernetesQueues(spec, false, nil, "")).To(MatchError(`Kubernetes queue "gpu" found in step "gpu" but Kueue is not enabled.`))
	})

	It("should fail for unsupported queues", func() {
		Expect(validation.ValidateKubernetesQueues(spec, true, []string{"batch", "interactive"}, "batch")).
			To(MatchError(`Kubernetes queue "gpu" in step "gpu" is not in list of supported queues: batch, interactive`))
	})

	It("should require a queue if there is no default", func() {
		Expect(validation.ValidateKubernetesQueues(spec, true, []string{"gpu"}, "")).
			To(MatchError(`Kubernetes queue expected in step "cpu" since Kueue is enabled and no default queue is set.`))
	})

	It("should reject unsupported workflow types", func() {
		err := validation.ValidateKubernetesQueues(workflow("nextflow", nil), true, nil, "")
		Expect(err).To(MatchError("Unsupported workflow type: nextflow"))
		Expect(reanaerrors.IsValidation(err)).To(BeTrue())
	})
})

var _ = Describe("operational options", func() {
	It("should translate engine specific options", func() {
		opts, err := validation.ValidateOperationalOptions(reana.WorkflowTypeCWL, map[string]interface{}{"TARGET": "v"})
		Expect(err).ToNot(HaveOccurred())
		Expect(opts).To(Equal(map[string]interface{}{"--target": "v"}))
	})

	It("should keep options with the same name", func() {
		in := map[string]interface{}{"CACHE": "off", "TARGET": "fit"}
		opts, err := validation.ValidateOperationalOptions(reana.WorkflowTypeSerial, in)
		Expect(err).ToNot(HaveOccurred())
		Expect(opts).To(Equal(in))
	})

	It("should accept string maps", func() {
		opts, err := validation.ValidateOperationalOptions(reana.WorkflowTypeYadage, map[string]string{"toplevel": "github:reanahub/x"})
		Expect(err).ToNot(HaveOccurred())
		Expect(opts).To(HaveKeyWithValue("toplevel", "github:reanahub/x"))
	})

	DescribeTable("invalid options",
		func(workflowType reana.WorkflowType, options interface{}, msg string) {
			_, err := validation.ValidateOperationalOptions(workflowType, options)
			Expect(reanaerrors.IsValidation(err)).To(BeTrue())
			Expect(err).To(MatchError(msg))
		},
		Entry("not a mapping", reana.WorkflowTypeSerial, "not a dict", "==> ERROR: Operational options must be a dictionary."),
		Entry("unknown option", reana.WorkflowTypeSerial, map[string]interface{}{"FOO": 1}, `==> ERROR: Operational option "FOO" not supported.`),
		Entry("unsupported for the type", reana.WorkflowTypeSnakemake, map[string]interface{}{"CACHE": "off"}, `==> ERROR: Operational option "CACHE" not supported for snakemake workflows.`),
	)
})
