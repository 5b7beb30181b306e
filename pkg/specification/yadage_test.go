// SPDX-FileCopyrightText: 2024 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package specification_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/reanahub/reana-commons/pkg/apis/reana"
	reanaerrors "github.com/reanahub/reana-commons/pkg/common/error"
	"github.com/reanahub/reana-commons/pkg/specification"
)

var _ = Describe("yadage workflows", func() {
	It("should inline references to other files and the same document", func() {
		spec, err := specification.YadageLoad("workflow.yaml", "testdata/yadage")
		Expect(err).ToNot(HaveOccurred())
		Expect(reana.GetSlice(spec, "stages")).To(HaveLen(2))
		Expect(reana.GetString(spec, "stages", "0", "scheduler", "step", "publisher", "publisher_type")).To(Equal("frompar-pub"))
		Expect(reana.GetString(spec, "stages", "1", "scheduler", "step", "process", "script")).To(Equal("python fitdata.py {data}"))
	})

	It("should reject github locations", func() {
		_, err := specification.YadageLoad("workflow.yaml", "github:reanahub/reana-demo-bsm-search/workflow/yadage")
		Expect(reanaerrors.IsValidation(err)).To(BeTrue())
	})

	It("should fail for unresolvable references", func() {
		dir := GinkgoT().TempDir()
		Expect(os.WriteFile(filepath.Join(dir, "workflow.yaml"), []byte("stages:\n  - {$ref: '#/missing'}\n"), 0o600)).To(Succeed())
		_, err := specification.YadageLoad("workflow.yaml", dir)
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring(`unable to resolve reference "#/missing"`))
	})

	It("should detect cyclic references", func() {
		dir := GinkgoT().TempDir()
		Expect(os.WriteFile(filepath.Join(dir, "workflow.yaml"), []byte("stages: {$ref: '#/stages'}\n"), 0o600)).To(Succeed())
		_, err := specification.YadageLoad("workflow.yaml", dir)
		Expect(reanaerrors.IsValidation(err)).To(BeTrue())
	})

	It("should validate the stages", func() {
		dir := GinkgoT().TempDir()
		Expect(os.WriteFile(filepath.Join(dir, "workflow.yaml"), []byte("stages:\n  - name: a\n"), 0o600)).To(Succeed())
		_, err := specification.YadageLoad("workflow.yaml", dir)
		Expect(reanaerrors.IsValidation(err)).To(BeTrue())
	})

	Context("from workspace", func() {
		var spec reana.Specification

		BeforeEach(func() {
			spec = reana.Specification{
				"workflow": map[string]interface{}{"type": "yadage", "file": "workflow.yaml"},
			}
		})

		It("should load the workflow relative to the workspace", func() {
			res, err := specification.YadageLoadFromWorkspace("testdata/yadage", spec, ".")
			Expect(err).ToNot(HaveOccurred())
			Expect(reana.GetSlice(res, "workflow", "specification", "stages")).To(HaveLen(2))
			Expect(spec.WorkflowSpecification()).To(BeNil())
		})

		It("should fail if the workflow file does not exist", func() {
			_, err := specification.YadageLoadFromWorkspace(GinkgoT().TempDir(), spec, ".")
			Expect(err).To(MatchError("Workflow file workflow.yaml does not exist"))
		})
	})
})
