// SPDX-FileCopyrightText: 2024 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package gherkin_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/reanahub/reana-commons/pkg/gherkin"
)

func noop(_ context.Context, _ string, _ map[string]string, _ gherkin.DataFetcher) error {
	return nil
}

var _ = Describe("Registry", func() {
	var r *gherkin.Registry

	BeforeEach(func() {
		r = gherkin.NewRegistry()
	})

	It("should extract named arguments", func() {
		Expect(r.Then("size", noop, "the size of the file {filename} should be between {dim1} and {dim2}")).To(Succeed())
		def, args, ok := r.Resolve(gherkin.StepTypeOutcome, "the size of the file a.txt should be between 1 KiB and 2 KiB")
		Expect(ok).To(BeTrue())
		Expect(def.Name).To(Equal("size"))
		Expect(args).To(Equal(map[string]string{"filename": "a.txt", "dim1": "1 KiB", "dim2": "2 KiB"}))
	})

	It("should match case insensitively and across lines", func() {
		Expect(r.Then("logs", noop, `the logs should contain "{content}"`)).To(Succeed())
		_, args, ok := r.Resolve(gherkin.StepTypeOutcome, "The Logs should contain \"line 1\nline 2\"")
		Expect(ok).To(BeTrue())
		Expect(args["content"]).To(Equal("line 1\nline 2"))
	})

	It("should treat regular expression characters literally", func() {
		Expect(r.When("dot", noop, "the workflow (x) is done.")).To(Succeed())
		_, _, ok := r.Resolve(gherkin.StepTypeAction, "the workflow (x) is done.")
		Expect(ok).To(BeTrue())
		_, _, ok = r.Resolve(gherkin.StepTypeAction, "the workflow (x) is doneX")
		Expect(ok).To(BeFalse())
	})

	It("should only resolve steps of the same type", func() {
		Expect(r.Given("setup", noop, "a workflow")).To(Succeed())
		_, _, ok := r.Resolve(gherkin.StepTypeOutcome, "a workflow")
		Expect(ok).To(BeFalse())
		_, _, ok = r.Resolve(gherkin.StepTypeContext, "a workflow")
		Expect(ok).To(BeTrue())
	})

	It("should return the first registered match", func() {
		Expect(r.Then("first", noop, "the workspace should contain {x}")).To(Succeed())
		Expect(r.Then("second", noop, "the workspace should contain {y}")).To(Succeed())
		def, _, ok := r.Resolve(gherkin.StepTypeOutcome, "the workspace should contain a")
		Expect(ok).To(BeTrue())
		Expect(def.Name).To(Equal("first"))
		Expect(r.Definitions(gherkin.StepTypeOutcome)).To(HaveLen(2))
	})

	It("should reject duplicated placeholders", func() {
		Expect(r.Then("dup", noop, "{a} and {a}")).ToNot(Succeed())
	})

	It("should reject definitions without patterns", func() {
		Expect(r.Then("empty", noop)).ToNot(Succeed())
	})

	It("should register all built-in steps", func() {
		d := gherkin.DefaultRegistry()
		Expect(d.Definitions(gherkin.StepTypeAction)).To(HaveLen(2))
		Expect(d.Definitions(gherkin.StepTypeOutcome)).To(HaveLen(16))
	})
})
