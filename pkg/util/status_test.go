// SPDX-FileCopyrightText: 2024 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package util_test

import (
	"bytes"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/reanahub/reana-commons/pkg/util"
)

var _ = Describe("status util", func() {

	DescribeTable("GetWorkflowStatusChangeVerb",
		func(status, verb string) {
			Expect(util.GetWorkflowStatusChangeVerb(status)).To(Equal(verb))
		},
		Entry("running", "running", "is"),
		Entry("finished", "finished", "has been"),
		Entry("stopped", "stopped", "has been"),
	)

	It("should reject statuses without a tense", func() {
		_, err := util.GetWorkflowStatusChangeVerb("fail")
		Expect(err).To(MatchError("Unrecognised status fail"))
	})

	It("should omit empty progress states", func() {
		msg := util.BuildProgressMessage(util.JobProgress{
			Total:   map[string]interface{}{"total": 2},
			Running: map[string]interface{}{},
		})
		Expect(msg).To(HaveKey("total"))
		Expect(msg).ToNot(HaveKey("running"))
		Expect(msg).To(HaveLen(1))
	})

	It("should build the caching info message", func() {
		msg := util.BuildCachingInfoMessage(map[string]interface{}{"cmd": "ls"}, "job-1", "/ws", nil, "/cache/1")
		Expect(msg).To(HaveKeyWithValue("job_id", "job-1"))
		Expect(msg).To(HaveKeyWithValue("result_path", "/cache/1"))
	})

	It("should only print the filtered columns", func() {
		out := &bytes.Buffer{}
		Expect(util.PrintTable(out, []string{"name", "status", "size"}, []string{"NAME", "size"}, [][]string{
			{"workflow.1", "finished", "1024"},
		})).To(Succeed())
		Expect(out.String()).To(ContainSubstring("NAME"))
		Expect(out.String()).To(ContainSubstring("workflow.1"))
		Expect(out.String()).ToNot(ContainSubstring("STATUS"))
		Expect(out.String()).ToNot(ContainSubstring("finished"))
	})
})
