// SPDX-FileCopyrightText: 2024 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package gherkin_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/reanahub/reana-commons/pkg/gherkin"
)

var _ = Describe("WorkflowLogs", func() {
	It("should return the job listed last by the server", func() {
		resp := &gherkin.WorkflowLogsResponse{Logs: `{
			"workflow_logs": "",
			"job_logs": {
				"f3a1": {"job_name": "gendata", "logs": "first run"},
				"0b7c": {"job_name": "gendata", "logs": "second run"},
				"9e22": {"job_name": "gendata", "logs": "third run"}
			}
		}`}
		logs, err := resp.Decode()
		Expect(err).ToNot(HaveOccurred())

		job, ok := logs.LastJobLog()
		Expect(ok).To(BeTrue())
		Expect(job.Logs).To(Equal("third run"))

		var order []string
		for _, j := range logs.Jobs() {
			order = append(order, j.Logs)
		}
		Expect(order).To(Equal([]string{"first run", "second run", "third run"}))
	})

	It("should report missing job logs", func() {
		resp := &gherkin.WorkflowLogsResponse{Logs: `{"workflow_logs": "done", "job_logs": {}}`}
		logs, err := resp.Decode()
		Expect(err).ToNot(HaveOccurred())
		_, ok := logs.LastJobLog()
		Expect(ok).To(BeFalse())
	})

	It("should accept null job logs", func() {
		resp := &gherkin.WorkflowLogsResponse{Logs: `{"workflow_logs": "done", "job_logs": null}`}
		logs, err := resp.Decode()
		Expect(err).ToNot(HaveOccurred())
		Expect(logs.Jobs()).To(BeEmpty())
	})
})
