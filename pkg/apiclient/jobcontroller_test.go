// SPDX-FileCopyrightText: 2024 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package apiclient_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"time"

	"github.com/go-logr/logr"
	"github.com/gorilla/mux"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/reanahub/reana-commons/pkg/apiclient"
	reanaerrors "github.com/reanahub/reana-commons/pkg/common/error"
	"github.com/reanahub/reana-commons/pkg/util"
)

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	Expect(json.NewEncoder(w).Encode(body)).To(Succeed())
}

var _ = Describe("JobControllerClient", func() {
	var (
		ctx       context.Context
		router    *mux.Router
		server    *httptest.Server
		client    *apiclient.JobControllerClient
		submitted map[string]interface{}
	)

	BeforeEach(func() {
		ctx = context.Background()
		submitted = nil
		router = mux.NewRouter()
		router.HandleFunc("/jobs", func(w http.ResponseWriter, r *http.Request) {
			Expect(json.NewDecoder(r.Body).Decode(&submitted)).To(Succeed())
			if submitted["docker_img"] == "" {
				writeJSON(w, http.StatusBadRequest, map[string]string{"message": "docker_img is required"})
				return
			}
			writeJSON(w, http.StatusCreated, map[string]string{"job_id": "1234"})
		}).Methods(http.MethodPost)
		router.HandleFunc("/jobs/{id}", func(w http.ResponseWriter, r *http.Request) {
			if mux.Vars(r)["id"] != "1234" {
				writeJSON(w, http.StatusNotFound, map[string]string{"message": "not found"})
				return
			}
			writeJSON(w, http.StatusOK, map[string]interface{}{"job_id": "1234", "status": "running", "restart_count": 1})
		}).Methods(http.MethodGet)
		router.HandleFunc("/jobs/{id}/logs", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("line 1\nline 2"))
		}).Methods(http.MethodGet)
		router.HandleFunc("/job_cache", func(w http.ResponseWriter, r *http.Request) {
			q := r.URL.Query()
			if q.Get("workflow_workspace") == "" {
				writeJSON(w, http.StatusBadRequest, map[string]string{"message": "missing workspace"})
				return
			}
			spec := map[string]interface{}{}
			Expect(json.Unmarshal([]byte(q.Get("job_spec")), &spec)).To(Succeed())
			writeJSON(w, http.StatusOK, map[string]interface{}{"cached": spec["cmd"] == "ls", "result_path": "/cache/1"})
		}).Methods(http.MethodGet)
		server = httptest.NewServer(router)
		DeferCleanup(server.Close)

		var err error
		client, err = apiclient.NewJobControllerClient(logr.Discard(), server.URL, apiclient.Options{})
		Expect(err).ToNot(HaveOccurred())
	})

	It("should require an endpoint", func() {
		_, err := apiclient.NewJobControllerClient(logr.Discard(), "", apiclient.Options{})
		Expect(reanaerrors.IsMissingAPIClientConfiguration(err)).To(BeTrue())
	})

	It("should submit a job with the encoded command", func() {
		created, err := client.Submit(ctx, apiclient.JobSpec{
			WorkflowUUID:      "wf-1",
			Image:             "busybox",
			Cmd:               "echo hello",
			WorkflowWorkspace: "/var/reana/wf-1",
			JobName:           "step-1",
		})
		Expect(err).ToNot(HaveOccurred())
		Expect(created.JobID).To(Equal("1234"))

		Expect(submitted).To(HaveKeyWithValue("cmd", util.SerialiseJobCommand("echo hello")))
		Expect(submitted).To(HaveKeyWithValue("cvmfs_mounts", "false"))
		Expect(submitted).To(HaveKeyWithValue("env_vars", BeEmpty()))
		Expect(submitted).ToNot(HaveKey("compute_backend"))
		Expect(submitted).ToNot(HaveKey("kerberos"))
		Expect(submitted).ToNot(HaveKey("kubernetes_uid"))
	})

	It("should only send the optional fields that are set", func() {
		_, err := client.Submit(ctx, apiclient.JobSpec{
			Image:                 "busybox",
			ComputeBackend:        "kubernetes",
			Kerberos:              true,
			KubernetesUID:         500,
			KubernetesMemoryLimit: "2Gi",
			HTCondorMaxRuntime:    "espresso",
		})
		Expect(err).ToNot(HaveOccurred())
		Expect(submitted).To(HaveKeyWithValue("compute_backend", "kubernetes"))
		Expect(submitted).To(HaveKeyWithValue("kerberos", true))
		Expect(submitted).To(HaveKeyWithValue("kubernetes_uid", BeNumerically("==", 500)))
		Expect(submitted).To(HaveKeyWithValue("kubernetes_memory_limit", "2Gi"))
		Expect(submitted).To(HaveKeyWithValue("htcondor_max_runtime", "espresso"))
		Expect(submitted).ToNot(HaveKey("voms_proxy"))
		Expect(submitted).ToNot(HaveKey("unpacked_img"))
	})

	It("should return a job submission error with the message of the job controller", func() {
		_, err := client.Submit(ctx, apiclient.JobSpec{})
		Expect(reanaerrors.IsJobSubmission(err)).To(BeTrue())
		Expect(err.Error()).To(ContainSubstring("docker_img is required"))
	})

	It("should check the status of a job", func() {
		job, err := client.CheckStatus(ctx, "1234")
		Expect(err).ToNot(HaveOccurred())
		Expect(job.Status).To(Equal("running"))
		Expect(job.RestartCount).To(Equal(1))

		_, err = client.CheckStatus(ctx, "unknown")
		Expect(err).To(HaveOccurred())
		Expect(apiclient.StatusCode(err)).To(Equal(http.StatusNotFound))
		Expect(err.Error()).To(ContainSubstring("The given job ID was not found"))
	})

	It("should return the logs of a job", func() {
		logs, err := client.GetLogs(ctx, "1234")
		Expect(err).ToNot(HaveOccurred())
		Expect(logs).To(Equal("line 1\nline 2"))
	})

	It("should check the job cache", func() {
		res, err := client.CheckIfCached(ctx, map[string]interface{}{"cmd": "ls"}, map[string]interface{}{"name": "s"}, "/var/reana/wf")
		Expect(err).ToNot(HaveOccurred())
		Expect(res.Cached).To(BeTrue())
		Expect(res.ResultPath).To(Equal("/cache/1"))

		_, err = client.CheckIfCached(ctx, map[string]interface{}{"cmd": "ls"}, nil, "")
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(HavePrefix("Bad request to check cache"))
	})

	Context("connection check", func() {
		opts := apiclient.ConnectionCheckOptions{Attempts: 3, Delay: 10 * time.Millisecond}

		It("should wait until the job controller is available", func() {
			var calls int32
			flaky := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if atomic.AddInt32(&calls, 1) < 3 {
					w.WriteHeader(http.StatusServiceUnavailable)
					return
				}
				writeJSON(w, http.StatusOK, map[string]interface{}{"jobs": map[string]interface{}{}})
			}))
			defer flaky.Close()

			Expect(apiclient.CheckConnectionToJobController(ctx, logr.Discard(), flaky.URL, opts)).To(Succeed())
			Expect(atomic.LoadInt32(&calls)).To(Equal(int32(3)))
		})

		It("should give up after all attempts", func() {
			var calls int32
			down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				atomic.AddInt32(&calls, 1)
				w.WriteHeader(http.StatusServiceUnavailable)
			}))
			defer down.Close()

			Expect(apiclient.CheckConnectionToJobController(ctx, logr.Discard(), down.URL, opts)).ToNot(Succeed())
			Expect(atomic.LoadInt32(&calls)).To(Equal(int32(3)))
		})
	})
})
