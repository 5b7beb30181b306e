// SPDX-FileCopyrightText: 2024 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package cmdutil_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	flag "github.com/spf13/pflag"

	"github.com/reanahub/reana-commons/pkg/util/cmdutil"
)

var _ = Describe("ViperHelper", func() {
	var (
		dir      string
		fs       *flag.FlagSet
		helper   *cmdutil.ViperHelper
		server   string
		backends []string
		kueue    bool
	)

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
		fs = flag.NewFlagSet("test", flag.ContinueOnError)
		helper = cmdutil.NewViperHelper(nil, "reana-commons", dir)
		helper.InitFlags(fs)
		fs.StringVar(&server, "server-url", "http://localhost", "url of the REANA server")
		fs.StringSliceVar(&backends, "supported-backends", []string{"kubernetes"}, "supported compute backends")
		fs.BoolVar(&kueue, "kueue-enabled", false, "whether Kueue is enabled")
		helper.BindPFlags(fs, "")
	})

	It("should apply the values of the discovered config file", func() {
		Expect(os.WriteFile(filepath.Join(dir, "reana-commons.yaml"), []byte("server-url: https://reana.cern.ch\nsupported-backends: [kubernetes, slurmcern]\nkueue-enabled: true\n"), 0o600)).To(Succeed())
		Expect(fs.Parse(nil)).To(Succeed())
		Expect(helper.ReadInConfig()).To(Succeed())
		Expect(server).To(Equal("https://reana.cern.ch"))
		Expect(backends).To(Equal([]string{"kubernetes", "slurmcern"}))
		Expect(kueue).To(BeTrue())
	})

	It("should prefer flags given on the command line", func() {
		path := filepath.Join(dir, "custom.yaml")
		Expect(os.WriteFile(path, []byte("server-url: https://reana.cern.ch\n"), 0o600)).To(Succeed())
		Expect(fs.Parse([]string{"--config", path, "--server-url", "http://other"})).To(Succeed())
		Expect(helper.ReadInConfig()).To(Succeed())
		Expect(server).To(Equal("http://other"))
	})

	It("should ignore a missing default config file", func() {
		Expect(fs.Parse(nil)).To(Succeed())
		Expect(helper.ReadInConfig()).To(Succeed())
		Expect(server).To(Equal("http://localhost"))
	})

	It("should fail for a missing explicit config file", func() {
		Expect(fs.Parse([]string{"--config", filepath.Join(dir, "missing.yaml")})).To(Succeed())
		Expect(helper.ReadInConfig()).ToNot(Succeed())
	})

	It("should render the configuration usage", func() {
		usage, err := helper.Usage()
		Expect(err).ToNot(HaveOccurred())
		Expect(usage).To(ContainSubstring("server-url: url of the REANA server"))
	})
})
