// SPDX-FileCopyrightText: 2024 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package kerberos_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	corev1 "k8s.io/api/core/v1"

	"github.com/reanahub/reana-commons/pkg/apis/config"
	reanaerrors "github.com/reanahub/reana-commons/pkg/common/error"
	"github.com/reanahub/reana-commons/pkg/k8s/kerberos"
	"github.com/reanahub/reana-commons/pkg/k8s/secrets"
)

var _ = Describe("kerberos", func() {
	var (
		cfg config.KerberosConfiguration
		us  *secrets.UserSecrets
	)

	BeforeEach(func() {
		cfg = config.KerberosConfiguration{}
		config.SetDefaults_KerberosConfiguration(&cfg, "reana")
		us = secrets.NewUserSecrets("1", "reana-secretsstore-1")
		Expect(us.AddSecrets([]secrets.Secret{
			{Name: kerberos.KeytabSecret, Type: secrets.SecretTypeEnv, Value: []byte(".keytab")},
			{Name: kerberos.UserSecret, Type: secrets.SecretTypeEnv, Value: []byte("jdoe")},
			{Name: ".keytab", Type: secrets.SecretTypeFile, Value: []byte("keytab")},
		}, false)).To(Succeed())
	})

	It("should configure the init container", func() {
		krb, err := kerberos.GetKerberosConfig(us, 1000, cfg, "/etc/reana/secrets")
		Expect(err).ToNot(HaveOccurred())

		Expect(krb.Volumes).To(HaveLen(2))
		Expect(krb.Volumes[1].ConfigMap.Name).To(Equal("reana-krb5-conf"))
		Expect(krb.VolumeMounts).To(ContainElement(corev1.VolumeMount{Name: "krb5-conf", MountPath: "/etc/krb5.conf", SubPath: "krb5.conf"}))
		Expect(krb.Env).To(ConsistOf(corev1.EnvVar{Name: "KRB5CCNAME", Value: "/krb5_cache/krb5_1000"}))

		Expect(krb.InitContainer.Name).To(Equal("krb5-init"))
		Expect(krb.InitContainer.Command).To(Equal([]string{"kinit", "-kt", "/etc/reana/secrets/.keytab", "jdoe@CERN.CH"}))
		Expect(*krb.InitContainer.SecurityContext.RunAsUser).To(Equal(int64(1000)))
		Expect(krb.InitContainer.VolumeMounts).To(HaveLen(3))
		Expect(krb.InitContainer.VolumeMounts[0].Name).To(Equal("reana-secretsstore-1"))
	})

	It("should render the renew script", func() {
		krb, err := kerberos.GetKerberosConfig(us, 1000, cfg, "/etc/reana/secrets")
		Expect(err).ToNot(HaveOccurred())
		Expect(krb.RenewContainer.Name).To(Equal("krb5-renew"))
		Expect(krb.RenewContainer.Command[:2]).To(Equal([]string{"bash", "-c"}))
		script := krb.RenewContainer.Command[2]
		Expect(script).To(ContainSubstring("while ! test -f '/krb5_cache/status_file'; do"))
		Expect(script).To(ContainSubstring("if [ $SECONDS -ge 21600 ]"))
		Expect(script).To(ContainSubstring("sleep 15;"))
		Expect(script).To(HaveSuffix("'Detected status file /krb5_cache/status_file, exiting'"))
		Expect(kerberos.StatusFileCommand(cfg)).To(Equal("touch /krb5_cache/status_file"))
	})

	DescribeTable("missing secrets",
		func(missing string) {
			_, err := us.DeleteSecrets([]string{missing})
			Expect(err).ToNot(HaveOccurred())
			_, err = kerberos.GetKerberosConfig(us, 1000, cfg, "/etc/reana/secrets")
			Expect(reanaerrors.IsSecretDoesNotExist(err)).To(BeTrue())
			Expect(reanaerrors.Secrets(err)).To(ConsistOf(missing))
		},
		Entry("keytab", kerberos.KeytabSecret),
		Entry("user", kerberos.UserSecret),
	)
})
