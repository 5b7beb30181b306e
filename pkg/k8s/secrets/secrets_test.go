// SPDX-FileCopyrightText: 2024 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package secrets_test

import (
	"context"

	"github.com/go-logr/logr"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	corev1 "k8s.io/api/core/v1"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/client/fake"

	reanaerrors "github.com/reanahub/reana-commons/pkg/common/error"
	"github.com/reanahub/reana-commons/pkg/k8s"
	"github.com/reanahub/reana-commons/pkg/k8s/secrets"
)

const userID = "00000000-0000-0000-0000-000000000000"

func mustSecret(name string, typ secrets.SecretType, value string) secrets.Secret {
	s, err := secrets.NewSecret(name, typ, []byte(value))
	Expect(err).ToNot(HaveOccurred())
	return s
}

var _ = Describe("user secrets", func() {
	var us *secrets.UserSecrets

	BeforeEach(func() {
		us = secrets.NewUserSecrets(userID, "reana-secretsstore-"+userID)
		Expect(us.AddSecrets([]secrets.Secret{
			mustSecret("CERN_USER", secrets.SecretTypeEnv, "jdoe"),
			mustSecret(".keytab", secrets.SecretTypeFile, "binary"),
		}, false)).To(Succeed())
	})

	It("should reject unknown secret types", func() {
		_, err := secrets.NewSecret("a", "volume", nil)
		Expect(reanaerrors.IsValidation(err)).To(BeTrue())
	})

	It("should decode base64 values", func() {
		s, err := secrets.SecretFromBase64("token", secrets.SecretTypeEnv, "c2VjcmV0")
		Expect(err).ToNot(HaveOccurred())
		Expect(s.ValueString()).To(Equal("secret"))
		Expect(s.Base64Value()).To(Equal("c2VjcmV0"))

		_, err = secrets.SecretFromBase64("token", secrets.SecretTypeEnv, "%%%")
		Expect(err).To(HaveOccurred())
	})

	It("should not overwrite existing secrets", func() {
		err := us.AddSecrets([]secrets.Secret{
			mustSecret("NEW", secrets.SecretTypeEnv, "1"),
			mustSecret("CERN_USER", secrets.SecretTypeEnv, "other"),
		}, false)
		Expect(reanaerrors.IsSecretAlreadyExists(err)).To(BeTrue())
		Expect(us.Names()).ToNot(ContainElement("NEW"))

		Expect(us.AddSecrets([]secrets.Secret{mustSecret("CERN_USER", secrets.SecretTypeEnv, "other")}, true)).To(Succeed())
		s, ok := us.GetSecret("CERN_USER")
		Expect(ok).To(BeTrue())
		Expect(s.ValueString()).To(Equal("other"))
	})

	It("should only delete if all secrets exist", func() {
		_, err := us.DeleteSecrets([]string{"CERN_USER", "missing"})
		Expect(reanaerrors.IsSecretDoesNotExist(err)).To(BeTrue())
		Expect(reanaerrors.Secrets(err)).To(ConsistOf("missing"))
		Expect(us.Names()).To(HaveLen(2))

		deleted, err := us.DeleteSecrets([]string{"CERN_USER"})
		Expect(err).ToNot(HaveOccurred())
		Expect(deleted).To(ConsistOf("CERN_USER"))
		Expect(us.Names()).To(ConsistOf(".keytab"))
	})

	It("should render the kubernetes specs", func() {
		env := us.GetEnvSecretsAsK8sSpec()
		Expect(env).To(HaveLen(1))
		Expect(env[0].Name).To(Equal("CERN_USER"))
		Expect(env[0].ValueFrom.SecretKeyRef.Name).To(Equal(us.K8sSecretName))
		Expect(env[0].ValueFrom.SecretKeyRef.Key).To(Equal("CERN_USER"))

		vol := us.GetFileSecretsVolumeAsK8sSpec()
		Expect(vol.Name).To(Equal(us.K8sSecretName))
		Expect(vol.Secret.Items).To(ConsistOf(corev1.KeyToPath{Key: ".keytab", Path: ".keytab"}))

		mount := us.GetSecretsVolumeMountAsK8sSpec("/etc/reana/secrets")
		Expect(mount.MountPath).To(Equal("/etc/reana/secrets"))
		Expect(mount.ReadOnly).To(BeTrue())
	})

	It("should convert from and to kubernetes secrets", func() {
		k8sSecret, err := us.ToK8sSecret("default")
		Expect(err).ToNot(HaveOccurred())
		Expect(k8sSecret.Annotations).To(HaveKeyWithValue(secrets.TypesAnnotation, `{".keytab":"file","CERN_USER":"env"}`))

		parsed, err := secrets.FromK8sSecret(userID, k8sSecret)
		Expect(err).ToNot(HaveOccurred())
		Expect(parsed.Secrets).To(Equal(us.Secrets))
	})
})

var _ = Describe("store", func() {
	var (
		ctx        context.Context
		fakeClient client.Client
		store      *secrets.Store
	)

	BeforeEach(func() {
		ctx = context.Background()
		fakeClient = fake.NewClientBuilder().WithScheme(k8s.Scheme).Build()
		store = secrets.NewStore(logr.Discard(), fakeClient, "default", "reana")
	})

	It("should create the secret store on first access", func() {
		us, err := store.Fetch(ctx, userID)
		Expect(err).ToNot(HaveOccurred())
		Expect(us.Secrets).To(BeEmpty())
		Expect(us.K8sSecretName).To(Equal("reana-secretsstore-" + userID))

		k8sSecret := &corev1.Secret{}
		Expect(fakeClient.Get(ctx, client.ObjectKey{Namespace: "default", Name: us.K8sSecretName}, k8sSecret)).To(Succeed())
	})

	It("should persist added and deleted secrets", func() {
		Expect(store.AddSecrets(ctx, userID, []secrets.Secret{
			mustSecret("A", secrets.SecretTypeEnv, "1"),
			mustSecret("B", secrets.SecretTypeFile, "2"),
		}, false)).To(Succeed())

		us, err := store.Fetch(ctx, userID)
		Expect(err).ToNot(HaveOccurred())
		Expect(us.Names()).To(Equal([]string{"A", "B"}))
		b, _ := us.GetSecret("B")
		Expect(b.Type).To(Equal(secrets.SecretTypeFile))

		deleted, err := store.DeleteSecrets(ctx, userID, []string{"A"})
		Expect(err).ToNot(HaveOccurred())
		Expect(deleted).To(Equal([]string{"A"}))

		us, err = store.Fetch(ctx, userID)
		Expect(err).ToNot(HaveOccurred())
		Expect(us.Names()).To(Equal([]string{"B"}))
	})
})
