// SPDX-FileCopyrightText: 2024 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package volumes_test

import (
	"context"

	"github.com/go-logr/logr"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	corev1 "k8s.io/api/core/v1"
	storagev1 "k8s.io/api/storage/v1"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/client/fake"

	"github.com/reanahub/reana-commons/pkg/apis/config"
	reanaerrors "github.com/reanahub/reana-commons/pkg/common/error"
	"github.com/reanahub/reana-commons/pkg/k8s"
	"github.com/reanahub/reana-commons/pkg/k8s/volumes"
)

var _ = Describe("volumes", func() {
	storage := config.StorageConfiguration{
		Backend:          "local",
		SharedVolumePath: "/var/reana",
		SharedPVCName:    "reana-shared-persistent-volume",
	}

	It("should use a host path for local storage", func() {
		vol := volumes.GetReanaSharedVolume(storage)
		Expect(vol.Name).To(Equal(volumes.SharedVolumeName))
		Expect(vol.HostPath.Path).To(Equal("/var/reana"))
		Expect(vol.PersistentVolumeClaim).To(BeNil())
	})

	It("should use a claim for network storage", func() {
		network := storage
		network.Backend = volumes.StorageBackendNetwork
		vol := volumes.GetReanaSharedVolume(network)
		Expect(vol.PersistentVolumeClaim.ClaimName).To(Equal("reana-shared-persistent-volume"))
		Expect(vol.HostPath).To(BeNil())
	})

	DescribeTable("workspace mounts",
		func(workspace, mountPath, subPath string) {
			mount, _, err := volumes.GetSharedVolume(storage, workspace)
			Expect(err).ToNot(HaveOccurred())
			Expect(mount.MountPath).To(Equal(mountPath))
			Expect(mount.SubPath).To(Equal(subPath))
		},
		Entry("absolute workspace", "/var/reana/users/1/workflows/2", "/var/reana/users/1/workflows/2", "users/1/workflows/2"),
		Entry("relative workspace", "users/1/workflows/2", "/var/reana/users/1/workflows/2", "users/1/workflows/2"),
	)

	It("should render the workspace volume", func() {
		mount, vol := volumes.GetWorkspaceVolume("/tmp/ws")
		Expect(mount.MountPath).To(Equal("/tmp/ws"))
		Expect(vol.HostPath.Path).To(Equal("/tmp/ws"))
	})

	It("should render the cvmfs volume", func() {
		vol := volumes.GetCVMFSVolume("atlas")
		Expect(vol.Name).To(Equal("atlas-cvmfs-volume"))
		Expect(vol.PersistentVolumeClaim.ClaimName).To(Equal("csi-cvmfs-atlas-pvc"))
		Expect(vol.PersistentVolumeClaim.ReadOnly).To(BeTrue())
	})

	Context("cvmfs resources", func() {
		It("should render the claim and storage class", func() {
			pvc, err := volumes.RenderCVMFSPVC("ilc.desy.de", "default")
			Expect(err).ToNot(HaveOccurred())
			Expect(pvc.Name).To(Equal("csi-cvmfs-ilc-desy-pvc"))
			Expect(*pvc.Spec.StorageClassName).To(Equal("csi-cvmfs-ilc-desy"))
			Expect(pvc.Spec.AccessModes).To(ConsistOf(corev1.ReadOnlyMany))

			sc, err := volumes.RenderCVMFSStorageClass("ilc.desy.de")
			Expect(err).ToNot(HaveOccurred())
			Expect(sc.Provisioner).To(Equal("csi-cvmfsplugin"))
			Expect(sc.Parameters).To(HaveKeyWithValue("repository", "ilc.desy.de"))
		})

		It("should reject unknown repositories", func() {
			_, err := volumes.RenderCVMFSPVC("unknown.cern.ch", "default")
			Expect(reanaerrors.IsValidation(err)).To(BeTrue())
		})

		It("should create the resources once", func() {
			ctx := context.Background()
			c := fake.NewClientBuilder().WithScheme(k8s.Scheme).Build()
			for i := 0; i < 2; i++ {
				Expect(volumes.CreateCVMFSStorageClass(ctx, logr.Discard(), c, "cms.cern.ch")).To(Succeed())
				Expect(volumes.CreateCVMFSPersistentVolumeClaim(ctx, logr.Discard(), c, "cms.cern.ch", "default")).To(Succeed())
			}
			Expect(c.Get(ctx, client.ObjectKey{Name: "csi-cvmfs-cms"}, &storagev1.StorageClass{})).To(Succeed())
			Expect(c.Get(ctx, client.ObjectKey{Namespace: "default", Name: "csi-cvmfs-cms-pvc"}, &corev1.PersistentVolumeClaim{})).To(Succeed())
		})
	})
})
