// SPDX-FileCopyrightText: 2024 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package volumes

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/go-logr/logr"
	"github.com/pkg/errors"
	corev1 "k8s.io/api/core/v1"
	storagev1 "k8s.io/api/storage/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/apimachinery/pkg/api/resource"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/utils/ptr"
	"sigs.k8s.io/controller-runtime/pkg/client"

	"github.com/reanahub/reana-commons/pkg/apis/config"
	reanaerrors "github.com/reanahub/reana-commons/pkg/common/error"
)

const (
	// SharedVolumeName is the name of the volume that contains all workspaces.
	SharedVolumeName = "reana-shared-volume"
	// WorkspaceVolumeName is the name of the host path volume of a single workspace.
	WorkspaceVolumeName = "reana-workspace-volume"

	// StorageBackendNetwork stores workspaces on a persistent volume claim.
	StorageBackendNetwork = "network"

	cvmfsProvisioner = "csi-cvmfsplugin"
)

// CVMFSRepositories maps the CVMFS repositories that can be mounted to their short names.
var CVMFSRepositories = map[string]string{
	"alice.cern.ch":               "alice",
	"alice-ocdb.cern.ch":          "alice-ocdb",
	"ams.cern.ch":                 "ams",
	"atlas.cern.ch":               "atlas",
	"atlas-condb.cern.ch":         "atlas-condb",
	"atlas-nightlies.cern.ch":     "atlas-nightlies",
	"cms.cern.ch":                 "cms",
	"cms-ib.cern.ch":              "cms-ib",
	"cms-opendata-conddb.cern.ch": "cms-opendata-conddb",
	"compass.cern.ch":             "compass",
	"compass-condb.cern.ch":       "compass-condb",
	"cvmfs-config.cern.ch":        "cvmfs-config",
	"fcc.cern.ch":                 "fcc",
	"geant4.cern.ch":              "geant4",
	"ilc.desy.de":                 "ilc-desy",
	"lhcb.cern.ch":                "lhcb",
	"lhcb-condb.cern.ch":          "lhcb-condb",
	"na61.cern.ch":                "na61",
	"na62.cern.ch":                "na62",
	"projects.cern.ch":            "projects",
	"sft.cern.ch":                 "sft",
	"unpacked.cern.ch":            "unpacked",
}

// GetReanaSharedVolume returns the shared volume.
// Network storage is accessed through a persistent volume claim, local storage through a host path.
func GetReanaSharedVolume(storage config.StorageConfiguration) corev1.Volume {
	if storage.Backend == StorageBackendNetwork {
		return corev1.Volume{
			Name: SharedVolumeName,
			VolumeSource: corev1.VolumeSource{
				PersistentVolumeClaim: &corev1.PersistentVolumeClaimVolumeSource{
					ClaimName: storage.SharedPVCName,
					ReadOnly:  false,
				},
			},
		}
	}
	return corev1.Volume{
		Name: SharedVolumeName,
		VolumeSource: corev1.VolumeSource{
			HostPath: &corev1.HostPathVolumeSource{Path: storage.SharedVolumePath},
		},
	}
}

// GetSharedVolume returns the mount and the volume of a workspace on the shared volume.
// Absolute workspaces are made relative to the shared volume path.
func GetSharedVolume(storage config.StorageConfiguration, workspace string) (corev1.VolumeMount, corev1.Volume, error) {
	relative := workspace
	if filepath.IsAbs(workspace) {
		var err error
		relative, err = filepath.Rel(storage.SharedVolumePath, workspace)
		if err != nil {
			return corev1.VolumeMount{}, corev1.Volume{}, errors.Wrapf(err, "workspace %s is not on the shared volume", workspace)
		}
	}
	mount := corev1.VolumeMount{
		Name:      SharedVolumeName,
		MountPath: filepath.Join(storage.SharedVolumePath, relative),
		SubPath:   relative,
	}
	return mount, GetReanaSharedVolume(storage), nil
}

// GetWorkspaceVolume returns the host path mount and volume of a workspace.
func GetWorkspaceVolume(workspace string) (corev1.VolumeMount, corev1.Volume) {
	return corev1.VolumeMount{Name: WorkspaceVolumeName, MountPath: workspace},
		corev1.Volume{
			Name: WorkspaceVolumeName,
			VolumeSource: corev1.VolumeSource{
				HostPath: &corev1.HostPathVolumeSource{Path: workspace},
			},
		}
}

// GetCVMFSVolume returns the read only volume of a CVMFS repository short name.
func GetCVMFSVolume(repository string) corev1.Volume {
	return corev1.Volume{
		Name: fmt.Sprintf("%s-cvmfs-volume", repository),
		VolumeSource: corev1.VolumeSource{
			PersistentVolumeClaim: &corev1.PersistentVolumeClaimVolumeSource{
				ClaimName: cvmfsClaimName(repository),
				ReadOnly:  true,
			},
		},
	}
}

func cvmfsClaimName(name string) string {
	return fmt.Sprintf("csi-cvmfs-%s-pvc", name)
}

func cvmfsStorageClassName(name string) string {
	return fmt.Sprintf("csi-cvmfs-%s", name)
}

func cvmfsShortName(repository string) (string, error) {
	name, ok := CVMFSRepositories[repository]
	if !ok {
		return "", reanaerrors.NewValidationErrorf("CVMFS repository %s is not available for mounting", repository)
	}
	return name, nil
}

// RenderCVMFSPVC renders the persistent volume claim of a CVMFS repository.
func RenderCVMFSPVC(repository, namespace string) (*corev1.PersistentVolumeClaim, error) {
	name, err := cvmfsShortName(repository)
	if err != nil {
		return nil, err
	}
	return &corev1.PersistentVolumeClaim{
		ObjectMeta: metav1.ObjectMeta{
			Name:      cvmfsClaimName(name),
			Namespace: namespace,
		},
		Spec: corev1.PersistentVolumeClaimSpec{
			AccessModes:      []corev1.PersistentVolumeAccessMode{corev1.ReadOnlyMany},
			StorageClassName: ptr.To(cvmfsStorageClassName(name)),
			Resources: corev1.VolumeResourceRequirements{
				Requests: corev1.ResourceList{
					corev1.ResourceStorage: resource.MustParse("1G"),
				},
			},
		},
	}, nil
}

// RenderCVMFSStorageClass renders the storage class of a CVMFS repository.
func RenderCVMFSStorageClass(repository string) (*storagev1.StorageClass, error) {
	name, err := cvmfsShortName(repository)
	if err != nil {
		return nil, err
	}
	return &storagev1.StorageClass{
		ObjectMeta:  metav1.ObjectMeta{Name: cvmfsStorageClassName(name)},
		Provisioner: cvmfsProvisioner,
		Parameters:  map[string]string{"repository": repository},
	}, nil
}

// CreateCVMFSStorageClass creates the storage class of a CVMFS repository if it does not exist.
func CreateCVMFSStorageClass(ctx context.Context, log logr.Logger, c client.Client, repository string) error {
	sc, err := RenderCVMFSStorageClass(repository)
	if err != nil {
		return err
	}
	return createIfNotExists(ctx, log, c, sc)
}

// CreateCVMFSPersistentVolumeClaim creates the persistent volume claim of a CVMFS repository if it does not exist.
func CreateCVMFSPersistentVolumeClaim(ctx context.Context, log logr.Logger, c client.Client, repository, namespace string) error {
	pvc, err := RenderCVMFSPVC(repository, namespace)
	if err != nil {
		return err
	}
	return createIfNotExists(ctx, log, c, pvc)
}

func createIfNotExists(ctx context.Context, log logr.Logger, c client.Client, obj client.Object) error {
	if err := c.Create(ctx, obj); err != nil {
		if apierrors.IsAlreadyExists(err) {
			log.V(5).Info("already exists", "name", obj.GetName())
			return nil
		}
		return errors.Wrapf(err, "unable to create %s", obj.GetName())
	}
	log.V(3).Info("created", "name", obj.GetName())
	return nil
}
