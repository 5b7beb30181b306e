// SPDX-FileCopyrightText: 2024 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package k8s

import (
	"os"

	"github.com/pkg/errors"
	batchv1 "k8s.io/api/batch/v1"
	corev1 "k8s.io/api/core/v1"
	storagev1 "k8s.io/api/storage/v1"
	"k8s.io/apimachinery/pkg/runtime"
	utilruntime "k8s.io/apimachinery/pkg/util/runtime"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"
	"sigs.k8s.io/controller-runtime/pkg/client"
)

// Scheme contains all kubernetes types REANA components work with.
var Scheme = runtime.NewScheme()

func init() {
	utilruntime.Must(corev1.AddToScheme(Scheme))
	utilruntime.Must(batchv1.AddToScheme(Scheme))
	utilruntime.Must(storagev1.AddToScheme(Scheme))
}

// NewClient creates a client for the cluster the component runs in.
// Outside of a cluster the kubeconfig is used. An empty path falls back to the default loading rules.
func NewClient(kubeconfigPath string) (client.Client, error) {
	if _, inCluster := os.LookupEnv("KUBERNETES_SERVICE_HOST"); inCluster && kubeconfigPath == "" {
		restConfig, err := rest.InClusterConfig()
		if err != nil {
			return nil, errors.Wrap(err, "unable to load in-cluster config")
		}
		return client.New(restConfig, client.Options{Scheme: Scheme})
	}
	if kubeconfigPath != "" {
		return NewClientFromFile(kubeconfigPath)
	}
	restConfig, err := clientcmd.NewNonInteractiveDeferredLoadingClientConfig(
		clientcmd.NewDefaultClientConfigLoadingRules(),
		&clientcmd.ConfigOverrides{},
	).ClientConfig()
	if err != nil {
		return nil, errors.Wrap(err, "unable to load kubeconfig")
	}
	return client.New(restConfig, client.Options{Scheme: Scheme})
}

// NewClientFromFile creates a new client from a kubeconfig file.
func NewClientFromFile(kubeconfigPath string) (client.Client, error) {
	data, err := os.ReadFile(kubeconfigPath)
	if err != nil {
		return nil, err
	}
	return NewClientFromBytes(data)
}

// NewClientFromBytes creates a new client from kubeconfig.
func NewClientFromBytes(data []byte) (client.Client, error) {
	config, err := clientcmd.NewClientConfigFromBytes(data)
	if err != nil {
		return nil, err
	}
	restConfig, err := config.ClientConfig()
	if err != nil {
		return nil, err
	}
	return client.New(restConfig, client.Options{Scheme: Scheme})
}
