// SPDX-FileCopyrightText: 2024 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package secrets

import (
	"context"

	"github.com/go-logr/logr"
	"github.com/pkg/errors"
	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	"sigs.k8s.io/controller-runtime/pkg/client"

	"github.com/reanahub/reana-commons/pkg/util"
)

// Store reads and writes user secrets in kubernetes.
type Store struct {
	log       logr.Logger
	client    client.Client
	namespace string
	prefix    string
}

// NewStore creates a secret store for the given runtime namespace.
// The prefix is the REANA component prefix used to name the secrets.
func NewStore(log logr.Logger, c client.Client, namespace, prefix string) *Store {
	return &Store{
		log:       log,
		client:    c,
		namespace: namespace,
		prefix:    prefix,
	}
}

// SecretName returns the name of the kubernetes secret of a user.
func (s *Store) SecretName(userID string) (string, error) {
	return util.BuildUniqueComponentName(s.prefix, "secretsstore", userID)
}

// Fetch returns the secrets of the user.
// The kubernetes secret is created if it does not exist yet.
func (s *Store) Fetch(ctx context.Context, userID string) (*UserSecrets, error) {
	name, err := s.SecretName(userID)
	if err != nil {
		return nil, err
	}
	k8sSecret := &corev1.Secret{}
	err = s.client.Get(ctx, client.ObjectKey{Namespace: s.namespace, Name: name}, k8sSecret)
	if err == nil {
		return FromK8sSecret(userID, k8sSecret)
	}
	if !apierrors.IsNotFound(err) {
		return nil, errors.Wrapf(err, "unable to get secret %s", name)
	}

	s.log.V(3).Info("create secret store", "user", userID, "secret", name)
	us := NewUserSecrets(userID, name)
	k8sSecret, err = us.ToK8sSecret(s.namespace)
	if err != nil {
		return nil, err
	}
	if err := s.client.Create(ctx, k8sSecret); err != nil {
		return nil, errors.Wrapf(err, "unable to create secret %s", name)
	}
	return us, nil
}

// Update replaces the stored secrets of the user with the given ones.
func (s *Store) Update(ctx context.Context, us *UserSecrets) error {
	desired, err := us.ToK8sSecret(s.namespace)
	if err != nil {
		return err
	}
	current := &corev1.Secret{}
	if err := s.client.Get(ctx, client.ObjectKeyFromObject(desired), current); err != nil {
		if apierrors.IsNotFound(err) {
			return errors.Wrapf(s.client.Create(ctx, desired), "unable to create secret %s", desired.Name)
		}
		return errors.Wrapf(err, "unable to get secret %s", desired.Name)
	}
	current.Annotations = desired.Annotations
	current.Data = desired.Data
	if err := s.client.Update(ctx, current); err != nil {
		return errors.Wrapf(err, "unable to update secret %s", desired.Name)
	}
	return nil
}

// AddSecrets stores new secrets of a user.
func (s *Store) AddSecrets(ctx context.Context, userID string, secrets []Secret, overwrite bool) error {
	us, err := s.Fetch(ctx, userID)
	if err != nil {
		return err
	}
	if err := us.AddSecrets(secrets, overwrite); err != nil {
		return err
	}
	return s.Update(ctx, us)
}

// DeleteSecrets removes the secrets of a user and returns the deleted names.
func (s *Store) DeleteSecrets(ctx context.Context, userID string, names []string) ([]string, error) {
	us, err := s.Fetch(ctx, userID)
	if err != nil {
		return nil, err
	}
	deleted, err := us.DeleteSecrets(names)
	if err != nil {
		return nil, err
	}
	return deleted, s.Update(ctx, us)
}
