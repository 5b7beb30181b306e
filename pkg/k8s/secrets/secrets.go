// SPDX-FileCopyrightText: 2024 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package secrets

import (
	"encoding/base64"
	"encoding/json"
	"sort"

	"github.com/pkg/errors"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	reanaerrors "github.com/reanahub/reana-commons/pkg/common/error"
)

// SecretType defines how a secret is exposed to jobs.
type SecretType string

const (
	// SecretTypeEnv secrets are exposed as environment variables.
	SecretTypeEnv SecretType = "env"
	// SecretTypeFile secrets are mounted as files.
	SecretTypeFile SecretType = "file"

	// TypesAnnotation stores the type of every secret as json object.
	TypesAnnotation = "secrets_types"
)

// Secret is a single user secret.
type Secret struct {
	Name  string
	Type  SecretType
	Value []byte
}

// NewSecret validates the type and creates a secret.
func NewSecret(name string, typ SecretType, value []byte) (Secret, error) {
	if typ != SecretTypeEnv && typ != SecretTypeFile {
		return Secret{}, reanaerrors.NewValidationErrorf("Secret %s has invalid type %q, must be one of %q, %q", name, typ, SecretTypeEnv, SecretTypeFile)
	}
	return Secret{Name: name, Type: typ, Value: value}, nil
}

// SecretFromBase64 creates a secret from a base64 encoded value.
func SecretFromBase64(name string, typ SecretType, value string) (Secret, error) {
	decoded, err := base64.StdEncoding.DecodeString(value)
	if err != nil {
		return Secret{}, reanaerrors.NewValidationErrorf("Secret %s is not base64 encoded: %s", name, err)
	}
	return NewSecret(name, typ, decoded)
}

// ValueString returns the value as string.
func (s Secret) ValueString() string {
	return string(s.Value)
}

// SetValue replaces the value of the secret.
func (s *Secret) SetValue(value []byte) {
	s.Value = value
}

// Base64Value returns the base64 encoded value.
func (s Secret) Base64Value() string {
	return base64.StdEncoding.EncodeToString(s.Value)
}

// UserSecrets are all secrets of a user. They are stored in a single kubernetes secret.
type UserSecrets struct {
	UserID        string
	K8sSecretName string
	Secrets       map[string]Secret
}

// NewUserSecrets returns an empty secret collection.
func NewUserSecrets(userID, k8sSecretName string) *UserSecrets {
	return &UserSecrets{
		UserID:        userID,
		K8sSecretName: k8sSecretName,
		Secrets:       map[string]Secret{},
	}
}

// FromK8sSecret reads the user secrets from their kubernetes secret.
func FromK8sSecret(userID string, k8sSecret *corev1.Secret) (*UserSecrets, error) {
	us := NewUserSecrets(userID, k8sSecret.Name)
	types := map[string]SecretType{}
	if raw, ok := k8sSecret.Annotations[TypesAnnotation]; ok && raw != "" {
		if err := json.Unmarshal([]byte(raw), &types); err != nil {
			return nil, errors.Wrapf(err, "annotation %s of secret %s is not valid json", TypesAnnotation, k8sSecret.Name)
		}
	}
	for name, value := range k8sSecret.Data {
		s, err := NewSecret(name, types[name], value)
		if err != nil {
			return nil, err
		}
		us.Secrets[name] = s
	}
	return us, nil
}

// ToK8sSecret returns the kubernetes secret that stores the user secrets.
func (us *UserSecrets) ToK8sSecret(namespace string) (*corev1.Secret, error) {
	types := make(map[string]SecretType, len(us.Secrets))
	data := make(map[string][]byte, len(us.Secrets))
	for name, s := range us.Secrets {
		types[name] = s.Type
		data[name] = s.Value
	}
	rawTypes, err := json.Marshal(types)
	if err != nil {
		return nil, errors.Wrap(err, "unable to encode secret types")
	}
	return &corev1.Secret{
		TypeMeta: metav1.TypeMeta{APIVersion: "v1", Kind: "Secret"},
		ObjectMeta: metav1.ObjectMeta{
			Name:        us.K8sSecretName,
			Namespace:   namespace,
			Annotations: map[string]string{TypesAnnotation: string(rawTypes)},
		},
		Data: data,
	}, nil
}

// Names returns the sorted names of all secrets.
func (us *UserSecrets) Names() []string {
	names := make([]string, 0, len(us.Secrets))
	for name := range us.Secrets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GetSecret returns the secret with the given name.
func (us *UserSecrets) GetSecret(name string) (Secret, bool) {
	s, ok := us.Secrets[name]
	return s, ok
}

// AddSecrets adds the secrets. Existing secrets are only replaced if overwrite is set,
// otherwise nothing is added.
func (us *UserSecrets) AddSecrets(secrets []Secret, overwrite bool) error {
	if !overwrite {
		for _, s := range secrets {
			if _, ok := us.Secrets[s.Name]; ok {
				return reanaerrors.NewSecretAlreadyExistsError(s.Name)
			}
		}
	}
	for _, s := range secrets {
		us.Secrets[s.Name] = s
	}
	return nil
}

// DeleteSecrets deletes the secrets and returns their names.
// If any of them does not exist, nothing is deleted.
func (us *UserSecrets) DeleteSecrets(names []string) ([]string, error) {
	var missing []string
	for _, name := range names {
		if _, ok := us.Secrets[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) != 0 {
		return nil, reanaerrors.NewSecretDoesNotExistError(missing)
	}
	for _, name := range names {
		delete(us.Secrets, name)
	}
	return names, nil
}

func (us *UserSecrets) byType(typ SecretType) []Secret {
	var out []Secret
	for _, name := range us.Names() {
		if s := us.Secrets[name]; s.Type == typ {
			out = append(out, s)
		}
	}
	return out
}

// GetEnvSecrets returns all secrets of type env.
func (us *UserSecrets) GetEnvSecrets() []Secret {
	return us.byType(SecretTypeEnv)
}

// GetFileSecrets returns all secrets of type file.
func (us *UserSecrets) GetFileSecrets() []Secret {
	return us.byType(SecretTypeFile)
}

// GetEnvSecretsAsK8sSpec returns environment variables that reference the env secrets.
func (us *UserSecrets) GetEnvSecretsAsK8sSpec() []corev1.EnvVar {
	var env []corev1.EnvVar
	for _, s := range us.GetEnvSecrets() {
		env = append(env, corev1.EnvVar{
			Name: s.Name,
			ValueFrom: &corev1.EnvVarSource{
				SecretKeyRef: &corev1.SecretKeySelector{
					LocalObjectReference: corev1.LocalObjectReference{Name: us.K8sSecretName},
					Key:                  s.Name,
				},
			},
		})
	}
	return env
}

// GetFileSecretsVolumeAsK8sSpec returns the volume that contains all file secrets.
func (us *UserSecrets) GetFileSecretsVolumeAsK8sSpec() corev1.Volume {
	items := []corev1.KeyToPath{}
	for _, s := range us.GetFileSecrets() {
		items = append(items, corev1.KeyToPath{Key: s.Name, Path: s.Name})
	}
	return corev1.Volume{
		Name: us.K8sSecretName,
		VolumeSource: corev1.VolumeSource{
			Secret: &corev1.SecretVolumeSource{
				SecretName: us.K8sSecretName,
				Items:      items,
			},
		},
	}
}

// GetSecretsVolumeMountAsK8sSpec returns the read only mount of the file secrets volume.
func (us *UserSecrets) GetSecretsVolumeMountAsK8sSpec(mountPath string) corev1.VolumeMount {
	return corev1.VolumeMount{
		Name:      us.K8sSecretName,
		MountPath: mountPath,
		ReadOnly:  true,
	}
}
