// SPDX-FileCopyrightText: 2024 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package kerberos

import (
	"bytes"
	"fmt"
	"path"
	"text/template"

	sprig "github.com/Masterminds/sprig/v3"
	"github.com/pkg/errors"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/utils/ptr"

	"github.com/reanahub/reana-commons/pkg/apis/config"
	reanaerrors "github.com/reanahub/reana-commons/pkg/common/error"
	"github.com/reanahub/reana-commons/pkg/k8s/secrets"
)

const (
	// KeytabSecret is the name of the file secret that contains the keytab file name.
	KeytabSecret = "CERN_KEYTAB"
	// UserSecret is the name of the secret that contains the kerberos principal.
	UserSecret = "CERN_USER"

	cacheVolumeName  = "krb5-cache"
	configVolumeName = "krb5-conf"
)

// renewScript renews the ticket until the main container writes the status file.
var renewScript = template.Must(template.New("renew").Funcs(sprig.TxtFuncMap()).Parse(
	`SECONDS=0; ` +
		`while ! test -f {{ .StatusFile | squote }}; do ` +
		`if [ $SECONDS -ge {{ .RenewInterval }} ]; then ` +
		`echo "Renewing Kerberos ticket: $(date)"; kinit -R; SECONDS=0; ` +
		`fi; ` +
		`sleep {{ .CheckInterval }}; ` +
		`done; ` +
		`echo {{ printf "Detected status file %s, exiting" .StatusFile | squote }}`))

// Config is the pod configuration that makes kerberos tickets available to a container.
type Config struct {
	Volumes        []corev1.Volume
	VolumeMounts   []corev1.VolumeMount
	Env            []corev1.EnvVar
	InitContainer  corev1.Container
	RenewContainer corev1.Container
}

// GetKerberosConfig returns the kerberos configuration for a job running as the given uid.
// The keytab and principal are read from the user's secrets that are mounted at secretsMountPath.
func GetKerberosConfig(us *secrets.UserSecrets, uid int64, cfg config.KerberosConfiguration, secretsMountPath string) (*Config, error) {
	keytab, ok := us.GetSecret(KeytabSecret)
	if !ok || len(keytab.Value) == 0 {
		return nil, reanaerrors.NewSecretDoesNotExistError([]string{KeytabSecret})
	}
	user, ok := us.GetSecret(UserSecret)
	if !ok || len(user.Value) == 0 {
		return nil, reanaerrors.NewSecretDoesNotExistError([]string{UserSecret})
	}

	volumes := []corev1.Volume{
		{
			Name:         cacheVolumeName,
			VolumeSource: corev1.VolumeSource{EmptyDir: &corev1.EmptyDirVolumeSource{}},
		},
		{
			Name: configVolumeName,
			VolumeSource: corev1.VolumeSource{
				ConfigMap: &corev1.ConfigMapVolumeSource{
					LocalObjectReference: corev1.LocalObjectReference{Name: cfg.ConfigMapName},
				},
			},
		},
	}
	mounts := []corev1.VolumeMount{
		{Name: cacheVolumeName, MountPath: cfg.TokenCacheLocation},
		{Name: configVolumeName, MountPath: "/etc/krb5.conf", SubPath: "krb5.conf"},
	}
	env := []corev1.EnvVar{
		{Name: "KRB5CCNAME", Value: path.Join(cfg.TokenCacheLocation, fmt.Sprintf(cfg.TokenCacheFilename, uid))},
	}

	containerMounts := append([]corev1.VolumeMount{us.GetSecretsVolumeMountAsK8sSpec(secretsMountPath)}, mounts...)
	securityContext := &corev1.SecurityContext{RunAsUser: ptr.To(uid)}

	script := &bytes.Buffer{}
	if err := renewScript.Execute(script, map[string]interface{}{
		"StatusFile":    cfg.StatusFileLocation,
		"RenewInterval": cfg.TicketRenewInterval,
		"CheckInterval": cfg.StatusCheckInterval,
	}); err != nil {
		return nil, errors.Wrap(err, "unable to render kerberos renew script")
	}

	return &Config{
		Volumes:      volumes,
		VolumeMounts: mounts,
		Env:          env,
		InitContainer: corev1.Container{
			Name:  cfg.InitContainerName,
			Image: cfg.Image,
			Command: []string{
				"kinit",
				"-kt",
				path.Join(secretsMountPath, keytab.ValueString()),
				fmt.Sprintf("%s@%s", user.ValueString(), cfg.Realm),
			},
			ImagePullPolicy: corev1.PullIfNotPresent,
			VolumeMounts:    containerMounts,
			Env:             env,
			SecurityContext: securityContext,
		},
		RenewContainer: corev1.Container{
			Name:            cfg.RenewContainerName,
			Image:           cfg.Image,
			Command:         []string{"bash", "-c", script.String()},
			ImagePullPolicy: corev1.PullIfNotPresent,
			VolumeMounts:    containerMounts,
			Env:             env,
			SecurityContext: securityContext,
		},
	}, nil
}

// StatusFileCommand returns the shell command that tells the renew container to exit.
func StatusFileCommand(cfg config.KerberosConfiguration) string {
	return fmt.Sprintf("touch %s", cfg.StatusFileLocation)
}
