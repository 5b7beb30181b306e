// SPDX-FileCopyrightText: 2024 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package config

import "fmt"

// SetDefaults_Configuration sets default values for the Configuration objects
func SetDefaults_Configuration(obj *Configuration) {
	if len(obj.LogLevel) == 0 {
		obj.LogLevel = "ERROR"
	}
	SetDefaults_ComponentConfiguration(&obj.Component)
	SetDefaults_MQConfiguration(&obj.MQ)
	SetDefaults_ServicesConfiguration(&obj.Services)
	SetDefaults_StorageConfiguration(&obj.Storage)
	SetDefaults_SecretsConfiguration(&obj.Secrets)
	SetDefaults_KerberosConfiguration(&obj.Kerberos, obj.Component.Prefix)
	SetDefaults_WorkflowsConfiguration(&obj.Workflows, obj.Storage.SharedVolumePath)
}

// SetDefaults_ComponentConfiguration sets default values for the ComponentConfiguration objects
func SetDefaults_ComponentConfiguration(obj *ComponentConfiguration) {
	if len(obj.Prefix) == 0 {
		obj.Prefix = "reana"
	}
	if len(obj.RuntimeNamespace) == 0 {
		obj.RuntimeNamespace = "default"
	}
	if len(obj.InfrastructureNamespace) == 0 {
		obj.InfrastructureNamespace = "default"
	}
	if obj.MaximumConcurrentJobs == 0 {
		obj.MaximumConcurrentJobs = 10
	}
	if obj.RuntimeUserUID == 0 {
		obj.RuntimeUserUID = 1000
	}
}

// SetDefaults_MQConfiguration sets default values for the MQConfiguration objects
func SetDefaults_MQConfiguration(obj *MQConfiguration) {
	if len(obj.Host) == 0 {
		obj.Host = "message-broker.default.svc.cluster.local"
	}
	if len(obj.User) == 0 {
		obj.User = "test"
	}
	if len(obj.Password) == 0 {
		obj.Password = "1234"
	}
	if obj.Port == 0 {
		obj.Port = 5672
	}
	if obj.ProducerMaxRetries == 0 {
		obj.ProducerMaxRetries = 3
	}
}

// SetDefaults_ServicesConfiguration sets default values for the ServicesConfiguration objects
func SetDefaults_ServicesConfiguration(obj *ServicesConfiguration) {
	if len(obj.JobControllerHost) == 0 {
		obj.JobControllerHost = "0.0.0.0"
	}
	if obj.JobControllerPort == 0 {
		obj.JobControllerPort = 5000
	}
	if len(obj.WorkflowControllerHost) == 0 {
		obj.WorkflowControllerHost = "0.0.0.0"
	}
	if obj.WorkflowControllerPort == 0 {
		obj.WorkflowControllerPort = 5000
	}
	if len(obj.ServerURL) == 0 {
		obj.ServerURL = "http://0.0.0.0:80"
	}
}

// SetDefaults_StorageConfiguration sets default values for the StorageConfiguration objects
func SetDefaults_StorageConfiguration(obj *StorageConfiguration) {
	if len(obj.Backend) == 0 {
		obj.Backend = "local"
	}
	if len(obj.SharedVolumePath) == 0 {
		obj.SharedVolumePath = "/var/reana"
	}
	if len(obj.SharedPVCName) == 0 {
		obj.SharedPVCName = "reana-shared-persistent-volume"
	}
}

// SetDefaults_SecretsConfiguration sets default values for the SecretsConfiguration objects
func SetDefaults_SecretsConfiguration(obj *SecretsConfiguration) {
	if len(obj.MountPath) == 0 {
		obj.MountPath = "/etc/reana/secrets"
	}
}

// SetDefaults_KerberosConfiguration sets default values for the KerberosConfiguration objects
func SetDefaults_KerberosConfiguration(obj *KerberosConfiguration, prefix string) {
	if len(obj.Image) == 0 {
		obj.Image = "docker.io/reanahub/reana-auth-krb5:1.0.1"
	}
	if len(obj.ConfigMapName) == 0 {
		obj.ConfigMapName = fmt.Sprintf("%s-krb5-conf", prefix)
	}
	if len(obj.InitContainerName) == 0 {
		obj.InitContainerName = "krb5-init"
	}
	if len(obj.RenewContainerName) == 0 {
		obj.RenewContainerName = "krb5-renew"
	}
	if len(obj.TokenCacheLocation) == 0 {
		obj.TokenCacheLocation = "/krb5_cache/"
	}
	if len(obj.TokenCacheFilename) == 0 {
		obj.TokenCacheFilename = "krb5_%d"
	}
	if len(obj.StatusFileLocation) == 0 {
		obj.StatusFileLocation = "/krb5_cache/status_file"
	}
	if obj.StatusCheckInterval == 0 {
		obj.StatusCheckInterval = 15
	}
	if obj.TicketRenewInterval == 0 {
		obj.TicketRenewInterval = 21600
	}
	if len(obj.Realm) == 0 {
		obj.Realm = "CERN.CH"
	}
}

// SetDefaults_WorkflowsConfiguration sets default values for the WorkflowsConfiguration objects
func SetDefaults_WorkflowsConfiguration(obj *WorkflowsConfiguration, sharedVolumePath string) {
	if len(obj.ComputeBackends) == 0 {
		obj.ComputeBackends = []string{"kubernetes"}
	}
	if len(obj.DangerousOperations) == 0 {
		obj.DangerousOperations = []string{"sudo ", "cd /"}
	}
	if len(obj.WorkspacePaths) == 0 {
		obj.WorkspacePaths = map[string]string{sharedVolumePath: sharedVolumePath}
	}
	if len(obj.WorkflowNameIllegalCharacters) == 0 {
		obj.WorkflowNameIllegalCharacters = []string{"."}
	}
}
