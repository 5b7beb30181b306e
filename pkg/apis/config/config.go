// SPDX-FileCopyrightText: 2024 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"fmt"
	"net/url"
)

// Configuration contains the runtime configuration shared by the REANA components.
// It is read from the environment of the component.
type Configuration struct {
	Component ComponentConfiguration
	MQ        MQConfiguration
	Services  ServicesConfiguration
	Storage   StorageConfiguration
	Secrets   SecretsConfiguration
	Kerberos  KerberosConfiguration
	Kueue     KueueConfiguration
	Workflows WorkflowsConfiguration
	Email     EmailConfiguration

	// LogLevel is the verbosity of the REANA components (DEBUG, INFO, WARNING, ERROR).
	LogLevel string `env:"REANA_LOG_LEVEL"`
}

// ComponentConfiguration describes how REANA components are named and where they run.
type ComponentConfiguration struct {
	// Prefix is prepended to the name of every REANA owned resource.
	Prefix string `env:"REANA_COMPONENT_PREFIX"`

	// RuntimeNamespace is the namespace of the workflow and job pods.
	RuntimeNamespace string `env:"REANA_RUNTIME_KUBERNETES_NAMESPACE"`

	// InfrastructureNamespace is the namespace of the REANA infrastructure components.
	InfrastructureNamespace string `env:"REANA_INFRASTRUCTURE_KUBERNETES_NAMESPACE"`

	// MaximumConcurrentJobs is the upper limit of jobs running in the cluster.
	MaximumConcurrentJobs int `env:"K8S_MAXIMUM_CONCURRENT_JOBS"`

	// RuntimeUserUID is the uid used to run jobs if the user does not configure one.
	RuntimeUserUID int64 `env:"WORKFLOW_RUNTIME_USER_UID"`
}

// MQConfiguration configures the connection to the message broker.
type MQConfiguration struct {
	Host     string `env:"RABBIT_MQ_URL"`
	User     string `env:"RABBIT_MQ_USER"`
	Password string `env:"RABBIT_MQ_PASS"`
	Port     int    `env:"RABBIT_MQ_PORT"`

	// ConnectionString overrides the connection string built from the values above.
	ConnectionString string `env:"RABBIT_MQ"`

	// ProducerMaxRetries is the number of retries of a failed publish.
	ProducerMaxRetries uint `env:"MQ_PRODUCER_MAX_RETRIES"`
}

// ServicesConfiguration contains the addresses of the REANA REST services.
type ServicesConfiguration struct {
	JobControllerHost string `env:"JOB_CONTROLLER_SERVICE_HOST"`
	JobControllerPort int    `env:"JOB_CONTROLLER_SERVICE_PORT_HTTP"`

	WorkflowControllerHost string `env:"WORKFLOW_CONTROLLER_SERVICE_HOST"`
	WorkflowControllerPort int    `env:"WORKFLOW_CONTROLLER_SERVICE_PORT_HTTP"`

	ServerURL string `env:"REANA_SERVER_URL"`
}

// StorageConfiguration configures the shared volume of the workspaces.
type StorageConfiguration struct {
	// Backend is either "local" (host path) or "network" (persistent volume claim).
	Backend          string `env:"REANA_STORAGE_BACKEND"`
	SharedVolumePath string `env:"SHARED_VOLUME_PATH"`
	SharedPVCName    string `env:"REANA_SHARED_PVC_NAME"`
}

// SecretsConfiguration configures how user secrets are exposed to jobs.
type SecretsConfiguration struct {
	MountPath string `env:"REANA_USER_SECRET_MOUNT_PATH"`
}

// KerberosConfiguration configures the kerberos init and renew containers.
type KerberosConfiguration struct {
	Image               string `env:"KRB5_CONTAINER_IMAGE"`
	ConfigMapName       string `env:"KRB5_CONFIGMAP_NAME"`
	InitContainerName   string `env:"KRB5_INIT_CONTAINER_NAME"`
	RenewContainerName  string `env:"KRB5_RENEW_CONTAINER_NAME"`
	TokenCacheLocation  string `env:"KRB5_TOKEN_CACHE_LOCATION"`
	TokenCacheFilename  string `env:"KRB5_TOKEN_CACHE_FILENAME"`
	StatusFileLocation  string `env:"KRB5_STATUS_FILE_LOCATION"`
	StatusCheckInterval int    `env:"KRB5_STATUS_FILE_CHECK_INTERVAL"`
	TicketRenewInterval int    `env:"KRB5_TICKET_RENEW_INTERVAL"`
	Realm               string `env:"KRB5_REALM"`
}

// KueueConfiguration configures the kubernetes queue admission.
type KueueConfiguration struct {
	Enabled         bool     `env:"KUEUE_ENABLED"`
	DefaultQueue    string   `env:"KUEUE_DEFAULT_QUEUE"`
	AvailableQueues []string `env:"KUEUE_AVAILABLE_QUEUES"`
}

// WorkflowsConfiguration contains the constraints of submitted workflows.
type WorkflowsConfiguration struct {
	ComputeBackends               []string          `env:"REANA_COMPUTE_BACKENDS"`
	DangerousOperations           []string          `env:"COMMAND_DANGEROUS_OPERATIONS"`
	WorkspacePaths                map[string]string `env:"WORKSPACE_PATHS"`
	WorkflowNameIllegalCharacters []string          `env:"REANA_WORKFLOW_NAME_ILLEGAL_CHARACTERS"`
	KubernetesMaxMemoryLimit      string            `env:"REANA_KUBERNETES_JOBS_MAX_USER_MEMORY_LIMIT"`
}

// EmailConfiguration configures the notification emails.
type EmailConfiguration struct {
	SMTPServer string `env:"REANA_EMAIL_SMTP_SERVER"`
	SMTPPort   int    `env:"REANA_EMAIL_SMTP_PORT"`
	Login      string `env:"REANA_EMAIL_LOGIN"`
	Sender     string `env:"REANA_EMAIL_SENDER"`
	Password   string `env:"REANA_EMAIL_PASSWORD"`

	// DisableTLS skips STARTTLS and authentication, e.g. for development mail catchers.
	DisableTLS bool `env:"REANA_EMAIL_DISABLE_TLS"`
}

// MQConnectionString returns the amqp url of the message broker.
func (c MQConfiguration) MQConnectionString() string {
	if c.ConnectionString != "" {
		return c.ConnectionString
	}
	u := url.URL{
		Scheme: "amqp",
		User:   url.UserPassword(c.User, c.Password),
		Host:   fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:   "/",
	}
	return u.String()
}

// JobControllerURL returns the base url of the job controller.
func (c ServicesConfiguration) JobControllerURL() string {
	return fmt.Sprintf("http://%s:%d", c.JobControllerHost, c.JobControllerPort)
}

// WorkflowControllerURL returns the base url of the workflow controller.
func (c ServicesConfiguration) WorkflowControllerURL() string {
	return fmt.Sprintf("http://%s:%d", c.WorkflowControllerHost, c.WorkflowControllerPort)
}

// WorkspacePathList returns the configured workspace prefixes.
func (c WorkflowsConfiguration) WorkspacePathList() []string {
	paths := make([]string, 0, len(c.WorkspacePaths))
	for _, p := range c.WorkspacePaths {
		paths = append(paths, p)
	}
	return paths
}
