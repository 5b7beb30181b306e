// SPDX-FileCopyrightText: 2024 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package cmdutil

import (
	"os"
	"strings"

	"github.com/pkg/errors"
	flag "github.com/spf13/pflag"
	"github.com/spf13/viper"
	"sigs.k8s.io/yaml"
)

// KeyAnnotation is the flag annotation that overrides the configuration key of a flag.
const KeyAnnotation = "key"

// ViperHelper binds command flags to a yaml configuration file.
// Values of the file are written back to the flags unless the flag was set on the command line.
type ViperHelper struct {
	viper  *viper.Viper
	pflags map[string]*flag.Flag

	configPath string
}

// NewViperHelper creates a helper that looks for <name>.yaml in the given paths.
func NewViperHelper(v *viper.Viper, name string, configPaths ...string) *ViperHelper {
	if v == nil {
		v = viper.New()
	}
	v.SetConfigName(name)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("REANA")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()
	for _, p := range configPaths {
		v.AddConfigPath(p)
	}
	return &ViperHelper{
		viper:  v,
		pflags: map[string]*flag.Flag{},
	}
}

// InitFlags adds the --config flag.
func (h *ViperHelper) InitFlags(fs *flag.FlagSet) {
	if fs == nil {
		fs = flag.CommandLine
	}
	fs.StringVar(&h.configPath, "config", "", "Path to a yaml configuration file")
}

// BindPFlag binds a pflag to the configuration key.
func (h *ViperHelper) BindPFlag(key string, f *flag.Flag) {
	AddCustomConfigForFlag(f, key)
	h.pflags[key] = f
	_ = h.viper.BindPFlag(key, f)
}

// BindPFlags binds all flags of a flagset. Keys are prefixed with "<prefix>." if a prefix is given.
func (h *ViperHelper) BindPFlags(fs *flag.FlagSet, prefix string) {
	fs.VisitAll(func(f *flag.Flag) {
		if f.Name == "config" || f.Name == "help" {
			return
		}
		key := GetConfigKey(f)
		if prefix != "" {
			key = prefix + "." + key
		}
		h.BindPFlag(key, f)
	})
}

// ReadInConfig loads the configuration file and applies it to the bound flags.
// A missing file is only an error if it was explicitly given with --config.
func (h *ViperHelper) ReadInConfig() error {
	if h.configPath != "" {
		file, err := os.Open(h.configPath)
		if err != nil {
			return errors.Wrapf(err, "unable to read file from %s", h.configPath)
		}
		defer file.Close()
		if err := h.viper.ReadConfig(file); err != nil {
			return errors.Wrapf(err, "unable to parse config %s", h.configPath)
		}
	} else if err := h.viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return err
		}
	}
	h.ApplyConfig()
	return nil
}

// ApplyConfig writes the configured values back to the flag variables.
func (h *ViperHelper) ApplyConfig() {
	for key, f := range h.pflags {
		if f.Changed || !h.viper.IsSet(key) {
			continue
		}
		value := h.viper.Get(key)
		if list, ok := value.([]interface{}); ok {
			items := make([]string, len(list))
			for i, item := range list {
				items[i] = toString(item)
			}
			_ = f.Value.Set(strings.Join(items, ","))
			continue
		}
		_ = f.Value.Set(h.viper.GetString(key))
	}
}

// Usage returns an example configuration file with the flag descriptions as values.
func (h *ViperHelper) Usage() (string, error) {
	configMap := make(map[string]interface{})
	for _, f := range h.pflags {
		keys := strings.Split(GetConfigKey(f), ".")
		if err := createOrUpdateSubConfig(configMap, keys, f.Usage); err != nil {
			return "", err
		}
	}
	data, err := yaml.Marshal(configMap)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// GetConfigKey returns the configuration key of a flag.
func GetConfigKey(f *flag.Flag) string {
	if key, ok := f.Annotations[KeyAnnotation]; ok && len(key) != 0 {
		return key[0]
	}
	return f.Name
}

// AddCustomConfigForFlag sets a custom configuration key for the given flag.
func AddCustomConfigForFlag(f *flag.Flag, key string) {
	if f.Annotations == nil {
		f.Annotations = map[string][]string{}
	}
	f.Annotations[KeyAnnotation] = []string{key}
}

func createOrUpdateSubConfig(root map[string]interface{}, path []string, value string) error {
	if len(path) == 1 {
		root[path[0]] = value
		return nil
	}
	if _, ok := root[path[0]]; !ok {
		root[path[0]] = map[string]interface{}{}
	}
	sub, ok := root[path[0]].(map[string]interface{})
	if !ok {
		return errors.Errorf("unable to add value to non map for path %s", strings.Join(path, "."))
	}
	return createOrUpdateSubConfig(sub, path[1:], value)
}

func toString(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	data, err := yaml.Marshal(v)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}
