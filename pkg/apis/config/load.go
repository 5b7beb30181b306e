// SPDX-FileCopyrightText: 2024 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"context"

	"github.com/pkg/errors"
	"github.com/sethvargo/go-envconfig"
)

// Load reads the configuration from the process environment and defaults unset values.
func Load(ctx context.Context) (*Configuration, error) {
	return LoadWith(ctx, envconfig.OsLookuper())
}

// LoadWith reads the configuration from the given lookuper and defaults unset values.
func LoadWith(ctx context.Context, lookuper envconfig.Lookuper) (*Configuration, error) {
	cfg := &Configuration{}
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, errors.Wrap(err, "unable to read configuration from environment")
	}
	SetDefaults_Configuration(cfg)
	return cfg, nil
}
