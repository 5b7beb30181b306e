// SPDX-FileCopyrightText: 2024 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

// Package reana contains the types shared by the REANA components:
// workflow types, workflow statuses, validation warnings and accessors
// for the JSON compatible specification trees loaded from reana.yaml files.
package reana
