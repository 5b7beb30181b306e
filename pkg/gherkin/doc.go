// SPDX-FileCopyrightText: 2024 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

//go:generate mockgen -destination=./mocks/fetcher.go -package=mocks github.com/reanahub/reana-commons/pkg/gherkin DataFetcher

// Package gherkin runs acceptance tests written as gherkin feature files against a workflow run.
package gherkin
