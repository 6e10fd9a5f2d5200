// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 CipherGate Contributors

//go:build tools

// Package main keeps the test stack in go.mod even when no default-tagged
// file imports it. The integration suite under test/integration builds only
// with -tags integration and runs through the ginkgo CLI:
//
//	go run github.com/onsi/ginkgo/v2/ginkgo -tags integration ./test/integration
package main

import (
	// Integration suite runner and matchers.
	_ "github.com/onsi/ginkgo/v2/ginkgo"
	_ "github.com/onsi/gomega"
	_ "github.com/testcontainers/testcontainers-go/modules/postgres"

	// Unit test doubles for the analyst store and the pgx pool.
	_ "github.com/pashagolub/pgxmock/v4"
	_ "github.com/stretchr/testify/mock"
	_ "go.uber.org/goleak"
)
