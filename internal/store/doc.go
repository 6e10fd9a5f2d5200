// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 CipherGate Contributors

// Package store manages the PostgreSQL connection pool and schema migrations.
//
// Repositories live next to their domain packages (for example
// internal/analyst/postgres) and share the error classification in
// IsUnavailable so that connectivity failures surface as STORE_UNAVAILABLE.
package store
