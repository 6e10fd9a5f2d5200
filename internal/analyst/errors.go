// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 CipherGate Contributors

package analyst

import "errors"

// Error codes carried by oops errors from this package and its repositories.
const (
	CodeInvalidUsername    = "ANALYST_INVALID_USERNAME"
	CodeInvalidPassword    = "ANALYST_INVALID_PASSWORD"
	CodeNotFound           = "ANALYST_NOT_FOUND"
	CodeExists             = "ANALYST_EXISTS"
	CodeInvalidCredentials = "AUTH_INVALID_CREDENTIALS"
	CodeInvalidHash        = "ANALYST_INVALID_HASH"
	CodeHashFailed         = "ANALYST_HASH_FAILED"
	CodeStoreUnavailable   = "STORE_UNAVAILABLE"
)

var (
	// ErrNotFound is returned when no analyst has the requested username.
	ErrNotFound = errors.New("analyst not found")

	// ErrConflict is returned when inserting a username that already exists.
	ErrConflict = errors.New("username already exists")
)
