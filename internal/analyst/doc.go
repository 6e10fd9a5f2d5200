// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 CipherGate Contributors

// Package analyst owns analyst accounts and the credential check that gates
// every protected operation.
//
// # Credentials
//
// Usernames and passwords are validated with ValidateUsername and
// ValidatePassword before they reach storage. Passwords are stored only as
// salted bcrypt digests produced by a PasswordHasher.
//
// # Authentication
//
// Service.Authenticate performs one full credential check and returns an
// Identity scoped to the caller's request. Nothing about a successful check
// is remembered; the next request authenticates again. An unknown username
// and a wrong password fail with the same error code so callers cannot tell
// them apart.
//
// # Storage
//
// Repository implementations must make Insert a single conditional write:
// two concurrent signups for the same username cannot both succeed.
package analyst
