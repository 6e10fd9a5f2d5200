// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 CipherGate Contributors

// Package api serves the CipherGate HTTP API on a gin engine.
//
// Every protected route runs RequireAnalyst first. The gate authenticates the
// credentials in the request body on each call; no verification state is
// carried between requests.
//
// Errors are oops errors whose code selects the HTTP status. Client input
// errors return their own message; store outages return 503; anything
// unexpected returns a generic 500 and is logged with its code and context.
package api
