// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 CipherGate Contributors

package errutil

import (
	"fmt"
	"strings"
	"testing"

	"github.com/samber/oops"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// AssertErrorCode asserts that err carries code, as the HTTP layer reads it
// when picking a status.
func AssertErrorCode(t testing.TB, err error, code string) {
	t.Helper()
	_, ok := oops.AsOops(err)
	require.True(t, ok, "expected oops error, got %T: %v", err, err)
	assert.Equal(t, code, Code(err), "error: %v", err)
}

// AssertErrorContext asserts that err carries key=value in its oops context.
// Further pairs may follow, e.g. "username", "alice", "operation", "insert".
func AssertErrorContext(t testing.TB, err error, key string, value any, more ...any) {
	t.Helper()
	require.Zero(t, len(more)%2, "context pairs must be key/value")
	oopsErr, ok := oops.AsOops(err)
	require.True(t, ok, "expected oops error, got %T: %v", err, err)
	ctx := oopsErr.Context()

	pairs := append([]any{key, value}, more...)
	for i := 0; i < len(pairs); i += 2 {
		k, ok := pairs[i].(string)
		require.True(t, ok, "context key %v is not a string", pairs[i])
		if assert.Contains(t, ctx, k) {
			assert.Equal(t, pairs[i+1], ctx[k], "context key %q", k)
		}
	}
}

// AssertAnalystError asserts the shape analyst operations return: code plus
// the username the operation ran for.
func AssertAnalystError(t testing.TB, err error, code, username string) {
	t.Helper()
	AssertErrorCode(t, err, code)
	AssertErrorContext(t, err, "username", username)
}

// AssertNoSecret asserts that none of secrets appears in err's message or
// context values. Passwords must never reach logs through LogError.
func AssertNoSecret(t testing.TB, err error, secrets ...string) {
	t.Helper()
	text := err.Error()
	if oopsErr, ok := oops.AsOops(err); ok {
		for k, v := range oopsErr.Context() {
			text += fmt.Sprintf(" %s=%v", k, v)
		}
	}
	for _, secret := range secrets {
		assert.False(t, strings.Contains(text, secret), "error exposes %q: %s", secret, text)
	}
}
