// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 CipherGate Contributors

package store

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ciphergate/ciphergate/pkg/errutil"
)

func quietOptions(timeout time.Duration) ConnectOptions {
	return ConnectOptions{
		Timeout:   timeout,
		Logger:    slog.New(slog.DiscardHandler),
		baseDelay: time.Millisecond,
	}
}

var errRefused = &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}

func TestWithRetry_RetriesUntilReachable(t *testing.T) {
	attempts := 0
	err := withRetry(context.Background(), quietOptions(time.Second), func(context.Context) error {
		attempts++
		if attempts < 3 {
			return errRefused
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
}

func TestWithRetry_DoesNotRetryOtherFailures(t *testing.T) {
	attempts := 0
	authErr := errors.New("password authentication failed")
	err := withRetry(context.Background(), quietOptions(time.Second), func(context.Context) error {
		attempts++
		return authErr
	})
	require.ErrorIs(t, err, authErr)
	assert.Equal(t, 1, attempts)
}

func TestWithRetry_GivesUpAfterTimeout(t *testing.T) {
	attempts := 0
	err := withRetry(context.Background(), quietOptions(20*time.Millisecond), func(context.Context) error {
		attempts++
		return errRefused
	})
	require.Error(t, err)
	assert.True(t, IsUnavailable(err))
	assert.Greater(t, attempts, 1)
}

func TestWithRetry_StopsOnCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := withRetry(ctx, quietOptions(time.Second), func(context.Context) error {
		return errRefused
	})
	require.Error(t, err)
}

func TestConnect_InvalidURLDoesNotLeakPassword(t *testing.T) {
	_, err := Connect(context.Background(), "postgres://user:hunter2@db:notaport/cg", quietOptions(time.Second))
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, "STORE_CONFIG_INVALID")
	assert.NotContains(t, err.Error(), "hunter2")
}
