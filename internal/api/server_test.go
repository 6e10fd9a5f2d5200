// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 CipherGate Contributors

package api_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/ciphergate/ciphergate/internal/api"
)

func TestServer_StartStop(t *testing.T) {
	defer goleak.VerifyNone(t)

	f := newFixture(t, api.Config{})
	server := api.NewServer("127.0.0.1:0", f.engine, slog.New(slog.DiscardHandler))
	assert.Empty(t, server.Addr())

	errCh, err := server.Start()
	require.NoError(t, err)
	require.NotEmpty(t, server.Addr())

	_, err = server.Start()
	require.Error(t, err, "second start must fail")

	client := &http.Client{Transport: &http.Transport{DisableKeepAlives: true}, Timeout: 5 * time.Second}
	resp, err := client.Get("http://" + server.Addr() + "/api/health")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"status":"OK"`)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, server.Stop(ctx))
	require.NoError(t, server.Stop(ctx), "stop is idempotent")

	_, open := <-errCh
	assert.False(t, open, "error channel closes on clean shutdown")
}

func TestServer_ListenFailure(t *testing.T) {
	first := api.NewServer("127.0.0.1:0", http.NotFoundHandler(), slog.New(slog.DiscardHandler))
	_, err := first.Start()
	require.NoError(t, err)
	t.Cleanup(func() { _ = first.Stop(context.Background()) })

	second := api.NewServer(first.Addr(), http.NotFoundHandler(), slog.New(slog.DiscardHandler))
	_, err = second.Start()
	require.Error(t, err)
	assert.Empty(t, second.Addr())
}
