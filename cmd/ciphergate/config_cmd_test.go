// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 CipherGate Contributors

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ciphergate/ciphergate/pkg/errutil"
)

func TestConfigCommand_PrintsRedactedConfig(t *testing.T) {
	isolateEnv(t)
	t.Setenv("DATABASE_URL", "postgres://analyst:hunter2@db:5432/ciphergate")
	t.Setenv("CIPHERGATE_HTTP_ADDR", ":8080")

	cmd := NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"config"})

	require.NoError(t, cmd.Execute())
	out := buf.String()
	assert.Contains(t, out, `http_addr: :8080`)
	assert.Contains(t, out, "postgres://analyst:xxxxx@db:5432/ciphergate")
	assert.NotContains(t, out, "hunter2")
}

func TestConfigCommand_ExplicitFile(t *testing.T) {
	isolateEnv(t)
	path := filepath.Join(t.TempDir(), "ciphergate.yaml")
	require.NoError(t, os.WriteFile(path, []byte("environment: production\n"), 0o600))

	cmd := NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--config", path, "config"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "environment: production")
}

func TestConfigCommand_Init(t *testing.T) {
	dir := isolateEnv(t)

	cmd := NewRootCmd()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetArgs([]string{"config", "--init"})
	require.NoError(t, cmd.Execute())

	written, err := os.ReadFile(filepath.Join(dir, "ciphergate", "config.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(written), "bcrypt_cost: 10")

	cmd = NewRootCmd()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{"config", "--init"})
	err = cmd.Execute()
	errutil.AssertErrorCode(t, err, "CONFIG_EXISTS")
}

func TestConfigCommand_InvalidEnv(t *testing.T) {
	isolateEnv(t)
	t.Setenv("CIPHERGATE_LOG_FORMAT", "xml")

	cmd := NewRootCmd()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{"config"})

	err := cmd.Execute()
	errutil.AssertErrorCode(t, err, "CONFIG_INVALID")
}
