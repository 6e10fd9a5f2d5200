// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 CipherGate Contributors

package store

import (
	"io/fs"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationsFS_EmbeddedFiles(t *testing.T) {
	entries, err := fs.ReadDir(migrationsFS, "migrations")
	require.NoError(t, err)

	pattern := regexp.MustCompile(`^\d{6}_\w+\.(up|down)\.sql$`)
	ups := map[string]bool{}
	downs := map[string]bool{}
	for _, entry := range entries {
		name := entry.Name()
		assert.True(t, pattern.MatchString(name), "file %s should match NNNNNN_name.(up|down).sql", name)
		if stem, ok := strings.CutSuffix(name, ".up.sql"); ok {
			ups[stem] = true
		}
		if stem, ok := strings.CutSuffix(name, ".down.sql"); ok {
			downs[stem] = true
		}
	}

	assert.True(t, ups["000001_create_analysts"])
	assert.Equal(t, ups, downs, "every up migration needs a down migration")
}

func TestMigrationsFS_AnalystsSchema(t *testing.T) {
	up, err := fs.ReadFile(migrationsFS, "migrations/000001_create_analysts.up.sql")
	require.NoError(t, err)

	sql := string(up)
	assert.Contains(t, sql, "username      TEXT PRIMARY KEY")
	assert.Contains(t, sql, "password_hash TEXT NOT NULL")
	assert.Contains(t, sql, "created_at")
}
