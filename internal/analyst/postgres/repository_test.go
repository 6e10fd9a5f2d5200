// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 CipherGate Contributors

package postgres_test

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ciphergate/ciphergate/internal/analyst"
	"github.com/ciphergate/ciphergate/internal/analyst/postgres"
	"github.com/ciphergate/ciphergate/pkg/errutil"
)

const (
	selectAnalyst = `SELECT username, password_hash, created_at\s+FROM analysts\s+WHERE username = \$1`
	insertAnalyst = `INSERT INTO analysts \(username, password_hash, created_at\)\s+VALUES \(\$1, \$2, \$3\)\s+ON CONFLICT \(username\) DO NOTHING`
)

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err, "failed to create mock")
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		mock.Close()
	})
	return mock
}

func TestRepository_FindByUsername(t *testing.T) {
	ctx := context.Background()
	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	tests := []struct {
		name      string
		setupMock func(mock pgxmock.PgxPoolIface)
		want      *analyst.Analyst
		wantCode  string
		wantIs    error
	}{
		{
			name: "found",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				rows := pgxmock.NewRows([]string{"username", "password_hash", "created_at"}).
					AddRow("alice", "$2a$10$digest", created)
				mock.ExpectQuery(selectAnalyst).WithArgs("alice").WillReturnRows(rows)
			},
			want: &analyst.Analyst{Username: "alice", PasswordHash: "$2a$10$digest", CreatedAt: created},
		},
		{
			name: "not found",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(selectAnalyst).WithArgs("alice").WillReturnError(pgx.ErrNoRows)
			},
			wantCode: analyst.CodeNotFound,
			wantIs:   analyst.ErrNotFound,
		},
		{
			name: "connection refused",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(selectAnalyst).WithArgs("alice").
					WillReturnError(&net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")})
			},
			wantCode: analyst.CodeStoreUnavailable,
		},
		{
			name: "query error",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(selectAnalyst).WithArgs("alice").
					WillReturnError(&pgconn.PgError{Code: pgerrcode.UndefinedTable})
			},
			wantCode: "ANALYST_QUERY_FAILED",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := newMock(t)
			tt.setupMock(mock)

			got, err := postgres.NewRepository(mock).FindByUsername(ctx, "alice")
			if tt.wantCode != "" {
				require.Error(t, err)
				assert.Nil(t, got)
				errutil.AssertErrorCode(t, err, tt.wantCode)
				if tt.wantIs != nil {
					assert.ErrorIs(t, err, tt.wantIs)
				}
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRepository_Insert(t *testing.T) {
	ctx := context.Background()
	a := &analyst.Analyst{
		Username:     "alice",
		PasswordHash: "$2a$10$digest",
		CreatedAt:    time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}

	tests := []struct {
		name      string
		setupMock func(mock pgxmock.PgxPoolIface)
		wantCode  string
	}{
		{
			name: "inserted",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec(insertAnalyst).
					WithArgs(a.Username, a.PasswordHash, a.CreatedAt).
					WillReturnResult(pgxmock.NewResult("INSERT", 1))
			},
		},
		{
			name: "username taken",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec(insertAnalyst).
					WithArgs(a.Username, a.PasswordHash, a.CreatedAt).
					WillReturnResult(pgxmock.NewResult("INSERT", 0))
			},
			wantCode: analyst.CodeExists,
		},
		{
			name: "raced unique violation",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec(insertAnalyst).
					WithArgs(a.Username, a.PasswordHash, a.CreatedAt).
					WillReturnError(&pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "analysts_pkey"})
			},
			wantCode: analyst.CodeExists,
		},
		{
			name: "server shutting down",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec(insertAnalyst).
					WithArgs(a.Username, a.PasswordHash, a.CreatedAt).
					WillReturnError(&pgconn.PgError{Code: pgerrcode.AdminShutdown})
			},
			wantCode: analyst.CodeStoreUnavailable,
		},
		{
			name: "check violation",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec(insertAnalyst).
					WithArgs(a.Username, a.PasswordHash, a.CreatedAt).
					WillReturnError(&pgconn.PgError{Code: pgerrcode.CheckViolation})
			},
			wantCode: "ANALYST_QUERY_FAILED",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := newMock(t)
			tt.setupMock(mock)

			err := postgres.NewRepository(mock).Insert(ctx, a)
			if tt.wantCode == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			if tt.wantCode == analyst.CodeExists {
				assert.ErrorIs(t, err, analyst.ErrConflict)
				errutil.AssertAnalystError(t, err, tt.wantCode, "alice")
				return
			}
			errutil.AssertErrorCode(t, err, tt.wantCode)
		})
	}
}

func TestRepository_Ping(t *testing.T) {
	t.Run("reachable", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectPing()

		require.NoError(t, postgres.NewRepository(mock).Ping(context.Background()))
	})

	t.Run("unreachable", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectPing().WillReturnError(errors.New("connection reset"))

		err := postgres.NewRepository(mock).Ping(context.Background())
		errutil.AssertErrorCode(t, err, analyst.CodeStoreUnavailable)
	})
}
