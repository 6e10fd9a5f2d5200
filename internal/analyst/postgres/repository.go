// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 CipherGate Contributors

// Package postgres stores analysts in PostgreSQL.
package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/samber/oops"

	"github.com/ciphergate/ciphergate/internal/analyst"
	"github.com/ciphergate/ciphergate/internal/store"
)

// DB is the subset of *pgxpool.Pool the repository uses.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
}

// Repository implements analyst.Repository using PostgreSQL.
type Repository struct {
	db DB
}

// NewRepository creates a new Repository.
func NewRepository(db DB) *Repository {
	return &Repository{db: db}
}

// FindByUsername retrieves an analyst by exact username.
func (r *Repository) FindByUsername(ctx context.Context, username string) (*analyst.Analyst, error) {
	var a analyst.Analyst
	err := r.db.QueryRow(ctx, `
		SELECT username, password_hash, created_at
		FROM analysts
		WHERE username = $1
	`, username).Scan(&a.Username, &a.PasswordHash, &a.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code(analyst.CodeNotFound).With("username", username).Wrap(analyst.ErrNotFound)
	}
	if err != nil {
		return nil, wrapQueryErr(err, "find analyst", username)
	}
	return &a, nil
}

// Insert stores a new analyst in a single conditional statement.
// The existing row wins when the username is taken.
func (r *Repository) Insert(ctx context.Context, a *analyst.Analyst) error {
	tag, err := r.db.Exec(ctx, `
		INSERT INTO analysts (username, password_hash, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (username) DO NOTHING
	`, a.Username, a.PasswordHash, a.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return conflict(a.Username)
		}
		return wrapQueryErr(err, "insert analyst", a.Username)
	}
	if tag.RowsAffected() == 0 {
		return conflict(a.Username)
	}
	return nil
}

// Ping reports whether the database is reachable.
func (r *Repository) Ping(ctx context.Context) error {
	if err := r.db.Ping(ctx); err != nil {
		return oops.Code(analyst.CodeStoreUnavailable).With("operation", "ping").Wrap(err)
	}
	return nil
}

func conflict(username string) error {
	return oops.Code(analyst.CodeExists).With("username", username).Wrap(analyst.ErrConflict)
}

func wrapQueryErr(err error, operation, username string) error {
	code := "ANALYST_QUERY_FAILED"
	if store.IsUnavailable(err) {
		code = analyst.CodeStoreUnavailable
	}
	return oops.Code(code).
		With("operation", operation).
		With("username", username).
		Wrap(err)
}

var _ analyst.Repository = (*Repository)(nil)
