// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 CipherGate Contributors

package analyst

import (
	"context"
	"time"
)

// Analyst is a registered account. Records are never updated or deleted.
type Analyst struct {
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}

// Identity is the result of one successful credential check. It belongs to a
// single request and is never stored.
type Identity struct {
	Username string
}

// Repository persists analysts.
type Repository interface {
	// FindByUsername returns the analyst with the exact username, or an error
	// wrapping ErrNotFound.
	FindByUsername(ctx context.Context, username string) (*Analyst, error)

	// Insert stores a new analyst. It returns an error wrapping ErrConflict if
	// the username is taken; the existing record is left untouched.
	Insert(ctx context.Context, analyst *Analyst) error
}
