// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 CipherGate Contributors

// Package analysttest provides test helpers for analyst storage.
package analysttest

import (
	"context"
	"sync"

	"github.com/samber/oops"

	"github.com/ciphergate/ciphergate/internal/analyst"
)

// MemoryRepository is an analyst.Repository backed by a map.
// Insert is atomic, so concurrent signups behave as they do against Postgres.
type MemoryRepository struct {
	mu       sync.RWMutex
	analysts map[string]analyst.Analyst

	// Err, when set, is returned by every call.
	Err error
}

// NewMemoryRepository creates an empty MemoryRepository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{analysts: make(map[string]analyst.Analyst)}
}

// FindByUsername implements analyst.Repository.
func (r *MemoryRepository) FindByUsername(_ context.Context, username string) (*analyst.Analyst, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.Err != nil {
		return nil, r.Err
	}
	a, ok := r.analysts[username]
	if !ok {
		return nil, oops.Code(analyst.CodeNotFound).With("username", username).Wrap(analyst.ErrNotFound)
	}
	return &a, nil
}

// Insert implements analyst.Repository.
func (r *MemoryRepository) Insert(_ context.Context, a *analyst.Analyst) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.Err != nil {
		return r.Err
	}
	if _, exists := r.analysts[a.Username]; exists {
		return oops.Code(analyst.CodeExists).With("username", a.Username).Wrap(analyst.ErrConflict)
	}
	r.analysts[a.Username] = *a
	return nil
}

// Len returns the number of stored analysts.
func (r *MemoryRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.analysts)
}

// FastHasher is a bcrypt hasher at the minimum cost, for tests.
func FastHasher() *analyst.BcryptHasher {
	return analyst.NewBcryptHasher(4)
}

var _ analyst.Repository = (*MemoryRepository)(nil)
