// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 CipherGate Contributors

package analyst

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/samber/oops"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("ciphergate/analyst")

// fallbackDummyHash is verified against when the configured hasher cannot
// produce its own dummy digest. It never matches a real password.
//
//nolint:gosec // G101: intentionally fake digest for timing equalisation, not a credential.
const fallbackDummyHash = "$2a$10$CwTycUXWue0Thq9StjUM0uJ8.XJ5PQ3ZpqbVLgkcqP1b7PzDJYzHa"

// dummyPassword only feeds the dummy digest.
const dummyPassword = "ciphergate-dummy-password"

// Service registers analysts and checks their credentials.
type Service struct {
	repo   Repository
	hasher PasswordHasher
	logger *slog.Logger
	now    func() time.Time

	dummyOnce sync.Once
	dummyHash string
}

// NewService creates a Service. Both dependencies are required.
func NewService(repo Repository, hasher PasswordHasher) (*Service, error) {
	return NewServiceWithLogger(repo, hasher, slog.Default())
}

// NewServiceWithLogger creates a Service that logs through logger.
func NewServiceWithLogger(repo Repository, hasher PasswordHasher, logger *slog.Logger) (*Service, error) {
	if repo == nil {
		return nil, oops.Errorf("analyst repository is required")
	}
	if hasher == nil {
		return nil, oops.Errorf("password hasher is required")
	}
	if logger == nil {
		return nil, oops.Errorf("logger is required")
	}
	return &Service{
		repo:   repo,
		hasher: hasher,
		logger: logger,
		now:    time.Now,
	}, nil
}

// Register validates the credentials, hashes the password, and stores a new
// analyst. The username is sanitized before validation; the password is not.
func (s *Service) Register(ctx context.Context, username, password string) (_ *Analyst, err error) {
	username = SanitizeInput(username)

	ctx, span := tracer.Start(ctx, "analyst.register",
		trace.WithAttributes(attribute.String("analyst.username", username)),
	)
	defer endSpan(span, &err)

	if err = ValidateUsername(username); err != nil {
		return nil, err
	}
	if err = ValidatePassword(password); err != nil {
		return nil, err
	}

	digest, err := s.hasher.Hash(password)
	if err != nil {
		return nil, oops.With("operation", "hash password").Wrap(err)
	}

	analyst := &Analyst{
		Username:     username,
		PasswordHash: digest,
		CreatedAt:    s.now().UTC(),
	}
	if err = s.repo.Insert(ctx, analyst); err != nil {
		return nil, oops.With("operation", "insert analyst", "username", username).Wrap(err)
	}

	s.logger.InfoContext(ctx, "analyst registered", "username", username)
	return analyst, nil
}

// Authenticate performs one full credential check.
// An unknown username and a wrong password return the same error.
func (s *Service) Authenticate(ctx context.Context, username, password string) (_ *Identity, err error) {
	username = SanitizeInput(username)

	ctx, span := tracer.Start(ctx, "analyst.authenticate",
		trace.WithAttributes(attribute.String("analyst.username", username)),
	)
	defer endSpan(span, &err)

	if err = ValidateUsername(username); err != nil {
		return nil, err
	}
	if err = ValidatePassword(password); err != nil {
		return nil, err
	}

	analyst, lookupErr := s.repo.FindByUsername(ctx, username)
	if lookupErr != nil {
		if !errors.Is(lookupErr, ErrNotFound) {
			return nil, oops.With("operation", "find analyst", "username", username).Wrap(lookupErr)
		}
		// Same verify cost as a real account.
		_, _ = s.hasher.Verify(password, s.dummyDigest()) //nolint:errcheck // result is discarded
		return nil, errUnauthorized()
	}

	valid, verifyErr := s.hasher.Verify(password, analyst.PasswordHash)
	if verifyErr != nil {
		return nil, oops.With("operation", "verify password", "username", username).Wrap(verifyErr)
	}
	if !valid {
		return nil, errUnauthorized()
	}

	return &Identity{Username: analyst.Username}, nil
}

// Warm builds the dummy digest ahead of the first Authenticate call, so
// the first unknown-user attempt costs one hash like every later one.
// Calling it again is a no-op.
func (s *Service) Warm() {
	s.dummyDigest()
}

// dummyDigest returns a digest made by the configured hasher, so its cost
// matches stored digests.
func (s *Service) dummyDigest() string {
	s.dummyOnce.Do(func() {
		digest, err := s.hasher.Hash(dummyPassword)
		if err != nil || digest == "" {
			s.logger.Warn("falling back to static dummy digest", "error", err)
			digest = fallbackDummyHash
		}
		s.dummyHash = digest
	})
	return s.dummyHash
}

func errUnauthorized() error {
	return oops.Code(CodeInvalidCredentials).Errorf("Unauthorized")
}

func endSpan(span trace.Span, errp *error) {
	if err := *errp; err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
