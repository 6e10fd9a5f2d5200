// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 CipherGate Contributors

package api

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/samber/oops"

	"github.com/ciphergate/ciphergate/internal/analyst"
	"github.com/ciphergate/ciphergate/internal/observability"
	"github.com/ciphergate/ciphergate/pkg/errutil"
)

// identityKey is the gin context key holding the authenticated Identity.
const identityKey = "ciphergate.identity"

// Analysts is the account service the API depends on.
type Analysts interface {
	Register(ctx context.Context, username, password string) (*analyst.Analyst, error)
	Authenticate(ctx context.Context, username, password string) (*analyst.Identity, error)
}

// credentials is the claim every auth and protected request carries.
// Fields are untyped so that non-string JSON values fail validation with
// the "must be a string" message rather than as malformed JSON.
type credentials struct {
	Username any `json:"username"`
	Password any `json:"password"`
}

func (c credentials) username() string {
	s, _ := c.Username.(string)
	return s
}

func (c credentials) password() string {
	s, _ := c.Password.(string)
	return s
}

// RequireAnalyst authenticates the credentials in the request body and
// stores the resulting Identity for the handler. On failure the chain is
// aborted and nothing downstream runs.
func RequireAnalyst(svc Analysts, metrics *observability.Metrics, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req credentials
		if err := bindBody(c, &req); err != nil {
			abortWithError(c, logger, err)
			return
		}

		id, err := svc.Authenticate(c.Request.Context(), req.username(), req.password())
		metrics.RecordAuthAttempt(authOutcome(err))
		if err != nil {
			abortWithError(c, logger, err)
			return
		}

		c.Set(identityKey, id)
		c.Next()
	}
}

// IdentityFrom returns the Identity stored by RequireAnalyst.
func IdentityFrom(c *gin.Context) (*analyst.Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return nil, false
	}
	id, ok := v.(*analyst.Identity)
	return id, ok && id != nil
}

// bindBody decodes the JSON body into obj. The raw body is cached under
// gin.BodyBytesKey, as ShouldBindBodyWith does, so the gate and the handler
// can both decode it. An empty body decodes as an empty object.
func bindBody(c *gin.Context, obj any) error {
	body, err := cachedBody(c)
	if err != nil {
		return err
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := binding.JSON.BindBody(body, obj); err != nil {
		return oops.Code(CodeRequestMalformed).Wrap(err)
	}
	return nil
}

func cachedBody(c *gin.Context) ([]byte, error) {
	if cached, ok := c.Get(gin.BodyBytesKey); ok {
		if body, ok := cached.([]byte); ok {
			return body, nil
		}
	}
	if c.Request.Body == nil || c.Request.Body == http.NoBody {
		c.Set(gin.BodyBytesKey, []byte(nil))
		return nil, nil
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, oops.Code(CodeRequestTooLarge).With("limit", maxErr.Limit).Wrap(err)
		}
		return nil, oops.Code(CodeRequestMalformed).Wrap(err)
	}
	c.Set(gin.BodyBytesKey, body)
	return body, nil
}

func authOutcome(err error) string {
	switch errutil.Code(err) {
	case "":
		if err == nil {
			return observability.OutcomeSuccess
		}
		return observability.OutcomeError
	case analyst.CodeInvalidCredentials:
		return observability.OutcomeRejected
	case analyst.CodeInvalidUsername, analyst.CodeInvalidPassword, CodeRequestMalformed:
		return observability.OutcomeInvalid
	case analyst.CodeStoreUnavailable:
		return observability.OutcomeUnavailable
	default:
		return observability.OutcomeError
	}
}
