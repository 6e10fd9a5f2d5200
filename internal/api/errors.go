// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 CipherGate Contributors

package api

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ciphergate/ciphergate/internal/analyst"
	"github.com/ciphergate/ciphergate/internal/cipher"
	"github.com/ciphergate/ciphergate/pkg/errutil"
)

// Error codes raised by the HTTP layer itself.
const (
	CodeRequestMalformed = "REQUEST_MALFORMED"
	CodeRequestTooLarge  = "REQUEST_TOO_LARGE"
)

// Client-facing messages for codes whose detail is not shown.
const (
	msgMalformed      = "Invalid JSON body"
	msgTooLarge       = "Request body too large"
	msgExists         = "Username already exists"
	msgUnauthorized   = "Unauthorized"
	msgStoreDown      = "Database connection failed"
	msgInternalServer = "Internal server error"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// statusFor maps an error to its HTTP status and client message.
func statusFor(err error) (int, string) {
	switch errutil.Code(err) {
	case analyst.CodeInvalidUsername, analyst.CodeInvalidPassword,
		cipher.CodeMessageRequired, cipher.CodeMessageInvalid, cipher.CodeMessageEmpty:
		return http.StatusBadRequest, err.Error()
	case CodeRequestMalformed:
		return http.StatusBadRequest, msgMalformed
	case CodeRequestTooLarge:
		return http.StatusRequestEntityTooLarge, msgTooLarge
	case analyst.CodeExists:
		return http.StatusConflict, msgExists
	case analyst.CodeInvalidCredentials:
		return http.StatusUnauthorized, msgUnauthorized
	case analyst.CodeStoreUnavailable:
		return http.StatusServiceUnavailable, msgStoreDown
	default:
		return http.StatusInternalServerError, msgInternalServer
	}
}

// abortWithError writes the mapped error response and stops the handler
// chain. Server-side failures are logged with their oops context.
func abortWithError(c *gin.Context, logger *slog.Logger, err error) {
	status, msg := statusFor(err)
	if status >= http.StatusInternalServerError {
		errutil.LogError(c.Request.Context(), logger, "request failed", err,
			"method", c.Request.Method,
			"route", c.FullPath(),
			"status", status)
	}
	_ = c.Error(err) //nolint:errcheck // recorded for middleware, always returns err
	c.AbortWithStatusJSON(status, ErrorResponse{Error: msg})
}
