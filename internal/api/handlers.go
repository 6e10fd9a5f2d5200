// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 CipherGate Contributors

package api

import (
	"encoding/json"
	"math/big"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/samber/oops"

	"github.com/ciphergate/ciphergate/internal/analyst"
	"github.com/ciphergate/ciphergate/internal/cipher"
	"github.com/ciphergate/ciphergate/internal/observability"
	"github.com/ciphergate/ciphergate/pkg/errutil"
)

// Fixed response texts.
const (
	serviceMessage    = "CipherNet Authentication Service Online"
	registeredMessage = "Analyst registered successfully"
	verifiedMessage   = "Verified"
	profileMessage    = "Analyst profile accessed successfully"
	accessLevel       = "Verified CipherNet Analyst"
)

// timestampFormat is RFC 3339 in UTC with millisecond precision.
const timestampFormat = "2006-01-02T15:04:05.000Z07:00"

// RegisterResponse is returned by a successful signup.
type RegisterResponse struct {
	Message  string `json:"message"`
	Username string `json:"username"`
}

// MessageResponse carries a single status message.
type MessageResponse struct {
	Message string `json:"message"`
}

// DecodeResponse is returned for an analyzed message. Message echoes the
// parsed input.
type DecodeResponse struct {
	Result         *big.Int              `json:"result"`
	Classification cipher.Classification `json:"classification"`
	Status         string                `json:"status"`
	Analyst        string                `json:"analyst"`
	Message        []*big.Int            `json:"message"`
}

// ProfileResponse is returned by the profile route.
type ProfileResponse struct {
	Message     string `json:"message"`
	Analyst     string `json:"analyst"`
	AccessLevel string `json:"access_level"`
	Timestamp   string `json:"timestamp"`
}

// HealthResponse is returned by the health route.
type HealthResponse struct {
	Status    string `json:"status"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
}

// BannerResponse is returned by the root route.
type BannerResponse struct {
	Message   string            `json:"message"`
	Version   string            `json:"version"`
	Endpoints map[string]string `json:"endpoints"`
}

// NotFoundResponse is returned for unknown routes.
type NotFoundResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type decodeRequest struct {
	Message json.RawMessage `json:"message"`
}

func (h *handler) signup(c *gin.Context) {
	var req credentials
	if err := bindBody(c, &req); err != nil {
		h.metrics.RecordSignup(observability.OutcomeInvalid)
		abortWithError(c, h.logger, err)
		return
	}

	a, err := h.analysts.Register(c.Request.Context(), req.username(), req.password())
	h.metrics.RecordSignup(signupOutcome(err))
	if err != nil {
		abortWithError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, RegisterResponse{Message: registeredMessage, Username: a.Username})
}

// verify runs behind RequireAnalyst; reaching it means the check passed.
func (h *handler) verify(c *gin.Context) {
	c.JSON(http.StatusOK, MessageResponse{Message: verifiedMessage})
}

func (h *handler) decodeMessage(c *gin.Context) {
	id, ok := IdentityFrom(c)
	if !ok {
		abortWithError(c, h.logger, oops.Errorf("identity missing from authenticated request"))
		return
	}

	var req decodeRequest
	if err := bindBody(c, &req); err != nil {
		abortWithError(c, h.logger, err)
		return
	}

	msg, err := cipher.Parse(req.Message)
	if err != nil {
		abortWithError(c, h.logger, err)
		return
	}

	_, span := tracer.Start(c.Request.Context(), "cipher.analyze")
	analysis := cipher.Analyze(msg)
	span.End()
	h.metrics.RecordMessageAnalyzed(string(analysis.Classification))

	c.JSON(http.StatusOK, DecodeResponse{
		Result:         analysis.Value,
		Classification: analysis.Classification,
		Status:         analysis.Status(),
		Analyst:        id.Username,
		Message:        msg,
	})
}

func (h *handler) profile(c *gin.Context) {
	id, ok := IdentityFrom(c)
	if !ok {
		abortWithError(c, h.logger, oops.Errorf("identity missing from authenticated request"))
		return
	}

	c.JSON(http.StatusOK, ProfileResponse{
		Message:     profileMessage,
		Analyst:     id.Username,
		AccessLevel: accessLevel,
		Timestamp:   h.timestamp(),
	})
}

func (h *handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:    "OK",
		Message:   serviceMessage,
		Timestamp: h.timestamp(),
		Version:   h.version,
	})
}

func (h *handler) banner(c *gin.Context) {
	c.JSON(http.StatusOK, BannerResponse{
		Message: serviceMessage,
		Version: h.version,
		Endpoints: map[string]string{
			"health": "/api/health",
			"auth":   "/api/auth",
			"cipher": "/api/cipher",
		},
	})
}

func (h *handler) notFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, NotFoundResponse{
		Error:   "Not Found",
		Message: "Route " + c.Request.Method + " " + c.Request.URL.Path + " not found",
	})
}

func (h *handler) timestamp() string {
	return h.now().UTC().Format(timestampFormat)
}

func signupOutcome(err error) string {
	if err == nil {
		return observability.OutcomeSuccess
	}
	switch errutil.Code(err) {
	case analyst.CodeInvalidUsername, analyst.CodeInvalidPassword:
		return observability.OutcomeInvalid
	case analyst.CodeExists:
		return observability.OutcomeConflict
	case analyst.CodeStoreUnavailable:
		return observability.OutcomeUnavailable
	default:
		return observability.OutcomeError
	}
}
