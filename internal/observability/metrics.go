// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 CipherGate Contributors

package observability

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome label values.
const (
	OutcomeSuccess     = "success"
	OutcomeRejected    = "rejected"
	OutcomeInvalid     = "invalid"
	OutcomeConflict    = "conflict"
	OutcomeUnavailable = "unavailable"
	OutcomeError       = "error"
)

// Metrics contains the CipherGate Prometheus counters.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	HTTPRequestsTotal     *prometheus.CounterVec
	AuthAttemptsTotal     *prometheus.CounterVec
	MessagesAnalyzedTotal *prometheus.CounterVec
	SignupsTotal          *prometheus.CounterVec
}

// NewMetrics creates the counters and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ciphergate_http_requests_total",
				Help: "Total number of HTTP requests by route and status code",
			},
			[]string{"route", "status"},
		),
		AuthAttemptsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ciphergate_auth_attempts_total",
				Help: "Total number of credential checks by outcome",
			},
			[]string{"outcome"},
		),
		MessagesAnalyzedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ciphergate_messages_analyzed_total",
				Help: "Total number of analyzed messages by classification",
			},
			[]string{"classification"},
		),
		SignupsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ciphergate_signups_total",
				Help: "Total number of signup attempts by outcome",
			},
			[]string{"outcome"},
		),
	}

	reg.MustRegister(m.HTTPRequestsTotal, m.AuthAttemptsTotal, m.MessagesAnalyzedTotal, m.SignupsTotal)
	return m
}

// RecordHTTPRequest counts one served request. route is the matched route
// pattern, not the raw path, to keep label cardinality bounded.
func (m *Metrics) RecordHTTPRequest(route string, status int) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(route, strconv.Itoa(status)).Inc()
}

// RecordAuthAttempt counts one credential check.
func (m *Metrics) RecordAuthAttempt(outcome string) {
	if m == nil {
		return
	}
	m.AuthAttemptsTotal.WithLabelValues(outcome).Inc()
}

// RecordMessageAnalyzed counts one classified message.
func (m *Metrics) RecordMessageAnalyzed(classification string) {
	if m == nil {
		return
	}
	m.MessagesAnalyzedTotal.WithLabelValues(classification).Inc()
}

// RecordSignup counts one signup attempt.
func (m *Metrics) RecordSignup(outcome string) {
	if m == nil {
		return
	}
	m.SignupsTotal.WithLabelValues(outcome).Inc()
}
