package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	AccountRegistrationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "account_registrations_total",
			Help: "Total number of registration attempts by result",
		},
		[]string{"result"},
	)

	AccountLoginsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "account_logins_total",
			Help: "Total number of login attempts by result",
		},
		[]string{"result"},
	)

	AccountListRequestsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "account_list_requests_total",
			Help: "Total number of user list requests",
		},
	)

	SessionTokensIssued = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "session_tokens_issued_total",
			Help: "Total number of signed session tokens issued",
		},
	)

	JWTValidationsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "jwt_validations_total",
			Help: "Total number of JWT validations",
		},
	)

	JWTValidationsFailed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "jwt_validations_failed_total",
			Help: "Total number of failed JWT validations",
		},
	)

	AccountEventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "account_events_published_total",
			Help: "Total number of account events published by type and result",
		},
		[]string{"type", "result"},
	)
)
