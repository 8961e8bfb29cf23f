package service

import (
	"github.com/AlibekovAA/storefront/internal/observability/metrics"
)

func recordRegistration(result string) {
	metrics.AccountRegistrationsTotal.WithLabelValues(result).Inc()
}

func recordLogin(result string) {
	metrics.AccountLoginsTotal.WithLabelValues(result).Inc()
}

func incrementListRequests() {
	metrics.AccountListRequestsTotal.Inc()
}

func incrementSessionTokensIssued() {
	metrics.SessionTokensIssued.Inc()
}
