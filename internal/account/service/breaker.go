package service

import (
	"time"

	"github.com/AlibekovAA/storefront/internal/common/logger"
	"github.com/AlibekovAA/storefront/internal/common/resilience"
	userrepo "github.com/AlibekovAA/storefront/internal/user/repository"
)

// NewStoreCircuitBreaker guards repository calls. Lookups that find nothing and
// insert conflicts are normal outcomes and do not count towards tripping.
func NewStoreCircuitBreaker(threshold int32, timeout, resetAfter time.Duration, log *logger.Logger) *resilience.CircuitBreaker {
	return resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
		Threshold:  threshold,
		Timeout:    timeout,
		ResetAfter: resetAfter,
		Name:       "account_store",
		IgnoreErrors: []error{
			userrepo.ErrUserNotFound,
			userrepo.ErrEmailAlreadyExists,
		},
		Logger: log,
	})
}
