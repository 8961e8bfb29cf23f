package http

import (
	"net/http"

	"github.com/AlibekovAA/storefront/internal/common/constants"
	"github.com/AlibekovAA/storefront/internal/common/httpmetrics"
	"github.com/AlibekovAA/storefront/internal/common/logger"
)

func BuildBaseHandler(log *logger.Logger, handler http.Handler) http.Handler {
	metrics := httpmetrics.New("/metrics", "/health")
	recovery := RecoveryMiddleware(log)
	traceID := TraceIDMiddleware
	maxRequestSize := MaxRequestSizeMiddleware(constants.DefaultMaxRequestSize)
	securityHeaders := SecurityHeadersMiddleware
	csp := ContentSecurityPolicyMiddleware("")

	return securityHeaders(csp(traceID(recovery(maxRequestSize(metrics.Wrap(handler))))))
}
