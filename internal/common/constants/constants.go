package constants

import "time"

const (
	JWTSecretMinLength = 32

	DefaultLanguage   = "es"
	DefaultBcryptCost = 10
	DefaultTokenTTL   = 7 * 24 * time.Hour

	DefaultMaxRequestSize = 1 << 20

	LikeStorageKey       = "like"
	LikeTranslationSpace = "ProductsPageView"
	DefaultLikeDir       = "./data"

	DBPoolMaxOpenConns    = 25
	DBPoolMinOpenConns    = 5
	DBPoolConnMaxLifetime = time.Hour
	DBPoolConnMaxIdleTime = 30 * time.Minute
	DBPoolHealthCheck     = 1 * time.Minute
	DBPoolConnectTimeout  = 5 * time.Second
	DBPoolMaxAttempts     = 10
	DBPoolRetryDelay      = 1 * time.Second
	DBPoolMetricsInterval = 30 * time.Second
	DBMigrationTimeout    = 30 * time.Second

	ServerReadHeaderTimeout = 10 * time.Second
	ServerReadTimeout       = 30 * time.Second
	ServerWriteTimeout      = 30 * time.Second
	ServerIdleTimeout       = 120 * time.Second

	ShutdownTimeout = 30 * time.Second
	DrainTimeout    = 10 * time.Second

	DefaultStorefrontHTTPPort = "8080"
	DefaultRequestTimeout     = 5 * time.Second

	DefaultCircuitBreakerThreshold = 50
	DefaultCircuitBreakerTimeout   = 10 * time.Second
	DefaultCircuitBreakerReset     = 10 * time.Second

	DefaultEventsQueue  = "account.events"
	EventPublishTimeout = 2 * time.Second
	RedisConnectTimeout = 2 * time.Second
	LikeFlushTimeout    = 3 * time.Second

	RateLimitCleanupInterval           = 5 * time.Minute
	RateLimitLoginRequestsPerSecond    = 1.0
	RateLimitLoginBurst                = 5
	RateLimitRegisterRequestsPerSecond = 0.5
	RateLimitRegisterBurst             = 3
	RateLimitGeneralRequestsPerSecond  = 20.0
	RateLimitGeneralBurst              = 40

	LoggerMaxSize    = 100
	LoggerMaxBackups = 3
	LoggerMaxAge     = 28

	TestJWTSecret = "test-secret-key-that-is-at-least-32-bytes"
)

type TraceIDKeyType string

const TraceIDKey TraceIDKeyType = "trace_id"
