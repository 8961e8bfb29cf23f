package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/AlibekovAA/storefront/internal/common/constants"
	commonerrors "github.com/AlibekovAA/storefront/internal/common/errors"
)

const (
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"

	LikeStorageFile  = "file"
	LikeStorageRedis = "redis"
)

type StorefrontConfig struct {
	HTTPPort        string
	StoreDriver     string
	DatabaseURL     string
	JWTSecret       string
	TokenTTL        time.Duration
	BcryptCost      int
	DefaultLanguage string
	RequestTimeout  time.Duration

	LikeStorage    string
	LikeStorageDir string
	Redis          RedisConfig

	AMQPURL     string
	EventsQueue string

	CircuitBreakerThreshold int32
	CircuitBreakerTimeout   time.Duration
	CircuitBreakerReset     time.Duration
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoadStorefrontConfig reads the service configuration from the environment.
// It refuses to start without a signing secret; there is no fallback key.
func LoadStorefrontConfig() (StorefrontConfig, error) {
	jwtSecret, err := mustEnv("JWT_SECRET")
	if err != nil {
		return StorefrontConfig{}, err
	}

	if err := validateJWTSecret(jwtSecret); err != nil {
		return StorefrontConfig{}, err
	}

	driver := strings.ToLower(getEnv("STORE_DRIVER", StoreDriverPostgres))
	var databaseURL string
	switch driver {
	case StoreDriverPostgres:
		databaseURL, err = mustEnv("DATABASE_URL")
		if err != nil {
			return StorefrontConfig{}, err
		}
	case StoreDriverMemory:
	default:
		return StorefrontConfig{}, invalid("STORE_DRIVER", driver)
	}

	likeStorage := strings.ToLower(getEnv("LIKE_STORAGE", LikeStorageFile))
	if likeStorage != LikeStorageFile && likeStorage != LikeStorageRedis {
		return StorefrontConfig{}, invalid("LIKE_STORAGE", likeStorage)
	}

	bcryptCost := getIntEnv("BCRYPT_COST", constants.DefaultBcryptCost)
	if bcryptCost < 4 || bcryptCost > 31 {
		return StorefrontConfig{}, invalid("BCRYPT_COST", strconv.Itoa(bcryptCost))
	}

	return StorefrontConfig{
		HTTPPort:        getEnv("STOREFRONT_HTTP_PORT", constants.DefaultStorefrontHTTPPort),
		StoreDriver:     driver,
		DatabaseURL:     databaseURL,
		JWTSecret:       jwtSecret,
		TokenTTL:        getDurationEnv("TOKEN_TTL", constants.DefaultTokenTTL),
		BcryptCost:      bcryptCost,
		DefaultLanguage: getEnv("DEFAULT_LANGUAGE", constants.DefaultLanguage),
		RequestTimeout:  getDurationEnv("REQUEST_TIMEOUT", constants.DefaultRequestTimeout),

		LikeStorage:    likeStorage,
		LikeStorageDir: getEnv("LIKE_STORAGE_DIR", constants.DefaultLikeDir),
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getIntEnv("REDIS_DB", 0),
		},

		AMQPURL:     getEnv("AMQP_URL", ""),
		EventsQueue: getEnv("EVENTS_QUEUE", constants.DefaultEventsQueue),

		CircuitBreakerThreshold: int32(getIntEnv("CIRCUIT_BREAKER_THRESHOLD", constants.DefaultCircuitBreakerThreshold)),
		CircuitBreakerTimeout:   getDurationEnv("CIRCUIT_BREAKER_TIMEOUT", constants.DefaultCircuitBreakerTimeout),
		CircuitBreakerReset:     getDurationEnv("CIRCUIT_BREAKER_RESET", constants.DefaultCircuitBreakerReset),
	}, nil
}

func validateJWTSecret(secret string) error {
	if len(secret) < constants.JWTSecretMinLength {
		return commonerrors.ErrInvalidJWTSecret.WithCause(fmt.Errorf("got %d bytes", len(secret)))
	}
	return nil
}

func invalid(key, value string) error {
	return commonerrors.ErrInvalidConfig.WithCause(fmt.Errorf("%s=%q", key, value))
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func mustEnv(key string) (string, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return "", commonerrors.ErrMissingRequiredEnv.WithCause(fmt.Errorf("%s", key))
	}
	return v, nil
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

func getIntEnv(key string, fallback int) int {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return i
}
