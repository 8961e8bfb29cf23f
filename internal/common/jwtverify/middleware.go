package jwtverify

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	commonerrors "github.com/AlibekovAA/storefront/internal/common/errors"
	commonhttp "github.com/AlibekovAA/storefront/internal/common/http"
	"github.com/AlibekovAA/storefront/internal/common/logger"
	"github.com/AlibekovAA/storefront/internal/observability/metrics"
)

type Claims struct {
	Email     string
	TokenID   string
	ExpiresAt time.Time
}

type contextKey string

const claimsKey contextKey = "jwt_claims"

func Middleware(secret string, log *logger.Logger) func(next http.Handler) http.Handler {
	secretBytes := []byte(secret)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			traceID := commonhttp.TraceIDFromContext(r.Context())

			raw := r.Header.Get("Authorization")
			if raw == "" || !strings.HasPrefix(raw, "Bearer ") {
				log.Warnf("jwt auth failed path=%s: missing or invalid authorization header", r.URL.Path)
				commonhttp.WriteErrorEnvelope(w, http.StatusUnauthorized, commonhttp.CodeMissingAuthorization, "missing or invalid authorization", nil, traceID)
				return
			}

			claims, err := ParseToken(strings.TrimPrefix(raw, "Bearer "), secretBytes)
			if err != nil {
				log.Warnf("jwt auth failed path=%s: %v", r.URL.Path, err)
				commonhttp.WriteErrorEnvelope(w, http.StatusUnauthorized, commonhttp.CodeInvalidToken, "invalid token", nil, traceID)
				return
			}

			ctx := context.WithValue(r.Context(), claimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func FromContext(ctx context.Context) (Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(Claims)
	return claims, ok
}

// ParseToken verifies an HS256 session token and extracts its claims. Expired
// tokens are rejected by the jwt parser.
func ParseToken(tokenString string, secret []byte) (Claims, error) {
	metrics.JWTValidationsTotal.Inc()

	claims, err := parseToken(tokenString, secret)
	if err != nil {
		metrics.JWTValidationsFailed.Inc()
		return Claims{}, err
	}
	return claims, nil
}

func parseToken(tokenString string, secret []byte) (Claims, error) {
	parsed, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, commonerrors.ErrInvalidTokenSigningMethod
		}
		return secret, nil
	}, jwt.WithExpirationRequired())
	if err != nil {
		if errors.Is(err, commonerrors.ErrInvalidTokenSigningMethod) {
			return Claims{}, commonerrors.ErrInvalidTokenSigningMethod
		}
		return Claims{}, commonerrors.ErrInvalidToken.WithCause(err)
	}
	if !parsed.Valid {
		return Claims{}, commonerrors.ErrInvalidToken
	}

	mapClaims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, commonerrors.ErrInvalidTokenClaims
	}

	email, _ := mapClaims["email"].(string)
	jti, _ := mapClaims["jti"].(string)
	if email == "" || jti == "" {
		return Claims{}, commonerrors.ErrMissingTokenClaims
	}

	exp, err := mapClaims.GetExpirationTime()
	if err != nil || exp == nil {
		return Claims{}, commonerrors.ErrInvalidTokenClaims
	}

	return Claims{
		Email:     email,
		TokenID:   jti,
		ExpiresAt: exp.Time,
	}, nil
}
