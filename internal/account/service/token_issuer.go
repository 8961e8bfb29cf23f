package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/AlibekovAA/storefront/internal/common/clock"
	commoncrypto "github.com/AlibekovAA/storefront/internal/common/crypto"
	"github.com/AlibekovAA/storefront/internal/common/jwtverify"
)

// TokenIssuer mints HS256 session tokens. Every token carries a fresh jti, so
// two tokens for the same email are never equal even within one second.
type TokenIssuer struct {
	jwtSecret   []byte
	idGenerator commoncrypto.IDGenerator
	clock       clock.Clock
	ttl         time.Duration
}

func NewTokenIssuer(
	jwtSecret string,
	idGenerator commoncrypto.IDGenerator,
	ttl time.Duration,
	clock clock.Clock,
) *TokenIssuer {
	return &TokenIssuer{
		jwtSecret:   []byte(jwtSecret),
		idGenerator: idGenerator,
		clock:       clock,
		ttl:         ttl,
	}
}

func (ti *TokenIssuer) Issue(email string) (string, error) {
	jti, err := ti.idGenerator.NewID()
	if err != nil {
		return "", err
	}

	now := ti.clock.Now()
	claims := jwt.MapClaims{
		"email": email,
		"jti":   jti,
		"iat":   now.Unix(),
		"exp":   now.Add(ti.ttl).Unix(),
	}

	tokenString, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(ti.jwtSecret)
	if err != nil {
		return "", err
	}

	incrementSessionTokensIssued()
	return tokenString, nil
}

func (ti *TokenIssuer) ParseToken(tokenString string) (jwtverify.Claims, error) {
	return jwtverify.ParseToken(tokenString, ti.jwtSecret)
}
