// Copyright (c) 2026 Ultimate Library. All rights reserved.

// Package sec provides cryptographic primitives and token management.
//
// # Architecture
//
// This package isolates security-sensitive code (hashing, JWT signing) from
// the domain logic. It acts as an infrastructure service injected into the
// application layer via small interfaces declared at the point of use.
package sec

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AuthClaims represents the payload embedded inside a JWT access token.
//
// The subject carries the user's email. Tokens are never persisted; the
// claim set is reconstructed per request from the signed string.
type AuthClaims struct {
	jwt.RegisteredClaims
}

// TokenService handles generation and verification of JWT tokens using HS256.
//
// The signing key, issuer, and default TTL are process-wide configuration,
// fixed at startup.
type TokenService struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

// NewTokenService creates a new TokenService with the given HMAC secret,
// issuer, and default token lifetime.
func NewTokenService(secret, issuer string, ttl time.Duration) *TokenService {
	return &TokenService{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
	}
}

// Issue creates a signed token for the subject using the configured TTL.
func (service *TokenService) Issue(subject string) (string, error) {
	return service.IssueWithTTL(subject, service.ttl)
}

// IssueWithTTL creates a signed token embedding the subject and an absolute
// expiry of now + ttl.
func (service *TokenService) IssueWithTTL(subject string, ttl time.Duration) (string, error) {
	currentTime := time.Now()
	claims := AuthClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    service.issuer,
			IssuedAt:  jwt.NewNumericDate(currentTime),
			ExpiresAt: jwt.NewNumericDate(currentTime.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(service.secret)
	if err != nil {
		return "", fmt.Errorf("sec: failed to sign token: %w", err)
	}

	return signedToken, nil
}

// Verify checks the signature and validity of a JWT string and returns the
// subject claim.
//
// It fails on a bad signature, malformed structure, a missing subject, or an
// expiry in the past. An expiry exactly equal to "now" is still valid.
func (service *TokenService) Verify(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &AuthClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("sec: unexpected signing method: %v", token.Header["alg"])
		}
		return service.secret, nil
	})

	if err != nil {
		return "", fmt.Errorf("sec: invalid token: %w", err)
	}

	claims, ok := token.Claims.(*AuthClaims)
	if !ok || !token.Valid {
		return "", fmt.Errorf("sec: invalid token claims")
	}

	if claims.Subject == "" {
		return "", fmt.Errorf("sec: token has no subject")
	}

	return claims.Subject, nil
}
