// Copyright (c) 2026 Ultimate Library. All rights reserved.

package middleware

import (
	"net/http"
	"strings"

	"github.com/fabinnerself/ultimate-library/internal/platform/apperr"
	"github.com/fabinnerself/ultimate-library/internal/platform/ctxutil"
	"github.com/fabinnerself/ultimate-library/internal/platform/identity"
	"github.com/fabinnerself/ultimate-library/internal/platform/respond"
)

// TokenVerifier defines the interface needed to verify tokens in middleware.
//
// # Why an interface?
//
// Defining TokenVerifier here decouples the middleware from the token service
// implementation, allowing us to easily inject mocks during unit testing.
type TokenVerifier interface {
	Verify(tokenString string) (subject string, err error)
}

// Authenticate extracts and verifies the JWT from the Authorization header,
// then resolves the subject to a live principal.
//
// # Flow
//  1. Check for 'Authorization: Bearer <token>' header.
//  2. If absent, request proceeds as anonymous.
//  3. If present, verify the JWT via [TokenVerifier].
//  4. Resolve the subject email to a non-deleted user via [identity.Resolver].
//  5. Inject [*identity.Authenticated] into the request context.
//
// The resolver runs once per request; no downstream component re-validates
// the token.
func Authenticate(verifier TokenVerifier, resolver identity.Resolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			authHeader := request.Header.Get("Authorization")

			// ── 1. Anonymous Access ───────────────────────────────────────────
			if authHeader == "" {
				next.ServeHTTP(writer, request)
				return
			}

			// ── 2. Format Validation ──────────────────────────────────────────
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				respond.Error(writer, request, apperr.Unauthenticated("Could not validate credentials"))
				return
			}

			// ── 3. Token Verification ─────────────────────────────────────────
			subject, err := verifier.Verify(parts[1])
			if err != nil {
				respond.Error(writer, request, apperr.Unauthenticated("Could not validate credentials"))
				return
			}

			// ── 4. Subject Resolution ─────────────────────────────────────────
			// A valid claim for a deleted account must not resolve.
			principal, err := resolver.ResolveSubject(request.Context(), subject)
			if err != nil {
				respond.Error(writer, request, err)
				return
			}

			// ── 5. Context Injection ──────────────────────────────────────────
			ctx := ctxutil.WithPrincipal(request.Context(), principal)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// RequireActive blocks requests without an authenticated, active principal.
//
// # Usage
//
// Must be registered in the router AFTER [Authenticate].
func RequireActive(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		principal := ctxutil.GetPrincipal(request.Context())
		if principal == nil {
			respond.Error(writer, request, apperr.Unauthenticated("Not authenticated"))
			return
		}
		if _, err := principal.Active(); err != nil {
			respond.Error(writer, request, err)
			return
		}
		next.ServeHTTP(writer, request)
	})
}

// RequireAdmin blocks requests without an authenticated, active, admin
// principal. It implies [RequireActive].
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		principal := ctxutil.GetPrincipal(request.Context())
		if principal == nil {
			respond.Error(writer, request, apperr.Unauthenticated("Not authenticated"))
			return
		}
		active, err := principal.Active()
		if err != nil {
			respond.Error(writer, request, err)
			return
		}
		if _, err := active.Admin(); err != nil {
			respond.Error(writer, request, err)
			return
		}
		next.ServeHTTP(writer, request)
	})
}
