// Copyright (c) 2026 EvidHub. All rights reserved.
// Author: dev@evidhub.io

package middleware

import (
	"net/http"

	"github.com/evidhub/console/internal/platform/apperr"
	"github.com/evidhub/console/internal/platform/constants"
	"github.com/evidhub/console/internal/platform/respond"
	"github.com/evidhub/console/internal/platform/sec"
	"github.com/evidhub/console/internal/session"
)

// CookieVerifier defines the interface needed to verify session cookies.
//
// # Why an interface?
//
// Defining CookieVerifier here decouples the middleware from the concrete
// [sec.CookieSigner], allowing us to easily inject mocks during unit testing.
type CookieVerifier interface {
	Verify(cookieValue string) (string, error)
}

// LoadSession resolves the browser session cookie into a [session.Session].
//
// # Flow
//  1. Check for the signed session cookie.
//  2. If absent or unverifiable, the request proceeds as anonymous.
//  3. If valid, read the client's session from the store factory.
//  4. Inject the session ID and (when authenticated) the session into context.
//
// A cookie that verifies but has no backing store entry still contributes its
// session ID — the login handlers reuse it as the re-entrancy guard key.
func LoadSession(verifier CookieVerifier, stores session.Factory) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {

			cookie, err := request.Cookie(constants.SessionCookieName)
			if err != nil || cookie.Value == "" {
				next.ServeHTTP(writer, request)
				return
			}

			// A tampered cookie is treated as anonymous, not as an error.
			sessionID, err := verifier.Verify(cookie.Value)
			if err != nil {
				next.ServeHTTP(writer, request)
				return
			}

			ctx := session.WithID(request.Context(), sessionID)

			current, err := stores.For(sessionID).Read(ctx)
			if err == nil && current != nil {
				ctx = session.WithCurrent(ctx, current)
			}

			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// RequireAuth blocks requests that are not authenticated.
//
// # Usage
//
// Must be registered in the router AFTER [LoadSession].
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if session.Current(request.Context()) == nil {
			respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
			return
		}
		next.ServeHTTP(writer, request)
	})
}

// RequireRole blocks requests if the session's role doesn't meet the target.
//
// # Usage
//
// Must be registered in the router AFTER [LoadSession]. It automatically
// implies [RequireAuth] so you don't need to mount both.
func RequireRole(role sec.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			current := session.Current(request.Context())

			// ── 1. Authentication Check ───────────────────────────────────────
			if current == nil {
				respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
				return
			}

			// ── 2. Authorization Check ────────────────────────────────────────
			if !current.Role.AtLeast(role) {
				respond.Error(writer, request, apperr.Forbidden("Insufficient permissions"))
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}
