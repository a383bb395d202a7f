// Copyright (c) 2026 EvidHub. All rights reserved.
// Author: dev@evidhub.io

package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/evidhub/console/internal/platform/constants"
	"github.com/evidhub/console/internal/platform/middleware"
	requestutil "github.com/evidhub/console/internal/platform/request"
	"github.com/evidhub/console/internal/platform/respond"
	"github.com/evidhub/console/internal/platform/sec"
	"github.com/evidhub/console/internal/platform/validate"
	"github.com/evidhub/console/internal/session"
	"github.com/evidhub/console/pkg/uuidv7"
)

// Handler implements the authentication HTTP endpoints.
//
// # Scope
//
// Everything related to establishing and tearing down a browser session:
// wallet login, credential login, registration, logout, and the session
// probe the web app calls on every page load.
type Handler struct {
	authService   *Service
	cookieSigner  *sec.CookieSigner
	secureCookies bool
}

// NewHandler constructs a new [Handler] with its dependencies.
func NewHandler(service *Service, cookieSigner *sec.CookieSigner, secureCookies bool) *Handler {
	return &Handler{
		authService:   service,
		cookieSigner:  cookieSigner,
		secureCookies: secureCookies,
	}
}

// Routes returns a [chi.Router] configured with authentication routes.
//
// # Endpoints
//   - POST /wallet-login : Wallet signature login.
//   - POST /login        : Email and password login.
//   - POST /register     : Wallet-backed registration.
//   - POST /logout       : Destroys the session. Idempotent.
//   - GET  /session      : Probes the live session.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/wallet-login", handler.walletLogin)
	router.Post("/login", handler.login)
	router.Post("/register", handler.register)
	router.Post("/logout", handler.logout)
	router.Get("/session", handler.currentSession)

	return router
}

// loginResponse is the JSON shape of every successful authentication reply.
type loginResponse struct {
	Destination string           `json:"destination"`
	Session     *session.Session `json:"session"`
	User        interface{}      `json:"user,omitempty"`
}

// walletLogin handles POST /api/v1/auth/wallet-login requests.
//
// # Returns
//   - Writes HTTP 200 OK with the dashboard destination on success.
//   - Writes HTTP 503/400/502 for provider, rejection, and contract failures.
//   - Writes HTTP 429 while a previous attempt for this browser is pending.
func (handler *Handler) walletLogin(writer http.ResponseWriter, request *http.Request) {

	attempt := handler.attempt(request)

	login, err := handler.authService.LoginWithWallet(request.Context(), attempt)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.issueCookie(writer, attempt.SessionID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, loginResponse{
		Destination: string(login.Destination),
		Session:     login.Session.Redacted(),
		User:        login.User,
	})
}

// loginRequest represents the JSON payload for credential authentication.
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// login handles POST /api/v1/auth/login requests.
//
// # Returns
//   - Writes HTTP 200 OK with the dashboard destination on success.
//   - Writes HTTP 401 with the server's message for rejected credentials.
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {

	// ── 1. Payload Extraction ─────────────────────────────────────────────
	var input loginRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	// ── 2. Boundary Validation ────────────────────────────────────────────
	validator := &validate.Validator{}
	if err := validator.
		Required("email", input.Email).
		Email("email", input.Email).
		Required("password", input.Password).
		Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	// ── 3. Application Execution ──────────────────────────────────────────
	attempt := handler.attempt(request)

	login, err := handler.authService.LoginWithCredentials(request.Context(), attempt, input.Email, input.Password)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	// ── 4. Presentation Output ────────────────────────────────────────────
	if err := handler.issueCookie(writer, attempt.SessionID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, loginResponse{
		Destination: string(login.Destination),
		Session:     login.Session.Redacted(),
		User:        login.User,
	})
}

// registerRequest represents the JSON payload for wallet registration.
type registerRequest struct {
	Name string `json:"name"`
	Role string `json:"role"`
}

// register handles POST /api/v1/auth/register requests.
//
// The role field is optional. When present it is forwarded to the remote
// API as a request, nothing more — the session role always comes from the
// server's answer.
func (handler *Handler) register(writer http.ResponseWriter, request *http.Request) {

	// ── 1. Payload Extraction ─────────────────────────────────────────────
	var input registerRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	// ── 2. Boundary Validation ────────────────────────────────────────────
	validator := &validate.Validator{}
	validator.Required("name", input.Name).MaxLen("name", input.Name, 100)
	if input.Role != "" {
		validator.OneOf("role", input.Role, string(sec.RoleUser), string(sec.RolePolice), string(sec.RoleAdmin))
	}
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	// ── 3. Application Execution ──────────────────────────────────────────
	attempt := handler.attempt(request)

	login, err := handler.authService.Register(request.Context(), attempt, input.Name, input.Role)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	// ── 4. Presentation Output ────────────────────────────────────────────
	if err := handler.issueCookie(writer, attempt.SessionID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, loginResponse{
		Destination: string(login.Destination),
		Session:     login.Session.Redacted(),
		User:        login.User,
	})
}

// logout handles POST /api/v1/auth/logout requests.
//
// Always answers 204, including for anonymous callers — logout is
// idempotent all the way down.
func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {

	sessionID := session.ID(request.Context())
	if sessionID != "" {
		if err := handler.authService.Logout(request.Context(), sessionID); err != nil {
			respond.Error(writer, request, err)
			return
		}
	}

	handler.expireCookie(writer)
	respond.NoContent(writer)
}

// currentSession handles GET /api/v1/auth/session requests.
//
// # Returns
//   - Writes HTTP 200 OK with session, profile, and destination.
//   - Writes HTTP 401 when anonymous or when the remote API rejected the
//     stored token (in which case the session has been destroyed).
func (handler *Handler) currentSession(writer http.ResponseWriter, request *http.Request) {

	login, err := handler.authService.Current(request.Context(), session.ID(request.Context()))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, loginResponse{
		Destination: string(login.Destination),
		Session:     login.Session.Redacted(),
		User:        login.User,
	})
}

// attempt binds the request to a browser session for the service layer.
//
// A returning visitor's session ID doubles as the re-entrancy guard key. A
// first-time visitor gets a fresh session ID, but that ID is minted per
// request and cannot serialize a double-click — the guard key falls back to
// the client address instead.
func (handler *Handler) attempt(request *http.Request) Attempt {
	if existing := session.ID(request.Context()); existing != "" {
		return Bound(existing)
	}
	return Attempt{
		SessionID: uuidv7.New(),
		GuardKey:  "anon:" + middleware.RealIP(request),
	}
}

// issueCookie sets the signed session cookie on the response.
func (handler *Handler) issueCookie(writer http.ResponseWriter, sessionID string) error {

	value, err := handler.cookieSigner.Issue(sessionID, constants.SessionTTL)
	if err != nil {
		return err
	}

	http.SetCookie(writer, &http.Cookie{
		Name:     constants.SessionCookieName,
		Value:    value,
		Path:     constants.SessionCookiePath,
		MaxAge:   int(constants.SessionTTL.Seconds()),
		HttpOnly: true,
		Secure:   handler.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})

	return nil
}

// expireCookie removes the session cookie from the browser.
func (handler *Handler) expireCookie(writer http.ResponseWriter) {
	http.SetCookie(writer, &http.Cookie{
		Name:     constants.SessionCookieName,
		Value:    "",
		Path:     constants.SessionCookiePath,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   handler.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}
