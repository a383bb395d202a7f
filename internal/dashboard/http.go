// Copyright (c) 2026 EvidHub. All rights reserved.
// Author: dev@evidhub.io

package dashboard

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/evidhub/console/internal/platform/request"
	"github.com/evidhub/console/internal/platform/respond"
	"github.com/evidhub/console/internal/platform/validate"
	"github.com/evidhub/console/internal/route"
)

// Handler implements the dashboard HTTP endpoints.
type Handler struct {
	dashboardService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{dashboardService: service}
}

// Routes returns a [chi.Router] with the dashboard routes.
//
// The router is mounted behind RequireAuth; every request here carries a
// loaded session.
//
// # Endpoints
//   - GET /           : The session's landing destination and identity.
//   - GET /complaints : The filtered complaint feed.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.home)
	router.Get("/complaints", handler.complaints)

	return router
}

// home handles GET /api/v1/dashboard requests.
//
// It answers the one question the web app asks on every load: where does
// this session belong, and as whom.
func (handler *Handler) home(writer http.ResponseWriter, request *http.Request) {

	current, err := requestutil.RequiredSession(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	destination, err := route.DestinationFor(current.Role)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]any{
		"destination": string(destination),
		"session":     current.Redacted(),
	})
}

// complaints handles GET /api/v1/dashboard/complaints requests.
//
// # Query Parameters
//   - search: Optional free-text filter (title, description, location).
//   - status: Optional exact status filter.
func (handler *Handler) complaints(writer http.ResponseWriter, request *http.Request) {

	current, err := requestutil.RequiredSession(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	search := request.URL.Query().Get("search")
	status := request.URL.Query().Get("status")

	// ── Boundary Validation ───────────────────────────────────────────────
	validator := &validate.Validator{}
	validator.MaxLen("search", search, 200)
	if status != "" {
		validator.OneOf("status", status, StatusValues()...)
	}
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	// ── Application Execution ─────────────────────────────────────────────
	feed, err := handler.dashboardService.Complaints(request.Context(), current.Token, search, status)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, feed)
}
