// Copyright (c) 2026 EvidHub. All rights reserved.
// Author: dev@evidhub.io

package audit

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/evidhub/console/internal/platform/respond"
	"github.com/evidhub/console/internal/platform/validate"
	"github.com/evidhub/console/pkg/pagination"
)

// Handler implements the audit review HTTP endpoints.
//
// # Scope
//
// Read-only. Events are written by the auth service, never over HTTP.
type Handler struct {
	auditService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{auditService: service}
}

// Routes returns a [chi.Router] with the audit routes.
//
// The router is mounted behind RequireRole(admin); nothing here re-checks.
//
// # Endpoints
//   - GET / : Lists recent authentication events.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.list)

	return router
}

// list handles GET /api/v1/audit requests.
//
// # Query Parameters
//   - outcome: Optional filter, "success" or "failure".
//   - page, limit: Standard pagination parameters, clamped server-side.
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {

	outcome := request.URL.Query().Get("outcome")

	validator := &validate.Validator{}
	if outcome != "" {
		validator.OneOf("outcome", outcome, OutcomeValues()...)
	}
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	page := pagination.FromRequest(request)

	events, meta, err := handler.auditService.Recent(request.Context(), outcome, page)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]any{
		"events":     events,
		"pagination": meta,
	})
}

// OutcomeValues lists the accepted outcome filter values.
func OutcomeValues() []string {
	return []string{"success", "failure"}
}
