// Copyright (c) 2026 EvidHub. All rights reserved.
// Author: dev@evidhub.io

/*
Package request provides utilities for extracting data from HTTP requests.

It abstracts away the underlying router's parameter extraction and common
body decoding patterns, ensuring consistent error handling and type safety.
*/
package requestutil

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/evidhub/console/internal/platform/apperr"
	"github.com/evidhub/console/internal/platform/validate"
	"github.com/evidhub/console/internal/session"
)

/*
DecodeJSON reads the request body and decodes it into the target structure.

Parameters:
  - request: *http.Request
  - target: interface{} (Pointer to the destination struct)

Returns:
  - error: validate.ErrInvalidJSON if decoding fails, otherwise nil
*/
func DecodeJSON(request *http.Request, target interface{}) error {
	if err := json.NewDecoder(request.Body).Decode(target); err != nil {
		return validate.ErrInvalidJSON
	}
	return nil
}

/*
Param retrieves a named URL parameter from the request.
*/
func Param(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

/*
CurrentSession extracts the authenticated session from the request context.

Returns nil if the request is not authenticated.
*/
func CurrentSession(request *http.Request) *session.Session {
	return session.Current(request.Context())
}

/*
RequiredSession ensures the request is authenticated and returns the session.

Returns:
  - *session.Session: The authenticated session
  - error: apperr.Unauthorized if the request is not authenticated
*/
func RequiredSession(request *http.Request) (*session.Session, error) {

	// Get the session loaded by the middleware
	current := session.Current(request.Context())

	// If the client is not authenticated, return an error
	if current == nil {
		return nil, apperr.Unauthorized("Authentication required")
	}

	return current, nil
}
