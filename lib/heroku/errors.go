// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package heroku

import (
	"errors"
	"fmt"
	"net/http"
)

// APIError is a non-2xx response from the Platform API.
type APIError struct {
	// StatusCode is the HTTP status.
	StatusCode int `json:"-"`
	// ID is the platform's error identifier ("not_found",
	// "rate_limit", "unauthorized", ...). Empty if the body was not
	// the standard error shape.
	ID string `json:"id"`
	// Message is the human-readable description.
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("heroku: HTTP %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("heroku: %s (%d): %s", e.ID, e.StatusCode, e.Message)
}

// IsNotFound reports whether err is a 404 from the Platform API.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// IsRateLimited reports whether err is a 429 from the Platform API.
func IsRateLimited(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusTooManyRequests
}
