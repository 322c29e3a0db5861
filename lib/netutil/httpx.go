// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package netutil bounds HTTP response reads for platform API clients.
//
// A platform API that misbehaves (or a proxy in front of it that
// returns an HTML error page of unbounded size) must not be able to
// exhaust the daemon's memory. Every JSON response body is read
// through these helpers, which stop at MaxResponseSize.
package netutil

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// MaxResponseSize bounds a single JSON API response body. A dyno
// listing page of 1000 entries is well under a megabyte.
const MaxResponseSize int64 = 32 << 20

// maxErrorBody bounds how much of an error body is quoted in an error
// message.
const maxErrorBody = 4 << 10

// ErrResponseTooLarge is returned when a body exceeds MaxResponseSize.
var ErrResponseTooLarge = errors.New("response body exceeds size limit")

// ReadResponse reads a response body of at most MaxResponseSize bytes.
// A larger body is an error rather than a silent truncation.
func ReadResponse(body io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(body, MaxResponseSize+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > MaxResponseSize {
		return nil, fmt.Errorf("%w (%d bytes)", ErrResponseTooLarge, MaxResponseSize)
	}
	return data, nil
}

// DecodeResponse reads a bounded body and JSON-decodes it into v.
func DecodeResponse(body io.Reader, v any) error {
	data, err := ReadResponse(body)
	if err != nil {
		return fmt.Errorf("reading response body: %w", err)
	}
	return json.Unmarshal(data, v)
}

// ErrorBody returns the start of data for use in an error message.
func ErrorBody(data []byte) string {
	if len(data) > maxErrorBody {
		return string(data[:maxErrorBody]) + "..."
	}
	return string(data)
}
