// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package service implements the dynofleet daemon's Unix socket
// protocol: a SocketServer that dispatches CBOR requests to registered
// action handlers, and a ServiceClient that issues them.
//
// Each connection carries exactly one request and one response. The
// request is a CBOR map with an "action" key plus action-specific
// fields. The response is a Response envelope:
//
//	{ok: true, data: <cbor>}
//	{ok: false, error: "message", code: "invalid_argument"}
//
// The code field lets clients distinguish error classes without
// parsing messages. Servers assign codes through an ErrorClassifier;
// errors the classifier does not recognize carry no code.
//
// Access control is the socket file's permissions. There is no
// request-level authentication.
package service
