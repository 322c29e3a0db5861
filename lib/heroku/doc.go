// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package heroku implements fleet.RemoteClient against the Heroku
// Platform API (version 3).
//
// Fleet processes are one-off "run" dynos:
//
//   - Create posts to /apps/{app}/dynos with the fleet's command and
//     size, detached.
//   - List reads /apps/{app}/dynos, following Range pagination until
//     the platform stops answering 206 Partial Content.
//   - Terminate deletes /apps/{app}/dynos/{id}. For a run dyno this
//     stops it for good; for a formation dyno it would restart.
//
// The client performs no retries. Timeouts come from the caller's
// context and the configured http.Client. Non-2xx responses are
// returned as *APIError.
package heroku
