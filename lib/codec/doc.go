// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec holds the CBOR configuration shared by the dynofleet
// daemon socket and its clients.
//
// JSON is used where humans or external systems read the data: the
// Heroku Platform API, CLI --json output, and exported event records.
// CBOR is used on the daemon's Unix socket. Types that cross both
// boundaries (fleet.ProcessHandle, status summaries) carry only `json`
// struct tags; fxamacker/cbor falls back to them when no `cbor` tag is
// present, so one tag governs both encodings.
//
//	data, err := codec.Marshal(value)
//	err = codec.Unmarshal(data, &value)
//
//	encoder := codec.NewEncoder(conn)
//	decoder := codec.NewDecoder(conn)
//
// The encoder uses Core Deterministic Encoding: the same value always
// yields the same bytes. time.Time values are encoded as RFC 3339 text
// with nanoseconds.
package codec
