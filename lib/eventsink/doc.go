// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package eventsink forwards fleet events to places other than the
// in-process listener that produced them.
//
// [LogListener] writes each event to a slog.Logger. [KafkaSink]
// publishes each event as a JSON record to a Kafka topic, keyed by
// fleet name so that one fleet's events stay ordered within a
// partition.
//
// Fleet listeners run synchronously inside fleet operations, so
// neither sink blocks: the Kafka sink hands records to franz-go's
// asynchronous producer and learns about delivery failures through a
// promise callback.
package eventsink
