// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package eventsink

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"

	"github.com/bureau-foundation/dynofleet/lib/fleet"
)

// Producer is the subset of *kgo.Client the sink uses. TryProduce
// must not block: when the client's buffer is full it fails the
// promise with kgo.ErrMaxBuffered.
type Producer interface {
	TryProduce(ctx context.Context, record *kgo.Record, promise func(*kgo.Record, error))
	Flush(ctx context.Context) error
	Close()
}

// KafkaConfig configures NewKafkaSink.
type KafkaConfig struct {
	Brokers []string
	Topic   string
	Logger  *slog.Logger
}

// flushTimeout bounds how long Close waits for buffered records.
const flushTimeout = 10 * time.Second

// KafkaSink publishes fleet events to a Kafka topic.
type KafkaSink struct {
	producer Producer
	topic    string
	logger   *slog.Logger

	produced atomic.Uint64
	failed   atomic.Uint64
	closed   atomic.Bool
}

// NewKafkaSink connects a franz-go producer to config.Brokers. The
// client connects lazily; an unreachable broker surfaces as produce
// failures in the log, not as an error here.
func NewKafkaSink(config KafkaConfig) (*KafkaSink, error) {
	if len(config.Brokers) == 0 {
		return nil, errors.New("eventsink: at least one Kafka broker is required")
	}
	if config.Topic == "" {
		return nil, errors.New("eventsink: Kafka topic is required")
	}

	client, err := kgo.NewClient(
		kgo.SeedBrokers(config.Brokers...),
		kgo.DefaultProduceTopic(config.Topic),
		kgo.ClientID("dynofleet"),
		kgo.ProducerLinger(50*time.Millisecond),
		kgo.RecordDeliveryTimeout(30*time.Second),
	)
	if err != nil {
		return nil, err
	}
	return NewKafkaSinkWithProducer(client, config.Topic, config.Logger), nil
}

// NewKafkaSinkWithProducer wraps an existing producer. logger may be
// nil.
func NewKafkaSinkWithProducer(producer Producer, topic string, logger *slog.Logger) *KafkaSink {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &KafkaSink{
		producer: producer,
		topic:    topic,
		logger:   logger.With("topic", topic),
	}
}

// Listener returns a fleet listener that publishes fleetName's events.
func (s *KafkaSink) Listener(fleetName string) fleet.Listener {
	return func(event fleet.Event) {
		s.publish(fleetName, event)
	}
}

func (s *KafkaSink) publish(fleetName string, event fleet.Event) {
	if s.closed.Load() {
		return
	}

	value, err := json.Marshal(NewRecord(fleetName, event))
	if err != nil {
		s.failed.Add(1)
		s.logger.Error("encoding fleet event", "fleet", fleetName, "kind", event.Kind.String(), "error", err)
		return
	}

	record := &kgo.Record{
		Topic:     s.topic,
		Key:       []byte(fleetName),
		Value:     value,
		Timestamp: event.Time,
	}
	// Listeners run inside fleet operations, so a full buffer drops the
	// event instead of waiting on the broker.
	s.producer.TryProduce(context.Background(), record, func(record *kgo.Record, err error) {
		if err != nil {
			s.failed.Add(1)
			s.logger.Warn("publishing fleet event failed",
				"fleet", string(record.Key),
				"error", err,
			)
			return
		}
		s.produced.Add(1)
	})
}

// Stats returns how many records were acknowledged and how many
// failed.
func (s *KafkaSink) Stats() (produced, failed uint64) {
	return s.produced.Load(), s.failed.Load()
}

// Close stops accepting events, flushes buffered records, and closes
// the producer.
func (s *KafkaSink) Close() error {
	if s.closed.Swap(true) {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), flushTimeout)
	defer cancel()
	err := s.producer.Flush(ctx)
	s.producer.Close()

	produced, failed := s.Stats()
	s.logger.Info("event sink closed", "produced", produced, "failed", failed)
	return err
}
