// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package schedule

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/bureau-foundation/dynofleet/lib/clock"
)

// Scaler is the fleet capability a Scheduler drives. *fleet.Fleet
// satisfies it.
type Scaler interface {
	Scale(ctx context.Context, quantity int) error
}

// Rule scales to Replicas whenever Cron matches.
type Rule struct {
	Cron     string
	Replicas int
}

// Parse validates a cron expression.
func Parse(expression string) (cron.Schedule, error) {
	parsed, err := cron.ParseStandard(expression)
	if err != nil {
		return nil, fmt.Errorf("parsing cron expression %q: %w", expression, err)
	}
	return parsed, nil
}

type compiledRule struct {
	Rule
	schedule cron.Schedule
}

// Scheduler fires scaling rules for one fleet.
type Scheduler struct {
	fleet  Scaler
	rules  []compiledRule
	clock  clock.Clock
	logger *slog.Logger
}

// New compiles rules for fleet. All rules are validated; the returned
// error lists every invalid one. logger may be nil.
func New(fleet Scaler, rules []Rule, fleetClock clock.Clock, logger *slog.Logger) (*Scheduler, error) {
	if fleet == nil {
		return nil, errors.New("schedule: fleet is required")
	}
	if fleetClock == nil {
		fleetClock = clock.Real()
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	var errs []error
	compiled := make([]compiledRule, 0, len(rules))
	for i, rule := range rules {
		parsed, err := Parse(rule.Cron)
		if err != nil {
			errs = append(errs, fmt.Errorf("rule %d: %w", i, err))
			continue
		}
		if rule.Replicas < 0 {
			errs = append(errs, fmt.Errorf("rule %d: replicas must be non-negative, got %d", i, rule.Replicas))
			continue
		}
		compiled = append(compiled, compiledRule{Rule: rule, schedule: parsed})
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	return &Scheduler{
		fleet:  fleet,
		rules:  compiled,
		clock:  fleetClock,
		logger: logger,
	}, nil
}

// Next returns the earliest firing strictly after after, and the
// rules due at that instant. It returns a zero time if no rule will
// ever fire.
func (s *Scheduler) Next(after time.Time) (time.Time, []Rule) {
	var earliest time.Time
	var due []Rule
	for _, rule := range s.rules {
		next := rule.schedule.Next(after)
		if next.IsZero() {
			continue
		}
		switch {
		case earliest.IsZero() || next.Before(earliest):
			earliest = next
			due = []Rule{rule.Rule}
		case next.Equal(earliest):
			due = append(due, rule.Rule)
		}
	}
	return earliest, due
}

// Run fires rules until ctx is cancelled, then returns ctx.Err(). With
// no rules, or none that can ever fire, it simply waits for ctx.
// Scale failures are logged and do not stop the scheduler.
func (s *Scheduler) Run(ctx context.Context) error {
	for {
		now := s.clock.Now()
		next, due := s.Next(now)
		if next.IsZero() {
			<-ctx.Done()
			return ctx.Err()
		}

		s.logger.Debug("next scheduled scale", "at", next, "rules", len(due))

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.clock.After(next.Sub(now)):
		}

		for _, rule := range due {
			s.fire(ctx, rule)
		}
	}
}

func (s *Scheduler) fire(ctx context.Context, rule Rule) {
	s.logger.Info("scheduled scale", "cron", rule.Cron, "replicas", rule.Replicas)
	if err := s.fleet.Scale(ctx, rule.Replicas); err != nil {
		if ctx.Err() != nil {
			return
		}
		s.logger.Warn("scheduled scale failed",
			"cron", rule.Cron,
			"replicas", rule.Replicas,
			"error", err,
		)
	}
}
