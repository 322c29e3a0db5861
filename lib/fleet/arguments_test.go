// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package fleet

import (
	"errors"
	"math"
	"strings"
	"testing"
	"time"
)

func TestQuantityArgument(t *testing.T) {
	tests := []struct {
		name    string
		value   any
		want    int
		wantErr string
	}{
		{"int", 3, 3, ""},
		{"zero", 0, 0, ""},
		{"int64", int64(7), 7, ""},
		{"uint8", uint8(2), 2, ""},
		{"integral float", float64(4), 4, ""},
		{"float32", float32(1), 1, ""},
		{"negative", -1, 0, "please provide a non-negative number"},
		{"negative float", float64(-2), 0, "please provide a non-negative number"},
		{"string", "x", 0, "expected number, received string"},
		{"numeric string", "3", 0, "expected number, received string"},
		{"nil", nil, 0, "expected number, received null"},
		{"bool", true, 0, "expected number, received boolean"},
		{"slice", []int{1}, 0, "expected number, received []int"},
		{"fraction", 1.5, 0, "whole number"},
		{"nan", math.NaN(), 0, "finite"},
		{"infinity", math.Inf(1), 0, "finite"},
		{"uint overflow", uint64(math.MaxUint64), 0, "out of range"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, err := QuantityArgument(test.value)
			if test.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if got != test.want {
					t.Errorf("got %d, want %d", got, test.want)
				}
				return
			}
			if !errors.Is(err, ErrInvalidArgument) {
				t.Fatalf("got %v, want ErrInvalidArgument", err)
			}
			if !strings.Contains(err.Error(), test.wantErr) {
				t.Errorf("error %q does not contain %q", err, test.wantErr)
			}
		})
	}
}

func TestIntervalArgument(t *testing.T) {
	tests := []struct {
		value any
		want  time.Duration
	}{
		{5000, 5 * time.Second},
		{float64(60000), time.Minute},
		{0, 0},
		{-1, -time.Millisecond},
		{4999, 4999 * time.Millisecond},
	}
	for _, test := range tests {
		got, err := IntervalArgument(test.value)
		if err != nil {
			t.Errorf("IntervalArgument(%v): %v", test.value, err)
			continue
		}
		if got != test.want {
			t.Errorf("IntervalArgument(%v): got %v, want %v", test.value, got, test.want)
		}
	}

	_, err := IntervalArgument("5000")
	if !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("IntervalArgument(\"5000\"): got %v, want ErrInvalidArgument", err)
	}
	if err != nil && !strings.Contains(err.Error(), "expected number, received string") {
		t.Errorf("error %q does not name the received type", err)
	}
	_, err = IntervalArgument(int64(math.MaxInt64))
	if !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("IntervalArgument(MaxInt64): got %v, want ErrInvalidArgument", err)
	}
}
