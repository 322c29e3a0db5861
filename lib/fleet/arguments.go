// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package fleet

import (
	"fmt"
	"math"
	"time"
)

// QuantityArgument converts a loosely typed quantity, as decoded from a
// socket request or a config file, into a Scale argument. Integral
// numbers of any Go numeric type are accepted. Non-numbers, fractional
// or non-finite floats, and negative values fail with
// ErrInvalidArgument.
func QuantityArgument(value any) (int, error) {
	n, err := integerArgument("quantity", value)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, &ArgumentError{Name: "quantity", Reason: "please provide a non-negative number"}
	}
	return int(n), nil
}

// IntervalArgument converts a loosely typed millisecond count into an
// EnableAutoSync argument. Zero and negative values are accepted and
// mean "disable".
func IntervalArgument(value any) (time.Duration, error) {
	ms, err := integerArgument("interval", value)
	if err != nil {
		return 0, err
	}
	if ms > math.MaxInt64/int64(time.Millisecond) || ms < math.MinInt64/int64(time.Millisecond) {
		return 0, &ArgumentError{Name: "interval", Reason: "value out of range"}
	}
	return time.Duration(ms) * time.Millisecond, nil
}

func integerArgument(name string, value any) (int64, error) {
	switch v := value.(type) {
	case int:
		return int64(v), nil
	case int8:
		return int64(v), nil
	case int16:
		return int64(v), nil
	case int32:
		return int64(v), nil
	case int64:
		return v, nil
	case uint:
		return unsignedArgument(name, uint64(v))
	case uint8:
		return int64(v), nil
	case uint16:
		return int64(v), nil
	case uint32:
		return int64(v), nil
	case uint64:
		return unsignedArgument(name, v)
	case float32:
		return floatArgument(name, float64(v))
	case float64:
		return floatArgument(name, v)
	default:
		return 0, &ArgumentError{
			Name:   name,
			Reason: fmt.Sprintf("expected number, received %s", typeName(value)),
		}
	}
}

func unsignedArgument(name string, v uint64) (int64, error) {
	if v > math.MaxInt64 {
		return 0, &ArgumentError{Name: name, Reason: "value out of range"}
	}
	return int64(v), nil
}

func floatArgument(name string, v float64) (int64, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, &ArgumentError{Name: name, Reason: "expected a finite number"}
	}
	if v != math.Trunc(v) {
		return 0, &ArgumentError{Name: name, Reason: "expected a whole number"}
	}
	// 2^63 is exactly representable; anything at or beyond it overflows.
	if v >= math.MaxInt64 || v < math.MinInt64 {
		return 0, &ArgumentError{Name: name, Reason: "value out of range"}
	}
	return int64(v), nil
}

func typeName(value any) string {
	switch value.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "boolean"
	default:
		return fmt.Sprintf("%T", value)
	}
}
