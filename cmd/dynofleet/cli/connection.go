// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"context"
	"errors"
	"os"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/dynofleet/lib/config"
	"github.com/bureau-foundation/dynofleet/lib/service"
)

// SocketEnvironmentVariable overrides the default --socket.
const SocketEnvironmentVariable = "DYNOFLEET_SOCKET"

// DefaultTimeout bounds one daemon request. Scaling a large fleet
// makes one platform call per process, so it is generous.
const DefaultTimeout = 5 * time.Minute

// Connection is embedded in params structs of commands that talk to
// the daemon. It binds --socket, --fleet, and --timeout.
type Connection struct {
	SocketPath string
	Fleet      string
	Timeout    time.Duration
}

// AddFlags implements [FlagBinder].
func (c *Connection) AddFlags(flagSet *pflag.FlagSet) {
	flagSet.StringVar(&c.SocketPath, "socket", DefaultSocketPath(),
		"daemon socket path (default from $"+SocketEnvironmentVariable+")")
	flagSet.StringVar(&c.Fleet, "fleet", "",
		"fleet name (may be omitted when the daemon manages one fleet)")
	flagSet.DurationVar(&c.Timeout, "timeout", DefaultTimeout, "request timeout")
}

// DefaultSocketPath returns $DYNOFLEET_SOCKET or the daemon's default
// socket path.
func DefaultSocketPath() string {
	if path := os.Getenv(SocketEnvironmentVariable); path != "" {
		return path
	}
	return config.DefaultSocketPath
}

// Call sends action to the daemon, adding the fleet field when --fleet
// is set, and decodes the response data into result. Every error is a
// *ToolError.
func (c *Connection) Call(ctx context.Context, action string, fields map[string]any, result any) error {
	request := make(map[string]any, len(fields)+1)
	for key, value := range fields {
		request[key] = value
	}
	if c.Fleet != "" {
		request["fleet"] = c.Fleet
	}

	timeout := c.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client := service.NewServiceClient(c.SocketPath)
	if err := client.Call(ctx, action, request, result); err != nil {
		return classifyCallError(err, c.SocketPath)
	}
	return nil
}

// categoryForCode maps daemon error codes to categories.
var categoryForCode = map[string]ErrorCategory{
	"invalid_argument":   CategoryValidation,
	"interval_too_short": CategoryValidation,
	"not_found":          CategoryNotFound,
	"remote_fetch":       CategoryRemote,
	"remote_create":      CategoryRemote,
	"remote_terminate":   CategoryRemote,
}

func classifyCallError(err error, socketPath string) *ToolError {
	var serviceErr *service.ServiceError
	if errors.As(err, &serviceErr) {
		category, ok := categoryForCode[serviceErr.Code]
		if !ok {
			category = CategoryInternal
		}
		return &ToolError{Category: category, Err: serviceErr}
	}

	switch {
	case errors.Is(err, syscall.EACCES), errors.Is(err, syscall.EPERM):
		return (&ToolError{Category: CategoryForbidden, Err: err}).
			WithHint("The daemon socket is mode 0660. Check its owner and group:\n  ls -la " + socketPath)
	case errors.Is(err, syscall.ENOENT), errors.Is(err, syscall.ECONNREFUSED):
		return (&ToolError{Category: CategoryUnavailable, Err: err}).
			WithHint("Is dynofleet-service running? Set --socket or $" + SocketEnvironmentVariable +
				" if it listens somewhere other than " + socketPath + ".")
	case errors.Is(err, context.DeadlineExceeded):
		return (&ToolError{Category: CategoryUnavailable, Err: err}).
			WithHint("The request timed out. Increase --timeout for large scale operations.")
	default:
		return &ToolError{Category: CategoryInternal, Err: err}
	}
}
