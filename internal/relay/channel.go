// Package relay sends the extracted worker config to the parent process.
//
// The parent speaks a one-line protocol: a single UTF-8 JSON object
// terminated by '\n', no framing, one message per process lifetime. On Unix
// targets the parent passes the write side as a numeric file descriptor in
// NODE_CHANNEL_FD; on Windows the message goes to stdout.
package relay

import (
	"context"
	"fmt"
	"os"
	"runtime"
)

// DefaultFDEnvVar is the environment variable the parent uses to hand over
// the channel descriptor. The name is fixed by the parent's IPC convention.
const DefaultFDEnvVar = "NODE_CHANNEL_FD"

// Channel is the relay transport. Exactly one Publish happens per process.
type Channel interface {
	Publish(ctx context.Context, message []byte) error
	Close() error
}

// ChannelError reports an unusable or missing relay channel.
type ChannelError struct {
	Reason string
	Err    error
}

func (e *ChannelError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("relay channel unavailable: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("relay channel unavailable: %s", e.Reason)
}

func (e *ChannelError) Unwrap() error { return e.Err }

// SerializationError reports a config that could not be encoded as JSON.
type SerializationError struct {
	Err error
}

func (e *SerializationError) Error() string {
	return fmt.Sprintf("config is not serializable: %v", e.Err)
}

func (e *SerializationError) Unwrap() error { return e.Err }

// OSInterface narrows the process environment for channel selection.
// Production code uses the real environment; tests inject their own.
type OSInterface interface {
	Getenv(key string) string
	GOOS() string
}

var defaultOS = OSInterface(osAdapter{})

type osAdapter struct{}

func (osAdapter) Getenv(key string) string { return os.Getenv(key) }
func (osAdapter) GOOS() string             { return runtime.GOOS }
