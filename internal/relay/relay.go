package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Channel modes. "auto" picks stdout on Windows and the inherited descriptor
// everywhere else, matching the parent's platform behavior.
const (
	ModeAuto   = "auto"
	ModeFD     = "fd"
	ModeStdout = "stdout"
)

// OpenOptions control channel selection. Zero values mean: auto mode,
// DefaultFDEnvVar, the real process environment.
type OpenOptions struct {
	Mode     string
	FDEnvVar string
	OS       OSInterface
}

// Open selects and opens the relay channel. It performs no writes; a missing
// or malformed descriptor variable surfaces here as a *ChannelError before
// anything touches stdout.
func Open(opts OpenOptions) (Channel, error) {
	osi := opts.OS
	if osi == nil {
		osi = defaultOS
	}
	envVar := opts.FDEnvVar
	if envVar == "" {
		envVar = DefaultFDEnvVar
	}

	mode := opts.Mode
	if mode == "" || mode == ModeAuto {
		if osi.GOOS() == "windows" {
			mode = ModeStdout
		} else {
			mode = ModeFD
		}
	}

	switch mode {
	case ModeStdout:
		return NewStdoutChannel(nil), nil
	case ModeFD:
		raw := strings.TrimSpace(osi.Getenv(envVar))
		if raw == "" {
			return nil, &ChannelError{Reason: fmt.Sprintf("%s is not set", envVar)}
		}
		fd, err := strconv.Atoi(raw)
		if err != nil || fd < 0 {
			return nil, &ChannelError{Reason: fmt.Sprintf("%s=%q is not a file descriptor", envVar, raw)}
		}
		return NewFDChannel(uintptr(fd))
	default:
		return nil, &ChannelError{Reason: fmt.Sprintf("unknown channel mode %q", mode)}
	}
}

// Send encodes the config as one newline-terminated JSON line and publishes
// it. Either the full line reaches the channel or nothing does.
func Send(ctx context.Context, channel Channel, config any) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(config); err != nil {
		return &SerializationError{Err: err}
	}
	// Encoder.Encode appends the trailing '\n' itself.
	return channel.Publish(ctx, buf.Bytes())
}
