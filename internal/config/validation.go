package config

import (
	"errors"
	"fmt"

	"github.com/steprelay/steprelay/internal/relay"
)

var (
	ErrInvalidChannelMode     = errors.New("channel must be one of: auto, fd, stdout")
	ErrMissingChannelFDEnvVar = errors.New("channel_fd_env_var must not be empty")
	ErrInvalidLogFormat       = errors.New("log_format must be one of: json, console")
)

// Validate checks the resolved configuration.
func (c *Config) Validate() error {
	if err := c.validateChannel(); err != nil {
		return err
	}
	if err := c.validateLogFormat(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateChannel() error {
	switch c.Channel {
	case relay.ModeAuto, relay.ModeFD, relay.ModeStdout:
	default:
		return fmt.Errorf("%w (got %q)", ErrInvalidChannelMode, c.Channel)
	}
	if c.ChannelFDEnvVar == "" {
		return ErrMissingChannelFDEnvVar
	}
	return nil
}

func (c *Config) validateLogFormat() error {
	switch c.LogFormat {
	case "json", "console":
		return nil
	default:
		return fmt.Errorf("%w (got %q)", ErrInvalidLogFormat, c.LogFormat)
	}
}
