// Package config resolves the tool's own settings: defaults, then an
// optional config file, then environment variables, then CLI flags.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/caarlos0/env/v9"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/steprelay/steprelay/internal/relay"
)

func getConfigLocations() []string {
	return []string{
		".env",
		".steprelay.yaml",
		"config/steprelay.yaml",
	}
}

type Config struct {
	LogLevel  string `yaml:"log_level" env:"STEPRELAY_LOG_LEVEL"`
	LogFormat string `yaml:"log_format" env:"STEPRELAY_LOG_FORMAT"`

	// Channel selects the relay transport: auto, fd, or stdout.
	Channel string `yaml:"channel" env:"STEPRELAY_CHANNEL"`
	// ChannelFDEnvVar names the variable carrying the inherited descriptor.
	// The default is fixed by the parent's IPC convention; override it only
	// when embedding under a different launcher.
	ChannelFDEnvVar string `yaml:"channel_fd_env_var" env:"STEPRELAY_CHANNEL_FD_ENV_VAR"`

	// StepsDir is the default directory scanned by list and validate.
	StepsDir string `yaml:"steps_dir" env:"STEPRELAY_STEPS_DIR"`

	configPath string
}

// Flags carries CLI overrides, the highest-priority config source.
type Flags struct {
	Config   string
	LogLevel string
	Channel  string
}

// OSInterface narrows OS access so config resolution is testable without
// touching the real environment or filesystem.
type OSInterface interface {
	Getenv(key string) string
	Stat(name string) (os.FileInfo, error)
	ReadFile(filename string) ([]byte, error)
}

var defaultOS = OSInterface(osAdapter{})

type osAdapter struct{}

func (osAdapter) Getenv(key string) string                 { return os.Getenv(key) }
func (osAdapter) Stat(name string) (os.FileInfo, error)    { return os.Stat(name) }
func (osAdapter) ReadFile(filename string) ([]byte, error) { return os.ReadFile(filename) }

func (c *Config) initDefaults() {
	c.LogLevel = "info"
	c.LogFormat = "json"
	c.Channel = relay.ModeAuto
	c.ChannelFDEnvVar = relay.DefaultFDEnvVar
	c.StepsDir = "steps"
}

func (c *Config) parseConfigFile(flagPath string, osInterface OSInterface) error {
	configPath := flagPath
	if envPath := osInterface.Getenv("STEPRELAY_CONFIG"); envPath != "" {
		if configPath != "" && configPath != envPath {
			return fmt.Errorf("conflicting config paths: flag=%s env=%s", configPath, envPath)
		}
		configPath = envPath
	}

	if configPath == "" {
		for _, loc := range getConfigLocations() {
			if _, err := osInterface.Stat(loc); err == nil {
				configPath = loc
				break
			}
		}
	}

	if configPath == "" {
		return nil
	}
	c.configPath = configPath

	data, err := osInterface.ReadFile(configPath)
	if err != nil {
		return fmt.Errorf("error reading config file: %w", err)
	}

	if strings.HasSuffix(strings.ToLower(configPath), ".env") {
		envMap, err := godotenv.Unmarshal(string(data))
		if err != nil {
			return fmt.Errorf("error loading .env file: %w", err)
		}
		if err := env.ParseWithOptions(c, env.Options{
			Environment: envMap,
		}); err != nil {
			return fmt.Errorf("error parsing .env file: %w", err)
		}
	} else {
		if err := yaml.Unmarshal(data, c); err != nil {
			return fmt.Errorf("error parsing yaml config: %w", err)
		}
	}
	return nil
}

func (c *Config) parseEnvVariables() error {
	if err := env.Parse(c); err != nil {
		return fmt.Errorf("error parsing environment variables: %w", err)
	}
	return nil
}

func (c *Config) applyFlags(flags Flags) {
	if flags.LogLevel != "" {
		c.LogLevel = flags.LogLevel
	}
	if flags.Channel != "" {
		c.Channel = flags.Channel
	}
}

// ConfigFilePath returns the resolved config file, or "" when running on
// defaults and environment only.
func (c *Config) ConfigFilePath() string {
	return c.configPath
}

func Parse(flags Flags) (*Config, error) {
	return ParseWithOS(flags, defaultOS)
}

func ParseWithOS(flags Flags, osInterface OSInterface) (*Config, error) {
	var config Config

	config.initDefaults()

	if err := config.parseConfigFile(flags.Config, osInterface); err != nil {
		return nil, err
	}

	// Environment variables override the file.
	if err := config.parseEnvVariables(); err != nil {
		return nil, err
	}

	// CLI flags override everything.
	config.applyFlags(flags)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}
