package config

import "go.uber.org/zap"

// LogFields returns the configuration summary attached to startup logs.
// Keep this in sync when adding configuration fields.
func (c *Config) LogFields() []zap.Field {
	return []zap.Field{
		zap.String("config_file_path", func() string {
			if c.configPath != "" {
				return c.configPath
			}
			return "none (using defaults and environment variables)"
		}()),
		zap.String("log_level", c.LogLevel),
		zap.String("log_format", c.LogFormat),
		zap.String("channel", c.Channel),
		zap.String("channel_fd_env_var", c.ChannelFDEnvVar),
		zap.String("steps_dir", c.StepsDir),
	}
}
