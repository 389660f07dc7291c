package logging

import (
	"fmt"
	"io"
	"os"
)

// LogFormat is the output encoding of log entries.
type LogFormat string

const (
	FormatJSON LogFormat = "json"
	FormatText LogFormat = "text"
)

// LoggerConfig configures the structured logger.
type LoggerConfig struct {
	Level   LogLevel
	Format  LogFormat
	Output  io.Writer
	Service string
	Version string
}

// DefaultConfig returns the default logger configuration.
func DefaultConfig() *LoggerConfig {
	return &LoggerConfig{
		Level:   LevelInfo,
		Format:  FormatJSON,
		Output:  os.Stdout,
		Service: "spothinta",
		Version: "1.0.0",
	}
}

// WithLevel sets the minimum level.
func (c *LoggerConfig) WithLevel(level LogLevel) *LoggerConfig {
	c.Level = level
	return c
}

// WithFormat sets the output format.
func (c *LoggerConfig) WithFormat(format LogFormat) *LoggerConfig {
	c.Format = format
	return c
}

// WithOutput sets the output writer.
func (c *LoggerConfig) WithOutput(output io.Writer) *LoggerConfig {
	c.Output = output
	return c
}

// Validate checks level and format values.
func (c *LoggerConfig) Validate() error {
	switch c.Level {
	case LevelDebug, LevelInfo, LevelWarn, LevelError:
	default:
		return fmt.Errorf("invalid log level: %q", c.Level)
	}
	switch c.Format {
	case FormatJSON, FormatText:
	default:
		return fmt.Errorf("invalid log format: %q", c.Format)
	}
	if c.Output == nil {
		return fmt.Errorf("log output must not be nil")
	}
	return nil
}
