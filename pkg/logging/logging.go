package logging

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
)

const (
	// KeyError is the key for errors.
	KeyError = "err"

	// KeyDal is the key for the data access layer name.
	KeyDal = "dal"

	// KeyAppName is the key for the application name.
	KeyAppName = "app"

	// KeyGuildID is the key for a guild ID.
	KeyGuildID = "guild_id"

	// KeyChannelID is the key for a channel ID.
	KeyChannelID = "channel_id"

	// KeyUserID is the key for a user ID.
	KeyUserID = "user_id"

	// KeyStep is the key for a workflow step.
	KeyStep = "step"

	// KeyComponent is the key for the component emitting the log.
	KeyComponent = "component"
)

// Name is the name of the application that is logging.
type Name string

// Config is the configuration for a logger.
type Config struct {
	// appName is the name of the application.
	appName Name

	// level is the minimum level that is logged.
	level slog.Level
}

// NewConfig creates a new logging config for the given application name. The level defaults to info.
func NewConfig(appName Name) *Config {
	return &Config{
		appName: appName,
		level:   slog.LevelInfo,
	}
}

// WithLevel sets the minimum level of the config.
func (c *Config) WithLevel(level slog.Level) *Config {
	c.level = level
	return c
}

// ParseLevel parses a level name (debug, info, warn, error).
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}

// CommonLogger creates the JSON logger used across the application and sets it as the default.
func CommonLogger(c *Config) (*slog.Logger, error) {
	if c == nil {
		return nil, fmt.Errorf("logging config is nil")
	}
	if c.appName == "" {
		return nil, fmt.Errorf("application name is required")
	}

	h := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		AddSource: true,
		Level:     c.level,
	})

	l := slog.New(h).With(slog.String(KeyAppName, string(c.appName)))
	slog.SetDefault(l)
	return l, nil
}

// Discard returns a logger that drops every record. Useful in tests.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(discardWriter{}, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}

type discardWriter struct{}

func (discardWriter) Write(p []byte) (int, error) { return len(p), nil }
