package config

import (
	"fmt"
	"log/slog"
	"strings"
)

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	switch c.Escaper {
	case EscaperMySQL, EscaperANSI:
	default:
		return fmt.Errorf("unknown escaper %q (expected %s or %s)",
			c.Escaper, EscaperMySQL, EscaperANSI)
	}

	if c.CacheSize < 0 {
		return fmt.Errorf("cache_size must not be negative, got %d", c.CacheSize)
	}

	if c.SkipToken == "" {
		return fmt.Errorf("skip_token is required")
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(c.LogLevel))); err != nil {
		return fmt.Errorf("invalid log_level %q: %w", c.LogLevel, err)
	}
	return nil
}
