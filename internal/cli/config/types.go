// Package config provides configuration management for the fpdb CLI.
package config

import (
	"log/slog"
	"strings"
)

// Default configuration values.
const (
	DefaultEscaper   = "mysql"
	DefaultCacheSize = 128
	DefaultSkipToken = "__SKIP__"
	DefaultLogLevel  = "warn"
)

// Supported escapers.
const (
	EscaperMySQL = "mysql"
	EscaperANSI  = "ansi"
)

// Config holds all CLI configuration options.
type Config struct {
	// Escaper selects the string escaping primitive: mysql or ansi.
	Escaper string `koanf:"escaper"`

	// CacheSize is the number of scanned templates kept; 0 disables the cache.
	CacheSize int `koanf:"cache_size"`

	// SkipToken is the JSON string that stands for the skip marker in --args.
	SkipToken string `koanf:"skip_token"`

	LogLevel string `koanf:"log_level"`

	// Stats prints the build counters to stderr after each command.
	Stats bool `koanf:"stats"`

	// ConfigFile is the file the configuration was read from, if any.
	ConfigFile string `koanf:"-"`
}

// Default returns the configuration used when nothing else is set.
func Default() *Config {
	return &Config{
		Escaper:   DefaultEscaper,
		CacheSize: DefaultCacheSize,
		SkipToken: DefaultSkipToken,
		LogLevel:  DefaultLogLevel,
	}
}

// SlogLevel returns LogLevel as a slog level.  Unknown levels map to warn;
// Validate rejects them.
func (c *Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(c.LogLevel))); err != nil {
		return slog.LevelWarn
	}
	return level
}
