// SPDX-FileCopyrightText: 2026 specportal
// SPDX-License-Identifier: FSL-1.1-MIT

// Package config provides configuration loading and validation for specportal.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/specportal/specportal/internal/access"
	"github.com/specportal/specportal/internal/specpath"
)

// EnvPrefix prefixes environment overrides (e.g., SPECPORTAL_SERVER_ADDR).
const EnvPrefix = "SPECPORTAL"

// Config represents the specportal configuration.
type Config struct {
	// Content describes the documentation content tree
	Content ContentConfig `mapstructure:"content" yaml:"content" json:"content"`

	// Languages lists the served content languages
	Languages []string `mapstructure:"languages" yaml:"languages" json:"languages"`

	// DefaultLanguage is used when a request names none
	DefaultLanguage string `mapstructure:"defaultLanguage" yaml:"defaultLanguage" json:"defaultLanguage"`

	// Cache contains spec cache configuration
	Cache CacheConfig `mapstructure:"cache" yaml:"cache" json:"cache"`

	// Header contains header navigation configuration
	Header HeaderConfig `mapstructure:"header" yaml:"header" json:"header"`

	// Search contains search configuration
	Search SearchConfig `mapstructure:"search" yaml:"search" json:"search"`

	// Server contains HTTP server configuration
	Server ServerConfig `mapstructure:"server" yaml:"server" json:"server"`

	// Auth contains visibility configuration
	Auth AuthConfig `mapstructure:"auth" yaml:"auth" json:"auth"`

	// Watch contains file watching configuration
	Watch WatchConfig `mapstructure:"watch" yaml:"watch" json:"watch"`

	// Log contains logging configuration
	Log LogConfig `mapstructure:"log" yaml:"log" json:"log"`
}

// ContentConfig describes where specs are read from.
type ContentConfig struct {
	// Root is the content tree directory
	Root string `mapstructure:"root" yaml:"root" json:"root"`

	// Include is a list of glob patterns to include
	Include []string `mapstructure:"include" yaml:"include" json:"include"`

	// Exclude is a list of glob patterns to exclude
	Exclude []string `mapstructure:"exclude" yaml:"exclude" json:"exclude"`
}

// CacheConfig contains spec cache configuration.
type CacheConfig struct {
	// TTL is how long a scan result is reused
	TTL time.Duration `mapstructure:"ttl" yaml:"ttl" json:"ttl"`
}

// HeaderConfig contains header navigation configuration.
type HeaderConfig struct {
	// MaxOperations is the number of operations listed per spec
	MaxOperations int `mapstructure:"maxOperations" yaml:"maxOperations" json:"maxOperations"`
}

// SearchConfig contains search configuration.
type SearchConfig struct {
	// Limit is the default maximum number of hits
	Limit int `mapstructure:"limit" yaml:"limit" json:"limit"`
}

// ServerConfig contains HTTP server configuration.
type ServerConfig struct {
	// Addr is the listen address
	Addr string `mapstructure:"addr" yaml:"addr" json:"addr"`

	// AllowedOrigins lists CORS origins, "*" for any
	AllowedOrigins []string `mapstructure:"allowedOrigins" yaml:"allowedOrigins" json:"allowedOrigins"`
}

// AuthConfig contains visibility configuration.
type AuthConfig struct {
	// Secret is the HS256 signing secret
	Secret string `mapstructure:"secret" yaml:"secret" json:"secret"`

	// Issuer is the expected token issuer, empty to skip the check
	Issuer string `mapstructure:"issuer" yaml:"issuer" json:"issuer"`

	// Rules maps path prefixes to policies (public, authenticated, role:<name>)
	Rules map[string]string `mapstructure:"rules" yaml:"rules" json:"rules"`
}

// WatchConfig contains file watching configuration.
type WatchConfig struct {
	// Enabled determines whether to enable file watching
	Enabled bool `mapstructure:"enabled" yaml:"enabled" json:"enabled"`

	// Debounce is the debounce duration in milliseconds
	Debounce int `mapstructure:"debounce" yaml:"debounce" json:"debounce"`
}

// LogConfig contains logging configuration.
type LogConfig struct {
	// Level is debug, info, warn or error
	Level string `mapstructure:"level" yaml:"level" json:"level"`

	// Format is json or text
	Format string `mapstructure:"format" yaml:"format" json:"format"`
}

// configFileNames is the list of config file names to search for (in order).
var configFileNames = []string{
	"specportal.yaml",
	"specportal.json",
	".specportal.yaml",
	".specportal.json",
}

var supportedLogLevels = []string{"debug", "info", "warn", "warning", "error"}

var supportedLogFormats = []string{"json", "text"}

// ErrConfigNotFound is returned when no config file is found.
var ErrConfigNotFound = errors.New("config file not found")

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config validation error: %s: %s", e.Field, e.Message)
}

// ValidationErrors represents multiple validation errors.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	if len(e) == 1 {
		return e[0].Error()
	}
	var sb strings.Builder
	sb.WriteString("config validation errors:\n")
	for _, err := range e {
		sb.WriteString("  - ")
		sb.WriteString(err.Field)
		sb.WriteString(": ")
		sb.WriteString(err.Message)
		sb.WriteString("\n")
	}
	return sb.String()
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Content: ContentConfig{
			Root:    "content",
			Include: []string{"**/*.yaml", "**/*.yml"},
			Exclude: []string{".git/**", "**/node_modules/**"},
		},
		Languages:       []string{"en", "ar"},
		DefaultLanguage: "en",
		Cache:           CacheConfig{TTL: 5 * time.Minute},
		Header:          HeaderConfig{MaxOperations: 8},
		Search:          SearchConfig{Limit: 50},
		Server: ServerConfig{
			Addr:           ":8080",
			AllowedOrigins: []string{"*"},
		},
		Auth: AuthConfig{Rules: map[string]string{}},
		Watch: WatchConfig{
			Enabled:  false,
			Debounce: 500,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load loads the configuration from a file.
// It searches for config files in the following order:
// 1. specportal.yaml
// 2. specportal.json
// 3. .specportal.yaml
// 4. .specportal.json
//
// If configPath is provided, it will use that path instead. SPECPORTAL_*
// environment variables override file values.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath == "" {
		configPath = ConfigFilePath()
	}
	if configPath != "" {
		if _, err := os.Stat(configPath); err != nil {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// LoadFromPath loads the configuration from a specific directory.
func LoadFromPath(dir string) (*Config, error) {
	for _, name := range configFileNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return Load(path)
		}
	}
	return Default(), nil
}

// setDefaults sets the default values for viper.
func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("content.root", d.Content.Root)
	v.SetDefault("content.include", d.Content.Include)
	v.SetDefault("content.exclude", d.Content.Exclude)
	v.SetDefault("languages", d.Languages)
	v.SetDefault("defaultLanguage", d.DefaultLanguage)
	v.SetDefault("cache.ttl", d.Cache.TTL)
	v.SetDefault("header.maxOperations", d.Header.MaxOperations)
	v.SetDefault("search.limit", d.Search.Limit)
	v.SetDefault("server.addr", d.Server.Addr)
	v.SetDefault("server.allowedOrigins", d.Server.AllowedOrigins)
	v.SetDefault("auth.secret", "")
	v.SetDefault("auth.issuer", "")
	v.SetDefault("auth.rules", map[string]string{})
	v.SetDefault("watch.enabled", d.Watch.Enabled)
	v.SetDefault("watch.debounce", d.Watch.Debounce)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	var errs ValidationErrors

	if c.Content.Root == "" {
		errs = append(errs, ValidationError{
			Field:   "content.root",
			Message: "content root is required",
		})
	}

	if len(c.Languages) == 0 {
		errs = append(errs, ValidationError{
			Field:   "languages",
			Message: "at least one language is required",
		})
	}
	for _, lang := range c.Languages {
		if lang == "" || strings.ContainsAny(lang, `/\`) || lang == specpath.Root {
			errs = append(errs, ValidationError{
				Field:   "languages",
				Message: fmt.Sprintf("invalid language %q", lang),
			})
		}
	}

	if c.DefaultLanguage != "" && len(c.Languages) > 0 && !slices.Contains(c.Languages, c.DefaultLanguage) {
		errs = append(errs, ValidationError{
			Field:   "defaultLanguage",
			Message: fmt.Sprintf("default language %q is not one of: %s", c.DefaultLanguage, strings.Join(c.Languages, ", ")),
		})
	}

	if c.Cache.TTL <= 0 {
		errs = append(errs, ValidationError{
			Field:   "cache.ttl",
			Message: "ttl must be positive",
		})
	}

	if c.Header.MaxOperations < 0 {
		errs = append(errs, ValidationError{
			Field:   "header.maxOperations",
			Message: "maxOperations must be non-negative",
		})
	}

	if c.Search.Limit < 0 {
		errs = append(errs, ValidationError{
			Field:   "search.limit",
			Message: "limit must be non-negative",
		})
	}

	if _, err := access.ParseRules(c.Auth.Rules); err != nil {
		errs = append(errs, ValidationError{
			Field:   "auth.rules",
			Message: err.Error(),
		})
	} else if c.Auth.Secret == "" && hasProtectedRule(c.Auth.Rules) {
		errs = append(errs, ValidationError{
			Field:   "auth.secret",
			Message: "secret is required when rules protect any path",
		})
	}

	// Validate watch debounce
	if c.Watch.Debounce < 0 {
		errs = append(errs, ValidationError{
			Field:   "watch.debounce",
			Message: "debounce must be non-negative",
		})
	}

	if c.Log.Level != "" && !slices.Contains(supportedLogLevels, strings.ToLower(c.Log.Level)) {
		errs = append(errs, ValidationError{
			Field:   "log.level",
			Message: fmt.Sprintf("unsupported level %q, must be one of: %s", c.Log.Level, strings.Join(supportedLogLevels, ", ")),
		})
	}

	if c.Log.Format != "" && !slices.Contains(supportedLogFormats, c.Log.Format) {
		errs = append(errs, ValidationError{
			Field:   "log.format",
			Message: fmt.Sprintf("unsupported format %q, must be one of: %s", c.Log.Format, strings.Join(supportedLogFormats, ", ")),
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// DebounceDuration returns the watch debounce as a duration.
func (c *Config) DebounceDuration() time.Duration {
	return time.Duration(c.Watch.Debounce) * time.Millisecond
}

// ConfigFilePath returns the path of the config file in the working
// directory, if any.
func ConfigFilePath() string {
	for _, name := range configFileNames {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}

func hasProtectedRule(rules map[string]string) bool {
	for _, raw := range rules {
		if p, err := access.ParsePolicy(raw); err == nil && p.Kind != access.KindPublic {
			return true
		}
	}
	return false
}
