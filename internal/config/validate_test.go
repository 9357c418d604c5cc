package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_Defaults(t *testing.T) {
	assert.NoError(t, Validate(DefaultConfig()))
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"empty redirect", func(c *Config) { c.RedirectURI = " " }, "redirect_uri"},
		{"bad redirect", func(c *Config) { c.RedirectURI = "http://[::1" }, "redirect_uri"},
		{"empty scope", func(c *Config) { c.Scope = "" }, "scope"},
		{"bad timeout", func(c *Config) { c.Timeout = "forever" }, "timeout"},
		{"empty timeout", func(c *Config) { c.Timeout = "" }, "timeout"},
		{"negative timeout", func(c *Config) { c.Timeout = "-1s" }, "must not be negative"},
		{"negative rate", func(c *Config) { c.RequestsPerSecond = -1 }, "requests_per_second"},
		{"user agent newline", func(c *Config) { c.UserAgent = "a\nb" }, "user_agent"},
		{"log level", func(c *Config) { c.LogLevel = "trace" }, "log_level"},
		{"log format", func(c *Config) { c.LogFormat = "xml" }, "log_format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)

			err := Validate(cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestValidate_AccumulatesAllErrors(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Scope = ""
	cfg.LogLevel = "loud"
	cfg.RequestsPerSecond = -2

	err := Validate(cfg)
	require.Error(t, err)

	joined, ok := err.(interface{ Unwrap() []error })
	require.True(t, ok)
	assert.Len(t, joined.Unwrap(), 3)
}

func TestValidate_AcceptsPositiveValues(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Timeout = "90s"
	cfg.RequestsPerSecond = 2.5
	cfg.LogLevel = "warn"
	cfg.LogFormat = "text"

	assert.NoError(t, Validate(cfg))
}
