// Package config implements TOML configuration loading, validation, and
// platform-specific path resolution for gdrive-go. Values resolve through a
// four-layer override chain: defaults -> config file -> environment -> CLI flags.
package config

import "time"

// Config is the structure parsed from the TOML config file. All keys are flat
// at the top level; the embedded sections only group them in Go.
type Config struct {
	AuthConfig
	NetworkConfig
	LoggingConfig
}

// AuthConfig holds the OAuth2 client registration and token sources.
// client_secret is only needed by login.
type AuthConfig struct {
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
	RedirectURI  string `toml:"redirect_uri"`
	Scope        string `toml:"scope"`
	AccessToken  string `toml:"access_token"`
	TokenFile    string `toml:"token_file"`
}

// NetworkConfig controls the HTTP client: an optional overall timeout, the
// User-Agent header, and client-side request throttling.
type NetworkConfig struct {
	Timeout           string  `toml:"timeout"`
	UserAgent         string  `toml:"user_agent"`
	RequestsPerSecond float64 `toml:"requests_per_second"`
}

// LoggingConfig controls log output: level and format (auto, text, json).
type LoggingConfig struct {
	LogLevel  string `toml:"log_level"`
	LogFormat string `toml:"log_format"`
}

// CLIOverrides holds values from CLI flags that override config file and
// environment settings. Empty strings mean "not specified".
type CLIOverrides struct {
	ConfigPath  string // --config
	AccessToken string // --access-token
}

// Resolved is the effective configuration after all override layers, with
// durations parsed and paths expanded.
type Resolved struct {
	ConfigPath string `json:"config_path"`

	ClientID     string `json:"client_id"`
	ClientSecret string `json:"-"`
	RedirectURI  string `json:"redirect_uri"`
	Scope        string `json:"scope"`
	AccessToken  string `json:"-"`
	TokenFile    string `json:"token_file"`

	Timeout           time.Duration `json:"timeout"`
	UserAgent         string        `json:"user_agent,omitempty"`
	RequestsPerSecond float64       `json:"requests_per_second"`

	LogLevel  string `json:"log_level"`
	LogFormat string `json:"log_format"`
}
