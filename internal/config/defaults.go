package config

import drive "google.golang.org/api/drive/v2"

// Default values for configuration options. These are "layer 0" of the
// override chain and are enough to run without a config file once a client
// id is supplied.
const (
	defaultRedirectURI = "urn:ietf:wg:oauth:2.0:oob"
	defaultScope       = drive.DriveScope
	defaultTimeout     = "0"
	defaultLogLevel    = "info"
	defaultLogFormat   = "auto"
)

// DefaultConfig returns a Config populated with all default values.
// It is the starting point for TOML decoding so unset keys keep defaults.
func DefaultConfig() *Config {
	return &Config{
		AuthConfig: AuthConfig{
			RedirectURI: defaultRedirectURI,
			Scope:       defaultScope,
		},
		NetworkConfig: NetworkConfig{
			Timeout: defaultTimeout,
		},
		LoggingConfig: LoggingConfig{
			LogLevel:  defaultLogLevel,
			LogFormat: defaultLogFormat,
		},
	}
}
