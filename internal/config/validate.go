package config

import (
	"errors"
	"fmt"
	"net/url"
	"slices"
	"strings"
	"time"
)

var (
	validLogLevels  = []string{"debug", "info", "warn", "error"}
	validLogFormats = []string{"auto", "text", "json"}
)

// Validate checks all configuration values and returns every error found,
// joined, so users can fix all issues in one pass.
func Validate(cfg *Config) error {
	var errs []error

	errs = append(errs, validateAuth(&cfg.AuthConfig)...)
	errs = append(errs, validateNetwork(&cfg.NetworkConfig)...)
	errs = append(errs, validateLogging(&cfg.LoggingConfig)...)

	return errors.Join(errs...)
}

func validateAuth(a *AuthConfig) []error {
	var errs []error

	if strings.TrimSpace(a.RedirectURI) == "" {
		errs = append(errs, errors.New("redirect_uri: must not be empty"))
	} else if _, err := url.Parse(a.RedirectURI); err != nil {
		errs = append(errs, fmt.Errorf("redirect_uri: %w", err))
	}

	if strings.TrimSpace(a.Scope) == "" {
		errs = append(errs, errors.New("scope: must not be empty"))
	}

	return errs
}

func validateNetwork(n *NetworkConfig) []error {
	var errs []error

	d, err := time.ParseDuration(n.Timeout)

	switch {
	case err != nil:
		errs = append(errs, fmt.Errorf("timeout: invalid duration %q: %w", n.Timeout, err))
	case d < 0:
		errs = append(errs, fmt.Errorf("timeout: must not be negative, got %s", n.Timeout))
	}

	if n.RequestsPerSecond < 0 {
		errs = append(errs, fmt.Errorf("requests_per_second: must not be negative, got %g", n.RequestsPerSecond))
	}

	if strings.ContainsAny(n.UserAgent, "\r\n") {
		errs = append(errs, errors.New("user_agent: must not contain line breaks"))
	}

	return errs
}

func validateLogging(l *LoggingConfig) []error {
	var errs []error

	if !slices.Contains(validLogLevels, l.LogLevel) {
		errs = append(errs, fmt.Errorf("log_level: must be one of %s, got %q",
			strings.Join(validLogLevels, ", "), l.LogLevel))
	}

	if !slices.Contains(validLogFormats, l.LogFormat) {
		errs = append(errs, fmt.Errorf("log_format: must be one of %s, got %q",
			strings.Join(validLogFormats, ", "), l.LogFormat))
	}

	return errs
}
