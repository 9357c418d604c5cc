package config

import (
	"fmt"
	"io"
)

// RenderEffective writes the resolved configuration as a TOML-like summary
// to w. Secrets are reported as set or unset, never printed.
func RenderEffective(r *Resolved, w io.Writer) error {
	ew := &errWriter{w: w}

	ew.printf("# Effective configuration (file: %s)\n\n", orNone(r.ConfigPath))

	ew.printf("client_id           = %q\n", r.ClientID)
	ew.printf("client_secret       = %s\n", redacted(r.ClientSecret))
	ew.printf("redirect_uri        = %q\n", r.RedirectURI)
	ew.printf("scope               = %q\n", r.Scope)
	ew.printf("access_token        = %s\n", redacted(r.AccessToken))
	ew.printf("token_file          = %q\n", r.TokenFile)
	ew.printf("\n")
	ew.printf("timeout             = %q\n", r.Timeout.String())
	ew.printf("user_agent          = %q\n", r.UserAgent)
	ew.printf("requests_per_second = %g\n", r.RequestsPerSecond)
	ew.printf("\n")
	ew.printf("log_level           = %q\n", r.LogLevel)
	ew.printf("log_format          = %q\n", r.LogFormat)

	return ew.err
}

// errWriter wraps an io.Writer and captures the first write error.
// Later writes after an error are no-ops.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...any) {
	if ew.err != nil {
		return
	}

	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}

func redacted(secret string) string {
	if secret == "" {
		return "# unset"
	}

	return "# set (hidden)"
}

func orNone(s string) string {
	if s == "" {
		return "none"
	}

	return s
}
