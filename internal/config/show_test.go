package config

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderEffective_HidesSecrets(t *testing.T) {
	r := &Resolved{
		ConfigPath:   "/etc/gdrive.toml",
		ClientID:     "abc",
		ClientSecret: "super-secret",
		RedirectURI:  defaultRedirectURI,
		Scope:        defaultScope,
		AccessToken:  "ya29.secret",
		TokenFile:    "/tmp/token.json",
		Timeout:      30 * time.Second,
		LogLevel:     "info",
		LogFormat:    "auto",
	}

	var buf bytes.Buffer
	require.NoError(t, RenderEffective(r, &buf))

	out := buf.String()
	assert.Contains(t, out, "/etc/gdrive.toml")
	assert.Contains(t, out, `client_id           = "abc"`)
	assert.Contains(t, out, `timeout             = "30s"`)
	assert.Contains(t, out, "client_secret       = # set (hidden)")
	assert.NotContains(t, out, "super-secret")
	assert.NotContains(t, out, "ya29.secret")
}

func TestRenderEffective_UnsetValues(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderEffective(&Resolved{}, &buf))

	assert.Contains(t, buf.String(), "(file: none)")
	assert.Contains(t, buf.String(), "access_token        = # unset")
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestRenderEffective_WriteError(t *testing.T) {
	err := RenderEffective(&Resolved{}, failingWriter{})
	assert.EqualError(t, err, "disk full")
}
