package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

// Environment variable names for overrides.
const (
	EnvConfig       = "GDRIVE_GO_CONFIG"
	EnvClientID     = "GDRIVE_GO_CLIENT_ID"
	EnvClientSecret = "GDRIVE_GO_CLIENT_SECRET"
	EnvAccessToken  = "GDRIVE_GO_ACCESS_TOKEN"
)

// EnvOverrides holds values derived from environment variables.
type EnvOverrides struct {
	ConfigPath   string // GDRIVE_GO_CONFIG: override config file path
	ClientID     string // GDRIVE_GO_CLIENT_ID
	ClientSecret string // GDRIVE_GO_CLIENT_SECRET
	AccessToken  string // GDRIVE_GO_ACCESS_TOKEN
}

// ReadEnvOverrides reads environment variables and returns any overrides found.
// This does not modify the Config; Resolve applies the relevant fields.
func ReadEnvOverrides() EnvOverrides {
	return EnvOverrides{
		ConfigPath:   os.Getenv(EnvConfig),
		ClientID:     os.Getenv(EnvClientID),
		ClientSecret: os.Getenv(EnvClientSecret),
		AccessToken:  os.Getenv(EnvAccessToken),
	}
}

// LoadDotEnv loads KEY=VALUE pairs from path into the process environment.
// Variables that are already set win. A missing file is not an error.
func LoadDotEnv(path string) error {
	err := godotenv.Load(path)
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}

	return fmt.Errorf("config: loading %s: %w", path, err)
}
