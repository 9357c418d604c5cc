package main

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/tonimelisma/gdrive-go/internal/config"
	"github.com/tonimelisma/gdrive-go/internal/drive"
	"github.com/tonimelisma/gdrive-go/internal/tokenfile"
)

var (
	errNotLoggedIn  = errors.New("not logged in, run 'gdrive-go login' first")
	errTokenExpired = errors.New("saved token has expired, run 'gdrive-go login' again")
)

// driveEndpoints overrides the Drive base URLs. Empty fields use Google's
// production endpoints; tests point it at a local server.
var driveEndpoints drive.Endpoints

// DriveSession pairs a Drive client with the Session used for every call of
// one command invocation.
type DriveSession struct {
	Client  *drive.Client
	Session drive.Session
}

// newDriveClient creates a drive.Client from resolved config. A non-zero
// timeout bounds each whole request, including body transfer.
func newDriveClient(cfg *config.Resolved, logger *slog.Logger) (*drive.Client, error) {
	httpClient := &http.Client{Timeout: cfg.Timeout}

	client, err := drive.NewClient(drive.Config{
		Scope:             cfg.Scope,
		RedirectURI:       cfg.RedirectURI,
		ClientID:          cfg.ClientID,
		ClientSecret:      cfg.ClientSecret,
		UserAgent:         cfg.UserAgent,
		RequestsPerSecond: cfg.RequestsPerSecond,
		Endpoints:         driveEndpoints,
	}, httpClient, logger)
	if err != nil {
		if errors.Is(err, drive.ErrMissingConfig) {
			return nil, fmt.Errorf("%w (set client_id in %s or %s)", err, cfg.ConfigPath, config.EnvClientID)
		}

		return nil, err
	}

	return client, nil
}

// NewDriveSession creates a client and resolves the session token. An access
// token from flags, environment or config file wins over the saved token file.
func NewDriveSession(cc *CLIContext) (*DriveSession, error) {
	client, err := newDriveClient(cc.Cfg, cc.Logger)
	if err != nil {
		return nil, err
	}

	sess, err := resolveSession(cc.Cfg, cc.Logger, time.Now())
	if err != nil {
		return nil, err
	}

	return &DriveSession{Client: client, Session: sess}, nil
}

func resolveSession(cfg *config.Resolved, logger *slog.Logger, now time.Time) (drive.Session, error) {
	if cfg.AccessToken != "" {
		logger.Debug("using configured access token")
		return drive.NewSession(cfg.AccessToken), nil
	}

	tf, err := tokenfile.Load(cfg.TokenFile)
	if err != nil {
		return drive.Session{}, err
	}

	if tf == nil {
		return drive.Session{}, errNotLoggedIn
	}

	if tf.Expired(now) {
		logger.Warn("saved token expired",
			slog.String("token_file", cfg.TokenFile),
			slog.Time("expiry", tf.Expiry),
		)

		return drive.Session{}, errTokenExpired
	}

	logger.Debug("using saved token", slog.String("token_file", cfg.TokenFile))

	sess := drive.NewSession(tf.AccessToken)
	if tf.TokenType != "" {
		sess.TokenType = tf.TokenType
	}

	sess.Expiry = tf.Expiry

	return sess, nil
}

// explainError adds a next step to errors a user can act on.
func explainError(err error) error {
	var orphan *drive.OrphanedFileError

	switch {
	case errors.As(err, &orphan):
		return fmt.Errorf("%w (an empty file with id %s remains in Drive; delete it or retry the upload)",
			err, orphan.FileID)
	case errors.Is(err, drive.ErrUnauthorized):
		return fmt.Errorf("%w (the access token was rejected; run 'gdrive-go login')", err)
	default:
		return err
	}
}
