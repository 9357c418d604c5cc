package drive

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"

	"golang.org/x/oauth2"
)

// oauthConfig builds the oauth2.Config for the authorization-code flow.
// AuthStyleInParams sends client_id and client_secret in the form body
// rather than as HTTP Basic credentials.
func oauthConfig(cfg Config) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  cfg.RedirectURI,
		Scopes:       []string{cfg.Scope},
		Endpoint: oauth2.Endpoint{
			AuthURL:   cfg.Endpoints.AuthURL,
			TokenURL:  cfg.Endpoints.TokenURL,
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}
}

// LoginURL returns the consent page URL a user must visit to obtain an
// authorization code. The query carries exactly response_type=code,
// client_id, redirect_uri and scope. No network call is made.
func (c *Client) LoginURL() string {
	// An empty state keeps the state parameter out of the URL.
	return c.oauth.AuthCodeURL("")
}

// ExchangeToken trades an authorization code for an access token.
// The client secret must be configured; otherwise ErrMissingClientSecret is
// returned without contacting the token endpoint.
//
// A non-2xx token response yields an *APIError. A 2xx response that is not a
// usable token (malformed JSON, missing access_token) yields a *ParseError.
func (c *Client) ExchangeToken(ctx context.Context, code string) (Session, error) {
	if c.cfg.ClientSecret == "" {
		return Session{}, ErrMissingClientSecret
	}

	c.logger.Info("exchanging authorization code for token")

	// Route the oauth2 package through our HTTP client.
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)

	tok, err := c.oauth.Exchange(ctx, code)
	if err != nil {
		return Session{}, c.classifyExchangeError(err)
	}

	c.logger.Info("token exchange successful",
		slog.String("token_type", tok.Type()),
		slog.Time("expiry", tok.Expiry),
	)

	return Session{
		AccessToken: tok.AccessToken,
		TokenType:   tok.Type(),
		Expiry:      tok.Expiry,
	}, nil
}

// classifyExchangeError maps errors from oauth2.Config.Exchange onto the
// package's error taxonomy.
func (c *Client) classifyExchangeError(err error) error {
	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) && retrieveErr.Response != nil {
		apiErr := &APIError{
			StatusCode: retrieveErr.Response.StatusCode,
			Status:     statusLine(retrieveErr.Response),
			Body:       string(retrieveErr.Body),
			Message:    retrieveErr.ErrorCode,
			Err:        classifyStatus(retrieveErr.Response.StatusCode),
		}

		if d := retrieveErr.ErrorDescription; d != "" && apiErr.Message != "" {
			apiErr.Message += ": " + d
		}

		c.logger.Warn("token exchange returned error status",
			slog.String("status", apiErr.Status),
			slog.String("body", apiErr.Body),
		)

		return apiErr
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		c.logger.Warn("token exchange request failed", slog.String("error", err.Error()))

		return fmt.Errorf("drive: token exchange request failed: %w", err)
	}

	return &ParseError{Op: "token", Err: err}
}
