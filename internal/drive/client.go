package drive

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

// Google endpoints. Only the URL of the consent page is produced locally;
// it is never fetched by the client.
const (
	DefaultAuthURL   = "https://accounts.google.com/o/oauth2/auth"
	DefaultTokenURL  = "https://accounts.google.com/o/oauth2/token"
	DefaultAPIURL    = "https://www.googleapis.com/drive/v2"
	DefaultUploadURL = "https://www.googleapis.com/upload/drive/v2"
)

const defaultUserAgent = "gdrive-go/0.1"

// Endpoints are the base URLs the client talks to. Empty fields fall back to
// the Default* constants; tests point them at httptest servers.
type Endpoints struct {
	AuthURL   string
	TokenURL  string
	APIURL    string
	UploadURL string
}

// Config is the immutable configuration of a Client. Scope, RedirectURI and
// ClientID are required. ClientSecret is only needed by ExchangeToken.
type Config struct {
	Scope        string
	RedirectURI  string
	ClientID     string
	ClientSecret string
	Endpoints    Endpoints

	// UserAgent overrides the default User-Agent header.
	UserAgent string

	// RequestsPerSecond throttles outgoing requests. Zero or negative means
	// unlimited.
	RequestsPerSecond float64
}

// Session carries the bearer token for authenticated calls. It is a plain
// value: copy it freely, one per logged-in user.
type Session struct {
	AccessToken string
	TokenType   string
	Expiry      time.Time // zero when unknown
}

// NewSession wraps a pre-existing access token, e.g. one persisted by an
// earlier login.
func NewSession(accessToken string) Session {
	return Session{AccessToken: accessToken, TokenType: "Bearer"}
}

// HasToken reports whether the session carries an access token.
func (s Session) HasToken() bool {
	return s.AccessToken != ""
}

// Client is an HTTP client for the Google Drive v2 API.
// It holds no per-user state; every authenticated call takes a Session.
type Client struct {
	cfg        Config
	oauth      *oauth2.Config
	httpClient *http.Client
	limiter    *rate.Limiter
	userAgent  string
	logger     *slog.Logger
}

// NewClient validates cfg and creates a Drive client. A nil httpClient means
// http.DefaultClient; a nil logger means slog.Default().
func NewClient(cfg Config, httpClient *http.Client, logger *slog.Logger) (*Client, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	if logger == nil {
		logger = slog.Default()
	}

	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	cfg.Endpoints = withDefaults(cfg.Endpoints)

	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}

	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}

	return &Client{
		cfg:        cfg,
		oauth:      oauthConfig(cfg),
		httpClient: httpClient,
		limiter:    rate.NewLimiter(limit, 1),
		userAgent:  userAgent,
		logger:     logger,
	}, nil
}

func validateConfig(cfg Config) error {
	var missing []string

	if cfg.Scope == "" {
		missing = append(missing, "scope")
	}

	if cfg.RedirectURI == "" {
		missing = append(missing, "redirect_uri")
	}

	if cfg.ClientID == "" {
		missing = append(missing, "client_id")
	}

	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingConfig, strings.Join(missing, ", "))
	}

	return nil
}

func withDefaults(e Endpoints) Endpoints {
	if e.AuthURL == "" {
		e.AuthURL = DefaultAuthURL
	}

	if e.TokenURL == "" {
		e.TokenURL = DefaultTokenURL
	}

	if e.APIURL == "" {
		e.APIURL = DefaultAPIURL
	}

	if e.UploadURL == "" {
		e.UploadURL = DefaultUploadURL
	}

	e.APIURL = strings.TrimSuffix(e.APIURL, "/")
	e.UploadURL = strings.TrimSuffix(e.UploadURL, "/")

	return e
}

// do executes a single authenticated request. On a non-2xx status the body is
// consumed into an *APIError and the response is closed. On success the caller
// owns resp.Body. op names the operation in logs; URLs are not logged because
// download URLs can embed credentials.
func (c *Client) do(
	ctx context.Context, sess Session, op, method, rawURL, contentType string, body io.Reader,
) (*http.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("drive: %s: waiting for rate limiter: %w", op, err)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, body)
	if err != nil {
		return nil, fmt.Errorf("drive: %s: creating request: %w", op, err)
	}

	req.Header.Set("Authorization", "Bearer "+sess.AccessToken)
	req.Header.Set("User-Agent", c.userAgent)

	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("request failed",
			slog.String("op", op),
			slog.String("method", method),
			slog.String("error", err.Error()),
		)

		return nil, fmt.Errorf("drive: %s request failed: %w", op, err)
	}

	if resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices {
		c.logger.Debug("request succeeded",
			slog.String("op", op),
			slog.String("method", method),
			slog.Int("status", resp.StatusCode),
		)

		return resp, nil
	}

	apiErr := newAPIError(resp)
	resp.Body.Close()

	c.logger.Warn("request returned error status",
		slog.String("op", op),
		slog.String("method", method),
		slog.String("status", apiErr.Status),
		slog.String("body", apiErr.Body),
	)

	return nil, apiErr
}

// decodeMetadata reads a JSON object response body and closes it.
func decodeMetadata(resp *http.Response, op string) (Metadata, error) {
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("drive: reading %s response: %w", op, err)
	}

	m, err := ParseMetadata(data)
	if err != nil {
		return nil, &ParseError{Op: op, Err: err}
	}

	return m, nil
}

// encodeMetadata serializes metadata for a request body.
func encodeMetadata(m Metadata) ([]byte, error) {
	if m == nil {
		m = Metadata{}
	}

	data, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("drive: encoding metadata: %w", err)
	}

	return data, nil
}
