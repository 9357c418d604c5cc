// Package drive provides an HTTP client for the Google Drive v2 API:
// OAuth2 authorization-code exchange, file listing, download, and the simple
// (two-phase) and multipart upload strategies.
package drive

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/api/googleapi"
)

// Configuration errors. These are returned before any network call.
var (
	ErrMissingConfig       = errors.New("drive: missing required configuration")
	ErrMissingClientSecret = errors.New("drive: client secret is required for token exchange")
)

// Sentinel errors for HTTP status code classification.
// Use errors.Is(err, drive.ErrUnauthorized) to check.
var (
	ErrBadRequest   = errors.New("drive: bad request")
	ErrUnauthorized = errors.New("drive: unauthorized")
	ErrForbidden    = errors.New("drive: forbidden")
	ErrNotFound     = errors.New("drive: not found")
	ErrConflict     = errors.New("drive: conflict")
	ErrThrottled    = errors.New("drive: throttled")
	ErrServerError  = errors.New("drive: server error")
)

// Response-shape errors.
var (
	ErrNoDownloadURL = errors.New("drive: file has no download URL")
	ErrMissingFileID = errors.New("drive: create response has no file id")
)

// APIError is returned for every non-2xx response. Status is the HTTP status
// line (e.g. "401 Unauthorized"), Body the raw response body, and Message the
// human-readable message Google embeds in its JSON error envelope, if any.
type APIError struct {
	StatusCode int
	Status     string
	Body       string
	Message    string
	Err        error // sentinel, for errors.Is()
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("drive: HTTP %s: %s", e.Status, e.Message)
	}

	return fmt.Sprintf("drive: HTTP %s", e.Status)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// ParseError reports a response body that should have been JSON but could not
// be decoded.
type ParseError struct {
	Op  string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("drive: decoding %s response: %v", e.Op, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// OrphanedFileError is returned by UploadSimple when the metadata request
// created a file but the content request failed. The remote file identified by
// FileID exists without content; cleaning it up is the caller's decision.
type OrphanedFileError struct {
	FileID string
	Err    error
}

func (e *OrphanedFileError) Error() string {
	return fmt.Sprintf("drive: content upload failed, file %s left without content: %v", e.FileID, e.Err)
}

func (e *OrphanedFileError) Unwrap() error {
	return e.Err
}

// newAPIError consumes the body of a failed response and builds an APIError.
// The caller still owns closing resp.Body.
func newAPIError(resp *http.Response) *APIError {
	apiErr := &APIError{
		StatusCode: resp.StatusCode,
		Status:     statusLine(resp),
		Err:        classifyStatus(resp.StatusCode),
	}

	// CheckResponse reads the body and parses Google's {"error":{...}} envelope.
	var gerr *googleapi.Error
	if errors.As(googleapi.CheckResponse(resp), &gerr) {
		apiErr.Body = gerr.Body
		apiErr.Message = gerr.Message
	}

	return apiErr
}

// statusLine returns the "<code> <reason>" form of the response status.
// Some transports leave Status empty; fall back to the canonical text.
func statusLine(resp *http.Response) string {
	if s := strings.TrimSpace(resp.Status); s != "" {
		return s
	}

	return fmt.Sprintf("%d %s", resp.StatusCode, http.StatusText(resp.StatusCode))
}

// classifyStatus maps an HTTP status code to a sentinel error.
// Returns nil for codes without a dedicated sentinel.
func classifyStatus(code int) error {
	switch code {
	case http.StatusBadRequest:
		return ErrBadRequest
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusForbidden:
		return ErrForbidden
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusConflict:
		return ErrConflict
	case http.StatusTooManyRequests:
		return ErrThrottled
	default:
		if code >= http.StatusInternalServerError {
			return ErrServerError
		}

		return nil
	}
}
