package drive

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"mime"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"os"
)

const (
	contentTypeJSON = "application/json"
	uploadTypeQuery = "uploadType"
)

// UploadSimple creates a file in two round-trips: a JSON POST of meta to the
// files endpoint, then a PUT of content to the upload endpoint for the new id,
// sent with meta's mimeType as Content-Type. Returns the metadata from the
// PUT response.
//
// The two requests are not atomic. If the metadata request fails, no content
// request is made. If the content request fails, the error is an
// *OrphanedFileError carrying the id of the content-less remote file; it is
// not deleted automatically.
func (c *Client) UploadSimple(ctx context.Context, sess Session, meta Metadata, content []byte) (Metadata, error) {
	c.logger.Info("simple upload",
		slog.String("title", meta.Title()),
		slog.String("mime_type", meta.MimeType()),
		slog.Int("size", len(content)),
	)

	body, err := encodeMetadata(meta)
	if err != nil {
		return nil, err
	}

	resp, err := c.do(ctx, sess, "create", http.MethodPost, c.cfg.Endpoints.APIURL+"/files",
		contentTypeJSON, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	created, err := decodeMetadata(resp, "create")
	if err != nil {
		return nil, err
	}

	fileID := created.ID()
	if fileID == "" {
		return nil, ErrMissingFileID
	}

	c.logger.Debug("file resource created", slog.String("file_id", fileID))

	contentURL := c.cfg.Endpoints.UploadURL + "/files/" + url.PathEscape(fileID) +
		"?" + url.Values{uploadTypeQuery: {"media"}}.Encode()

	resp, err = c.do(ctx, sess, "upload content", http.MethodPut, contentURL,
		meta.MimeType(), bytes.NewReader(content))
	if err != nil {
		c.logger.Warn("content upload failed after file creation",
			slog.String("file_id", fileID),
		)

		return nil, &OrphanedFileError{FileID: fileID, Err: err}
	}

	uploaded, err := decodeMetadata(resp, "upload content")
	if err != nil {
		return nil, err
	}

	c.logger.Debug("simple upload complete", slog.String("file_id", uploaded.ID()))

	return uploaded, nil
}

// UploadMultipart creates a file in a single POST whose multipart body holds
// two parts: meta as JSON, then the contents of filePath with meta's title as
// filename and meta's mimeType as Content-Type. The whole file is read into
// memory before the request is sent.
func (c *Client) UploadMultipart(ctx context.Context, sess Session, filePath string, meta Metadata) (Metadata, error) {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("drive: reading upload source: %w", err)
	}

	c.logger.Info("multipart upload",
		slog.String("title", meta.Title()),
		slog.String("mime_type", meta.MimeType()),
		slog.Int("size", len(content)),
	)

	body, contentType, err := buildMultipartBody(meta, content)
	if err != nil {
		return nil, err
	}

	uploadURL := c.cfg.Endpoints.UploadURL + "/files?" + url.Values{uploadTypeQuery: {"multipart"}}.Encode()

	resp, err := c.do(ctx, sess, "multipart upload", http.MethodPost, uploadURL, contentType, body)
	if err != nil {
		return nil, err
	}

	uploaded, err := decodeMetadata(resp, "multipart upload")
	if err != nil {
		return nil, err
	}

	c.logger.Debug("multipart upload complete", slog.String("file_id", uploaded.ID()))

	return uploaded, nil
}

// buildMultipartBody encodes the metadata part and the content part and
// returns the body with its multipart/form-data Content-Type.
func buildMultipartBody(meta Metadata, content []byte) (*bytes.Buffer, string, error) {
	metaJSON, err := encodeMetadata(meta)
	if err != nil {
		return nil, "", err
	}

	var buf bytes.Buffer

	mw := multipart.NewWriter(&buf)

	metaHeader := textproto.MIMEHeader{}
	metaHeader.Set("Content-Disposition", "form-data")
	metaHeader.Set("Content-Type", contentTypeJSON)

	if err := writePart(mw, metaHeader, metaJSON); err != nil {
		return nil, "", err
	}

	fileHeader := textproto.MIMEHeader{}
	fileHeader.Set("Content-Disposition",
		mime.FormatMediaType("form-data", map[string]string{"filename": meta.Title()}))
	fileHeader.Set("Content-Type", meta.MimeType())

	if err := writePart(mw, fileHeader, content); err != nil {
		return nil, "", err
	}

	if err := mw.Close(); err != nil {
		return nil, "", fmt.Errorf("drive: closing multipart body: %w", err)
	}

	return &buf, mw.FormDataContentType(), nil
}

func writePart(mw *multipart.Writer, header textproto.MIMEHeader, data []byte) error {
	part, err := mw.CreatePart(header)
	if err != nil {
		return fmt.Errorf("drive: creating multipart part: %w", err)
	}

	if _, err := part.Write(data); err != nil {
		return fmt.Errorf("drive: writing multipart part: %w", err)
	}

	return nil
}
