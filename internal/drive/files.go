package drive

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
)

// maxPreallocBytes caps the buffer DownloadContent sizes from fileSize.
const maxPreallocBytes = 64 << 20

// ListFiles returns the files listing response exactly as the API sent it.
// The file resources are under "items"; use Metadata.Items to iterate them.
// Only the first page is returned. On failure the metadata is nil, which is
// distinct from a listing whose "items" is empty.
func (c *Client) ListFiles(ctx context.Context, sess Session) (Metadata, error) {
	c.logger.Debug("listing files")

	resp, err := c.do(ctx, sess, "list", http.MethodGet, c.cfg.Endpoints.APIURL+"/files", "", http.NoBody)
	if err != nil {
		return nil, err
	}

	listing, err := decodeMetadata(resp, "list")
	if err != nil {
		return nil, err
	}

	c.logger.Debug("listed files", slog.Int("items", len(listing.Items())))

	return listing, nil
}

// Download streams the content of file to w. The request goes to the file's
// API-provided downloadUrl verbatim, authenticated with the session token.
// Returns the number of bytes written.
func (c *Client) Download(ctx context.Context, sess Session, file Metadata, w io.Writer) (int64, error) {
	downloadURL := file.DownloadURL()
	if downloadURL == "" {
		c.logger.Warn("file has no download URL",
			slog.String("file_id", file.ID()),
			slog.String("mime_type", file.MimeType()),
		)

		return 0, ErrNoDownloadURL
	}

	c.logger.Info("downloading file", slog.String("file_id", file.ID()))

	resp, err := c.do(ctx, sess, "download", http.MethodGet, downloadURL, "", http.NoBody)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	n, err := io.Copy(w, resp.Body)
	if err != nil {
		c.logger.Error("streaming download content failed",
			slog.String("error", err.Error()),
			slog.Int64("bytes_before_error", n),
		)

		return n, fmt.Errorf("drive: streaming download content: %w", err)
	}

	c.logger.Debug("download complete",
		slog.String("file_id", file.ID()),
		slog.Int64("bytes", n),
	)

	return n, nil
}

// DownloadContent returns the raw bytes of file. On failure the result is nil;
// a successful download of an empty file returns a non-nil empty slice.
func (c *Client) DownloadContent(ctx context.Context, sess Session, file Metadata) ([]byte, error) {
	buf := bytes.NewBuffer(make([]byte, 0, min(max(file.FileSize(), 0), maxPreallocBytes)))

	if _, err := c.Download(ctx, sess, file, buf); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
