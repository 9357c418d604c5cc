package main

import (
	"context"
	"crypto/md5" //nolint:gosec // Drive v2 reports content checksums as MD5
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/unicode/norm"

	"github.com/tonimelisma/gdrive-go/internal/drive"
)

const defaultMimeType = "application/octet-stream"

func newLsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ls",
		Short: "List files (first page of results)",
		Args:  cobra.NoArgs,
		RunE:  runLs,
	}
}

func newGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id-or-title> [local-path]",
		Short: "Download a file (searches the first page of results only)",
		Long: `Download a file.

The file is looked up by id, then by title, in the first page of the listing
only. Files beyond the first page cannot be found by this command.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: runGet,
	}
}

func newPutCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "put <local-path>...",
		Short: "Upload one or more files",
		Long: `Upload one or more files.

By default each file is created with a metadata request followed by a content
request. With --multipart, metadata and content go in a single request.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runPut,
	}

	cmd.Flags().Bool("multipart", false, "send metadata and content in one multipart request")
	cmd.Flags().String("title", "", "remote title (single file only; default: local file name)")
	cmd.Flags().String("mime-type", "", "MIME type (default: guessed from the file extension)")
	cmd.Flags().Int("parallel", 1, "number of files to upload concurrently")

	return cmd
}

func runLs(cmd *cobra.Command, _ []string) error {
	cc := mustCLIContext(cmd.Context())

	ds, err := NewDriveSession(cc)
	if err != nil {
		return err
	}

	listing, err := ds.Client.ListFiles(cmd.Context(), ds.Session)
	if err != nil {
		return explainError(fmt.Errorf("listing files: %w", err))
	}

	items := listing.Items()

	if cc.Flags.JSON {
		return printJSON(cmd.OutOrStdout(), items)
	}

	printItemsTable(cmd, items)

	return nil
}

func printItemsTable(cmd *cobra.Command, items []drive.Metadata) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Title() < items[j].Title()
	})

	headers := []string{"TITLE", "SIZE", "MODIFIED", "MIME TYPE", "ID"}
	rows := make([][]string, 0, len(items))

	for _, item := range items {
		rows = append(rows, []string{
			item.Title(),
			formatSize(item.FileSize()),
			formatTime(modifiedTime(item)),
			item.MimeType(),
			item.ID(),
		})
	}

	printTable(cmd.OutOrStdout(), headers, rows)
}

// modifiedTime parses the RFC 3339 "modifiedDate" field. Returns the zero
// time when absent or malformed.
func modifiedTime(item drive.Metadata) time.Time {
	t, err := time.Parse(time.RFC3339, item.Str("modifiedDate"))
	if err != nil {
		return time.Time{}
	}

	return t
}

// findFile picks the file whose id equals ref, or else the single file whose
// title equals ref.
func findFile(items []drive.Metadata, ref string) (drive.Metadata, error) {
	var byTitle []drive.Metadata

	for _, item := range items {
		if item.ID() == ref {
			return item, nil
		}

		if item.Title() == ref {
			byTitle = append(byTitle, item)
		}
	}

	switch len(byTitle) {
	case 0:
		return nil, fmt.Errorf("no file with id or title %q in the listing", ref)
	case 1:
		return byTitle[0], nil
	default:
		ids := make([]string, len(byTitle))
		for i, item := range byTitle {
			ids[i] = item.ID()
		}

		return nil, fmt.Errorf("title %q is ambiguous, use one of the ids: %s", ref, strings.Join(ids, ", "))
	}
}

// localName derives a safe local file name from a remote title.
func localName(file drive.Metadata) string {
	name := filepath.Base(filepath.Clean(string(filepath.Separator) + file.Title()))
	if name == string(filepath.Separator) || name == "." {
		return file.ID()
	}

	return name
}

func runGet(cmd *cobra.Command, args []string) error {
	cc := mustCLIContext(cmd.Context())
	ctx := cmd.Context()

	ds, err := NewDriveSession(cc)
	if err != nil {
		return err
	}

	listing, err := ds.Client.ListFiles(ctx, ds.Session)
	if err != nil {
		return explainError(fmt.Errorf("listing files: %w", err))
	}

	file, err := findFile(listing.Items(), args[0])
	if err != nil {
		return err
	}

	localPath := localName(file)
	if len(args) > 1 {
		localPath = args[1]
	}

	cc.Logger.Debug("get", slog.String("file_id", file.ID()), slog.String("local_path", localPath))

	n, err := downloadToFile(ctx, ds, file, localPath)
	if err != nil {
		return explainError(fmt.Errorf("downloading %q: %w", file.Title(), err))
	}

	if cc.Flags.JSON {
		return printJSON(cmd.OutOrStdout(), map[string]any{
			"id": file.ID(), "title": file.Title(), "path": localPath, "bytes": n,
		})
	}

	cc.Statusf("Downloaded %s (%s)\n", localPath, formatSize(n))

	return nil
}

// downloadToFile streams the file into localPath+".partial", verifies it
// against md5Checksum when present, and renames it into place. An interrupted
// or corrupt download never appears under the final name.
func downloadToFile(ctx context.Context, ds *DriveSession, file drive.Metadata, localPath string) (int64, error) {
	partialPath := localPath + ".partial"

	f, err := os.Create(partialPath)
	if err != nil {
		return 0, fmt.Errorf("creating partial file: %w", err)
	}

	h := md5.New() //nolint:gosec // Drive v2 reports content checksums as MD5

	n, dlErr := ds.Client.Download(ctx, ds.Session, file, io.MultiWriter(f, h))

	if closeErr := f.Close(); dlErr == nil && closeErr != nil {
		dlErr = fmt.Errorf("closing partial file: %w", closeErr)
	}

	if dlErr == nil {
		dlErr = verifyChecksum(file, hex.EncodeToString(h.Sum(nil)))
	}

	if dlErr != nil {
		os.Remove(partialPath)
		return n, dlErr
	}

	if err := os.Rename(partialPath, localPath); err != nil {
		os.Remove(partialPath)
		return n, fmt.Errorf("renaming download to %q: %w", localPath, err)
	}

	return n, nil
}

// putOptions are the parsed flags of the put command.
type putOptions struct {
	multipart bool
	title     string
	mimeType  string
	parallel  int
}

func readPutOptions(cmd *cobra.Command, nFiles int) (putOptions, error) {
	var opts putOptions

	flags := cmd.Flags()

	var err error
	if opts.multipart, err = flags.GetBool("multipart"); err != nil {
		return opts, err
	}

	if opts.title, err = flags.GetString("title"); err != nil {
		return opts, err
	}

	if opts.mimeType, err = flags.GetString("mime-type"); err != nil {
		return opts, err
	}

	if opts.parallel, err = flags.GetInt("parallel"); err != nil {
		return opts, err
	}

	if opts.title != "" && nFiles > 1 {
		return opts, fmt.Errorf("--title can only be used with a single file")
	}

	if opts.parallel < 1 {
		return opts, fmt.Errorf("--parallel must be at least 1, got %d", opts.parallel)
	}

	return opts, nil
}

func runPut(cmd *cobra.Command, args []string) error {
	cc := mustCLIContext(cmd.Context())

	opts, err := readPutOptions(cmd, len(args))
	if err != nil {
		return err
	}

	for _, p := range args {
		fi, statErr := os.Stat(p)
		if statErr != nil {
			return fmt.Errorf("stating local file: %w", statErr)
		}

		if fi.IsDir() {
			return fmt.Errorf("%q is a directory, not a file", p)
		}
	}

	ds, err := NewDriveSession(cc)
	if err != nil {
		return err
	}

	results := make([]drive.Metadata, len(args))

	g, gctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(opts.parallel)

	for i, p := range args {
		i, p := i, p
		g.Go(func() error {
			meta := uploadMetadata(p, opts)

			uploaded, upErr := uploadOne(gctx, ds, p, meta, opts.multipart)
			if upErr != nil {
				return explainError(fmt.Errorf("uploading %q: %w", p, upErr))
			}

			results[i] = uploaded

			cc.Logger.Debug("upload complete",
				slog.String("local_path", p),
				slog.String("file_id", uploaded.ID()),
			)
			cc.Statusf("Uploaded %s as %q (id %s)\n", p, uploaded.Title(), uploaded.ID())

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	if cc.Flags.JSON {
		return printJSON(cmd.OutOrStdout(), results)
	}

	return nil
}

// uploadOne uploads path and checks the stored content against the local
// file's MD5 when the response carries md5Checksum.
func uploadOne(ctx context.Context, ds *DriveSession, path string, meta drive.Metadata, multipart bool) (drive.Metadata, error) {
	localMD5, err := computeMD5(path)
	if err != nil {
		return nil, err
	}

	var uploaded drive.Metadata

	if multipart {
		uploaded, err = ds.Client.UploadMultipart(ctx, ds.Session, path, meta)
	} else {
		var content []byte

		content, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading local file: %w", err)
		}

		uploaded, err = ds.Client.UploadSimple(ctx, ds.Session, meta, content)
	}

	if err != nil {
		return nil, err
	}

	if err := verifyChecksum(uploaded, localMD5); err != nil {
		return nil, fmt.Errorf("file %s stored with different content: %w", uploaded.ID(), err)
	}

	return uploaded, nil
}

// uploadMetadata builds the file resource for a local path. Titles are
// NFC-normalized because macOS reports file names in decomposed form.
func uploadMetadata(path string, opts putOptions) drive.Metadata {
	title := opts.title
	if title == "" {
		title = filepath.Base(path)
	}

	mimeType := opts.mimeType
	if mimeType == "" {
		mimeType = detectMimeType(path)
	}

	return drive.Metadata{
		"title":    drive.String(norm.NFC.String(title)),
		"mimeType": drive.String(mimeType),
	}
}

// detectMimeType guesses a MIME type from the file extension, without
// parameters such as charset.
func detectMimeType(path string) string {
	guess := mime.TypeByExtension(filepath.Ext(path))
	if guess == "" {
		return defaultMimeType
	}

	mediaType, _, err := mime.ParseMediaType(guess)
	if err != nil {
		return defaultMimeType
	}

	return mediaType
}
