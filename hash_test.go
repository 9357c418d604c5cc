package main

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tonimelisma/gdrive-go/internal/drive"
)

func TestComputeMD5(t *testing.T) {
	dir := t.TempDir()

	p := filepath.Join(dir, "abc.txt")
	require.NoError(t, os.WriteFile(p, []byte("abc"), 0o600))

	got, err := computeMD5(p)
	require.NoError(t, err)
	assert.Equal(t, "900150983cd24fb0d6963f7d28e17f72", got)

	empty := filepath.Join(dir, "empty")
	require.NoError(t, os.WriteFile(empty, nil, 0o600))

	got, err = computeMD5(empty)
	require.NoError(t, err)
	assert.Equal(t, "d41d8cd98f00b204e9800998ecf8427e", got)

	_, err = computeMD5(filepath.Join(dir, "missing"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestVerifyChecksum(t *testing.T) {
	assert.NoError(t, verifyChecksum(drive.Metadata{}, "abc"))
	assert.NoError(t, verifyChecksum(drive.Metadata{keyMD5Checksum: drive.String("abc")}, "abc"))

	err := verifyChecksum(drive.Metadata{keyMD5Checksum: drive.String("def")}, "abc")
	require.ErrorIs(t, err, errChecksumMismatch)
	assert.Contains(t, err.Error(), "def")
}

func TestDownloadToFile_VerifiesChecksum(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("file body"))
	}))
	defer srv.Close()

	ds := testDriveSession(t, srv.URL)

	t.Run("match", func(t *testing.T) {
		dest := filepath.Join(t.TempDir(), "out.txt")

		_, err := downloadToFile(context.Background(), ds, drive.Metadata{
			"downloadUrl":  drive.String(srv.URL + "/dl"),
			keyMD5Checksum: drive.String("c63eceea886927f78a294d09eadfd64c"),
		}, dest)
		require.NoError(t, err)
		assert.FileExists(t, dest)
	})

	t.Run("mismatch removes partial", func(t *testing.T) {
		dir := t.TempDir()
		dest := filepath.Join(dir, "out.txt")

		_, err := downloadToFile(context.Background(), ds, drive.Metadata{
			"downloadUrl":  drive.String(srv.URL + "/dl"),
			keyMD5Checksum: drive.String("00000000000000000000000000000000"),
		}, dest)
		require.ErrorIs(t, err, errChecksumMismatch)

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})
}

func TestUploadOne_ChecksumMismatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.Copy(io.Discard, r.Body)
		_, _ = w.Write([]byte(`{"id":"F","md5Checksum":"ffffffffffffffffffffffffffffffff"}`))
	}))
	defer srv.Close()

	ds := testDriveSession(t, srv.URL)

	local := filepath.Join(t.TempDir(), "a.txt")
	require.NoError(t, os.WriteFile(local, []byte("abc"), 0o600))

	_, err := uploadOne(context.Background(), ds, local, uploadMetadata(local, putOptions{}), true)
	require.ErrorIs(t, err, errChecksumMismatch)
	assert.Contains(t, err.Error(), "F")
}
