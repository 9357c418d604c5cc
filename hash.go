package main

import (
	"crypto/md5" //nolint:gosec // Drive v2 reports content checksums as MD5
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/tonimelisma/gdrive-go/internal/drive"
)

// keyMD5Checksum is the Drive v2 file resource field holding the hex MD5 of
// the content. Google-native documents have none.
const keyMD5Checksum = "md5Checksum"

var errChecksumMismatch = errors.New("checksum mismatch")

// computeMD5 returns the hex MD5 digest of a local file using streaming I/O.
func computeMD5(fsPath string) (string, error) {
	f, err := os.Open(fsPath)
	if err != nil {
		return "", fmt.Errorf("opening %s for hashing: %w", fsPath, err)
	}
	defer f.Close()

	h := md5.New() //nolint:gosec // see import
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hashing %s: %w", fsPath, err)
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}

// verifyChecksum compares a local digest against the file's md5Checksum.
// No-op when the remote reports no checksum.
func verifyChecksum(file drive.Metadata, localMD5 string) error {
	remote := file.Str(keyMD5Checksum)
	if remote == "" {
		return nil
	}

	if remote != localMD5 {
		return fmt.Errorf("%w: local md5 %s, remote md5 %s", errChecksumMismatch, localMD5, remote)
	}

	return nil
}
