// Package core has core logic for fingerprinting, parsing, naming and
// batch orchestration.
package core

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"

	"github.com/huangsam/docname/internal/contract"
)

// fingerprintChunkSize is the read buffer size for checksum streaming.
const fingerprintChunkSize = 64 * 1024

// Fingerprint returns the lowercase hex SHA-256 digest of the file content
// at path. Equal content always yields the same digest regardless of the
// file's name, location or timestamps.
func Fingerprint(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", &contract.IOError{Path: path, Err: err}
	}
	defer func() { _ = f.Close() }()

	hasher := sha256.New()
	buf := make([]byte, fingerprintChunkSize)
	if _, err := io.CopyBuffer(hasher, f, buf); err != nil {
		return "", &contract.IOError{Path: path, Err: err}
	}
	return hex.EncodeToString(hasher.Sum(nil)), nil
}
