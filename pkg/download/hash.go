package download

import (
	"crypto/sha256"
	"fmt"
	"hash"
	"io"
	"os"
	"strings"
)

// hashChunkSize is the buffer size used for streaming reads while hashing
// and while writing downloads to disk.
const hashChunkSize = 512 * 1024

// IntegrityError reports a digest mismatch after a full transfer or on a
// cached file. It is retryable during download, since it may reflect
// transient transport corruption.
type IntegrityError struct {
	Path     string
	Expected string
	Actual   string
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("hash mismatch for %s: expected %s, got %s", e.Path, e.Expected, e.Actual)
}

// streamHasher writes to an underlying writer while accumulating the
// SHA-256 digest of everything written, so a download is hashed in the same
// pass that puts it on disk.
type streamHasher struct {
	w io.Writer
	h hash.Hash
}

func newStreamHasher(w io.Writer) *streamHasher {
	h := sha256.New()
	return &streamHasher{w: io.MultiWriter(w, h), h: h}
}

func (s *streamHasher) Write(p []byte) (int, error) {
	return s.w.Write(p)
}

// HexDigest returns the lowercase hex digest of all bytes written so far
func (s *streamHasher) HexDigest() string {
	return fmt.Sprintf("%x", s.h.Sum(nil))
}

// HashFile streams a file through SHA-256 and returns the lowercase hex digest
func HashFile(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	hasher := sha256.New()
	buf := make([]byte, hashChunkSize)
	if _, err := io.CopyBuffer(hasher, file, buf); err != nil {
		return "", fmt.Errorf("failed to read %s for hashing: %w", path, err)
	}
	return fmt.Sprintf("%x", hasher.Sum(nil)), nil
}

// HashMatches compares two hex digests case-insensitively
func HashMatches(actual, expected string) bool {
	return strings.EqualFold(actual, expected)
}

// VerifyFileHash checks that a file matches the expected SHA-256 digest.
// Returns *IntegrityError on mismatch.
func VerifyFileHash(path, expected string) error {
	actual, err := HashFile(path)
	if err != nil {
		return fmt.Errorf("failed to open file for hash verification: %w", err)
	}
	if !HashMatches(actual, expected) {
		return &IntegrityError{Path: path, Expected: expected, Actual: actual}
	}
	return nil
}
