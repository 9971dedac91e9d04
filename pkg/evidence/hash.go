package evidence

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
)

// hashChunkSize is the fixed read size used while streaming file content
// through the digest. Files are never loaded whole.
const hashChunkSize = 64 * 1024

// acceptedExtensions are the evidence file extensions that get hashed.
// Everything else in the evidence directory is ignored.
var acceptedExtensions = map[string]bool{
	".pdf":  true,
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".tif":  true,
	".tiff": true,
	".csv":  true,
}

// hashFile computes the hex-encoded SHA-256 of a file's content using
// bounded-memory chunked reads, and returns the file size alongside.
func hashFile(path string) (digest string, size int64, err error) {
	f, err := os.Open(path)
	if err != nil {
		return "", 0, fmt.Errorf("failed to open evidence file %q: %w", path, err)
	}
	defer f.Close()

	h := sha256.New()
	buf := make([]byte, hashChunkSize)
	size, err = io.CopyBuffer(h, f, buf)
	if err != nil {
		return "", 0, fmt.Errorf("failed to hash evidence file %q: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), size, nil
}
