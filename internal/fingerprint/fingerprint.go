// Package fingerprint computes the content fingerprint used to recognise
// re-uploads of the same file.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
)

const chunkSize = 32 * 1024

// Compute streams r through SHA-256 in fixed-size chunks and returns the hex
// digest. The input is never buffered whole.
func Compute(r io.Reader) (string, error) {
	h := sha256.New()
	buf := make([]byte, chunkSize)
	if _, err := io.CopyBuffer(h, r, buf); err != nil {
		return "", fmt.Errorf("fingerprint.Compute: %w", err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// ComputeBytes fingerprints an in-memory payload.
func ComputeBytes(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
