package util

import (
	"crypto/sha256"
	"encoding/hex"
)

// Fingerprint returns a short stable hex digest of data for log correlation.
func Fingerprint(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:8])
}
