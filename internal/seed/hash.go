package seed

import (
	"crypto/sha256"
	"fmt"
)

// HashBytes creates an 8-character hex hash of a payload.
// Two seeds with equal hashes are treated as the same input.
func HashBytes(data []byte) string {
	h := sha256.Sum256(data)
	return fmt.Sprintf("%08x", h[:4]) // First 4 bytes = 8 hex chars
}
