package hasher

import (
	"crypto/sha256"
	"encoding/hex"
)

// Hash returns the hex SHA-256 of s.
func Hash(s string) string {
	return SumBytes([]byte(s))
}

// SumBytes returns the hex SHA-256 of b.
func SumBytes(b []byte) string {
	h := sha256.Sum256(b)
	return hex.EncodeToString(h[:])
}

// ETag returns a strong HTTP entity tag for content.
func ETag(content []byte) string {
	return `"` + SumBytes(content)[:32] + `"`
}
