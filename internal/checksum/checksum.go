// Package checksum computes the content digests used to detect stale index
// rows and to build document ETags.
package checksum

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Sum returns the hex-encoded SHA-256 digest of data.
func Sum(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}

// ETag quotes a digest for use in an ETag header.
func ETag(sum string) string {
	return `"` + sum + `"`
}

// FromETag strips the quotes and an optional weak prefix from an
// If-Match or ETag header value.
func FromETag(v string) string {
	v = strings.TrimSpace(v)
	v = strings.TrimPrefix(v, "W/")
	return strings.Trim(v, `"`)
}
