package utils

import (
	"crypto/rand"   // secure random number generation
	"crypto/sha256" // SHA-256 hashing for one-time tokens
	"encoding/hex"  // hex encoding of random bytes and digests
)

// RandomHex returns a hex-encoded string generated from n bytes of
// cryptographically secure random data.  It backs both exchange codes and
// password-reset tokens; callers pick n so the entropy fits the use (32
// bytes gives 256 bits, comfortably above what exchange codes need).
func RandomHex(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// HashTokenRaw returns the SHA-256 hash of a raw one-time token as a hex
// string.  Only this digest is ever persisted, so a leaked database row
// cannot be replayed as the token itself.
func HashTokenRaw(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
