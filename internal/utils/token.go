package utils

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
)

// claimTokenBytes gives a 64 character hex link token.
const claimTokenBytes = 32

// RandomToken returns a new raw claim token for a self-service link.
func RandomToken() (string, error) {
	return randomHex(claimTokenBytes)
}

// HashToken returns the SHA-256 hex digest of a raw token. Only the digest
// is stored, so a leaked table cannot be turned back into working links.
func HashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

// randomHex returns a hex-encoded string generated from n bytes of
// cryptographically secure random data.
func randomHex(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
