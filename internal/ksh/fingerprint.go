package ksh

import (
	"encoding/hex"

	"golang.org/x/crypto/sha3"

	"github.com/simplescore/simplescore-backend/internal/models"
)

// Fingerprint returns the SHA3-512 digest of raw as 128 lowercase hex characters.
//
// It is the only identity of a chart and is never derived from metadata.
func Fingerprint(raw []byte) string {
	sum := sha3.Sum512(raw)
	return hex.EncodeToString(sum[:])
}

// FingerprintString hashes the UTF-8 encoding of text.
func FingerprintString(text string) string {
	return Fingerprint([]byte(text))
}

// ValidFingerprint reports whether s has the fingerprint format.
func ValidFingerprint(s string) bool {
	return models.ValidFingerprint(s)
}
