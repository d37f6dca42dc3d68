package domain

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

// Credential digests are opaque strings of the form base64(salt):base64(key),
// where key = PBKDF2-SHA256(secret, salt). The plaintext secret is never
// stored, logged, or compared directly.
const (
	saltLength     = 16
	kdfIterations  = 4096
	derivedKeyLen  = 32
	digestSegments = 2
)

// HashSecret derives a salted digest for a plain secret. Each call generates a
// fresh random salt, so two digests of the same secret will differ.
func HashSecret(secret string) string {
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		// crypto/rand never fails on supported platforms; treat a failure
		// as unrecoverable rather than silently weakening the salt.
		panic(err)
	}
	key := pbkdf2.Key([]byte(secret), salt, kdfIterations, derivedKeyLen, sha256.New)
	return base64.StdEncoding.EncodeToString(salt) + ":" + base64.StdEncoding.EncodeToString(key)
}

// VerifySecret reports whether secret matches the stored digest. A malformed
// or corrupt digest yields false, never an error, and the hash comparison is
// constant-time.
func VerifySecret(secret, digest string) bool {
	parts := strings.Split(digest, ":")
	if len(parts) != digestSegments {
		return false
	}
	salt, err := base64.StdEncoding.DecodeString(parts[0])
	if err != nil || len(salt) != saltLength {
		return false
	}
	stored, err := base64.StdEncoding.DecodeString(parts[1])
	if err != nil || len(stored) != derivedKeyLen {
		return false
	}
	key := pbkdf2.Key([]byte(secret), salt, kdfIterations, derivedKeyLen, sha256.New)
	return subtle.ConstantTimeCompare(stored, key) == 1
}
