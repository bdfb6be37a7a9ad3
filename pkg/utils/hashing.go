package utils

import (
	"crypto/sha256"
	"encoding/hex"

	"golang.org/x/crypto/bcrypt"
)

// Fingerprint is the dedup key of an inbound SMS: lowercase hex sha256 of "sender|message".
// Callers pass already-trimmed values.
func Fingerprint(sender, message string) string {
	sum := sha256.Sum256([]byte(sender + "|" + message))
	return hex.EncodeToString(sum[:])
}

func HashSecret(secret string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(secret), 10)
	return string(bytes), err
}

func CompareSecret(hashedSecret string, plainSecret string) error {

	return bcrypt.CompareHashAndPassword([]byte(hashedSecret), []byte(plainSecret))

}

// CacheKey hashes an arbitrary list of parts into a short stable key.
func CacheKey(parts ...string) string {
	h := sha256.New()
	for _, p := range parts {
		h.Write([]byte(p))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))[:32]
}
