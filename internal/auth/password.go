package auth

import (
	"crypto/subtle"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword returns a bcrypt hash using the given cost.
func HashPassword(plain string, cost int) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// CheckPassword compares the stored credential against the submitted one.
// The default path expects a bcrypt hash. legacyPlaintext switches to a
// byte-for-byte comparison against the legacy plaintext column; it exists
// only so historical deployments can be reproduced for compatibility testing
// and must stay off in production.
func CheckPassword(stored, submitted string, legacyPlaintext bool) bool {
	if legacyPlaintext {
		return subtle.ConstantTimeCompare([]byte(stored), []byte(submitted)) == 1
	}
	return bcrypt.CompareHashAndPassword([]byte(stored), []byte(submitted)) == nil
}
