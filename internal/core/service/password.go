package service

import (
	"golang.org/x/crypto/bcrypt"
)

// bcrypt only hashes the first 72 bytes of input; longer passwords are
// truncated, not rejected.
const maxPasswordBytes = 72

// HashPassword returns a bcrypt hash of password with a per-call random salt.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword(passwordBytes(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether password matches hash. Malformed hashes and
// any internal bcrypt failure count as "no match"; verification never errors
// out to the caller.
func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), passwordBytes(password)) == nil
}

func passwordBytes(password string) []byte {
	b := []byte(password)
	if len(b) > maxPasswordBytes {
		b = b[:maxPasswordBytes]
	}
	return b
}
