package utils

import (
	"golang.org/x/crypto/bcrypt"
)

// HashOTPCode hashes a plaintext one-time passcode using bcrypt. Only the
// hash is ever stored; the plaintext exists in the delivery channel alone.
func HashOTPCode(code string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	return string(hash), err
}

// CheckOTPCodeHash compares a plaintext passcode with a bcrypt hash.
func CheckOTPCodeHash(code, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(code)) == nil
}
