package utils

import (
	"crypto/rand"
	"encoding/hex"
)

// RandomHex returns n random bytes hex-encoded. Used for the random
// tail of payment ticket references.
func RandomHex(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// MustRandomHex panics if the system entropy source fails.
func MustRandomHex(n int) string {
	s, err := RandomHex(n)
	if err != nil {
		panic("failed to generate random hex: " + err.Error())
	}
	return s
}
