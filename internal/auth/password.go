package auth

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"golang.org/x/crypto/bcrypt"
)

// HashSecret creates a bcrypt hash of an account secret.
func HashSecret(secret string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	return string(bytes), err
}

// CheckSecretHash verifies a secret against its stored hash.
func CheckSecretHash(secret, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(secret))
	return err == nil
}

const (
	secretLength   = 12
	secretAlphabet = "abcdefghijkmnpqrstuvwxyzABCDEFGHJKLMNPQRSTUVWXYZ23456789"
)

// GenerateSecret produces the one-time account secret handed to a
// practitioner at creation. Uses crypto/rand; the ambiguous characters
// (0/O, 1/l/I) are left out of the alphabet because the secret is read
// to the practitioner over the phone.
func GenerateSecret() (string, error) {
	out := make([]byte, secretLength)
	max := big.NewInt(int64(len(secretAlphabet)))
	for i := range out {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("auth: generate secret: %w", err)
		}
		out[i] = secretAlphabet[n.Int64()]
	}
	return string(out) + "!", nil
}
