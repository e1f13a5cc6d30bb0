package crypto

import (
	"crypto/rand"
	"errors"
	"math/big"
)

const (
	secretChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_"

	MinSecretLength     = 32
	MaxSecretLength     = 256
	DefaultSecretLength = 64
)

var ErrSecretLength = errors.New("secret length must be between 32 and 256")

// GenerateSecret returns a random signing key drawn from an alphabet that is
// safe to paste into a .env file unquoted.
func GenerateSecret(length int) (string, error) {
	if length < MinSecretLength || length > MaxSecretLength {
		return "", ErrSecretLength
	}

	result := make([]byte, length)
	for i := range result {
		ch, err := randChar(secretChars)
		if err != nil {
			return "", err
		}
		result[i] = ch
	}

	return string(result), nil
}

// randChar picks a random character from charset using crypto/rand.
func randChar(charset string) (byte, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
	if err != nil {
		return 0, err
	}
	return charset[n.Int64()], nil
}
