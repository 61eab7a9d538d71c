package token

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
)

// DefaultLength is the default credential length in bytes.
const DefaultLength = 32

// ErrInvalidLength is returned for non-positive lengths.
var ErrInvalidLength = errors.New("token: length must be positive")

// Generate returns a random credential of DefaultLength bytes.
func Generate() (string, error) {
	return GenerateWithLength(DefaultLength)
}

// GenerateWithLength returns a random credential of length bytes,
// Base64 RawURL encoded.
func GenerateWithLength(length int) (string, error) {
	if length <= 0 {
		return "", ErrInvalidLength
	}
	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// GeneratePrefixed returns prefix followed by a random credential of length bytes.
func GeneratePrefixed(prefix string, length int) (string, error) {
	body, err := GenerateWithLength(length)
	if err != nil {
		return "", err
	}
	return prefix + body, nil
}

// EncodedLength returns the encoded size of a credential of length bytes.
func EncodedLength(length int) int {
	return base64.RawURLEncoding.EncodedLen(length)
}
