// Package token generates opaque random credentials.
//
// Credentials are drawn from crypto/rand and encoded with Base64 RawURL so
// they can travel in headers and URLs without escaping. A 32-byte credential
// encodes to 43 characters.
package token
