package utils

import (
	"crypto/rand"
	"encoding/base64"
)

// TokenBytes is the entropy of an invite token. 16 bytes matches the
// unguessability of a 128-bit capability credential.
const TokenBytes = 16

// GenerateToken returns an opaque URL-safe credential string. The token is
// the sole invitee-facing key for an invite, so it must come from a CSPRNG.
func GenerateToken() (string, error) {
	byt := make([]byte, TokenBytes)
	if _, err := rand.Read(byt); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(byt), nil
}

// MustGenerateToken panics when the CSPRNG fails, which only happens when
// the OS entropy source is broken.
func MustGenerateToken() string {
	token, err := GenerateToken()
	if err != nil {
		panic(err)
	}
	return token
}
