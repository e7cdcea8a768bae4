package auth

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"regexp"
)

// Token format: st_{secret}
// Example: st_4f8d2e1b9c7a5f3d2e1b9c7a5f3d2e1b
const (
	// TokenSecretLen is the secret length (hex encoded 16 bytes).
	TokenSecretLen = 32
)

var (
	// ErrInvalidTokenFormat indicates the session token format is invalid.
	ErrInvalidTokenFormat = errors.New("invalid session token format")

	tokenFormatRegex = regexp.MustCompile(`^st_([a-f0-9]{32})$`)
)

// GeneratedToken contains the parts of a newly minted session token.
type GeneratedToken struct {
	Plaintext string // Full token (sent to the client once)
	Hash      string // SHA-256 hash for storage and cache keys
}

// GenerateSessionToken mints a new opaque session token. The plaintext
// goes to the client; only the hash is stored server-side.
func GenerateSessionToken() (*GeneratedToken, error) {
	secretBytes := make([]byte, 16)
	if _, err := rand.Read(secretBytes); err != nil {
		return nil, fmt.Errorf("generate secret: %w", err)
	}

	plaintext := "st_" + hex.EncodeToString(secretBytes)

	return &GeneratedToken{
		Plaintext: plaintext,
		Hash:      QuickHash(plaintext),
	}, nil
}

// ValidateTokenFormat checks if the token matches the expected format.
func ValidateTokenFormat(token string) bool {
	return tokenFormatRegex.MatchString(token)
}
