package cryptox

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// TokenSize128 provides 128 bits of entropy (32 hex chars). Used for
// password-reset tokens embedded in emailed links.
const TokenSize128 = 16

// GenerateToken creates a cryptographically secure random token of the
// given byte length, hex-encoded so it survives URLs and email clients
// untouched.
func GenerateToken(size int) (string, error) {
	if size <= 0 {
		return "", fmt.Errorf("token size must be positive, got %d", size)
	}

	buf := make([]byte, size)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate random token: %w", err)
	}

	return hex.EncodeToString(buf), nil
}
