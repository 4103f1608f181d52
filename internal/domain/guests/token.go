package guests

import (
	"crypto/rand"
	"encoding/hex"
)

// NewToken genera el token del link de submission: 32 bytes de
// crypto/rand, hex => 64 chars. La unicidad real la garantiza el
// unique constraint del storage; ante colisión se reintenta el insert.
func NewToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
