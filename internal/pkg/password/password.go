package password

import (
	"crypto/sha256"
	"encoding/hex"
)

// Digest returns the unsalted SHA-256 hex digest the account store compares against.
// The format is fixed by sp_UserSignIn and must not change independently of the database.
func Digest(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

// HashToken hashes a refresh token using SHA256
func HashToken(token string) string {
	hash := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hash[:])
}
