package hash

import (
	"golang.org/x/crypto/bcrypt"
)

// Bcrypt implements Hash with bcrypt. The pepper lives in configuration,
// never in the database, and is appended to the plaintext on both sides.
// Note bcrypt ignores input past 72 bytes, so the pepper adds nothing for
// passwords already at that length.
type Bcrypt struct {
	cost   int
	pepper string
}

// NewBcrypt returns a bcrypt hasher. cost is the work factor passed
// straight to bcrypt; pepper may be empty.
func NewBcrypt(cost int, pepper string) *Bcrypt {
	return &Bcrypt{cost: cost, pepper: pepper}
}

// Hash hashes the peppered plaintext.
func (h *Bcrypt) Hash(plaintext string) ([]byte, error) {
	return bcrypt.GenerateFromPassword([]byte(plaintext+h.pepper), h.cost)
}

// Verify reports whether plaintext matches the hashed value.
func (h *Bcrypt) Verify(hashed, plaintext string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plaintext+h.pepper)) == nil
}
