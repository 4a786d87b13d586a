package mfa

// Purpose separates key material by what the ciphertext protects.
type Purpose string

// Stored ciphertexts embed the purpose in their AAD, so these values must
// never change.
const (
	PurposeOTPSeed     Purpose = "otp_seed"
	PurposeRecoveryKey Purpose = "recovery_key"
)

// Scope is the AAD identity of a ciphertext: which user it belongs to and
// what it protects. Encrypt and Decrypt must agree on it.
type Scope struct {
	UserID  int64
	Purpose Purpose
}
