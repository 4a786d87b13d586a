package mfa

// Encryptor seals and opens MFA secrets. Implementations bind the
// ciphertext to the scope, so a value copied between rows fails to
// decrypt.
type Encryptor interface {
	Encrypt(plaintext []byte, scope Scope) (ciphertext []byte, err error)
	Decrypt(ciphertext []byte, scope Scope) (plaintext []byte, err error)
}

// KeyProvider resolves the raw AES-256 key for a scope. Keys must be
// 32 bytes. Implementations may key per tenant or per environment.
type KeyProvider interface {
	Key(scope Scope) ([]byte, error)
}
