package mfa

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// Errors reported by the AES-GCM encryptor.
var (
	ErrEncryptorNotConfigured       = errors.New("mfacrypto: encryptor not configured")
	ErrPlaintextEmpty               = errors.New("mfacrypto: plaintext is empty")
	ErrInvalidKeyLength             = errors.New("mfacrypto: invalid key length")
	ErrUnexpectedNonceSize          = errors.New("mfacrypto: unexpected nonce size")
	ErrCiphertextTooShort           = errors.New("mfacrypto: ciphertext too short")
	ErrUnsupportedCiphertextVersion = errors.New("mfacrypto: unsupported ciphertext version")
	ErrDecryptFailed                = errors.New("mfacrypto: decrypt failed")
	ErrMissingStaticKey             = errors.New("mfacrypto: missing static key")
)

// Ciphertext layout, shared by every stored value:
//
//	[0:2]  big-endian version, currently 1
//	[2:14] nonce
//	[14:]  gcm.Seal output (ciphertext plus tag)
const aesGCMVersion uint16 = 1

const (
	gcmNonceSize = 12
	aesKeyLen    = 32
)

// AESGCMEncryptor implements Encryptor with AES-256-GCM. The scope is fed
// into GCM as AAD, so decrypting under a different user or purpose fails.
type AESGCMEncryptor struct {
	keys KeyProvider
}

// NewAESGCMEncryptor builds an encryptor on top of the given key provider.
func NewAESGCMEncryptor(keys KeyProvider) *AESGCMEncryptor {
	return &AESGCMEncryptor{keys: keys}
}

// Encrypt seals plaintext under the scope and prepends version and nonce.
func (e *AESGCMEncryptor) Encrypt(plaintext []byte, scope Scope) ([]byte, error) {
	if e == nil || e.keys == nil {
		return nil, ErrEncryptorNotConfigured
	}
	if len(plaintext) == 0 {
		return nil, ErrPlaintextEmpty
	}

	gcm, err := e.aead(scope)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, gcmNonceSize)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("mfacrypto: nonce generation failed: %w", err)
	}

	sealed := gcm.Seal(nil, nonce, plaintext, scopeAAD(scope))

	out := make([]byte, 2+gcmNonceSize+len(sealed))
	binary.BigEndian.PutUint16(out[0:2], aesGCMVersion)
	copy(out[2:2+gcmNonceSize], nonce)
	copy(out[2+gcmNonceSize:], sealed)

	return out, nil
}

// Decrypt opens a ciphertext produced by Encrypt under the same scope.
// Wrong key, wrong scope and tampering all surface as ErrDecryptFailed.
func (e *AESGCMEncryptor) Decrypt(ciphertext []byte, scope Scope) ([]byte, error) {
	if e == nil || e.keys == nil {
		return nil, ErrEncryptorNotConfigured
	}
	if len(ciphertext) < 2+gcmNonceSize+1 {
		return nil, ErrCiphertextTooShort
	}

	version := binary.BigEndian.Uint16(ciphertext[0:2])
	if version != aesGCMVersion {
		return nil, fmt.Errorf("mfacrypto: unsupported ciphertext version %d: %w", version, ErrUnsupportedCiphertextVersion)
	}

	gcm, err := e.aead(scope)
	if err != nil {
		return nil, err
	}

	nonce := ciphertext[2 : 2+gcmNonceSize]
	sealed := ciphertext[2+gcmNonceSize:]

	plain, err := gcm.Open(nil, nonce, sealed, scopeAAD(scope))
	if err != nil {
		return nil, ErrDecryptFailed
	}
	return plain, nil
}

// aead resolves the scope key and prepares the AES-256-GCM cipher.
func (e *AESGCMEncryptor) aead(scope Scope) (cipher.AEAD, error) {
	key, err := e.keys.Key(scope)
	if err != nil {
		return nil, fmt.Errorf("mfacrypto: key provider error: %w", err)
	}
	if len(key) != aesKeyLen {
		return nil, fmt.Errorf("mfacrypto: invalid key length %d (want %d for AES-256): %w", len(key), aesKeyLen, ErrInvalidKeyLength)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("mfacrypto: aes init failed: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("mfacrypto: gcm init failed: %w", err)
	}
	if gcm.NonceSize() != gcmNonceSize {
		return nil, fmt.Errorf("mfacrypto: unexpected nonce size %d (want %d): %w", gcm.NonceSize(), gcmNonceSize, ErrUnexpectedNonceSize)
	}
	return gcm, nil
}

// scopeAAD hashes the scope into a fixed-length canonical form. Changing
// the canonical string breaks decryption of every stored ciphertext.
func scopeAAD(s Scope) []byte {
	sum := sha256.Sum256([]byte(fmt.Sprintf("uid=%d\npurpose=%s\n", s.UserID, s.Purpose)))
	return sum[:]
}

// StaticKeyProvider hands out one fixed key for every scope. It serves
// local development; production wires a KMS-backed provider instead.
type StaticKeyProvider struct {
	KeyBytes []byte
}

// Key returns a copy of the static key.
func (p StaticKeyProvider) Key(_ Scope) ([]byte, error) {
	if len(p.KeyBytes) == 0 {
		return nil, ErrMissingStaticKey
	}
	k := make([]byte, len(p.KeyBytes))
	copy(k, p.KeyBytes)
	return k, nil
}
