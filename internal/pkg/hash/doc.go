// Package hash hashes and verifies secrets behind one small interface.
//
// Bcrypt handles passwords, Argon2id handles MFA backup codes, and
// HMAC-SHA256 fingerprints high-volume values like refresh and challenge
// tokens where a keyed deterministic hash is required for lookups.
package hash
