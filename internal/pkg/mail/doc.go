// Package mail sends email behind a small provider-agnostic interface.
// The notification module depends on Mail and Message only; SMTP delivery
// lives in this package and other providers can slot in beside it.
package mail
