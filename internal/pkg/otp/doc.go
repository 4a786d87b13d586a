// Package otp wraps time-based one-time passwords for the MFA flows:
// provisioning a secret and URI for an authenticator app, then checking
// the codes it produces.
package otp
