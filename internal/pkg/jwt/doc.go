// Package jwt issues and verifies the HS512 access tokens used by the
// HTTP layer, and carries the verified claims through the request context.
package jwt
