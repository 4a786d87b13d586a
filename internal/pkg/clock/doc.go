// Package clock abstracts the current time behind an interface, so tests
// can pin it and time-dependent logic stays deterministic.
package clock
