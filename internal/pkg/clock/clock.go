package clock

import "time"

// Clocker hands out the current time. Usecases depend on it instead of
// calling time.Now, so expiry logic can run against a pinned clock.
type Clocker interface {
	Now() time.Time
}

// TimeClocker is the production implementation over time.Now.
type TimeClocker struct{}

// New returns the production clock.
func New() *TimeClocker {
	return &TimeClocker{}
}

func (*TimeClocker) Now() time.Time {
	return time.Now()
}
