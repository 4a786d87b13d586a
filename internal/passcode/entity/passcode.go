package entity

import (
	"errors"
	"time"
)

var (
	ErrNotFound         = errors.New("passcode: no active code for this address and purpose")
	ErrAlreadyUsed      = errors.New("passcode: code has already been used")
	ErrExpired          = errors.New("passcode: code has expired")
	ErrAttemptsExceeded = errors.New("passcode: attempt limit reached")
	ErrCodeMismatch     = errors.New("passcode: submitted code does not match")
)

// MaxAttempts is how many verification attempts a single code absorbs before
// it is dead. Fixed: 3 guesses against a 900,000-value space is the security
// margin of the whole scheme.
const MaxAttempts int16 = 3

// Passcode is one issued code. mutated only by verification (attempts, used)
// and removed by the reaper once expired.
type Passcode struct {
	ID        int64
	UserID    int64
	Channel   Channel
	Address   string
	Purpose   Purpose
	Code      string
	Used      bool
	Attempts  int16
	ExpiresAt time.Time
	CreatedAt time.Time
}

func (p Passcode) IsExpired(now time.Time) bool {
	return !p.ExpiresAt.After(now)
}

func (p Passcode) IsExhausted() bool {
	return p.Attempts >= MaxAttempts
}
