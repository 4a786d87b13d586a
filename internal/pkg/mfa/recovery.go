package mfa

import (
	"crypto/rand"
	"math/big"
	"strings"
)

// RecoveryCodeGenerator produces one-time MFA recovery code sets.
type RecoveryCodeGenerator interface {
	Generate() ([]string, error)
}

// recoveryAlphabet is the 62-character set recovery codes draw from.
const recoveryAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

// RecoveryCode generates codes in the form XXXX-XXXX-XXXX, each X drawn
// uniformly from recoveryAlphabet via crypto/rand.
type RecoveryCode struct{}

// NewRecoveryCode returns a RecoveryCode generator.
func NewRecoveryCode() *RecoveryCode {
	return &RecoveryCode{}
}

// Generate returns 10 distinct codes.
func (rc *RecoveryCode) Generate() ([]string, error) {
	out := make([]string, 0, 10)
	seen := make(map[string]struct{}, 10)

	for len(out) < 10 {
		code, err := rc.code()
		if err != nil {
			return nil, err
		}
		// reroll the rare duplicate
		if _, ok := seen[code]; ok {
			continue
		}
		seen[code] = struct{}{}
		out = append(out, code)
	}

	return out, nil
}

func (rc *RecoveryCode) code() (string, error) {
	var sb strings.Builder
	sb.Grow(14)

	for i := range 12 {
		if i == 4 || i == 8 {
			sb.WriteByte('-')
		}
		idx, err := rand.Int(rand.Reader, big.NewInt(int64(len(recoveryAlphabet))))
		if err != nil {
			return "", err
		}
		sb.WriteByte(recoveryAlphabet[idx.Int64()])
	}

	return sb.String(), nil
}
