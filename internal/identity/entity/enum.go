package entity

import (
	"errors"
)

var (
	ErrUserStatusUnknown    = errors.New("identity: user status is unknown")
	ErrUserStatusBanned     = errors.New("identity: user status is banned")
	ErrUserStatusUnverified = errors.New("identity: user status is unverified")
)

// UserStatus tracks the account lifecycle. Accounts start unverified,
// become active once a contact point is confirmed and can later be
// banned by policy or deactivated on request.
type UserStatus int16

const (
	UserStatusUnknown    UserStatus = 0
	UserStatusUnverified UserStatus = 1
	UserStatusActive     UserStatus = 2
	UserStatusBanned     UserStatus = 3
	UserStatusInactive   UserStatus = 4
)

func (s UserStatus) String() string {
	switch s {
	case UserStatusActive:
		return "Active"
	case UserStatusBanned:
		return "Banned"
	case UserStatusInactive:
		return "Inactive"
	case UserStatusUnverified:
		return "Unverified"
	default:
		return "Unknown"
	}
}

func (s UserStatus) IsUnknown() bool {
	switch s {
	case UserStatusUnverified, UserStatusActive, UserStatusBanned, UserStatusInactive:
		return false
	default:
		return true
	}
}

// Ensure folds values outside the known set onto UserStatusUnknown.
func (s UserStatus) Ensure() UserStatus {
	if s.IsUnknown() {
		return UserStatusUnknown
	}
	return s
}

// ChallengePurpose scopes a short lived challenge to the flow that
// created it. Passcode driven flows never use challenges, they carry
// their own state.
type ChallengePurpose int16

const (
	ChallengePurposeUnknown         ChallengePurpose = 0
	ChallengePurposeMFALogin        ChallengePurpose = 1
	ChallengePurposeMFASetupConfirm ChallengePurpose = 2
)

type MFAType int16

const (
	MFATypeUnknown    MFAType = 0
	MFATypeTOTP       MFAType = 1
	MFATypeSMS        MFAType = 2
	MFATypeBackupCode MFAType = 3
)

// MFATypeFromString parses the wire name of a factor type, unknown
// names fold onto MFATypeUnknown.
func MFATypeFromString(str string) MFAType {
	switch str {
	case "TOTP":
		return MFATypeTOTP
	case "SMS":
		return MFATypeSMS
	case "BackupCode":
		return MFATypeBackupCode
	default:
		return MFATypeUnknown
	}
}

func (t MFAType) String() string {
	switch t {
	case MFATypeTOTP:
		return "TOTP"
	case MFATypeSMS:
		return "SMS"
	case MFATypeBackupCode:
		return "BackupCode"
	default:
		return "Unknown"
	}
}
