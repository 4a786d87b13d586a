package entity

import (
	"time"

	"github.com/tenangapp/tenang/internal/pkg/valueobject"
)

type User struct {
	ID              int64
	Email           string
	Phone           string
	FullName        string
	AvatarURL       string
	Status          UserStatus
	EmailVerifiedAt *time.Time
	PhoneVerifiedAt *time.Time
	UpdatedAt       time.Time
	DeletedAt       *time.Time
}

// MFAFactor is one enrolled second factor. Secret is stored encrypted,
// KeyVersion names the encryption key generation that sealed it.
type MFAFactor struct {
	ID           int64
	UserID       int64
	Type         MFAType
	FriendlyName string
	Secret       []byte
	KeyVersion   int16
	IsVerified   bool
}

// UserCredential holds the password hash, never the plaintext.
type UserCredential struct {
	UserID    int64
	Password  string
	UpdatedAt time.Time
}

type Challenge struct {
	ID        int64
	UserID    int64
	Token     string
	Purpose   ChallengePurpose
	ExpiresAt time.Time
	Metadata  valueobject.JSONMap
}

type MFABackupCode struct {
	ID     int64
	UserID int64
	Code   string
}

type RefreshToken struct {
	ID                int64
	UserID            int64
	Token             string
	ExpiresAt         time.Time
	Revoked           bool
	ReplacedByTokenID int64
	Metadata          valueobject.JSONMap
}

// Projection and write models consumed by the outbound store.

// ChallengeUser is the challenge row joined with its owner, loaded in
// one query so token checks and status checks see the same snapshot.
type ChallengeUser struct {
	ChallengeID       int64
	ChallengePurpose  ChallengePurpose
	ChallengeToken    string
	ChallengeMetadata valueobject.JSONMap
	UserID            int64
	UserEmail         string
	UserStatus        UserStatus
}

type UserLoginInfo struct {
	ID       int64
	Email    string
	Status   UserStatus
	Password string
	HasMFA   bool
}

type UserCredentialInfo struct {
	ID       int64
	Email    string
	Status   UserStatus
	Password string
}

// RotateRefreshToken carries one rotation step, the old row gets revoked
// and linked to the new one in a single transaction.
type RotateRefreshToken struct {
	NewID        int64
	OldID        int64
	UserID       int64
	NewToken     string
	NewExpiresAt time.Time
}

type UserRefreshToken struct {
	UserID                   int64
	UserEmail                string
	UserStatus               UserStatus
	RefreshID                int64
	RefreshToken             string
	RefreshRevoked           bool
	RefreshReplacedByTokenID *int64
	RefreshExpiresAt         time.Time
}

type NewUser struct {
	ID        int64
	Email     string
	Phone     string
	FullName  string
	AvatarURL string
	Status    UserStatus
	CreatedBy int64
	UpdatedBy int64
}
