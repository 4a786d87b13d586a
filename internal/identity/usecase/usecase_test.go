package usecase

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/tenangapp/tenang/internal/identity/entity"
	pcusecase "github.com/tenangapp/tenang/internal/passcode/usecase"
	"github.com/tenangapp/tenang/internal/pkg/config"
	"github.com/tenangapp/tenang/internal/pkg/goerror"
	"github.com/tenangapp/tenang/internal/pkg/instrument"
	"github.com/tenangapp/tenang/internal/pkg/jwt"
	"github.com/tenangapp/tenang/internal/pkg/mfa"
	"github.com/tenangapp/tenang/internal/pkg/storage"
	"github.com/tenangapp/tenang/internal/pkg/validator"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type fakeUID struct {
	mu   sync.Mutex
	next int64
}

func (u *fakeUID) Generate() int64 {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.next++
	return u.next
}

type fakeStringID struct {
	mu     sync.Mutex
	prefix string
	next   int64
}

func (u *fakeStringID) Generate() string {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.next++
	return u.prefix + "-" + strconv.FormatInt(u.next, 10)
}

type stubConfig struct {
	config.Config
	minute  time.Duration
	day     time.Duration
	strings map[string]string
	int64s  map[string]int64
}

func (c stubConfig) GetMinute(string) time.Duration { return c.minute }
func (c stubConfig) GetDay(string) time.Duration    { return c.day }
func (c stubConfig) GetString(key string) string    { return c.strings[key] }
func (c stubConfig) GetInt64(key string) int64      { return c.int64s[key] }

// stubHash derives "h:<plaintext>" so seeded rows and flow output can agree
// on hashes without real key material.
type stubHash struct {
	hashErr   error
	rejectAll bool
}

func (h stubHash) Hash(plaintext string) ([]byte, error) {
	if h.hashErr != nil {
		return nil, h.hashErr
	}
	return []byte("h:" + plaintext), nil
}

func (h stubHash) Verify(hashed, plaintext string) bool {
	if h.rejectAll {
		return false
	}
	return hashed == "h:"+plaintext
}

// hashOf mirrors stubHash for seeding expectations in tests.
func hashOf(plaintext string) string { return "h:" + plaintext }

type fakeJWT struct {
	genErr error
}

func (j fakeJWT) Generate(uid int64, email string) (string, error) {
	if j.genErr != nil {
		return "", j.genErr
	}
	return "jwt-" + strconv.FormatInt(uid, 10) + "-" + email, nil
}

func (j fakeJWT) Verify(string) (jwt.Claims, error) {
	return jwt.Claims{}, errors.New("verify is not exercised here")
}

const testTOTPSecret = "JBSWY3DPEHPK3PXP"

// fakeTOTP accepts exactly one code and remembers the secret it was checked
// against.
type fakeTOTP struct {
	accept     string
	genErr     error
	lastSecret string
}

func (f *fakeTOTP) Generate(accountName string) (string, string, error) {
	if f.genErr != nil {
		return "", "", f.genErr
	}
	return testTOTPSecret, "otpauth://totp/Tenang:" + accountName + "?secret=" + testTOTPSecret, nil
}

func (f *fakeTOTP) Validate(code, secret string, _ time.Time) bool {
	f.lastSecret = secret
	return code == f.accept
}

func (f *fakeTOTP) GenerateCode(string, time.Time) (string, error) {
	return f.accept, nil
}

// plainEncryptor prefixes ciphertext with "enc:" so tests can tell encrypted
// bytes from plaintext while still reading through them.
type plainEncryptor struct {
	encErr    error
	decErr    error
	lastScope mfa.Scope
}

func (e *plainEncryptor) Encrypt(plaintext []byte, scope mfa.Scope) ([]byte, error) {
	if e.encErr != nil {
		return nil, e.encErr
	}
	e.lastScope = scope
	return append([]byte("enc:"), plaintext...), nil
}

func (e *plainEncryptor) Decrypt(ciphertext []byte, scope mfa.Scope) ([]byte, error) {
	if e.decErr != nil {
		return nil, e.decErr
	}
	e.lastScope = scope
	return bytes.TrimPrefix(ciphertext, []byte("enc:")), nil
}

func encrypted(plaintext string) []byte { return []byte("enc:" + plaintext) }

type fakeRecovery struct {
	codes []string
	err   error
}

func (r fakeRecovery) Generate() ([]string, error) {
	if r.err != nil {
		return nil, r.err
	}
	if len(r.codes) != 0 {
		return r.codes, nil
	}
	return []string{"aaaa-1111-AAAA", "bbbb-2222-BBBB", "cccc-3333-CCCC"}, nil
}

// fakePasscode stands in for the passcode engine. Issue hands back a fixed
// code, Verify returns whatever lifecycle error the test scripted.
type fakePasscode struct {
	mu        sync.Mutex
	issueErr  error
	verifyErr error
	issued    []pcusecase.IssueInput
	verified  []pcusecase.VerifyInput
}

func (f *fakePasscode) Issue(_ context.Context, in pcusecase.IssueInput) (*pcusecase.IssueOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.issueErr != nil {
		return nil, f.issueErr
	}

	f.issued = append(f.issued, in)
	return &pcusecase.IssueOutput{
		Code:      "123456",
		ExpiresAt: time.Date(2025, 6, 1, 9, 10, 0, 0, time.UTC),
	}, nil
}

func (f *fakePasscode) Verify(_ context.Context, in pcusecase.VerifyInput) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.verified = append(f.verified, in)
	return f.verifyErr
}

func (f *fakePasscode) issuedCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.issued)
}

func (f *fakePasscode) onlyIssued(t *testing.T) pcusecase.IssueInput {
	t.Helper()

	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.issued) != 1 {
		t.Fatalf("expected exactly one issued passcode, got %d", len(f.issued))
	}
	return f.issued[0]
}

func (f *fakePasscode) onlyVerified(t *testing.T) pcusecase.VerifyInput {
	t.Helper()

	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.verified) != 1 {
		t.Fatalf("expected exactly one verify attempt, got %d", len(f.verified))
	}
	return f.verified[0]
}

// fakeMessaging captures published events instead of hitting a broker.
type fakeMessaging struct {
	mu              sync.Mutex
	failOn          map[string]error
	passcodeIssued  []PasscodeIssuedEvent
	userRegistered  []UserRegisteredEvent
	passwordChanged []PasswordChangedEvent
}

func newFakeMessaging() *fakeMessaging {
	return &fakeMessaging{failOn: map[string]error{}}
}

func (f *fakeMessaging) PublishPasscodeIssued(_ context.Context, msg PasscodeIssuedEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.failOn["PublishPasscodeIssued"]; err != nil {
		return err
	}
	f.passcodeIssued = append(f.passcodeIssued, msg)
	return nil
}

func (f *fakeMessaging) PublishUserRegistered(_ context.Context, msg UserRegisteredEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.failOn["PublishUserRegistered"]; err != nil {
		return err
	}
	f.userRegistered = append(f.userRegistered, msg)
	return nil
}

func (f *fakeMessaging) PublishPasswordChanged(_ context.Context, msg PasswordChangedEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.failOn["PublishPasswordChanged"]; err != nil {
		return err
	}
	f.passwordChanged = append(f.passwordChanged, msg)
	return nil
}

func (f *fakeMessaging) onlyPasscodeIssued(t *testing.T) PasscodeIssuedEvent {
	t.Helper()

	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.passcodeIssued) != 1 {
		t.Fatalf("expected exactly one passcode event, got %d", len(f.passcodeIssued))
	}
	return f.passcodeIssued[0]
}

// fakeStorage records uploads. PutObject drains the reader so size guards
// wrapped around it still trip.
type fakeStorage struct {
	mu     sync.Mutex
	putErr error
	puts   []storedObject
}

type storedObject struct {
	Bucket      string
	Key         string
	ContentType string
	Metadata    map[string]string
	Data        []byte
}

func (f *fakeStorage) PutObject(_ context.Context, bucket, key string, r io.Reader, opts storage.PutOptions) (storage.ObjectInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.putErr != nil {
		return storage.ObjectInfo{}, f.putErr
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return storage.ObjectInfo{}, err
	}

	f.puts = append(f.puts, storedObject{
		Bucket:      bucket,
		Key:         key,
		ContentType: opts.ContentType,
		Metadata:    opts.Metadata,
		Data:        data,
	})
	return storage.ObjectInfo{Bucket: bucket, Key: key, Size: int64(len(data)), ContentType: opts.ContentType}, nil
}

func (f *fakeStorage) GetObject(context.Context, string, string, storage.GetOptions) (io.ReadCloser, storage.ObjectInfo, error) {
	return nil, storage.ObjectInfo{}, goerror.ErrNotFound
}

func (f *fakeStorage) StatObject(context.Context, string, string) (storage.ObjectInfo, error) {
	return storage.ObjectInfo{}, goerror.ErrNotFound
}

func (f *fakeStorage) DeleteObject(context.Context, string, string) error { return nil }

func (f *fakeStorage) ListObjects(context.Context, string, string, storage.ListOptions) ([]storage.ObjectInfo, error) {
	return nil, nil
}

func (f *fakeStorage) PresignGet(context.Context, string, string, time.Duration) (string, error) {
	return "", storage.ErrMissingSigner
}

func (f *fakeStorage) PresignPut(context.Context, string, string, storage.PutOptions, time.Duration) (string, error) {
	return "", storage.ErrMissingSigner
}

func (f *fakeStorage) Close() error { return nil }

func (f *fakeStorage) onlyPut(t *testing.T) storedObject {
	t.Helper()

	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.puts) != 1 {
		t.Fatalf("expected exactly one stored object, got %d", len(f.puts))
	}
	return f.puts[0]
}

// fakeRepo is an in-memory stand-in for the identity store. Reads serve the
// seeded rows, writes are recorded so tests can inspect what was persisted.
type fakeRepo struct {
	mu     sync.Mutex
	failOn map[string]error

	usersByEmail   map[string]*entity.User
	usersByPhone   map[string]*entity.User
	loginInfos     map[string]*entity.UserLoginInfo
	credentials    map[int64]*entity.UserCredentialInfo
	challengeUsers map[string]*entity.ChallengeUser
	refreshRows    map[string]*entity.UserRefreshToken
	mfaFactors     map[int64][]entity.MFAFactor
	backupCodes    map[int64][]entity.MFABackupCode

	backupCodeMiss bool
	rotateMiss     bool

	registrations      []entity.NewUser
	registrationHash   map[int64]string
	challenges         []entity.Challenge
	createdRefresh     []entity.RefreshToken
	exchangedRefresh   []entity.RefreshToken
	consumedChallenges []int64
	rotations          []entity.RotateRefreshToken
	revokedTokens      []string
	revokedAllFor      []int64
	usedBackupCodes    []int64
	touchedFactors     []int64
	profileNames       map[int64]string
	avatarURLs         map[int64]string
	credentialHash     map[int64]string
	emailVerified      []int64
	phoneVerified      []int64
	resetHash          map[int64]string
	newFactors         []entity.MFAFactor
	newBackupRows      []entity.MFABackupCode
	newBackupFactor    *entity.MFAFactor
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		failOn:           map[string]error{},
		usersByEmail:     map[string]*entity.User{},
		usersByPhone:     map[string]*entity.User{},
		loginInfos:       map[string]*entity.UserLoginInfo{},
		credentials:      map[int64]*entity.UserCredentialInfo{},
		challengeUsers:   map[string]*entity.ChallengeUser{},
		refreshRows:      map[string]*entity.UserRefreshToken{},
		mfaFactors:       map[int64][]entity.MFAFactor{},
		backupCodes:      map[int64][]entity.MFABackupCode{},
		registrationHash: map[int64]string{},
		profileNames:     map[int64]string{},
		avatarURLs:       map[int64]string{},
		credentialHash:   map[int64]string{},
		resetHash:        map[int64]string{},
	}
}

// seedUser registers a user for every read path at once: contact lookups,
// login info under both identifiers, and credential info.
func (f *fakeRepo) seedUser(u entity.User, passwordHash string, hasMFA bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	cp := u
	f.usersByEmail[u.Email] = &cp
	if u.Phone != "" {
		f.usersByPhone[u.Phone] = &cp
	}

	li := entity.UserLoginInfo{ID: u.ID, Email: u.Email, Status: u.Status, Password: passwordHash, HasMFA: hasMFA}
	f.loginInfos[u.Email] = &li
	if u.Phone != "" {
		f.loginInfos[u.Phone] = &li
	}

	f.credentials[u.ID] = &entity.UserCredentialInfo{ID: u.ID, Email: u.Email, Status: u.Status, Password: passwordHash}
}

func (f *fakeRepo) seedChallengeUser(cu entity.ChallengeUser) {
	f.mu.Lock()
	defer f.mu.Unlock()

	cp := cu
	f.challengeUsers[cu.ChallengeToken] = &cp
}

func (f *fakeRepo) seedRefreshToken(rt entity.UserRefreshToken) {
	f.mu.Lock()
	defer f.mu.Unlock()

	cp := rt
	f.refreshRows[rt.RefreshToken] = &cp
}

func (f *fakeRepo) seedMFAFactor(fc entity.MFAFactor) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.mfaFactors[fc.UserID] = append(f.mfaFactors[fc.UserID], fc)
}

func (f *fakeRepo) seedBackupCode(bc entity.MFABackupCode) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.backupCodes[bc.UserID] = append(f.backupCodes[bc.UserID], bc)
}

func (f *fakeRepo) GetUserLoginInfo(_ context.Context, identifier string) (*entity.UserLoginInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.failOn["GetUserLoginInfo"]; err != nil {
		return nil, err
	}

	li, ok := f.loginInfos[identifier]
	if !ok {
		return nil, goerror.ErrNotFound
	}
	cp := *li
	return &cp, nil
}

func (f *fakeRepo) GetUserCredentialInfo(_ context.Context, id int64) (*entity.UserCredentialInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.failOn["GetUserCredentialInfo"]; err != nil {
		return nil, err
	}

	ci, ok := f.credentials[id]
	if !ok {
		return nil, goerror.ErrNotFound
	}
	cp := *ci
	return &cp, nil
}

func (f *fakeRepo) GetChallengeUserByTokenPurpose(_ context.Context, token string, p entity.ChallengePurpose) (*entity.ChallengeUser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.failOn["GetChallengeUserByTokenPurpose"]; err != nil {
		return nil, err
	}

	cu, ok := f.challengeUsers[token]
	if !ok || cu.ChallengePurpose != p {
		return nil, goerror.ErrNotFound
	}
	cp := *cu
	return &cp, nil
}

func (f *fakeRepo) GetUserRefreshToken(_ context.Context, token string) (*entity.UserRefreshToken, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.failOn["GetUserRefreshToken"]; err != nil {
		return nil, err
	}

	rt, ok := f.refreshRows[token]
	if !ok {
		return nil, goerror.ErrNotFound
	}
	cp := *rt
	return &cp, nil
}

func (f *fakeRepo) GetUserByEmail(_ context.Context, email string, includeDeleted bool) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.failOn["GetUserByEmail"]; err != nil {
		return nil, err
	}

	u, ok := f.usersByEmail[email]
	if !ok || (u.DeletedAt != nil && !includeDeleted) {
		return nil, goerror.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeRepo) GetUserByPhone(_ context.Context, phone string, includeDeleted bool) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.failOn["GetUserByPhone"]; err != nil {
		return nil, err
	}

	u, ok := f.usersByPhone[phone]
	if !ok || (u.DeletedAt != nil && !includeDeleted) {
		return nil, goerror.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeRepo) GetMFAFactorByUserID(_ context.Context, userID int64, isVerified bool) ([]entity.MFAFactor, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.failOn["GetMFAFactorByUserID"]; err != nil {
		return nil, err
	}

	var out []entity.MFAFactor
	for _, fc := range f.mfaFactors[userID] {
		if fc.IsVerified == isVerified {
			out = append(out, fc)
		}
	}
	return out, nil
}

func (f *fakeRepo) GetMFABackupCodeByUserID(_ context.Context, userID int64) ([]entity.MFABackupCode, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.failOn["GetMFABackupCodeByUserID"]; err != nil {
		return nil, err
	}

	return append([]entity.MFABackupCode(nil), f.backupCodes[userID]...), nil
}

func (f *fakeRepo) CreateRefreshToken(_ context.Context, in entity.RefreshToken) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.failOn["CreateRefreshToken"]; err != nil {
		return err
	}

	f.createdRefresh = append(f.createdRefresh, in)
	return nil
}

func (f *fakeRepo) CreateChallenge(_ context.Context, in entity.Challenge) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.failOn["CreateChallenge"]; err != nil {
		return err
	}

	f.challenges = append(f.challenges, in)
	return nil
}

func (f *fakeRepo) RevokeRefreshToken(_ context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.failOn["RevokeRefreshToken"]; err != nil {
		return err
	}

	f.revokedTokens = append(f.revokedTokens, token)
	return nil
}

func (f *fakeRepo) RevokeAllRefreshToken(_ context.Context, userID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.failOn["RevokeAllRefreshToken"]; err != nil {
		return err
	}

	f.revokedAllFor = append(f.revokedAllFor, userID)
	return nil
}

func (f *fakeRepo) MarkMFABackupCodeUsed(_ context.Context, bcID, _ int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.failOn["MarkMFABackupCodeUsed"]; err != nil {
		return false, err
	}
	if f.backupCodeMiss {
		return false, nil
	}

	f.usedBackupCodes = append(f.usedBackupCodes, bcID)
	return true, nil
}

func (f *fakeRepo) UpdateMFALastUsedAt(_ context.Context, factorID, _ int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.failOn["UpdateMFALastUsedAt"]; err != nil {
		return err
	}

	f.touchedFactors = append(f.touchedFactors, factorID)
	return nil
}

func (f *fakeRepo) UpdateUserProfile(_ context.Context, id int64, fullName string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.failOn["UpdateUserProfile"]; err != nil {
		return err
	}

	f.profileNames[id] = fullName
	return nil
}

func (f *fakeRepo) UpdateUserAvatar(_ context.Context, id int64, avatarURL string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.failOn["UpdateUserAvatar"]; err != nil {
		return err
	}

	f.avatarURLs[id] = avatarURL
	return nil
}

func (f *fakeRepo) UpdateUserCredential(_ context.Context, userID int64, hash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.failOn["UpdateUserCredential"]; err != nil {
		return err
	}

	f.credentialHash[userID] = hash
	return nil
}

func (f *fakeRepo) VerifyUserEmail(_ context.Context, userID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.failOn["VerifyUserEmail"]; err != nil {
		return err
	}

	f.emailVerified = append(f.emailVerified, userID)
	return nil
}

func (f *fakeRepo) VerifyUserPhone(_ context.Context, userID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.failOn["VerifyUserPhone"]; err != nil {
		return err
	}

	f.phoneVerified = append(f.phoneVerified, userID)
	return nil
}

func (f *fakeRepo) NewMFAFactorTOTP(_ context.Context, fTOTP entity.MFAFactor, challengeID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.failOn["NewMFAFactorTOTP"]; err != nil {
		return err
	}

	f.newFactors = append(f.newFactors, fTOTP)
	f.consumedChallenges = append(f.consumedChallenges, challengeID)
	return nil
}

func (f *fakeRepo) NewRefreshToken(_ context.Context, ref entity.RefreshToken, challengeID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.failOn["NewRefreshToken"]; err != nil {
		return err
	}

	f.exchangedRefresh = append(f.exchangedRefresh, ref)
	f.consumedChallenges = append(f.consumedChallenges, challengeID)
	return nil
}

func (f *fakeRepo) NewRegistration(_ context.Context, user entity.NewUser, hash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.failOn["NewRegistration"]; err != nil {
		return err
	}

	f.registrations = append(f.registrations, user)
	f.registrationHash[user.ID] = hash
	return nil
}

func (f *fakeRepo) NewBackupCodes(_ context.Context, _ int64, codes []entity.MFABackupCode, factor *entity.MFAFactor) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.failOn["NewBackupCodes"]; err != nil {
		return err
	}

	f.newBackupRows = append(f.newBackupRows, codes...)
	f.newBackupFactor = factor
	return nil
}

func (f *fakeRepo) ResetUserPassword(_ context.Context, userID int64, newHash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.failOn["ResetUserPassword"]; err != nil {
		return err
	}

	f.resetHash[userID] = newHash
	return nil
}

func (f *fakeRepo) RotateRefreshToken(_ context.Context, ro entity.RotateRefreshToken) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.failOn["RotateRefreshToken"]; err != nil {
		return err
	}
	if f.rotateMiss {
		return goerror.ErrNotFound
	}

	f.rotations = append(f.rotations, ro)
	return nil
}

func (f *fakeRepo) onlyRegistration(t *testing.T) entity.NewUser {
	t.Helper()

	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.registrations) != 1 {
		t.Fatalf("expected exactly one registration, got %d", len(f.registrations))
	}
	return f.registrations[0]
}

func (f *fakeRepo) onlyChallenge(t *testing.T) entity.Challenge {
	t.Helper()

	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.challenges) != 1 {
		t.Fatalf("expected exactly one challenge, got %d", len(f.challenges))
	}
	return f.challenges[0]
}

func (f *fakeRepo) onlyCreatedRefresh(t *testing.T) entity.RefreshToken {
	t.Helper()

	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.createdRefresh) != 1 {
		t.Fatalf("expected exactly one refresh token, got %d", len(f.createdRefresh))
	}
	return f.createdRefresh[0]
}

func (f *fakeRepo) onlyRotation(t *testing.T) entity.RotateRefreshToken {
	t.Helper()

	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.rotations) != 1 {
		t.Fatalf("expected exactly one rotation, got %d", len(f.rotations))
	}
	return f.rotations[0]
}

func (f *fakeRepo) onlyNewFactor(t *testing.T) entity.MFAFactor {
	t.Helper()

	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.newFactors) != 1 {
		t.Fatalf("expected exactly one new mfa factor, got %d", len(f.newFactors))
	}
	return f.newFactors[0]
}

// testEnv bundles the usecase with the fakes it was wired from. Tests that
// need a different dependency swap it on dep and call rebuild.
type testEnv struct {
	uc    *Usecase
	dep   Dependency
	repo  *fakeRepo
	msg   *fakeMessaging
	codes *fakePasscode
	clock *fakeClock
	totp  *fakeTOTP
	enc   *plainEncryptor
	store *fakeStorage
}

func newTestUsecase(t *testing.T) *testEnv {
	t.Helper()

	v, err := validator.NewV10Validator()
	if err != nil {
		t.Fatalf("new validator: %v", err)
	}

	env := &testEnv{
		repo:  newFakeRepo(),
		msg:   newFakeMessaging(),
		codes: &fakePasscode{},
		clock: newFakeClock(),
		totp:  &fakeTOTP{accept: "654321"},
		enc:   &plainEncryptor{},
		store: &fakeStorage{},
	}

	env.dep = Dependency{
		RepoDB:        env.repo,
		RepoMessaging: env.msg,
		Passcode:      env.codes,
		Validator:     v,
		Config: stubConfig{
			minute: 5 * time.Minute,
			day:    30 * 24 * time.Hour,
			strings: map[string]string{
				"modules.identity.avatar_bucket":   "tenang-avatars",
				"modules.identity.avatar_base_url": "https://cdn.tenang.app/avatars",
			},
			int64s: map[string]int64{
				"modules.identity.avatar_max_size_bytes": 1024,
			},
		},
		Storage:         env.store,
		HMAC:            stubHash{},
		Bcrypt:          stubHash{},
		Argon2ID:        stubHash{},
		MFAEncryptor:    env.enc,
		MFARecoveryCode: fakeRecovery{},
		UID:             &fakeUID{},
		UUID:            &fakeStringID{prefix: "uuid"},
		OID:             &fakeStringID{prefix: "tok"},
		TOTP:            env.totp,
		Clock:           env.clock,
		JWT:             fakeJWT{},
		Instrument:      instrument.NewNoop(),
	}

	env.uc = New(env.dep)
	return env
}

func (e *testEnv) rebuild() {
	e.uc = New(e.dep)
}

func authCtx(userID int64, email string) context.Context {
	clm := jwt.Claims{UserID: userID, UserEmail: email}
	clm.Subject = strconv.FormatInt(userID, 10)
	return jwt.SetAuth(context.Background(), clm)
}

func assertBusinessCode(t *testing.T, err error, code goerror.Code) *goerror.Error {
	t.Helper()

	if err == nil {
		t.Fatal("expected an error, got nil")
	}

	var gerr *goerror.Error
	if !errors.As(err, &gerr) {
		t.Fatalf("expected a goerror, got %T: %v", err, err)
	}
	if gerr.Code() != code {
		t.Fatalf("expected code %s, got %s (%s)", code, gerr.Code(), gerr.Msg())
	}
	return gerr
}

func assertBusinessMsg(t *testing.T, err error, code goerror.Code, msg string) {
	t.Helper()

	if gerr := assertBusinessCode(t, err, code); gerr.Msg() != msg {
		t.Fatalf("expected message %q, got %q", msg, gerr.Msg())
	}
}

func assertValidationError(t *testing.T, err error) {
	t.Helper()

	if err == nil {
		t.Fatal("expected an error, got nil")
	}

	var gerr *goerror.Error
	if !errors.As(err, &gerr) {
		t.Fatalf("expected a goerror, got %T: %v", err, err)
	}
	if gerr.Type() != goerror.TypeValidation {
		t.Fatalf("expected validation error type, got %s", gerr.Type())
	}
}

func assertServerError(t *testing.T, err error) {
	t.Helper()

	if err == nil {
		t.Fatal("expected an error, got nil")
	}

	var gerr *goerror.Error
	if !errors.As(err, &gerr) {
		t.Fatalf("expected a goerror, got %T: %v", err, err)
	}
	if gerr.Type() != goerror.TypeServer {
		t.Fatalf("expected server error type, got %s", gerr.Type())
	}
}
