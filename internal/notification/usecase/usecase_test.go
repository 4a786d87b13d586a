package usecase

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/tenangapp/tenang/internal/notification/entity"
	"github.com/tenangapp/tenang/internal/pkg/goerror"
	"github.com/tenangapp/tenang/internal/pkg/instrument"
	"github.com/tenangapp/tenang/internal/pkg/jwt"
	"github.com/tenangapp/tenang/internal/pkg/mail"
	"github.com/tenangapp/tenang/internal/pkg/sms"
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

type deliveredRow struct {
	logID int64
	n     entity.CreateNotification
	dl    entity.CreateDeliveryLog
}

// fakeRepo records every write so tests can inspect what reached the store.
type fakeRepo struct {
	mu sync.Mutex

	templates  map[string]entity.Template
	created    []entity.CreateNotification
	delivered  []deliveredRow
	logUpdates []entity.UpdateDeliveryLog
	devices    map[string]int64
	inbox      []entity.NotificationItem
	unread     int64
	readHit    bool
	deleteHit  bool
	nextLogID  int64

	lastStatus   entity.NotificationStatus
	lastLimit    int32
	lastOffset   int32
	lastPlatform string

	failOn map[string]error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		templates: map[string]entity.Template{},
		devices:   map[string]int64{},
		readHit:   true,
		deleteHit: true,
		failOn:    map[string]error{},
	}
}

func tplKey(tk entity.TriggerKey, ch entity.Channel) string {
	return tk.String() + "|" + ch.String()
}

func (f *fakeRepo) seedTemplate(tk entity.TriggerKey, ch entity.Channel, subject, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.templates[tplKey(tk, ch)] = entity.Template{
		ID:         int64(len(f.templates) + 1),
		TriggerKey: tk,
		CategoryID: 7,
		Channel:    ch,
		Subject:    subject,
		Body:       body,
	}
}

func (f *fakeRepo) RegisterUserDevice(_ context.Context, userID int64, deviceToken, platform string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.failOn["RegisterUserDevice"]; err != nil {
		return err
	}
	f.devices[deviceToken] = userID
	f.lastPlatform = platform
	return nil
}

func (f *fakeRepo) RemoveUserDevice(_ context.Context, deviceToken string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.failOn["RemoveUserDevice"]; err != nil {
		return err
	}
	delete(f.devices, deviceToken)
	return nil
}

func (f *fakeRepo) GetTemplateByTriggerChannel(_ context.Context, tk entity.TriggerKey, ch entity.Channel) (*entity.Template, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.failOn["GetTemplateByTriggerChannel"]; err != nil {
		return nil, err
	}

	tpl, ok := f.templates[tplKey(tk, ch)]
	if !ok {
		return nil, goerror.ErrNotFound
	}
	return &tpl, nil
}

func (f *fakeRepo) CreateNotification(_ context.Context, data entity.CreateNotification) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.failOn["CreateNotification"]; err != nil {
		return err
	}
	f.created = append(f.created, data)
	return nil
}

func (f *fakeRepo) CreateNotificationWithDeliveryLog(_ context.Context, n entity.CreateNotification, dl entity.CreateDeliveryLog) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.failOn["CreateNotificationWithDeliveryLog"]; err != nil {
		return 0, err
	}

	f.nextLogID++
	f.delivered = append(f.delivered, deliveredRow{logID: f.nextLogID, n: n, dl: dl})
	return f.nextLogID, nil
}

func (f *fakeRepo) UpdateDeliveryLogStatus(_ context.Context, u entity.UpdateDeliveryLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.failOn["UpdateDeliveryLogStatus"]; err != nil {
		return err
	}
	f.logUpdates = append(f.logUpdates, u)
	return nil
}

func (f *fakeRepo) ListNotifications(_ context.Context, _ int64, status entity.NotificationStatus, limit, offset int32) ([]entity.NotificationItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.failOn["ListNotifications"]; err != nil {
		return nil, err
	}

	f.lastStatus = status
	f.lastLimit = limit
	f.lastOffset = offset
	return f.inbox, nil
}

func (f *fakeRepo) CountUnreadNotifications(_ context.Context, _ int64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.failOn["CountUnreadNotifications"]; err != nil {
		return 0, err
	}
	return f.unread, nil
}

func (f *fakeRepo) MarkNotificationRead(_ context.Context, _, _ int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.failOn["MarkNotificationRead"]; err != nil {
		return false, err
	}
	return f.readHit, nil
}

func (f *fakeRepo) MarkNotificationsReadAll(_ context.Context, _ int64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.failOn["MarkNotificationsReadAll"]; err != nil {
		return 0, err
	}
	return int64(len(f.inbox)), nil
}

func (f *fakeRepo) SoftDeleteNotification(_ context.Context, _, _ int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.failOn["SoftDeleteNotification"]; err != nil {
		return false, err
	}
	return f.deleteHit, nil
}

func (f *fakeRepo) createdRows() []entity.CreateNotification {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]entity.CreateNotification{}, f.created...)
}

func (f *fakeRepo) deliveredRows() []deliveredRow {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]deliveredRow{}, f.delivered...)
}

func (f *fakeRepo) logUpdateRows() []entity.UpdateDeliveryLog {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]entity.UpdateDeliveryLog{}, f.logUpdates...)
}

type fakeMail struct {
	mu   sync.Mutex
	sent []mail.Message
	err  error
}

func (f *fakeMail) Send(_ context.Context, msg mail.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, msg)
	return nil
}

func (f *fakeMail) sentMessages() []mail.Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]mail.Message{}, f.sent...)
}

type fakeSMS struct {
	mu   sync.Mutex
	sent []sms.Message
	err  error
}

func (f *fakeSMS) Send(_ context.Context, msg sms.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, msg)
	return nil
}

func (f *fakeSMS) sentMessages() []sms.Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]sms.Message{}, f.sent...)
}

func newTestUsecase(t *testing.T, repo *fakeRepo, mailer *fakeMail, texter *fakeSMS) (*Usecase, *fakeClock) {
	t.Helper()

	v, err := validator.NewV10Validator()
	if err != nil {
		t.Fatalf("new validator: %v", err)
	}

	if mailer == nil {
		mailer = &fakeMail{}
	}
	if texter == nil {
		texter = &fakeSMS{}
	}

	clk := newFakeClock()
	uc := NewNotification(Dependency{
		RepoDB:     repo,
		UID:        &fakeUID{},
		Clock:      clk,
		Validator:  v,
		RepoMail:   mailer,
		RepoSMS:    texter,
		Instrument: instrument.NewNoop(),
	})

	return uc, clk
}

func authCtx(userID int64) context.Context {
	clm := jwt.Claims{UserID: userID}
	clm.Subject = strconv.FormatInt(userID, 10)
	return jwt.SetAuth(context.Background(), clm)
}

func assertBusinessCode(t *testing.T, err error, code goerror.Code) {
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
