package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/tenangapp/tenang/internal/notification/entity"
)

func TestConsumePasscodeIssuedEmail(t *testing.T) {
	repo := newFakeRepo()
	repo.seedTemplate(entity.TriggerKeyPasscodeVerification, entity.ChannelEmail,
		"Your verification code", "<p>Your code is {{.code}}. It expires in {{.expires_minutes}} minutes.</p>")
	mailer := &fakeMail{}
	uc, clk := newTestUsecase(t, repo, mailer, nil)

	err := uc.ConsumePasscodeIssued(context.Background(), ConsumePasscodeIssuedInput{
		UserID:    42,
		Channel:   "email",
		Address:   "dina@example.com",
		Purpose:   "verification",
		Code:      "123456",
		ExpiresAt: clk.Now().Add(5 * time.Minute),
	})
	if err != nil {
		t.Fatalf("consume: %v", err)
	}

	sent := mailer.sentMessages()
	if len(sent) != 1 {
		t.Fatalf("expected one email, got %d", len(sent))
	}
	if len(sent[0].To) != 1 || sent[0].To[0] != "dina@example.com" {
		t.Fatalf("unexpected recipients: %v", sent[0].To)
	}
	if sent[0].Subject != "Your verification code" {
		t.Fatalf("unexpected subject: %s", sent[0].Subject)
	}
	if !strings.Contains(sent[0].HTMLBody, "123456") || !strings.Contains(sent[0].HTMLBody, "5 minutes") {
		t.Fatalf("unexpected body: %s", sent[0].HTMLBody)
	}

	rows := repo.deliveredRows()
	if len(rows) != 1 {
		t.Fatalf("expected one stored notification, got %d", len(rows))
	}
	row := rows[0]
	if row.n.UserID != 42 || row.n.TriggerKey != entity.TriggerKeyPasscodeVerification {
		t.Fatalf("unexpected notification: %+v", row.n)
	}
	if row.dl.Channel != entity.ChannelEmail || row.dl.Status != entity.DeliveryStatusQueued {
		t.Fatalf("unexpected delivery log: %+v", row.dl)
	}
	if row.dl.NotificationID != row.n.ID {
		t.Fatalf("delivery log points at notification %d, want %d", row.dl.NotificationID, row.n.ID)
	}

	ups := repo.logUpdateRows()
	if len(ups) != 1 || ups[0].ID != row.logID || ups[0].Status != entity.DeliveryStatusSent {
		t.Fatalf("unexpected log updates: %+v", ups)
	}
}

// The stored row describes the delivery; the code itself must never land in it.
func TestConsumePasscodeIssuedStoredRowOmitsCode(t *testing.T) {
	repo := newFakeRepo()
	repo.seedTemplate(entity.TriggerKeyPasscodeVerification, entity.ChannelEmail, "Code", "{{.code}}")
	uc, clk := newTestUsecase(t, repo, nil, nil)

	err := uc.ConsumePasscodeIssued(context.Background(), ConsumePasscodeIssuedInput{
		UserID:    42,
		Channel:   "email",
		Address:   "dina@example.com",
		Purpose:   "verification",
		Code:      "123456",
		ExpiresAt: clk.Now().Add(5 * time.Minute),
	})
	if err != nil {
		t.Fatalf("consume: %v", err)
	}

	rows := repo.deliveredRows()
	if len(rows) != 1 {
		t.Fatalf("expected one stored notification, got %d", len(rows))
	}
	if _, ok := rows[0].n.Data["code"]; ok {
		t.Fatal("stored notification data carries the code")
	}
	if rows[0].n.Data["purpose"] != "verification" || rows[0].n.Data["channel"] != "email" {
		t.Fatalf("unexpected notification data: %+v", rows[0].n.Data)
	}
}

func TestConsumePasscodeIssuedSMS(t *testing.T) {
	repo := newFakeRepo()
	repo.seedTemplate(entity.TriggerKeyPasscodeLogin, entity.ChannelSMS,
		"", "{{.code}} is your Tenang login code ({{.expires_minutes}} min).")
	mailer := &fakeMail{}
	texter := &fakeSMS{}
	uc, clk := newTestUsecase(t, repo, mailer, texter)

	err := uc.ConsumePasscodeIssued(context.Background(), ConsumePasscodeIssuedInput{
		UserID:    42,
		Channel:   "phone",
		Address:   "+628123456789",
		Purpose:   "login",
		Code:      "654321",
		ExpiresAt: clk.Now().Add(10 * time.Minute),
	})
	if err != nil {
		t.Fatalf("consume: %v", err)
	}

	sent := texter.sentMessages()
	if len(sent) != 1 {
		t.Fatalf("expected one sms, got %d", len(sent))
	}
	if sent[0].To != "+628123456789" {
		t.Fatalf("unexpected recipient: %s", sent[0].To)
	}
	if !strings.Contains(sent[0].Body, "654321") || !strings.Contains(sent[0].Body, "10 min") {
		t.Fatalf("unexpected body: %s", sent[0].Body)
	}
	if len(mailer.sentMessages()) != 0 {
		t.Fatal("no email expected for a phone delivery")
	}

	rows := repo.deliveredRows()
	if len(rows) != 1 {
		t.Fatalf("expected one stored notification, got %d", len(rows))
	}
	if rows[0].dl.Channel != entity.ChannelSMS {
		t.Fatalf("unexpected delivery channel: %s", rows[0].dl.Channel)
	}

	ups := repo.logUpdateRows()
	if len(ups) != 1 || ups[0].Status != entity.DeliveryStatusSent {
		t.Fatalf("unexpected log updates: %+v", ups)
	}
}

func TestConsumePasscodeIssuedTriggerPerPurpose(t *testing.T) {
	purposes := map[string]entity.TriggerKey{
		"verification":   entity.TriggerKeyPasscodeVerification,
		"password_reset": entity.TriggerKeyPasscodePasswordReset,
		"login":          entity.TriggerKeyPasscodeLogin,
	}

	for purpose, want := range purposes {
		repo := newFakeRepo()
		repo.seedTemplate(want, entity.ChannelEmail, "Code", "{{.code}}")
		uc, clk := newTestUsecase(t, repo, nil, nil)

		err := uc.ConsumePasscodeIssued(context.Background(), ConsumePasscodeIssuedInput{
			UserID:    1,
			Channel:   "email",
			Address:   "dina@example.com",
			Purpose:   purpose,
			Code:      "123456",
			ExpiresAt: clk.Now().Add(5 * time.Minute),
		})
		if err != nil {
			t.Fatalf("%s: consume: %v", purpose, err)
		}

		rows := repo.deliveredRows()
		if len(rows) != 1 {
			t.Fatalf("%s: expected one stored notification, got %d", purpose, len(rows))
		}
		if rows[0].n.TriggerKey != want {
			t.Fatalf("%s: expected trigger %s, got %s", purpose, want, rows[0].n.TriggerKey)
		}
	}
}

func TestConsumePasscodeIssuedMailFailure(t *testing.T) {
	repo := newFakeRepo()
	repo.seedTemplate(entity.TriggerKeyPasscodeVerification, entity.ChannelEmail, "Code", "{{.code}}")
	mailer := &fakeMail{err: errors.New("smtp: connection refused")}
	uc, clk := newTestUsecase(t, repo, mailer, nil)

	err := uc.ConsumePasscodeIssued(context.Background(), ConsumePasscodeIssuedInput{
		UserID:    42,
		Channel:   "email",
		Address:   "dina@example.com",
		Purpose:   "verification",
		Code:      "123456",
		ExpiresAt: clk.Now().Add(5 * time.Minute),
	})
	if err != nil {
		t.Fatalf("consume: %v", err)
	}

	ups := repo.logUpdateRows()
	if len(ups) != 1 {
		t.Fatalf("expected one log update, got %d", len(ups))
	}
	if ups[0].Status != entity.DeliveryStatusFailed {
		t.Fatalf("expected failed status, got %s", ups[0].Status)
	}
	if ups[0].NextRetryAt == nil || !ups[0].NextRetryAt.Equal(clk.Now().Add(2*time.Minute)) {
		t.Fatalf("unexpected retry time: %v", ups[0].NextRetryAt)
	}
	if ups[0].ProviderResponse["error"] != "smtp: connection refused" {
		t.Fatalf("unexpected provider response: %+v", ups[0].ProviderResponse)
	}
}

func TestConsumePasscodeIssuedMissingTemplate(t *testing.T) {
	repo := newFakeRepo()
	mailer := &fakeMail{}
	uc, clk := newTestUsecase(t, repo, mailer, nil)

	err := uc.ConsumePasscodeIssued(context.Background(), ConsumePasscodeIssuedInput{
		UserID:    42,
		Channel:   "email",
		Address:   "dina@example.com",
		Purpose:   "verification",
		Code:      "123456",
		ExpiresAt: clk.Now().Add(5 * time.Minute),
	})
	if err != nil {
		t.Fatalf("consume: %v", err)
	}

	if len(mailer.sentMessages()) != 0 || len(repo.deliveredRows()) != 0 {
		t.Fatal("nothing should be delivered without a template")
	}
}

// A malformed event is dropped rather than redelivered forever.
func TestConsumePasscodeIssuedInvalidInput(t *testing.T) {
	repo := newFakeRepo()
	repo.seedTemplate(entity.TriggerKeyPasscodeVerification, entity.ChannelEmail, "Code", "{{.code}}")
	mailer := &fakeMail{}
	uc, clk := newTestUsecase(t, repo, mailer, nil)

	err := uc.ConsumePasscodeIssued(context.Background(), ConsumePasscodeIssuedInput{
		UserID:    42,
		Channel:   "email",
		Address:   "dina@example.com",
		Purpose:   "verification",
		Code:      "12345",
		ExpiresAt: clk.Now().Add(5 * time.Minute),
	})
	if err != nil {
		t.Fatalf("consume: %v", err)
	}

	if len(mailer.sentMessages()) != 0 || len(repo.deliveredRows()) != 0 {
		t.Fatal("a rejected event must not produce a delivery")
	}
}

func TestExpiresMinutesRoundsUp(t *testing.T) {
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

	cases := []struct {
		left time.Duration
		want int
	}{
		{5 * time.Minute, 5},
		{4*time.Minute + 30*time.Second, 5},
		{30 * time.Second, 1},
		{0, 1},
		{-time.Minute, 1},
	}
	for _, tc := range cases {
		if got := expiresMinutes(now, now.Add(tc.left)); got != tc.want {
			t.Fatalf("left %s: got %d, want %d", tc.left, got, tc.want)
		}
	}
}
