package usecase

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/tenangapp/tenang/internal/notification/entity"
)

func TestConsumePasswordChanged(t *testing.T) {
	repo := newFakeRepo()
	repo.seedTemplate(entity.TriggerKeyPasswordChanged, entity.ChannelEmail,
		"Your password was changed", "<p>Changed at {{.changed_at}}. Not you? Contact {{.support_email}}.</p>")
	repo.seedTemplate(entity.TriggerKeyPasswordChanged, entity.ChannelInApp,
		"", "Password changed")
	mailer := &fakeMail{}
	uc, _ := newTestUsecase(t, repo, mailer, nil)

	changedAt := time.Date(2025, 6, 1, 8, 30, 0, 0, time.UTC)
	err := uc.ConsumePasswordChanged(context.Background(), ConsumePasswordChangedInput{
		UserID:    7,
		Email:     "dina@example.com",
		ChangedAt: changedAt,
	})
	if err != nil {
		t.Fatalf("consume: %v", err)
	}

	sent := mailer.sentMessages()
	if len(sent) != 1 {
		t.Fatalf("expected one email, got %d", len(sent))
	}
	if !strings.Contains(sent[0].HTMLBody, "01 Jun 2025 08:30 UTC") {
		t.Fatalf("unexpected body: %s", sent[0].HTMLBody)
	}
	if !strings.Contains(sent[0].HTMLBody, "support@tenang.app") {
		t.Fatalf("support address missing from body: %s", sent[0].HTMLBody)
	}

	created := repo.createdRows()
	if len(created) != 1 {
		t.Fatalf("expected one inbox item, got %d", len(created))
	}
	if created[0].Data["changed_at"] != changedAt.Format(time.RFC3339) {
		t.Fatalf("unexpected inbox data: %+v", created[0].Data)
	}
}

func TestConsumePasswordChangedInvalidInput(t *testing.T) {
	repo := newFakeRepo()
	repo.seedTemplate(entity.TriggerKeyPasswordChanged, entity.ChannelEmail, "Changed", "hi")
	mailer := &fakeMail{}
	uc, _ := newTestUsecase(t, repo, mailer, nil)

	err := uc.ConsumePasswordChanged(context.Background(), ConsumePasswordChangedInput{
		UserID: 7,
		Email:  "dina@example.com",
	})
	if err != nil {
		t.Fatalf("consume: %v", err)
	}

	if len(mailer.sentMessages()) != 0 || len(repo.createdRows()) != 0 {
		t.Fatal("a rejected event must not produce a delivery")
	}
}
