package usecase

import (
	"context"
	"strings"
	"testing"

	"github.com/tenangapp/tenang/internal/notification/entity"
)

func TestConsumeUserRegistered(t *testing.T) {
	repo := newFakeRepo()
	repo.seedTemplate(entity.TriggerKeyUserWelcome, entity.ChannelEmail,
		"Welcome to Tenang", "<p>Hi {{.full_name}}, glad you are here.</p>")
	repo.seedTemplate(entity.TriggerKeyUserWelcome, entity.ChannelInApp,
		"", "Welcome aboard")
	mailer := &fakeMail{}
	uc, _ := newTestUsecase(t, repo, mailer, nil)

	err := uc.ConsumeUserRegistered(context.Background(), ConsumeUserRegisteredInput{
		UserID:   7,
		Email:    "dina@example.com",
		FullName: "Dina Pertiwi",
	})
	if err != nil {
		t.Fatalf("consume: %v", err)
	}

	sent := mailer.sentMessages()
	if len(sent) != 1 {
		t.Fatalf("expected one email, got %d", len(sent))
	}
	if sent[0].Subject != "Welcome to Tenang" || !strings.Contains(sent[0].HTMLBody, "Dina Pertiwi") {
		t.Fatalf("unexpected email: %+v", sent[0])
	}

	created := repo.createdRows()
	if len(created) != 1 {
		t.Fatalf("expected one inbox item, got %d", len(created))
	}
	if created[0].UserID != 7 || created[0].TriggerKey != entity.TriggerKeyUserWelcome {
		t.Fatalf("unexpected inbox item: %+v", created[0])
	}
	if created[0].Data["full_name"] != "Dina Pertiwi" {
		t.Fatalf("unexpected inbox data: %+v", created[0].Data)
	}
}

// Without an in-app template the welcome email still goes out.
func TestConsumeUserRegisteredNoInboxTemplate(t *testing.T) {
	repo := newFakeRepo()
	repo.seedTemplate(entity.TriggerKeyUserWelcome, entity.ChannelEmail,
		"Welcome to Tenang", "<p>Hi {{.full_name}}.</p>")
	mailer := &fakeMail{}
	uc, _ := newTestUsecase(t, repo, mailer, nil)

	err := uc.ConsumeUserRegistered(context.Background(), ConsumeUserRegisteredInput{
		UserID:   7,
		Email:    "dina@example.com",
		FullName: "Dina Pertiwi",
	})
	if err != nil {
		t.Fatalf("consume: %v", err)
	}

	if len(mailer.sentMessages()) != 1 {
		t.Fatalf("expected one email, got %d", len(mailer.sentMessages()))
	}
	if len(repo.createdRows()) != 0 {
		t.Fatal("no inbox item expected without a template")
	}
}

func TestConsumeUserRegisteredInvalidInput(t *testing.T) {
	repo := newFakeRepo()
	repo.seedTemplate(entity.TriggerKeyUserWelcome, entity.ChannelEmail, "Welcome", "hi")
	mailer := &fakeMail{}
	uc, _ := newTestUsecase(t, repo, mailer, nil)

	err := uc.ConsumeUserRegistered(context.Background(), ConsumeUserRegisteredInput{
		UserID:   7,
		Email:    "not-an-email",
		FullName: "Dina Pertiwi",
	})
	if err != nil {
		t.Fatalf("consume: %v", err)
	}

	if len(mailer.sentMessages()) != 0 || len(repo.createdRows()) != 0 {
		t.Fatal("a rejected event must not produce a delivery")
	}
}
